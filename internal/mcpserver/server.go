// Package mcpserver exposes the device gateway as MCP tools over stdio or
// SSE. Operational failures stay inside tool payloads; protocol errors are
// reserved for malformed requests.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wentf9/cisco-mcp/pkg/gateway"
	"github.com/wentf9/cisco-mcp/pkg/logger"
)

// Version is injected from the build metadata.
var Version = "dev"

// Server wraps one mcp.Server over one gateway.
type Server struct {
	server  *mcp.Server
	handler http.Handler
	gw      *gateway.Gateway
	log     *slog.Logger
}

// New creates the MCP surface and registers the five device tools.
func New(gw *gateway.Gateway) *Server {
	implVersion := Version
	if implVersion == "" {
		implVersion = "dev"
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "cisco-mcp",
		Version: implVersion,
	}, nil)

	s := &Server{
		server: srv,
		gw:     gw,
		log:    logger.Logger,
	}

	s.registerTools()
	s.handler = mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	return s
}

// Run serves the stdio transport until ctx is cancelled. This is the default
// mode; stdout carries only protocol frames, logs go to stderr.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP SSE transport handler.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}
