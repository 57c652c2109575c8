package gateway

import (
	"context"
	"time"

	"github.com/wentf9/cisco-mcp/pkg/cisco"
	"github.com/wentf9/cisco-mcp/pkg/models"
)

// CommandSession is one open command channel to a device. Implementations
// must tolerate Close after a failed send.
type CommandSession interface {
	SendCommand(ctx context.Context, command string, timeout time.Duration) (string, error)
	SendConfigSet(ctx context.Context, lines []string, timeout time.Duration) (string, error)
	Close() error
}

// SessionProvider opens a fresh session for exactly one request. The
// gateway never caches or shares sessions across requests.
type SessionProvider interface {
	Open(ctx context.Context, device models.Device) (CommandSession, error)
}

// ciscoProvider 是生产环境的会话提供者，基于 pkg/cisco 的交互式 shell
type ciscoProvider struct {
	dialTimeout time.Duration
}

// NewSessionProvider returns the production SSH-backed provider.
func NewSessionProvider() SessionProvider {
	return ciscoProvider{}
}

func (p ciscoProvider) Open(ctx context.Context, device models.Device) (CommandSession, error) {
	return cisco.Open(ctx, cisco.ConnectParams{
		Host:        device.Host,
		Port:        device.Port,
		Username:    device.Username,
		Password:    device.Password,
		Driver:      cisco.Resolve(device.Platform),
		DialTimeout: p.dialTimeout,
	})
}
