package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wentf9/cisco-mcp/cmd/version"
	"github.com/wentf9/cisco-mcp/internal/mcpserver"
	"github.com/wentf9/cisco-mcp/pkg/logger"
)

type ServeOptions struct {
	HTTPAddr string
}

func NewServeOptions() *ServeOptions {
	return &ServeOptions{}
}

func NewCmdServe() *cobra.Command {
	o := NewServeOptions()
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "启动 MCP 服务器",
		Long: `启动 MCP 服务器,将设备操作暴露为五个 MCP 工具:
cisco_list_devices, cisco_show, cisco_configure, cisco_ping, cisco_get_running_config。

默认通过 stdio 提供服务(供 MCP 客户端以子进程方式接入),
stdout 只输出协议帧,日志走 stderr。
指定 --http 时改为在给定地址上提供 SSE 传输。

用法示例:
cisco-mcp serve
cisco-mcp serve -I inventory.yaml
cisco-mcp serve --http :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run()
		},
	}

	cmd.Flags().StringVar(&o.HTTPAddr, "http", "", "SSE 监听地址 (例如 :8080),为空时使用 stdio")

	return cmd
}

func (o *ServeOptions) Run() error {
	_, gw, err := buildGateway()
	if err != nil {
		return err
	}

	mcpserver.Version = version.Version
	srv := mcpserver.New(gw)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.HTTPAddr == "" {
		logger.Logger.Info("mcp server listening on stdio")
		return srv.Run(ctx)
	}

	httpServer := &http.Server{
		Addr:              o.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Logger.Info("mcp server listening", "addr", o.HTTPAddr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return httpServer.Close()
	}
}

func init() {
	rootCmd.AddCommand(NewCmdServe())
}
