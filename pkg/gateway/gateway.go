// Package gateway dispatches the five device operations. Each operation
// follows the same shape: validate (reject before any network I/O), resolve
// the device from the inventory, open one session, execute, close, shape
// the result. Errors never escape unclassified.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wentf9/cisco-mcp/pkg/inventory"
	"github.com/wentf9/cisco-mcp/pkg/logger"
	"github.com/wentf9/cisco-mcp/pkg/models"
	"github.com/wentf9/cisco-mcp/pkg/validate"
)

// Per-operation timeouts. Ping gets an extended window because round-trip
// collection on the device is slow compared to a status query.
const (
	DefaultTimeout = 30 * time.Second
	PingTimeout    = 120 * time.Second
)

// DefaultPingCount is the packet count when the caller does not override it.
const DefaultPingCount = 5

// Gateway 持有只读清单和会话提供者，无其它共享状态
// 并发请求各自开关自己的会话，互不影响
type Gateway struct {
	inv      *inventory.Set
	provider SessionProvider
	log      *slog.Logger
}

// New wires a gateway over an immutable inventory and a session provider.
func New(inv *inventory.Set, provider SessionProvider) *Gateway {
	return &Gateway{
		inv:      inv,
		provider: provider,
		log:      logger.Logger,
	}
}

// ShowResult echoes the request plus the raw device output.
type ShowResult struct {
	Device  string `json:"device"`
	Command string `json:"command"`
	Output  string `json:"output"`
}

// ConfigureResult reports the normalized lines that were pushed.
type ConfigureResult struct {
	Device          string   `json:"device"`
	CommandsApplied []string `json:"commands_applied"`
	Output          string   `json:"output"`
}

// PingResult carries the device-side ping output.
type PingResult struct {
	Device string `json:"device"`
	Target string `json:"target"`
	Output string `json:"output"`
}

// RunningConfigResult includes the command as executed, section filter and
// all.
type RunningConfigResult struct {
	Device  string `json:"device"`
	Command string `json:"command"`
	Output  string `json:"output"`
}

// ListDevices is a pure inventory read: no session, no validation, and no
// credentials in the output.
func (g *Gateway) ListDevices() map[string]models.Summary {
	return g.inv.List()
}

// Show runs one read-only command after it clears the safety gatekeeper.
func (g *Gateway) Show(ctx context.Context, deviceName, command string) (*ShowResult, error) {
	if err := validate.Show(command); err != nil {
		return nil, g.fail("show", deviceName, KindValidation, err)
	}
	dev, opErr := g.resolve("show", deviceName)
	if opErr != nil {
		return nil, opErr
	}

	sess, err := g.provider.Open(ctx, dev)
	if err != nil {
		return nil, g.wrap("show", deviceName, err)
	}
	defer sess.Close()

	// 执行时保留命令原始大小写
	output, err := sess.SendCommand(ctx, command, DefaultTimeout)
	if err != nil {
		return nil, g.wrap("show", deviceName, err)
	}
	g.log.Info("show executed", "device", deviceName, "command", command)
	return &ShowResult{Device: deviceName, Command: command, Output: output}, nil
}

// Configure pushes a validated batch of configuration lines as one atomic
// sequence. No rollback is attempted on a mid-batch failure; the device's
// own output reports whatever partial state resulted.
func (g *Gateway) Configure(ctx context.Context, deviceName, configText string) (*ConfigureResult, error) {
	lines := validate.NormalizeConfig(configText)
	if len(lines) == 0 {
		return nil, g.fail("configure", deviceName, KindValidation, errors.New("No config commands provided."))
	}
	if err := validate.ConfigSet(lines); err != nil {
		return nil, g.fail("configure", deviceName, KindValidation, err)
	}
	dev, opErr := g.resolve("configure", deviceName)
	if opErr != nil {
		return nil, opErr
	}

	sess, err := g.provider.Open(ctx, dev)
	if err != nil {
		return nil, g.wrap("configure", deviceName, err)
	}
	defer sess.Close()

	output, err := sess.SendConfigSet(ctx, lines, DefaultTimeout)
	if err != nil {
		return nil, g.wrap("configure", deviceName, err)
	}
	g.log.Info("config applied", "device", deviceName, "lines", len(lines))
	return &ConfigureResult{Device: deviceName, CommandsApplied: lines, Output: output}, nil
}

// Ping runs a ping from the device to a target. The command is synthesized
// here, not caller-supplied, so it skips the read-only validator.
func (g *Gateway) Ping(ctx context.Context, deviceName, target string, count int) (*PingResult, error) {
	if count <= 0 {
		count = DefaultPingCount
	}
	dev, opErr := g.resolve("ping", deviceName)
	if opErr != nil {
		return nil, opErr
	}

	sess, err := g.provider.Open(ctx, dev)
	if err != nil {
		return nil, g.wrap("ping", deviceName, err)
	}
	defer sess.Close()

	command := fmt.Sprintf("ping %s repeat %d", target, count)
	output, err := sess.SendCommand(ctx, command, PingTimeout)
	if err != nil {
		return nil, g.wrap("ping", deviceName, err)
	}
	g.log.Info("ping executed", "device", deviceName, "target", target, "count", count)
	return &PingResult{Device: deviceName, Target: target, Output: output}, nil
}

// RunningConfig fetches the running configuration, optionally narrowed to a
// section. The section filter builds a pipe on purpose: the pipe rejection
// in the validator only applies to caller-supplied command text, and this
// command is constructed by the system.
func (g *Gateway) RunningConfig(ctx context.Context, deviceName, section string) (*RunningConfigResult, error) {
	command := "show running-config"
	if section != "" {
		command = fmt.Sprintf("show running-config | section %s", section)
	}
	dev, opErr := g.resolve("get_running_config", deviceName)
	if opErr != nil {
		return nil, opErr
	}

	sess, err := g.provider.Open(ctx, dev)
	if err != nil {
		return nil, g.wrap("get_running_config", deviceName, err)
	}
	defer sess.Close()

	output, err := sess.SendCommand(ctx, command, DefaultTimeout)
	if err != nil {
		return nil, g.wrap("get_running_config", deviceName, err)
	}
	g.log.Info("running-config fetched", "device", deviceName, "section", section)
	return &RunningConfigResult{Device: deviceName, Command: command, Output: output}, nil
}

// resolve looks a device up by name; an unknown name is an error, not a
// crash, and never reaches the session provider.
func (g *Gateway) resolve(op, deviceName string) (models.Device, *OpError) {
	dev, ok := g.inv.Get(deviceName)
	if !ok {
		g.log.Warn("unknown device", "device", deviceName, "op", op)
		return models.Device{}, &OpError{Kind: KindUnknownDevice, Device: deviceName, Op: op}
	}
	return dev, nil
}

func (g *Gateway) fail(op, deviceName string, kind Kind, err error) *OpError {
	g.log.Warn("operation rejected", "device", deviceName, "op", op, "reason", err)
	return &OpError{Kind: kind, Device: deviceName, Op: op, Err: err}
}

func (g *Gateway) wrap(op, deviceName string, err error) *OpError {
	opErr := &OpError{Kind: classify(err), Device: deviceName, Op: op, Err: err}
	g.log.Error("operation failed", "device", deviceName, "op", op, "kind", string(opErr.Kind), "err", err)
	return opErr
}
