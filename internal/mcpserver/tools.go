package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wentf9/cisco-mcp/pkg/models"
)

type showInput struct {
	Device  string `json:"device" jsonschema:"inventory name of the device"`
	Command string `json:"command" jsonschema:"read-only show command to execute"`
}

type configureInput struct {
	Device         string `json:"device" jsonschema:"inventory name of the device"`
	ConfigCommands string `json:"config_commands" jsonschema:"configuration lines, newline separated"`
}

type pingInput struct {
	Device string `json:"device" jsonschema:"inventory name of the device"`
	Target string `json:"target" jsonschema:"IP address or hostname to ping from the device"`
	Count  int    `json:"count,omitempty" jsonschema:"packet count (default 5)"`
}

type runningConfigInput struct {
	Device  string `json:"device" jsonschema:"inventory name of the device"`
	Section string `json:"section,omitempty" jsonschema:"optional section filter, e.g. interface"`
}

type listDevicesInput struct{}

type errorPayload struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type listDevicesPayload struct {
	Status  string                    `json:"status"`
	Devices map[string]models.Summary `json:"devices"`
}

type showPayload struct {
	Status  string `json:"status"`
	Device  string `json:"device"`
	Command string `json:"command"`
	Output  string `json:"output"`
}

type configurePayload struct {
	Status          string   `json:"status"`
	Device          string   `json:"device"`
	CommandsApplied []string `json:"commands_applied"`
	Output          string   `json:"output"`
}

type pingPayload struct {
	Status string `json:"status"`
	Device string `json:"device"`
	Target string `json:"target"`
	Output string `json:"output"`
}

type runningConfigPayload struct {
	Status  string `json:"status"`
	Device  string `json:"device"`
	Command string `json:"command"`
	Output  string `json:"output"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cisco_list_devices",
		Description: "List devices in the inventory (no credentials)",
	}, s.handleListDevices)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cisco_show",
		Description: "Run a validated read-only show command on a device",
	}, s.handleShow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cisco_configure",
		Description: "Apply a validated batch of configuration lines to a device",
	}, s.handleConfigure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cisco_ping",
		Description: "Ping a target from a device",
	}, s.handlePing)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cisco_get_running_config",
		Description: "Fetch the running configuration, optionally one section",
	}, s.handleGetRunningConfig)
}

func (s *Server) handleListDevices(_ context.Context, _ *mcp.CallToolRequest, _ listDevicesInput) (*mcp.CallToolResult, any, error) {
	return jsonToolResult(listDevicesPayload{
		Status:  "ok",
		Devices: s.gw.ListDevices(),
	})
}

func (s *Server) handleShow(ctx context.Context, _ *mcp.CallToolRequest, input showInput) (*mcp.CallToolResult, any, error) {
	device := strings.TrimSpace(input.Device)
	if device == "" {
		return nil, nil, fmt.Errorf("device is required")
	}
	if strings.TrimSpace(input.Command) == "" {
		return nil, nil, fmt.Errorf("command is required")
	}

	res, err := s.gw.Show(ctx, device, input.Command)
	if err != nil {
		return errorResult(err)
	}
	return jsonToolResult(showPayload{
		Status:  "ok",
		Device:  res.Device,
		Command: res.Command,
		Output:  res.Output,
	})
}

func (s *Server) handleConfigure(ctx context.Context, _ *mcp.CallToolRequest, input configureInput) (*mcp.CallToolResult, any, error) {
	device := strings.TrimSpace(input.Device)
	if device == "" {
		return nil, nil, fmt.Errorf("device is required")
	}

	res, err := s.gw.Configure(ctx, device, input.ConfigCommands)
	if err != nil {
		return errorResult(err)
	}
	return jsonToolResult(configurePayload{
		Status:          "ok",
		Device:          res.Device,
		CommandsApplied: res.CommandsApplied,
		Output:          res.Output,
	})
}

func (s *Server) handlePing(ctx context.Context, _ *mcp.CallToolRequest, input pingInput) (*mcp.CallToolResult, any, error) {
	device := strings.TrimSpace(input.Device)
	if device == "" {
		return nil, nil, fmt.Errorf("device is required")
	}
	target := strings.TrimSpace(input.Target)
	if target == "" {
		return nil, nil, fmt.Errorf("target is required")
	}

	res, err := s.gw.Ping(ctx, device, target, input.Count)
	if err != nil {
		return errorResult(err)
	}
	return jsonToolResult(pingPayload{
		Status: "ok",
		Device: res.Device,
		Target: res.Target,
		Output: res.Output,
	})
}

func (s *Server) handleGetRunningConfig(ctx context.Context, _ *mcp.CallToolRequest, input runningConfigInput) (*mcp.CallToolResult, any, error) {
	device := strings.TrimSpace(input.Device)
	if device == "" {
		return nil, nil, fmt.Errorf("device is required")
	}

	res, err := s.gw.RunningConfig(ctx, device, strings.TrimSpace(input.Section))
	if err != nil {
		return errorResult(err)
	}
	return jsonToolResult(runningConfigPayload{
		Status:  "ok",
		Device:  res.Device,
		Command: res.Command,
		Output:  res.Output,
	})
}

// errorResult turns an operational failure into an error payload. The tool
// call itself succeeds at the protocol level.
func errorResult(err error) (*mcp.CallToolResult, any, error) {
	return jsonToolResult(errorPayload{Status: "error", Error: err.Error()})
}

func jsonToolResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return textToolResult(string(data)), nil, nil
}

func textToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
