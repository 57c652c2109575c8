package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wentf9/cisco-mcp/pkg/gateway"
	"github.com/wentf9/cisco-mcp/pkg/inventory"
	"github.com/wentf9/cisco-mcp/pkg/models"
)

type stubSession struct {
	output string
	closed int
}

func (s *stubSession) SendCommand(_ context.Context, _ string, _ time.Duration) (string, error) {
	return s.output, nil
}

func (s *stubSession) SendConfigSet(_ context.Context, _ []string, _ time.Duration) (string, error) {
	return s.output, nil
}

func (s *stubSession) Close() error {
	s.closed++
	return nil
}

type stubProvider struct {
	sess   *stubSession
	opened int
}

func (p *stubProvider) Open(_ context.Context, _ models.Device) (gateway.CommandSession, error) {
	p.opened++
	return p.sess, nil
}

func newTestServer(t *testing.T, provider gateway.SessionProvider) *Server {
	t.Helper()
	set, err := inventory.FromDevices(map[string]models.Device{
		"router1": {Host: "192.0.2.1", Username: "admin", Password: "secret", Platform: models.PlatformIOSXE},
	})
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	return New(gateway.New(set, provider))
}

func connectClient(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.server.Run(runCtx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}

	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Logf("mcp server run exited with: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Log("timed out waiting for mcp server shutdown")
		}
	})

	return session
}

func decodeToolJSON(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("empty tool result: %#v", result)
	}

	var text string
	switch content := result.Content[0].(type) {
	case *mcp.TextContent:
		text = content.Text
	default:
		t.Fatalf("unexpected content type %T", result.Content[0])
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("decode tool json: %v (text=%q)", err, text)
	}
}

func TestToolsRegistered(t *testing.T) {
	srv := newTestServer(t, &stubProvider{sess: &stubSession{}})
	session := connectClient(t, srv)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	expected := []string{
		"cisco_configure",
		"cisco_get_running_config",
		"cisco_list_devices",
		"cisco_ping",
		"cisco_show",
	}
	if len(names) != len(expected) {
		t.Fatalf("expected %d tools, got %d: %v", len(expected), len(names), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("unexpected tool list: got %v want %v", names, expected)
		}
	}
}

func TestListDevicesTool(t *testing.T) {
	srv := newTestServer(t, &stubProvider{sess: &stubSession{}})
	session := connectClient(t, srv)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "cisco_list_devices",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("call cisco_list_devices: %v", err)
	}

	var payload listDevicesPayload
	decodeToolJSON(t, result, &payload)
	if payload.Status != "ok" {
		t.Fatalf("status = %q", payload.Status)
	}
	dev, ok := payload.Devices["router1"]
	if !ok {
		t.Fatalf("router1 missing: %+v", payload.Devices)
	}
	if dev.Host != "192.0.2.1" || dev.Platform != "iosxe" || dev.Port != 22 {
		t.Fatalf("summary = %+v", dev)
	}
}

func TestShowTool(t *testing.T) {
	provider := &stubProvider{sess: &stubSession{output: "Cisco IOS XE Software"}}
	srv := newTestServer(t, provider)
	session := connectClient(t, srv)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "cisco_show",
		Arguments: map[string]any{
			"device":  "router1",
			"command": "show version",
		},
	})
	if err != nil {
		t.Fatalf("call cisco_show: %v", err)
	}

	var payload showPayload
	decodeToolJSON(t, result, &payload)
	if payload.Status != "ok" || payload.Output != "Cisco IOS XE Software" {
		t.Fatalf("payload = %+v", payload)
	}
	if provider.opened != 1 || provider.sess.closed != 1 {
		t.Fatalf("opened=%d closed=%d, want one session opened and closed", provider.opened, provider.sess.closed)
	}
}

// A blocked command comes back as an error payload, not a protocol error.
func TestShowToolRejection(t *testing.T) {
	provider := &stubProvider{sess: &stubSession{}}
	srv := newTestServer(t, provider)
	session := connectClient(t, srv)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "cisco_show",
		Arguments: map[string]any{
			"device":  "router1",
			"command": "show copy running-config",
		},
	})
	if err != nil {
		t.Fatalf("call cisco_show: %v", err)
	}

	var payload errorPayload
	decodeToolJSON(t, result, &payload)
	if payload.Status != "error" {
		t.Fatalf("status = %q", payload.Status)
	}
	if payload.Error == "" {
		t.Fatal("error message missing")
	}
	if provider.opened != 0 {
		t.Fatal("session opened for rejected command")
	}
}

func TestConfigureTool(t *testing.T) {
	provider := &stubProvider{sess: &stubSession{output: ""}}
	srv := newTestServer(t, provider)
	session := connectClient(t, srv)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "cisco_configure",
		Arguments: map[string]any{
			"device":          "router1",
			"config_commands": "configure terminal\nhostname R1\nend",
		},
	})
	if err != nil {
		t.Fatalf("call cisco_configure: %v", err)
	}

	var payload configurePayload
	decodeToolJSON(t, result, &payload)
	if payload.Status != "ok" {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.CommandsApplied) != 1 || payload.CommandsApplied[0] != "hostname R1" {
		t.Fatalf("commands_applied = %v", payload.CommandsApplied)
	}
}

func TestUnknownDeviceTool(t *testing.T) {
	provider := &stubProvider{sess: &stubSession{}}
	srv := newTestServer(t, provider)
	session := connectClient(t, srv)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "cisco_show",
		Arguments: map[string]any{
			"device":  "bogus",
			"command": "show version",
		},
	})
	if err != nil {
		t.Fatalf("call cisco_show: %v", err)
	}

	var payload errorPayload
	decodeToolJSON(t, result, &payload)
	if payload.Status != "error" {
		t.Fatalf("status = %q", payload.Status)
	}
	if payload.Error != "Device 'bogus' not in inventory" {
		t.Fatalf("error = %q", payload.Error)
	}
}
