package cisco

import (
	"testing"

	"github.com/wentf9/cisco-mcp/pkg/models"
)

func TestResolveKnownPlatforms(t *testing.T) {
	cases := []struct {
		tag  string
		want string
	}{
		{models.PlatformIOSXE, DriverIOSXE},
		{models.PlatformIOSXR, DriverIOSXR},
		{models.PlatformNXOS, DriverNXOS},
		{models.PlatformIOS, DriverIOSXE},
	}
	for _, tc := range cases {
		if got := Resolve(tc.tag); got.ID != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.tag, got.ID, tc.want)
		}
	}
}

// Unknown tags keep the permissive iosxe fallback instead of failing.
func TestResolveUnknownFallsBack(t *testing.T) {
	for _, tag := range []string{"", "junos", "asa"} {
		if got := Resolve(tag); got.ID != DriverIOSXE {
			t.Errorf("Resolve(%q) = %s, want iosxe fallback", tag, got.ID)
		}
	}
}

func TestOnlyIOSXRCommits(t *testing.T) {
	if Resolve(models.PlatformIOSXR).Commit == "" {
		t.Error("iosxr driver should commit candidate config")
	}
	if Resolve(models.PlatformIOSXE).Commit != "" || Resolve(models.PlatformNXOS).Commit != "" {
		t.Error("iosxe/nxos drivers must not commit")
	}
}

func TestPromptPattern(t *testing.T) {
	matching := []string{
		"Router#",
		"Router>",
		"switch(config)#",
		"switch(config-if)#",
		"RP/0/RP0/CPU0:xr1#",
		"nxos-sw1# ",
	}
	for _, line := range matching {
		if !endsWithPrompt("show clock\noutput\n"+line, promptPattern) {
			t.Errorf("prompt %q not recognized", line)
		}
	}

	nonMatching := []string{
		"Building configuration...",
		"interface GigabitEthernet0/0",
		"",
	}
	for _, line := range nonMatching {
		if endsWithPrompt("x\n"+line, promptPattern) {
			t.Errorf("%q wrongly recognized as prompt", line)
		}
	}
}

func TestCleanOutputStripsEchoAndPrompt(t *testing.T) {
	raw := "show version\r\nCisco IOS XE Software, Version 17.06.05\r\nRouter#"
	got := cleanOutput(raw, "show version", promptPattern)
	want := "Cisco IOS XE Software, Version 17.06.05"
	if got != want {
		t.Fatalf("cleanOutput = %q, want %q", got, want)
	}
}

func TestCleanOutputKeepsBody(t *testing.T) {
	raw := "show ip route\nGateway of last resort is not set\n\n      10.0.0.0/8 is variably subnetted\nRouter#\n"
	got := cleanOutput(raw, "show ip route", promptPattern)
	if got != "Gateway of last resort is not set\n\n      10.0.0.0/8 is variably subnetted" {
		t.Fatalf("cleanOutput = %q", got)
	}
}

func TestCleanOutputWithoutEcho(t *testing.T) {
	raw := "Success rate is 100 percent (5/5)\nRouter#"
	got := cleanOutput(raw, "ping 8.8.8.8 repeat 5", promptPattern)
	if got != "Success rate is 100 percent (5/5)" {
		t.Fatalf("cleanOutput = %q", got)
	}
}
