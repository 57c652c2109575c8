package inventory

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wentf9/cisco-mcp/pkg/crypto"
	"github.com/wentf9/cisco-mcp/pkg/models"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeInventory(t, `
devices:
  router1:
    host: 192.168.1.1
    username: admin
    password: secret
    platform: iosxe
  switch1:
    host: 192.168.1.2
    username: admin
    password: secret
    platform: nxos
    port: 2222
`)
	set, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}

	dev, ok := set.Get("router1")
	if !ok {
		t.Fatal("router1 not found")
	}
	if dev.Host != "192.168.1.1" || dev.Platform != models.PlatformIOSXE {
		t.Fatalf("unexpected device: %+v", dev)
	}
	if dev.Port != models.DefaultPort {
		t.Fatalf("port = %d, want default %d", dev.Port, models.DefaultPort)
	}

	sw, _ := set.Get("switch1")
	if sw.Port != 2222 {
		t.Fatalf("switch1 port = %d, want 2222", sw.Port)
	}
}

func TestLoadFileDefaultsPlatform(t *testing.T) {
	path := writeInventory(t, `
devices:
  r1:
    host: 10.0.0.1
`)
	set, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dev, _ := set.Get("r1")
	if dev.Platform != models.PlatformIOSXE {
		t.Fatalf("platform = %q, want iosxe default", dev.Platform)
	}
}

func TestLoadFileMissingHost(t *testing.T) {
	path := writeInventory(t, `
devices:
  broken:
    username: admin
`)
	_, err := Load(Options{Path: path})
	if err == nil {
		t.Fatal("Load succeeded, want missing-host error")
	}
	if !strings.Contains(err.Error(), "host is required") {
		t.Fatalf("err = %v, want host-required", err)
	}
}

func TestLookupByAddress(t *testing.T) {
	path := writeInventory(t, `
devices:
  router1:
    host: 192.168.1.1
`)
	set, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, key := range []string{"router1", "192.168.1.1", "192.168.1.1:22"} {
		if _, ok := set.Get(key); !ok {
			t.Errorf("Get(%q) not found", key)
		}
	}
	if _, ok := set.Get("bogus"); ok {
		t.Error("Get(bogus) found, want miss")
	}
}

func TestListExcludesCredentials(t *testing.T) {
	path := writeInventory(t, `
devices:
  router1:
    host: 192.168.1.1
    username: admin
    password: topsecret
`)
	set, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	list := set.List()
	summary, ok := list["router1"]
	if !ok {
		t.Fatal("router1 missing from list")
	}
	if summary.Host != "192.168.1.1" || summary.Platform != "iosxe" || summary.Port != 22 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	// Summary 类型本身不含凭据字段，这里防御性断言类型没被改坏
	if got := len(list); got != 1 {
		t.Fatalf("list size = %d, want 1", got)
	}
}

func TestLoadEnvSingleDevice(t *testing.T) {
	t.Setenv("CISCO_HOST", "203.0.113.5")
	t.Setenv("CISCO_USERNAME", "ops")
	t.Setenv("CISCO_PASSWORD", "pw")
	t.Setenv("CISCO_PLATFORM", "iosxr")
	t.Setenv("CISCO_PORT", "830")
	t.Setenv("CISCO_INVENTORY", "")

	set, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dev, ok := set.Get("default")
	if !ok {
		t.Fatal("default device not found")
	}
	if dev.Host != "203.0.113.5" || dev.Platform != "iosxr" || dev.Port != 830 {
		t.Fatalf("unexpected device: %+v", dev)
	}
}

func TestLoadEnvEmpty(t *testing.T) {
	t.Setenv("CISCO_HOST", "")
	t.Setenv("CISCO_INVENTORY", "")

	set, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("Len = %d, want empty inventory", set.Len())
	}
}

func TestLoadDecryptsPassword(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "inventory.key")
	key, err := crypto.LoadOrGenerateKey(keyPath)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	cr, err := crypto.NewCrypter(key)
	if err != nil {
		t.Fatalf("crypter: %v", err)
	}
	enc, err := cr.Encrypt("vault-pass")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	path := writeInventory(t, `
devices:
  router1:
    host: 192.168.1.1
    username: admin
    password: "`+enc+`"
`)
	set, err := Load(Options{Path: path, KeyPath: keyPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dev, _ := set.Get("router1")
	if dev.Password != "vault-pass" {
		t.Fatalf("password = %q, want decrypted value", dev.Password)
	}
}

func TestLoadEncryptedWithoutKeyFails(t *testing.T) {
	key := bytes.Repeat([]byte{7}, crypto.KeySize)
	cr, _ := crypto.NewCrypter(key)
	enc, _ := cr.Encrypt("pw")

	path := writeInventory(t, `
devices:
  router1:
    host: 192.168.1.1
    password: "`+enc+`"
`)
	if _, err := Load(Options{Path: path}); err == nil {
		t.Fatal("Load succeeded, want missing-key error")
	}
}
