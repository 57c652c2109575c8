package models

import "fmt"

// Platform tags accepted in the inventory. "ios" is a legacy alias that
// resolves to the iosxe driver.
const (
	PlatformIOSXE = "iosxe"
	PlatformIOSXR = "iosxr"
	PlatformNXOS  = "nxos"
	PlatformIOS   = "ios"
)

// DefaultPort is the SSH port used when an inventory entry omits one.
const DefaultPort uint16 = 22

// Device 描述清单中的一台网络设备
// Name 是清单 map 的 key，不出现在 yaml 条目内
type Device struct {
	Name     string `yaml:"-"`
	Host     string `yaml:"host"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Platform string `yaml:"platform,omitempty"`
	Port     uint16 `yaml:"port,omitempty"`
}

// Summary 是 Device 去除凭据后的只读视图，用于对外列出设备
type Summary struct {
	Host     string `json:"host"`
	Platform string `json:"platform"`
	Port     uint16 `json:"port"`
}

// Summary returns the credential-free view of the device.
func (d Device) Summary() Summary {
	return Summary{
		Host:     d.Host,
		Platform: d.Platform,
		Port:     d.Port,
	}
}

// Addr returns the host:port dial target for the device.
func (d Device) Addr() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", d.Host, port)
}
