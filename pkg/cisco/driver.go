// Package cisco implements the SSH session provider for Cisco command-line
// interfaces. Every request gets a fresh session: open, run one logical
// operation, close. There is no pooling and no automatic retry.
package cisco

import (
	"regexp"

	"github.com/wentf9/cisco-mcp/pkg/models"
)

// Driver identifiers, one per supported network OS.
const (
	DriverIOSXE = "cisco_iosxe"
	DriverIOSXR = "cisco_iosxr"
	DriverNXOS  = "cisco_nxos"
)

// Driver 描述一个平台的 CLI 适配参数
// 提示符、关闭分页、进入/退出配置模式的命令都因平台而异
type Driver struct {
	ID            string
	Prompt        *regexp.Regexp
	DisablePaging string
	ConfigEnter   string
	ConfigExit    string
	// Commit 非空时表示平台使用候选配置，需要在退出前提交 (IOS-XR)
	Commit string
}

// promptPattern matches an exec or config mode prompt at the end of output,
// e.g. "Router#", "switch(config-if)#", "RP/0/RP0/CPU0:xr1#".
var promptPattern = regexp.MustCompile(`(?m)^[\w.\-@/:]*(\([\w.\-]+\))?[#>]\s*$`)

var drivers = map[string]*Driver{
	DriverIOSXE: {
		ID:            DriverIOSXE,
		Prompt:        promptPattern,
		DisablePaging: "terminal length 0",
		ConfigEnter:   "configure terminal",
		ConfigExit:    "end",
	},
	DriverIOSXR: {
		ID:            DriverIOSXR,
		Prompt:        promptPattern,
		DisablePaging: "terminal length 0",
		ConfigEnter:   "configure terminal",
		ConfigExit:    "end",
		Commit:        "commit",
	},
	DriverNXOS: {
		ID:            DriverNXOS,
		Prompt:        promptPattern,
		DisablePaging: "terminal length 0",
		ConfigEnter:   "configure terminal",
		ConfigExit:    "end",
	},
}

// platformMap resolves inventory platform tags to driver identifiers.
// "ios" is an alias for the iosxe driver.
var platformMap = map[string]string{
	models.PlatformIOSXE: DriverIOSXE,
	models.PlatformIOSXR: DriverIOSXR,
	models.PlatformNXOS:  DriverNXOS,
	models.PlatformIOS:   DriverIOSXE,
}

// Resolve maps a platform tag to its driver. Unknown tags fall back to the
// iosxe driver instead of failing; inventories predate strict tagging.
func Resolve(tag string) *Driver {
	if id, ok := platformMap[tag]; ok {
		return drivers[id]
	}
	return drivers[DriverIOSXE]
}
