package utils

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/wentf9/cisco-mcp/pkg/inventory"
	"golang.org/x/term"
)

const (
	InventoryFileName = "inventory.yaml"
	KeyFileName       = "inventory.key"
)

// GetInventoryFilePath 返回默认的清单和密钥文件路径 (~/.cisco-mcp/)
func GetInventoryFilePath() (inventoryPath, keyPath string) {
	user, err := user.Current()
	if err != nil {
		return "", ""
	}
	dir := filepath.Join(user.HomeDir, ".cisco-mcp")
	return filepath.Join(dir, InventoryFileName), filepath.Join(dir, KeyFileName)
}

// LoadInventory resolves the inventory: explicit flags win, then env vars,
// then the default file under ~/.cisco-mcp (only when it exists).
func LoadInventory(path, keyPath string) (*inventory.Set, error) {
	defaultPath, defaultKey := GetInventoryFilePath()
	if path == "" && os.Getenv("CISCO_INVENTORY") == "" && os.Getenv("CISCO_HOST") == "" {
		if _, err := os.Stat(defaultPath); err == nil {
			path = defaultPath
		}
	}
	if keyPath == "" {
		if _, err := os.Stat(defaultKey); err == nil {
			keyPath = defaultKey
		}
	}
	return inventory.Load(inventory.Options{Path: path, KeyPath: keyPath})
}

// ReadPasswordFromTerminal 从终端安全地读取密码
func ReadPasswordFromTerminal(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // 打印换行符，因为 ReadPassword 不会打印换行符
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// IsInteractive 判断 stdout 是否连接到终端
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
