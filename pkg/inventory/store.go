package inventory

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wentf9/cisco-mcp/pkg/crypto"
	"github.com/wentf9/cisco-mcp/pkg/models"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix namespaces the environment variables the loader reads.
const DefaultEnvPrefix = "CISCO"

// Options 控制清单的加载来源
// 优先级: Path > $PREFIX_INVENTORY 指向的文件 > $PREFIX_HOST 单设备 > 空清单
type Options struct {
	Path      string
	EnvPrefix string
	// KeyPath 指向 AES 密钥文件，用于解密 ENC: 前缀的密码字段
	// 为空时遇到加密字段会报错
	KeyPath string
}

// fileConfig 对应 yaml 清单文件的顶层结构
type fileConfig struct {
	Devices map[string]models.Device `yaml:"devices"`
}

// Load builds the process-lifetime inventory from the configured source.
func Load(opts Options) (*Set, error) {
	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	var cr *crypto.Crypter
	if opts.KeyPath != "" {
		key, err := crypto.LoadOrGenerateKey(opts.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load inventory key: %w", err)
		}
		cr, err = crypto.NewCrypter(key)
		if err != nil {
			return nil, fmt.Errorf("load inventory key: %w", err)
		}
	}

	path := opts.Path
	if path == "" {
		path = os.Getenv(prefix + "_INVENTORY")
	}
	if path != "" {
		return loadFile(path, cr)
	}
	return loadEnv(prefix, cr)
}

func loadFile(path string, cr *crypto.Crypter) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse inventory file '%s': %w", path, err)
	}

	set := newSet()
	for name, dev := range cfg.Devices {
		dev.Password, err = decryptPassword(dev.Password, cr)
		if err != nil {
			return nil, fmt.Errorf("device '%s': %w", name, err)
		}
		if err := set.add(name, dev); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// loadEnv builds a minimal single-device inventory from individual
// environment variables. The device is registered under the name "default".
func loadEnv(prefix string, cr *crypto.Crypter) (*Set, error) {
	set := newSet()

	host := os.Getenv(prefix + "_HOST")
	if host == "" {
		// 没有任何配置来源时返回空清单，list_devices 会返回空集合
		return set, nil
	}

	dev := models.Device{
		Host:     host,
		Username: os.Getenv(prefix + "_USERNAME"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		Platform: os.Getenv(prefix + "_PLATFORM"),
	}
	if raw := os.Getenv(prefix + "_PORT"); raw != "" {
		port, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_PORT '%s': %w", prefix, raw, err)
		}
		dev.Port = uint16(port)
	}

	var err error
	dev.Password, err = decryptPassword(dev.Password, cr)
	if err != nil {
		return nil, fmt.Errorf("device 'default': %w", err)
	}
	if err := set.add("default", dev); err != nil {
		return nil, err
	}
	return set, nil
}

func decryptPassword(value string, cr *crypto.Crypter) (string, error) {
	if !crypto.IsEncrypted(value) {
		return value, nil
	}
	if cr == nil {
		return "", fmt.Errorf("password is encrypted but no key file is configured")
	}
	return cr.Decrypt(value)
}
