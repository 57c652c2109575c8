package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wentf9/cisco-mcp/cmd/utils"
	"github.com/wentf9/cisco-mcp/pkg/crypto"
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "加密一个设备密码,用于写入清单文件",
	Long: `加密一个设备密码,输出 ENC: 开头的密文,
可以直接粘贴到清单文件的 password 字段。
密钥文件不存在时会自动生成。

用法示例:
cisco-mcp encrypt
cisco-mcp encrypt --key /path/to/inventory.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keyPath := keyFlag
		if keyPath == "" {
			_, keyPath = utils.GetInventoryFilePath()
		}
		if keyPath == "" {
			return fmt.Errorf("无法确定密钥文件路径,请指定 --key")
		}

		key, err := crypto.LoadOrGenerateKey(keyPath)
		if err != nil {
			return fmt.Errorf("加载密钥失败: %w", err)
		}
		cr, err := crypto.NewCrypter(key)
		if err != nil {
			return err
		}

		password, err := utils.ReadPasswordFromTerminal("请输入要加密的密码: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("密码不能为空")
		}

		encrypted, err := cr.Encrypt(password)
		if err != nil {
			return fmt.Errorf("加密失败: %w", err)
		}
		fmt.Println(encrypted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
}
