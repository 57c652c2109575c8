/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wentf9/cisco-mcp/cmd/utils"
	"github.com/wentf9/cisco-mcp/cmd/version"
	"github.com/wentf9/cisco-mcp/pkg/gateway"
	"github.com/wentf9/cisco-mcp/pkg/inventory"
	"github.com/wentf9/cisco-mcp/pkg/logger"
)

var (
	inventoryFlag string
	keyFlag       string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cisco-mcp [command] [flags]",
	Short: "cisco-mcp 是面向 Cisco 网络设备的命令网关",
	Long: `cisco-mcp 是面向 Cisco 网络设备的命令网关。
它通过交互式 SSH 在 IOS-XE/IOS-XR/NX-OS 设备上执行命令,
所有命令先经过安全校验(只读命令白名单 + 危险配置黑名单)再下发。
既可以作为 MCP 服务器供 AI 助手调用(serve 子命令),
也可以直接在命令行上批量操作设备。`,
	Run: func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			version.PrintFullVersion()
			os.Exit(0)
		}
		cmd.Help() // 显示帮助信息
		os.Exit(0)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugFlag, _ := cmd.Flags().GetBool("debug")
		if debugFlag {
			// 开启调试模式
			logger.SetLogLevel("debug")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// buildGateway 按 flags/环境变量加载清单并构造网关
func buildGateway() (*inventory.Set, *gateway.Gateway, error) {
	set, err := utils.LoadInventory(inventoryFlag, keyFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("加载设备清单失败: %w", err)
	}
	return set, gateway.New(set, gateway.NewSessionProvider()), nil
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "显示版本信息")
	rootCmd.PersistentFlags().Bool("debug", false, "开启调试模式")
	rootCmd.PersistentFlags().StringVarP(&inventoryFlag, "inventory", "I", "", "设备清单文件路径 (默认 ~/.cisco-mcp/inventory.yaml 或 $CISCO_INVENTORY)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "清单密码解密密钥文件路径")
}
