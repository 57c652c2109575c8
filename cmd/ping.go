package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping <device> <target>",
	Short: "从设备侧 ping 一个目标地址",
	Long: `从设备侧 ping 一个目标地址,用于验证设备自身的网络可达性
(区别于 reach 子命令,后者是从本机 ping 设备)。

用法示例:
cisco-mcp ping router1 8.8.8.8
cisco-mcp ping router1 10.0.0.2 --count 10`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gw, err := buildGateway()
		if err != nil {
			return err
		}

		count, _ := cmd.Flags().GetInt("count")
		res, err := gw.Ping(context.Background(), args[0], args[1], count)
		if err != nil {
			return err
		}
		fmt.Println(res.Output)
		return nil
	},
}

func init() {
	pingCmd.Flags().Int("count", 0, "发送的报文数 (默认 5)")
	rootCmd.AddCommand(pingCmd)
}
