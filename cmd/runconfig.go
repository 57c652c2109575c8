package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// runConfigCmd represents the running-config command
var runConfigCmd = &cobra.Command{
	Use:   "running-config <device>",
	Short: "获取设备的运行配置",
	Long: `获取设备的运行配置,可以用 --section 只取某一节。

用法示例:
cisco-mcp running-config router1
cisco-mcp running-config router1 --section interface`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gw, err := buildGateway()
		if err != nil {
			return err
		}

		section, _ := cmd.Flags().GetString("section")
		res, err := gw.RunningConfig(context.Background(), args[0], section)
		if err != nil {
			return err
		}
		fmt.Println(res.Output)
		return nil
	},
}

func init() {
	runConfigCmd.Flags().String("section", "", "只输出指定配置节 (例如 interface)")
	rootCmd.AddCommand(runConfigCmd)
}
