package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wentf9/cisco-mcp/pkg/models"
	"github.com/wentf9/cisco-mcp/pkg/runner"
)

type ConfigureOptions struct {
	Devices    []string
	ConfigFile string
	TaskCount  int
	ConfigText string

	args []string
}

func NewConfigureOptions() *ConfigureOptions {
	return &ConfigureOptions{
		TaskCount: 1,
	}
}

func NewCmdConfigure() *cobra.Command {
	o := NewConfigureOptions()
	cmd := &cobra.Command{
		Use:   "configure [flags] [config lines...]",
		Short: "向一台或多台设备下发配置",
		Long: `向一台或多台设备下发配置。配置先经过安全校验,
含有 write erase / erase / reload / delete / format 的批次会被整体拒绝。
包装行 configure terminal / conf t / end 会被自动剥离,无需提供。

用法示例:
cisco-mcp configure -d router1 "hostname R1"
cisco-mcp configure -d router1 "interface Loopback0" "ip address 10.0.0.1 255.255.255.255"
cisco-mcp configure -d router1,router2 -f change.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	cmd.Flags().StringSliceVarP(&o.Devices, "device", "d", nil, "目标设备名,多个设备用逗号分隔")
	cmd.Flags().StringVarP(&o.ConfigFile, "file", "f", "", "配置文件,每行一条配置命令")
	cmd.Flags().IntVar(&o.TaskCount, "task", 1, "并行执行的设备数")

	return cmd
}

func (o *ConfigureOptions) Complete(cmd *cobra.Command, args []string) error {
	o.args = args
	if o.ConfigFile != "" {
		content, err := os.ReadFile(o.ConfigFile)
		if err != nil {
			return fmt.Errorf("读取配置文件失败: %w", err)
		}
		o.ConfigText = string(content)
		return nil
	}
	o.ConfigText = strings.Join(args, "\n")
	return nil
}

func (o *ConfigureOptions) Validate() error {
	if len(o.Devices) == 0 {
		return fmt.Errorf("必须指定目标设备 (-d)")
	}
	if strings.TrimSpace(o.ConfigText) == "" {
		return fmt.Errorf("必须通过参数或 -f 提供配置内容")
	}
	return nil
}

func (o *ConfigureOptions) Run() error {
	set, gw, err := buildGateway()
	if err != nil {
		return err
	}

	devices, err := resolveTargets(set.Names(), o.Devices, false, set.Get)
	if err != nil {
		return err
	}

	results := runner.RunParallel(context.Background(), devices, uint(o.TaskCount), func(ctx context.Context, dev models.Device) (string, error) {
		res, err := gw.Configure(ctx, dev.Name, o.ConfigText)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("应用了 %d 条配置\n%s", len(res.CommandsApplied), res.Output), nil
	})

	failed := 0
	for res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("[ERROR] %s\n------------\n%v\n", res.Device.Name, res.Err)
		} else {
			fmt.Printf("[SUCCESS] %s\n------------\n%s\n", res.Device.Name, res.Output)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d 台设备配置失败", failed, len(devices))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(NewCmdConfigure())
}
