package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/wentf9/cisco-mcp/cmd/utils"
	"github.com/wentf9/cisco-mcp/pkg/models"
	"github.com/wentf9/cisco-mcp/pkg/runner"
)

type ShowOptions struct {
	Devices   []string
	All       bool
	TaskCount int
	Command   string

	args []string
}

func NewShowOptions() *ShowOptions {
	return &ShowOptions{
		TaskCount: 3,
	}
}

func NewCmdShow() *cobra.Command {
	o := NewShowOptions()
	cmd := &cobra.Command{
		Use:   "show [flags] <command>",
		Short: "对一台或多台设备执行只读 show 命令",
		Long: `对一台或多台设备执行只读 show 命令。命令先经过安全校验:
必须以 show 开头,不含危险关键字,不含管道/重定向字符。

用法示例:
cisco-mcp show -d router1 "show version"
cisco-mcp show -d router1,switch1 "show ip interface brief"
cisco-mcp show --all "show version"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Complete(cmd, args)
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	cmd.Flags().StringSliceVarP(&o.Devices, "device", "d", nil, "目标设备名,多个设备用逗号分隔")
	cmd.Flags().BoolVar(&o.All, "all", false, "对清单中的全部设备执行")
	cmd.Flags().IntVar(&o.TaskCount, "task", 3, "并行执行的设备数")
	cmd.MarkFlagsMutuallyExclusive("device", "all")

	return cmd
}

func (o *ShowOptions) Complete(cmd *cobra.Command, args []string) {
	o.args = args
	o.Command = strings.Join(args, " ")
}

func (o *ShowOptions) Validate() error {
	if o.Command == "" {
		return fmt.Errorf("必须指定要执行的命令")
	}
	if len(o.Devices) == 0 && !o.All {
		return fmt.Errorf("必须指定目标设备 (-d) 或 --all")
	}
	return nil
}

func (o *ShowOptions) Run() error {
	set, gw, err := buildGateway()
	if err != nil {
		return err
	}

	devices, err := resolveTargets(set.Names(), o.Devices, o.All, set.Get)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if utils.IsInteractive() && len(devices) > 1 {
		bar = progressbar.Default(int64(len(devices)), "执行中")
	}

	results := runner.RunParallel(context.Background(), devices, uint(o.TaskCount), func(ctx context.Context, dev models.Device) (string, error) {
		res, err := gw.Show(ctx, dev.Name, o.Command)
		if err != nil {
			return "", err
		}
		return res.Output, nil
	})

	failed := 0
	for res := range results {
		if bar != nil {
			bar.Add(1)
		}
		if res.Err != nil {
			failed++
			fmt.Printf("[ERROR] %s\n------------\n%v\n", res.Device.Name, res.Err)
		} else {
			fmt.Printf("[SUCCESS] %s\n------------\n%s\n", res.Device.Name, res.Output)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d 台设备执行失败", failed, len(devices))
	}
	return nil
}

// resolveTargets 将设备名列表解析为清单中的设备记录
func resolveTargets(allNames, names []string, all bool, get func(string) (models.Device, bool)) ([]models.Device, error) {
	if all {
		names = allNames
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("清单为空,没有可执行的设备")
	}
	devices := make([]models.Device, 0, len(names))
	for _, name := range names {
		dev, ok := get(name)
		if !ok {
			return nil, fmt.Errorf("设备 %s 不在清单中", name)
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func init() {
	rootCmd.AddCommand(NewCmdShow())
}
