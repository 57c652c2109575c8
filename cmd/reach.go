package cmd

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	ping "github.com/prometheus-community/pro-bing"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type reachResult struct {
	name string
	host string
	sent int
	recv int
	avg  time.Duration
	err  error
}

// reachCmd represents the reach command
var reachCmd = &cobra.Command{
	Use:   "reach",
	Short: "从本机通过 ICMP 检查清单中设备的可达性",
	Long: `从本机通过 ICMP 检查清单中设备的可达性,
一次性对全部设备并发探测并输出统计表。
注意: 在 Linux/macOS 上,发送ICMP raw socket需要root权限,
无权限时可去掉 --privileged 使用UDP ping。

用法示例:
sudo cisco-mcp reach
cisco-mcp reach --privileged=false --timeout 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := buildGateway()
		if err != nil {
			return err
		}
		names := set.Names()
		if len(names) == 0 {
			return fmt.Errorf("清单为空,没有可探测的设备")
		}

		privileged, _ := cmd.Flags().GetBool("privileged")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		concurrency, _ := cmd.Flags().GetInt("task")

		var mu sync.Mutex
		results := make([]reachResult, 0, len(names))

		var g errgroup.Group
		g.SetLimit(concurrency)
		for _, name := range names {
			dev, _ := set.Get(name)
			g.Go(func() error {
				r := reachResult{name: dev.Name, host: dev.Host}

				pinger, err := ping.NewPinger(dev.Host)
				if err != nil {
					r.err = err
				} else {
					pinger.SetPrivileged(privileged)
					pinger.Count = 3
					pinger.Interval = 200 * time.Millisecond
					pinger.Timeout = timeout
					if err := pinger.Run(); err != nil {
						r.err = err
					} else {
						stats := pinger.Statistics()
						r.sent = stats.PacketsSent
						r.recv = stats.PacketsRecv
						r.avg = stats.AvgRtt
					}
				}

				mu.Lock()
				results = append(results, r)
				mu.Unlock()
				return nil
			})
		}
		// 单台设备探测失败不中断整体，错误记录在各自的结果里
		g.Wait()

		sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tHOST\tSENT\tRECV\tAVG RTT\tSTATUS")
		unreachable := 0
		for _, r := range results {
			switch {
			case r.err != nil:
				unreachable++
				fmt.Fprintf(w, "%s\t%s\t-\t-\t-\tERROR: %v\n", r.name, r.host, r.err)
			case r.recv == 0:
				unreachable++
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t-\tUNREACHABLE\n", r.name, r.host, r.sent, r.recv)
			default:
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\tOK\n", r.name, r.host, r.sent, r.recv, r.avg)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if unreachable > 0 {
			return fmt.Errorf("%d/%d 台设备不可达", unreachable, len(results))
		}
		return nil
	},
}

func init() {
	reachCmd.Flags().Bool("privileged", true, "使用ICMP raw socket (需要root)")
	reachCmd.Flags().Duration("timeout", 3*time.Second, "单台设备的探测超时")
	reachCmd.Flags().Int("task", 8, "并行探测的设备数")
	rootCmd.AddCommand(reachCmd)
}
