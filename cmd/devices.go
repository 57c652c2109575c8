package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "列出清单中的设备(不含凭据)",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, gw, err := buildGateway()
		if err != nil {
			return err
		}

		jsonFlag, _ := cmd.Flags().GetBool("json")
		list := gw.ListDevices()

		if jsonFlag {
			data, err := json.MarshalIndent(list, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tHOST\tPLATFORM\tPORT")
		for _, name := range set.Names() {
			summary := list[name]
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", name, summary.Host, summary.Platform, summary.Port)
		}
		return w.Flush()
	},
}

func init() {
	devicesCmd.Flags().Bool("json", false, "以JSON格式输出")
	rootCmd.AddCommand(devicesCmd)
}
