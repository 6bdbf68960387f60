package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List chip and frequency profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTargets()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "chips:")
		for _, c := range t.Chips {
			name := c.Name
			if c.Provisional {
				name += " (provisional)"
			}
			fmt.Fprintf(out, "  %-24s uart=%d gpio=%d default=%s\n", name, len(c.Base.UART), len(c.Base.GPIO), c.DefaultProfile)
			if len(c.Aliases) > 0 {
				fmt.Fprintf(out, "  %-24s aliases: %s\n", "", strings.Join(c.Aliases, ", "))
			}
		}

		fmt.Fprintln(out, "profiles:")
		for _, p := range t.Profiles {
			fmt.Fprintf(out, "  %-24s core=%s bus=%s chips=%s\n", p.Name, mhz(p.CoreHz), mhz(p.BusHz), strings.Join(p.Chips, ","))
			if len(p.Description) > 0 {
				fmt.Fprintf(out, "  %-24s %s\n", "", p.Description)
			}
		}
		return nil
	},
}

func mhz(hz uint32) string {
	if hz%1_000_000 == 0 {
		return fmt.Sprintf("%dMHz", hz/1_000_000)
	}
	return fmt.Sprintf("%.3fMHz", float64(hz)/1e6)
}
