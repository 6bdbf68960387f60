package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/kinetis/chip"
)

var (
	regsOpts = struct {
		block string
	}{}

	regsCmd = &cobra.Command{
		Use:   "regs",
		Short: "Print the register map of a chip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := selectChip()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			n := 0
			for _, r := range chip.RegisterMap(c) {
				if len(regsOpts.block) > 0 && !strings.EqualFold(r.Block, regsOpts.block) {
					continue
				}
				fmt.Fprintf(out, "0x%08X  %2d  %-2s  %s.%s\n", r.Addr, r.Width*8, r.Access, r.Block, r.Name)
				n++
			}
			if n == 0 {
				return fmt.Errorf("no registers in block %q on %s", regsOpts.block, c.Name)
			}
			return nil
		},
	}
)

func init() {
	regsCmd.Flags().StringVarP(&regsOpts.block, "block", "b", "", "only print one block, such as UART0 or SIM")
}
