package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral/uart"
)

var (
	baudOpts = struct {
		clock uint32
		baud  uint32
	}{}

	baudCmd = &cobra.Command{
		Use:   "baud",
		Short: "Compute the UART baud divisor",
		Long:  "Compute the 13-bit UART baud divisor for a bus clock and baud rate and show how it splits across BDH and BDL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			div, err := uart.Divisor(baudOpts.clock, baudOpts.baud)
			if err != nil {
				return err
			}

			actual := float64(baudOpts.clock) / (16 * float64(div))
			deviation := (actual - float64(baudOpts.baud)) / float64(baudOpts.baud) * 100

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "divisor  %d\n", div)
			fmt.Fprintf(out, "BDH      0x%02X\n", (div>>8)&chip.UART_BDH_SBR_Msk)
			fmt.Fprintf(out, "BDL      0x%02X\n", uint8(div))
			fmt.Fprintf(out, "actual   %.1f baud (%+.2f%%)\n", actual, deviation)
			return nil
		},
	}
)

func init() {
	baudCmd.Flags().Uint32Var(&baudOpts.clock, "clock", uart.DefaultClockHz, "bus clock in Hz")
	baudCmd.Flags().Uint32VarP(&baudOpts.baud, "baud", "b", 115200, "baud rate")
}
