package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/kinetis/peripheral/uart"
)

var (
	uartOpts = struct {
		id      int
		baud    uint32
		clock   uint32
		newline string
	}{}

	uartCmd = &cobra.Command{
		Use:   "uart [text...]",
		Short: "Write a line through a simulated UART",
		Long:  "Open a UART on the register simulator, write the arguments as one line in the selected newline mode and hex-dump the bytes that reached the data register.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := selectChip()
			if err != nil {
				return err
			}
			newline, err := uart.ParseNewline(uartOpts.newline)
			if err != nil {
				return err
			}

			b, err := newBoard(c)
			if err != nil {
				return err
			}

			u, err := uart.New(b.Device, uartOpts.id, uart.Config{
				BaudRate: uartOpts.baud,
				Newline:  newline,
				ClockHz:  uartOpts.clock,
			})
			if err != nil {
				return err
			}
			defer u.Close()

			err = simulate(func() error {
				if _, err := u.WriteString(strings.Join(args, " ") + "\n"); err != nil {
					return err
				}
				u.Flush()
				return nil
			})
			if err != nil {
				return fmt.Errorf("UART%d on %s: %w", uartOpts.id, c.Name, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(b.UART[uartOpts.id].Transmitted()))
			return nil
		},
	}
)

func init() {
	uartCmd.Flags().IntVarP(&uartOpts.id, "id", "u", 0, "UART instance")
	uartCmd.Flags().Uint32VarP(&uartOpts.baud, "baud", "b", 115200, "baud rate")
	uartCmd.Flags().Uint32Var(&uartOpts.clock, "clock", uart.DefaultClockHz, "bus clock in Hz")
	uartCmd.Flags().StringVar(&uartOpts.newline, "newline", "crlf", "newline mode (=binary, =crlf)")
}
