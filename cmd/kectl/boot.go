package main

import (
	"fmt"
	"strings"

	"github.com/platinasystems/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"omibyte.io/kinetis/boot"
	"omibyte.io/kinetis/peripheral/ics"
	"omibyte.io/kinetis/peripheral/osc"
	"omibyte.io/kinetis/peripheral/sim"
	"omibyte.io/kinetis/peripheral/uart"
	"omibyte.io/kinetis/targets"
)

var (
	bootOpts = struct {
		profile string
		console int
		baud    uint32
		newline string
		message string
		trace   bool
	}{}

	bootCmd = &cobra.Command{
		Use:   "boot",
		Short: "Run clock and console bring-up on a simulated chip",
		Long:  "Run the oscillator, ICS and console bring-up sequence against the register simulator, then print the resulting clock state and optionally every register access in order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, c, err := selectChip()
			if err != nil {
				return err
			}
			profile, err := selectProfile(t, c, bootOpts.profile)
			if err != nil {
				return err
			}
			newline, err := uart.ParseNewline(bootOpts.newline)
			if err != nil {
				return err
			}

			b, err := newBoard(c)
			if err != nil {
				return err
			}
			dev := b.Device

			var sys *boot.System
			err = simulate(func() error {
				sys, err = boot.Start(dev, boot.Config{
					Profile:  profile,
					Console:  bootOpts.console,
					BaudRate: bootOpts.baud,
					Newline:  newline,
				})
				return err
			})
			if err != nil {
				return err
			}
			if sys.Console != nil {
				defer sys.Console.Close()
			}
			log.Print("info", c.Name, ": ", profile.Name, " locked after ", len(b.Trace()), " accesses")

			out := cmd.OutOrStdout()
			if bootOpts.trace {
				for _, a := range b.Trace() {
					fmt.Fprintln(out, a)
				}
			}

			o1, o2, o3 := sys.SIM.ClockDivider()
			fmt.Fprintf(out, "chip      %s\n", c.Name)
			fmt.Fprintf(out, "profile   %s\n", profile.Name)
			fmt.Fprintf(out, "steps     %s\n", strings.Join(sys.Steps, " -> "))
			fmt.Fprintf(out, "core      %s\n", mhz(sys.Frequencies.CoreHz))
			fmt.Fprintf(out, "bus       %s\n", mhz(sys.Frequencies.BusHz))
			fmt.Fprintf(out, "osc       ready=%t\n", osc.New(dev).Ready())
			fmt.Fprintf(out, "ics       %s\n", ics.New(dev).State())
			fmt.Fprintf(out, "clkdiv    outdiv1=%d outdiv2=%d outdiv3=%d\n", o1, o2, o3)
			fmt.Fprintf(out, "gates     %s\n", strings.Join(enabledGates(sys.SIM), " "))
			fmt.Fprintf(out, "reset     %s\n", sys.SIM.ResetStatus())
			fmt.Fprintf(out, "uid       %s\n", sys.SIM.UniqueID())

			if sys.Console == nil || len(bootOpts.message) == 0 {
				return nil
			}
			m := b.UART[sys.Console.ID()]
			m.ClearTransmitted()
			err = simulate(func() error {
				_, err := sys.Console.WriteString(bootOpts.message + "\n")
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "console   UART%d %q\n", sys.Console.ID(), m.Transmitted())
			return nil
		},
	}
)

func init() {
	bootCmd.Flags().StringVarP(&bootOpts.profile, "profile", "p", "", "frequency profile (default: the chip's default profile)")
	bootCmd.Flags().IntVar(&bootOpts.console, "console", 0, "console UART instance, -1 for none")
	bootCmd.Flags().Uint32VarP(&bootOpts.baud, "baud", "b", 115200, "console baud rate")
	bootCmd.Flags().StringVar(&bootOpts.newline, "newline", "crlf", "console newline mode (=binary, =crlf)")
	bootCmd.Flags().StringVarP(&bootOpts.message, "message", "m", "", "write a line to the console after bring-up")
	bootCmd.Flags().BoolVar(&bootOpts.trace, "trace", false, "print every register access")
}

// selectProfile resolves name, or the chip's default, and checks that it
// applies to c.
func selectProfile(t targets.Targets, c targets.Chip, name string) (targets.Profile, error) {
	if len(name) == 0 {
		return t.DefaultProfile(c)
	}
	p, err := t.FindProfile(name)
	if err != nil {
		return p, err
	}
	if !slices.Contains(p.Chips, c.Name) {
		return p, fmt.Errorf("%w: %s does not apply to %s", targets.ErrInvalidProfile, p.Name, c.Name)
	}
	return p, nil
}

func enabledGates(d *sim.Driver) []string {
	var names []string
	for _, p := range sim.AllPeripherals() {
		if d.Enabled(p) {
			names = append(names, p.String())
		}
	}
	return names
}
