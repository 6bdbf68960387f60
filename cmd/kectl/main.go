// Command kectl inspects Kinetis E chip and frequency profiles and runs the
// peripheral drivers against the register simulator.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/log"
	"github.com/spf13/cobra"

	"omibyte.io/kinetis/regsim"
	"omibyte.io/kinetis/targets"
)

var (
	rootOpts = struct {
		chip    string
		targets string
	}{}

	rootCmd = &cobra.Command{
		Use:           "kectl",
		Short:         "Kinetis E peripheral toolbox",
		Long:          "Inspect chip and frequency profiles, compute UART settings and run clock bring-up against a simulated register file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.chip, "chip", "c", "mke06z", "target chip name or alias")
	rootCmd.PersistentFlags().StringVar(&rootOpts.targets, "targets", "", "load chip and frequency profiles from a YAML file")

	rootCmd.AddCommand(targetsCmd, regsCmd, bootCmd, baudCmd, uartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Print("err", err)
		fmt.Fprintln(os.Stderr, "kectl:", err)
		os.Exit(1)
	}
}

// loadTargets returns the embedded table unless --targets names a file.
func loadTargets() (targets.Targets, error) {
	if len(rootOpts.targets) == 0 {
		return targets.All(), nil
	}

	f, err := os.Open(rootOpts.targets)
	if err != nil {
		return targets.Targets{}, err
	}
	defer f.Close()

	t, err := targets.Load(f)
	if err != nil {
		return targets.Targets{}, fmt.Errorf("%s: %w", rootOpts.targets, err)
	}
	log.Print("info", "loaded ", len(t.Chips), " chips and ", len(t.Profiles), " profiles from ", rootOpts.targets)
	return t, nil
}

func selectChip() (targets.Targets, targets.Chip, error) {
	t, err := loadTargets()
	if err != nil {
		return t, targets.Chip{}, err
	}
	c, err := t.FindChip(rootOpts.chip)
	if err != nil {
		return t, targets.Chip{}, err
	}
	if c.Provisional {
		log.Print("warning", c.Name, " is provisional: some hardware paths are not ported")
	}
	return t, c, nil
}

// newBoard builds a simulated board for c. The spin cap turns a hung wait
// into an error instead of a hung command.
func newBoard(c targets.Chip) (*regsim.Board, error) {
	return regsim.NewBoard(c, regsim.WithSpinLimit(10_000))
}

// simulate runs fn and converts a simulator panic back into an error.
func simulate(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return fn()
}
