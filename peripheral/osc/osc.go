// Package osc drives the external crystal oscillator.
package osc

import (
	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/targets"
	"omibyte.io/kinetis/volatile"
)

type Driver struct {
	regs *chip.OSC
}

func New(dev *chip.Device) *Driver {
	return &Driver{regs: dev.OSC()}
}

// Init enables the oscillator with the range and gain of profile and blocks
// until it reports initialized. It never returns if the crystal does not
// start.
func (d *Driver) Init(profile targets.Profile) {
	cr := uint8(chip.OSC_CR_OSCEN | chip.OSC_CR_OSCOS)
	if profile.OscRange {
		cr |= chip.OSC_CR_RANGE
	}
	if profile.OscHighGain {
		cr |= chip.OSC_CR_HGO
	}
	d.regs.CR.Set(cr)

	// Wait for the crystal to start
	volatile.SpinUntil(d.Ready)
}

func (d *Driver) Ready() bool {
	return d.regs.CR.HasBits(chip.OSC_CR_OSCINIT)
}

func (d *Driver) Disable() {
	d.regs.CR.ClearBits(chip.OSC_CR_OSCEN)
}
