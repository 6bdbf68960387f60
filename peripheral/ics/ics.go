// Package ics drives the Internal Clock Source through the switch from its
// power-on internal reference to FLL Engaged External mode.
//
// The clock state lives only in the status register. The driver walks it
// forward in one fixed order:
//
//	internal reference -> switch pending -> settled -> lock pending -> locked
//
// Every wait is a busy poll with no timeout. A reference that never appears
// or a loop that never locks hangs the caller.
package ics

import (
	"fmt"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/targets"
	"omibyte.io/kinetis/volatile"
)

type State int

const (
	StateInternal State = iota
	StateSwitchPending
	StateSettled
	StateLockPending
	StateLocked
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateInternal:
		return "internal reference"
	case StateSwitchPending:
		return "reference switch pending"
	case StateSettled:
		return "reference settled"
	case StateLockPending:
		return "lock pending"
	case StateLocked:
		return "locked"
	}
	return "unknown"
}

// FLLFactor is the fixed multiplication from the FLL reference to its
// output.
const FLLFactor = 1280

// ClockDivider holds the core, bus and timer clock dividers behind the ICS
// output. SetClockDivider is only called after the loop has locked.
type ClockDivider interface {
	SetClockDivider(outdiv1, outdiv2, outdiv3 uint8)
	ClockDivider() (outdiv1, outdiv2, outdiv3 uint8)
}

// Frequencies are the clock rates the programmed dividers produce.
type Frequencies struct {
	CoreHz uint32
	BusHz  uint32
}

// ReferenceDivider is the factor RDIV divides the external clock by. The
// high oscillator range adds a fixed divide-by-32.
func ReferenceDivider(rdiv uint8, highRange bool) uint32 {
	f := uint32(1) << rdiv
	if highRange {
		f <<= 5
	}
	return f
}

type Driver struct {
	regs *chip.ICS
	bus  volatile.Bus

	// Observe, if set, is told of each state the bring-up passes through.
	Observe func(State)
}

func New(dev *chip.Device) *Driver {
	return &Driver{regs: dev.ICS(), bus: dev.Bus}
}

func (d *Driver) enter(s State) {
	if d.Observe != nil {
		d.Observe(s)
	}
}

// Engage switches to the external reference using the constants in profile.
// The oscillator must already be running. div is written only when the
// profile carries a SIM divider step, but is always read back to work out
// the resulting frequencies.
//
// Only an invalid profile or a missing divider is reported as an error, and
// either is reported before any register is touched.
func (d *Driver) Engage(profile targets.Profile, div ClockDivider) (Frequencies, error) {
	if err := profile.Validate(); err != nil {
		return Frequencies{}, fmt.Errorf("%w: %w", peripheral.ErrInvalidConfig, err)
	}
	if div == nil {
		return Frequencies{}, fmt.Errorf("%w: no clock divider for profile %s", peripheral.ErrInvalidConfig, profile.Name)
	}

	// Bring the external clock into the FLL input range
	d.regs.C1.ReplaceBits(profile.RDIV, chip.ICS_C1_RDIV_Msk, chip.ICS_C1_RDIV_Pos)

	// Select the external reference
	d.regs.C1.ClearBits(chip.ICS_C1_IREFS)
	d.enter(StateSwitchPending)

	// Status is not valid straight after the switch
	volatile.Delay(d.bus, profile.SettleCycles)

	// Wait for the reference to settle...
	volatile.SpinWhile(func() bool {
		return d.regs.S.HasBits(chip.ICS_S_IREFST)
	})
	d.enter(StateSettled)

	// ...and lock
	d.enter(StateLockPending)
	volatile.SpinUntil(func() bool {
		return d.regs.S.HasBits(chip.ICS_S_LOCK)
	})
	d.enter(StateLocked)

	d.SetBusDivider(profile.BDIV)
	d.ClearLossOfLock()

	if s := profile.SIMDivider; s != nil {
		div.SetClockDivider(s.OUTDIV1, s.OUTDIV2, s.OUTDIV3)
		d.SetBusDivider(s.FinalBDIV)
	}

	outdiv1, outdiv2, _ := div.ClockDivider()
	core := d.OutputHz(profile.CrystalHz, profile.OscRange) / (uint32(outdiv1) + 1)
	return Frequencies{CoreHz: core, BusHz: core / (uint32(outdiv2) + 1)}, nil
}

// OutputHz is the ICS output clock in FLL engaged external mode, worked out
// from the reference and output dividers currently programmed.
func (d *Driver) OutputHz(crystalHz uint32, highRange bool) uint32 {
	rdiv := (d.regs.C1.Get() >> chip.ICS_C1_RDIV_Pos) & chip.ICS_C1_RDIV_Msk
	bdiv := (d.regs.C2.Get() >> chip.ICS_C2_BDIV_Pos) & chip.ICS_C2_BDIV_Msk
	fll := uint64(crystalHz) * FLLFactor / uint64(ReferenceDivider(rdiv, highRange))
	return uint32(fll >> bdiv)
}

// SetBusDivider programs the ICS output divider, 2^bdiv.
func (d *Driver) SetBusDivider(bdiv uint8) {
	d.regs.C2.ReplaceBits(bdiv, chip.ICS_C2_BDIV_Msk, chip.ICS_C2_BDIV_Pos)
}

// ClearLossOfLock clears the sticky loss-of-lock flag. The flag is
// write-one-to-clear, so only a set flag is written back.
func (d *Driver) ClearLossOfLock() {
	d.regs.S.Modify(func(s uint8) uint8 {
		return s & chip.ICS_S_LOLS
	})
}

func (d *Driver) LossOfLock() bool {
	return d.regs.S.HasBits(chip.ICS_S_LOLS)
}

// State decodes the current clock state from the hardware. The momentary
// settled state is reported as lock pending.
func (d *Driver) State() State {
	external := !d.regs.C1.HasBits(chip.ICS_C1_IREFS)
	s := d.regs.S.Get()
	settled := s&chip.ICS_S_IREFST == 0

	switch {
	case !external && !settled:
		return StateInternal
	case external && !settled:
		return StateSwitchPending
	case external && s&chip.ICS_S_LOCK == 0:
		return StateLockPending
	case external:
		return StateLocked
	}
	return StateUnknown
}
