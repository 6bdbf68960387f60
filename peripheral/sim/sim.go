// Package sim drives the System Integration Module: peripheral clock gates,
// the core/bus clock divider and the chip identification registers.
//
// No peripheral may be touched before its gate is enabled. The gate is the
// caller's precondition, not something this package checks.
package sim

import (
	"encoding/hex"
	"strings"

	"omibyte.io/kinetis/chip"
)

type Driver struct {
	regs *chip.SIM
}

func New(dev *chip.Device) *Driver {
	return &Driver{regs: dev.SIM()}
}

// PowerControl sets or clears the gate bit of p and no other bit.
func (d *Driver) PowerControl(p Peripheral, enable bool) {
	if enable {
		d.regs.SCGC.SetBits(p.Mask())
	} else {
		d.regs.SCGC.ClearBits(p.Mask())
	}
}

func (d *Driver) PowerEnable(p Peripheral) {
	d.PowerControl(p, true)
}

func (d *Driver) PowerDisable(p Peripheral) {
	d.PowerControl(p, false)
}

func (d *Driver) Enabled(p Peripheral) bool {
	return p.Valid() && d.regs.SCGC.HasBits(p.Mask())
}

// Gates returns the raw clock gating register.
func (d *Driver) Gates() uint32 {
	return d.regs.SCGC.Get()
}

// SetClockDivider programs OUTDIV1 (core, 2-bit), OUTDIV2 (bus) and OUTDIV3
// (timers). Each divides by field+1.
func (d *Driver) SetClockDivider(outdiv1, outdiv2, outdiv3 uint8) {
	d.regs.CLKDIV.Modify(func(v uint32) uint32 {
		v &^= chip.SIM_CLKDIV_OUTDIV1_Msk<<chip.SIM_CLKDIV_OUTDIV1_Pos |
			chip.SIM_CLKDIV_OUTDIV2_Msk<<chip.SIM_CLKDIV_OUTDIV2_Pos |
			chip.SIM_CLKDIV_OUTDIV3_Msk<<chip.SIM_CLKDIV_OUTDIV3_Pos
		v |= uint32(outdiv1&chip.SIM_CLKDIV_OUTDIV1_Msk) << chip.SIM_CLKDIV_OUTDIV1_Pos
		v |= uint32(outdiv2&chip.SIM_CLKDIV_OUTDIV2_Msk) << chip.SIM_CLKDIV_OUTDIV2_Pos
		v |= uint32(outdiv3&chip.SIM_CLKDIV_OUTDIV3_Msk) << chip.SIM_CLKDIV_OUTDIV3_Pos
		return v
	})
}

func (d *Driver) ClockDivider() (outdiv1, outdiv2, outdiv3 uint8) {
	v := d.regs.CLKDIV.Get()
	outdiv1 = uint8(v>>chip.SIM_CLKDIV_OUTDIV1_Pos) & chip.SIM_CLKDIV_OUTDIV1_Msk
	outdiv2 = uint8(v>>chip.SIM_CLKDIV_OUTDIV2_Pos) & chip.SIM_CLKDIV_OUTDIV2_Msk
	outdiv3 = uint8(v>>chip.SIM_CLKDIV_OUTDIV3_Pos) & chip.SIM_CLKDIV_OUTDIV3_Msk
	return
}

// RouteUART0 selects the UART0 pins: PTB0/PTB1 by default, PTA2/PTA3 when
// alt is set.
func (d *Driver) RouteUART0(alt bool) {
	if alt {
		d.regs.PINSEL.SetBits(chip.SIM_PINSEL_UART0PS)
	} else {
		d.regs.PINSEL.ClearBits(chip.SIM_PINSEL_UART0PS)
	}
}

// ResetSource is the set of causes latched in SIM_SRSID for the last reset.
type ResetSource uint32

const (
	ResetLowVoltage  ResetSource = chip.SIM_SRSID_LVD
	ResetLossOfClock ResetSource = chip.SIM_SRSID_LOC
	ResetWatchdog    ResetSource = chip.SIM_SRSID_WDOG
	ResetPin         ResetSource = chip.SIM_SRSID_PIN
	ResetPowerOn     ResetSource = chip.SIM_SRSID_POR
	ResetLockup      ResetSource = chip.SIM_SRSID_LOCKUP
	ResetSoftware    ResetSource = chip.SIM_SRSID_SW
	ResetDebugger    ResetSource = chip.SIM_SRSID_MDMAP
	ResetStopAckErr  ResetSource = chip.SIM_SRSID_SACKERR

	resetMask = ResetLowVoltage | ResetLossOfClock | ResetWatchdog | ResetPin |
		ResetPowerOn | ResetLockup | ResetSoftware | ResetDebugger | ResetStopAckErr
)

var resetNames = []struct {
	source ResetSource
	name   string
}{
	{ResetPowerOn, "power-on"},
	{ResetLowVoltage, "low-voltage"},
	{ResetLossOfClock, "loss-of-clock"},
	{ResetWatchdog, "watchdog"},
	{ResetPin, "pin"},
	{ResetLockup, "lockup"},
	{ResetSoftware, "software"},
	{ResetDebugger, "debugger"},
	{ResetStopAckErr, "stop-ack-error"},
}

func (r ResetSource) Has(s ResetSource) bool {
	return r&s != 0
}

func (r ResetSource) String() string {
	var names []string
	for _, n := range resetNames {
		if r.Has(n.source) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

func (d *Driver) ResetStatus() ResetSource {
	return ResetSource(d.regs.SRSID.Get()) & resetMask
}

// UID is the 96-bit unique identifier, most significant byte first.
type UID [12]byte

func (u UID) String() string {
	return strings.ToUpper(hex.EncodeToString(u[:]))
}

func (d *Driver) UniqueID() UID {
	var uid UID
	for i, word := range []uint32{d.regs.UUIDMH.Get(), d.regs.UUIDML.Get(), d.regs.UUIDL.Get()} {
		uid[i*4+0] = byte(word >> 24)
		uid[i*4+1] = byte(word >> 16)
		uid[i*4+2] = byte(word >> 8)
		uid[i*4+3] = byte(word)
	}
	return uid
}
