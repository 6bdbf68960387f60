package regsim

import (
	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/targets"
)

// Power-on values of the SIM registers that are not zero
const (
	SIMResetSRSID  = chip.SIM_SRSID_POR | chip.SIM_SRSID_LVD
	SIMResetSCGC   = 1<<chip.SIM_SCGC_FLASH | 1<<chip.SIM_SCGC_SWD
	SIMResetCLKDIV = 1<<chip.SIM_CLKDIV_OUTDIV2_Pos | 1<<chip.SIM_CLKDIV_OUTDIV3_Pos
)

// Board is a whole simulated chip: a bus with every peripheral of a chip
// profile mapped at its base address.
type Board struct {
	*Bus
	Device *chip.Device

	ICS  *ICS
	OSC  *OSC
	UART []*UART
	GPIO []*GPIO
}

func NewBoard(c targets.Chip, options ...Option) (*Board, error) {
	bus := New(options...)
	b := &Board{
		Bus:    bus,
		Device: chip.NewDevice(bus, c),
		ICS:    &ICS{SettleReads: 3, LockReads: 5},
		OSC:    &OSC{InitReads: 4},
	}

	if err := bus.Map(uintptr(c.Base.ICS), chip.ICS_SIZE, b.ICS); err != nil {
		return nil, err
	}
	if err := bus.Map(uintptr(c.Base.OSC), chip.OSC_SIZE, b.OSC); err != nil {
		return nil, err
	}
	if err := bus.Map(uintptr(c.Base.SIM), chip.SIM_SIZE, Memory{}); err != nil {
		return nil, err
	}
	if err := bus.Map(uintptr(c.Base.PORT), portSize(c.Port), Memory{}); err != nil {
		return nil, err
	}

	simBase := uintptr(c.Base.SIM)
	for i, base := range c.Base.UART {
		m := NewUART()
		gate := uint32(1) << (chip.SIM_SCGC_UART0 + i)
		m.Gate = func() bool {
			return bus.Peek(simBase+chip.SIM_SCGC, 4)&gate != 0
		}
		if err := bus.Map(uintptr(base), chip.UART_SIZE, m); err != nil {
			return nil, err
		}
		b.UART = append(b.UART, m)
	}
	for _, base := range c.Base.GPIO {
		m := &GPIO{}
		if err := bus.Map(uintptr(base), chip.GPIO_SIZE, m); err != nil {
			return nil, err
		}
		b.GPIO = append(b.GPIO, m)
	}

	bus.Poke(simBase+chip.SIM_SRSID, 4, SIMResetSRSID)
	bus.Poke(simBase+chip.SIM_SCGC, 4, SIMResetSCGC)
	bus.Poke(simBase+chip.SIM_CLKDIV, 4, SIMResetCLKDIV)
	b.SetUniqueID(0x0001_1C2D, 0x3E4F_5061, 0x7283_94A5)

	return b, nil
}

// SetUniqueID loads the three read-only UUID registers.
func (b *Board) SetUniqueID(low, midLow, midHigh uint32) {
	base := uintptr(b.Device.Chip.Base.SIM)
	b.Poke(base+chip.SIM_UUIDL, 4, low)
	b.Poke(base+chip.SIM_UUIDML, 4, midLow)
	b.Poke(base+chip.SIM_UUIDMH, 4, midHigh)
}

// SetResetStatus loads the read-only reset status register.
func (b *Board) SetResetStatus(srsid uint32) {
	b.Poke(uintptr(b.Device.Chip.Base.SIM)+chip.SIM_SRSID, 4, srsid)
}

func portSize(p targets.Port) uintptr {
	var end uint32
	for _, offsets := range [][]uint32{p.IOFLT, p.PUE, p.HDRVE} {
		for _, offset := range offsets {
			if offset+4 > end {
				end = offset + 4
			}
		}
	}
	return uintptr(end)
}
