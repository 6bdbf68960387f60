package chip

import (
	"fmt"

	"golang.org/x/exp/slices"

	"omibyte.io/kinetis/targets"
)

type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "R"
	case WriteOnly:
		return "W"
	default:
		return "RW"
	}
}

// RegisterInfo is one row of a chip's register map.
type RegisterInfo struct {
	Block  string
	Name   string
	Addr   uintptr
	Width  int
	Access Access
}

type regDef struct {
	name   string
	offset uintptr
	access Access
}

var (
	uartRegs = []regDef{
		{"BDH", UART_BDH, ReadWrite},
		{"BDL", UART_BDL, ReadWrite},
		{"C1", UART_C1, ReadWrite},
		{"C2", UART_C2, ReadWrite},
		{"S1", UART_S1, ReadOnly},
		{"S2", UART_S2, ReadWrite},
		{"C3", UART_C3, ReadWrite},
		{"D", UART_D, ReadWrite},
	}

	gpioRegs = []regDef{
		{"PDOR", GPIO_PDOR, ReadWrite},
		{"PSOR", GPIO_PSOR, WriteOnly},
		{"PCOR", GPIO_PCOR, WriteOnly},
		{"PTOR", GPIO_PTOR, WriteOnly},
		{"PDIR", GPIO_PDIR, ReadOnly},
		{"PDDR", GPIO_PDDR, ReadWrite},
		{"PIDR", GPIO_PIDR, ReadWrite},
	}

	simRegs = []regDef{
		{"SRSID", SIM_SRSID, ReadOnly},
		{"SOPT0", SIM_SOPT0, ReadWrite},
		{"SOPT1", SIM_SOPT1, ReadWrite},
		{"PINSEL", SIM_PINSEL, ReadWrite},
		{"PINSEL1", SIM_PINSEL1, ReadWrite},
		{"SCGC", SIM_SCGC, ReadWrite},
		{"UUIDL", SIM_UUIDL, ReadOnly},
		{"UUIDML", SIM_UUIDML, ReadOnly},
		{"UUIDMH", SIM_UUIDMH, ReadOnly},
		{"CLKDIV", SIM_CLKDIV, ReadWrite},
	}

	icsRegs = []regDef{
		{"C1", ICS_C1, ReadWrite},
		{"C2", ICS_C2, ReadWrite},
		{"C3", ICS_C3, ReadWrite},
		{"C4", ICS_C4, ReadWrite},
		{"S", ICS_S, ReadWrite},
	}

	oscRegs = []regDef{
		{"CR", OSC_CR, ReadWrite},
	}
)

// RegisterMap lists every register of c at its absolute address, ordered by
// address.
func RegisterMap(c targets.Chip) []RegisterInfo {
	var regs []RegisterInfo
	add := func(block string, base uint32, width int, defs []regDef) {
		for _, d := range defs {
			regs = append(regs, RegisterInfo{
				Block:  block,
				Name:   d.name,
				Addr:   uintptr(base) + d.offset,
				Width:  width,
				Access: d.access,
			})
		}
	}

	for i, base := range c.Base.UART {
		add(fmt.Sprintf("UART%d", i), base, 1, uartRegs)
	}
	for i, base := range c.Base.GPIO {
		add(fmt.Sprintf("GPIO%c", 'A'+i), base, 4, gpioRegs)
	}

	var port []regDef
	for i, offset := range c.Port.IOFLT {
		port = append(port, regDef{fmt.Sprintf("IOFLT%d", i), uintptr(offset), ReadWrite})
	}
	for i, offset := range c.Port.PUE {
		port = append(port, regDef{fmt.Sprintf("PUE%d", i), uintptr(offset), ReadWrite})
	}
	for i, offset := range c.Port.HDRVE {
		port = append(port, regDef{fmt.Sprintf("HDRVE%d", i), uintptr(offset), ReadWrite})
	}
	add("PORT", c.Base.PORT, 4, port)
	add("SIM", c.Base.SIM, 4, simRegs)
	add("ICS", c.Base.ICS, 1, icsRegs)
	add("OSC", c.Base.OSC, 1, oscRegs)

	slices.SortStableFunc(regs, func(a, b RegisterInfo) bool {
		return a.Addr < b.Addr
	})
	return regs
}
