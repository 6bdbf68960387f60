package chip

import "omibyte.io/kinetis/volatile"

type UART struct {
	BDH volatile.Register8
	BDL volatile.Register8
	C1  volatile.Register8
	C2  volatile.Register8
	S1  volatile.RO8
	S2  volatile.Register8
	C3  volatile.Register8
	D   volatile.Register8
}

func NewUART(bus volatile.Bus, base uintptr) *UART {
	return &UART{
		BDH: volatile.NewRegister8(bus, base+UART_BDH),
		BDL: volatile.NewRegister8(bus, base+UART_BDL),
		C1:  volatile.NewRegister8(bus, base+UART_C1),
		C2:  volatile.NewRegister8(bus, base+UART_C2),
		S1:  volatile.NewRO8(bus, base+UART_S1),
		S2:  volatile.NewRegister8(bus, base+UART_S2),
		C3:  volatile.NewRegister8(bus, base+UART_C3),
		D:   volatile.NewRegister8(bus, base+UART_D),
	}
}

type GPIO struct {
	PDOR volatile.Register32
	PSOR volatile.WO32
	PCOR volatile.WO32
	PTOR volatile.WO32
	PDIR volatile.RO32
	PDDR volatile.Register32
	PIDR volatile.Register32
}

func NewGPIO(bus volatile.Bus, base uintptr) *GPIO {
	return &GPIO{
		PDOR: volatile.NewRegister32(bus, base+GPIO_PDOR),
		PSOR: volatile.NewWO32(bus, base+GPIO_PSOR),
		PCOR: volatile.NewWO32(bus, base+GPIO_PCOR),
		PTOR: volatile.NewWO32(bus, base+GPIO_PTOR),
		PDIR: volatile.NewRO32(bus, base+GPIO_PDIR),
		PDDR: volatile.NewRegister32(bus, base+GPIO_PDDR),
		PIDR: volatile.NewRegister32(bus, base+GPIO_PIDR),
	}
}

// PORT has a revision-dependent layout, so its registers are placed from
// the offsets carried by the chip profile.
type PORT struct {
	IOFLT []volatile.Register32
	PUE   []volatile.Register32
	HDRVE []volatile.Register32
}

func NewPORT(bus volatile.Bus, base uintptr, ioflt, pue, hdrve []uint32) *PORT {
	place := func(offsets []uint32) []volatile.Register32 {
		regs := make([]volatile.Register32, len(offsets))
		for i, offset := range offsets {
			regs[i] = volatile.NewRegister32(bus, base+uintptr(offset))
		}
		return regs
	}
	return &PORT{
		IOFLT: place(ioflt),
		PUE:   place(pue),
		HDRVE: place(hdrve),
	}
}

type SIM struct {
	SRSID   volatile.RO32
	SOPT0   volatile.Register32
	SOPT1   volatile.Register32
	PINSEL  volatile.Register32
	PINSEL1 volatile.Register32
	SCGC    volatile.Register32
	UUIDL   volatile.RO32
	UUIDML  volatile.RO32
	UUIDMH  volatile.RO32
	CLKDIV  volatile.Register32
}

func NewSIM(bus volatile.Bus, base uintptr) *SIM {
	return &SIM{
		SRSID:   volatile.NewRO32(bus, base+SIM_SRSID),
		SOPT0:   volatile.NewRegister32(bus, base+SIM_SOPT0),
		SOPT1:   volatile.NewRegister32(bus, base+SIM_SOPT1),
		PINSEL:  volatile.NewRegister32(bus, base+SIM_PINSEL),
		PINSEL1: volatile.NewRegister32(bus, base+SIM_PINSEL1),
		SCGC:    volatile.NewRegister32(bus, base+SIM_SCGC),
		UUIDL:   volatile.NewRO32(bus, base+SIM_UUIDL),
		UUIDML:  volatile.NewRO32(bus, base+SIM_UUIDML),
		UUIDMH:  volatile.NewRO32(bus, base+SIM_UUIDMH),
		CLKDIV:  volatile.NewRegister32(bus, base+SIM_CLKDIV),
	}
}

type ICS struct {
	C1 volatile.Register8
	C2 volatile.Register8
	C3 volatile.Register8
	C4 volatile.Register8
	S  volatile.Register8
}

func NewICS(bus volatile.Bus, base uintptr) *ICS {
	return &ICS{
		C1: volatile.NewRegister8(bus, base+ICS_C1),
		C2: volatile.NewRegister8(bus, base+ICS_C2),
		C3: volatile.NewRegister8(bus, base+ICS_C3),
		C4: volatile.NewRegister8(bus, base+ICS_C4),
		S:  volatile.NewRegister8(bus, base+ICS_S),
	}
}

type OSC struct {
	CR volatile.Register8
}

func NewOSC(bus volatile.Bus, base uintptr) *OSC {
	return &OSC{
		CR: volatile.NewRegister8(bus, base+OSC_CR),
	}
}
