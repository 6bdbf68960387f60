package sim

import (
	"strings"

	"omibyte.io/kinetis/chip"
)

// Peripheral tags one clock gate in SIM_SCGC.
type Peripheral uint8

const (
	RTC Peripheral = iota
	PIT
	PWT
	FTM0
	FTM1
	FTM2
	CRC
	Flash
	SWD
	MSCAN
	I2C0
	I2C1
	SPI0
	SPI1
	UART0
	UART1
	UART2
	KBI0
	KBI1
	IRQ
	ADC
	ACMP0
	ACMP1

	numPeripherals
)

var gates = [numPeripherals]struct {
	name string
	bit  uint8
}{
	RTC:   {"RTC", chip.SIM_SCGC_RTC},
	PIT:   {"PIT", chip.SIM_SCGC_PIT},
	PWT:   {"PWT", chip.SIM_SCGC_PWT},
	FTM0:  {"FTM0", chip.SIM_SCGC_FTM0},
	FTM1:  {"FTM1", chip.SIM_SCGC_FTM1},
	FTM2:  {"FTM2", chip.SIM_SCGC_FTM2},
	CRC:   {"CRC", chip.SIM_SCGC_CRC},
	Flash: {"FLASH", chip.SIM_SCGC_FLASH},
	SWD:   {"SWD", chip.SIM_SCGC_SWD},
	MSCAN: {"MSCAN", chip.SIM_SCGC_MSCAN},
	I2C0:  {"I2C0", chip.SIM_SCGC_I2C0},
	I2C1:  {"I2C1", chip.SIM_SCGC_I2C1},
	SPI0:  {"SPI0", chip.SIM_SCGC_SPI0},
	SPI1:  {"SPI1", chip.SIM_SCGC_SPI1},
	UART0: {"UART0", chip.SIM_SCGC_UART0},
	UART1: {"UART1", chip.SIM_SCGC_UART1},
	UART2: {"UART2", chip.SIM_SCGC_UART2},
	KBI0:  {"KBI0", chip.SIM_SCGC_KBI0},
	KBI1:  {"KBI1", chip.SIM_SCGC_KBI1},
	IRQ:   {"IRQ", chip.SIM_SCGC_IRQ},
	ADC:   {"ADC", chip.SIM_SCGC_ADC},
	ACMP0: {"ACMP0", chip.SIM_SCGC_ACMP0},
	ACMP1: {"ACMP1", chip.SIM_SCGC_ACMP1},
}

var byName = func() map[string]Peripheral {
	m := make(map[string]Peripheral, numPeripherals)
	for p := Peripheral(0); p < numPeripherals; p++ {
		m[gates[p].name] = p
	}
	return m
}()

func (p Peripheral) Valid() bool {
	return p < numPeripherals
}

// Mask is the single SIM_SCGC bit that gates p, or zero for an unknown tag.
func (p Peripheral) Mask() uint32 {
	if !p.Valid() {
		return 0
	}
	return 1 << gates[p].bit
}

func (p Peripheral) String() string {
	if !p.Valid() {
		return "Peripheral(?)"
	}
	return gates[p].name
}

// UARTGate returns the gate of UART instance id.
func UARTGate(id int) (Peripheral, bool) {
	switch id {
	case 0:
		return UART0, true
	case 1:
		return UART1, true
	case 2:
		return UART2, true
	}
	return 0, false
}

// Lookup finds a tag by name, ignoring case.
func Lookup(name string) (Peripheral, bool) {
	p, ok := byName[strings.ToUpper(name)]
	return p, ok
}

func AllPeripherals() []Peripheral {
	all := make([]Peripheral, numPeripherals)
	for i := range all {
		all[i] = Peripheral(i)
	}
	return all
}
