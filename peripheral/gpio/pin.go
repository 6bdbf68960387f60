package gpio

import (
	"fmt"
	"strings"

	"omibyte.io/kinetis/peripheral"
)

// Port is one 8-bit logical port. Four consecutive ports share a 32-bit
// GPIO bank.
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
	PortI

	numPorts
)

func (p Port) String() string {
	if p >= numPorts {
		return "Port(?)"
	}
	return string(rune('A' + p))
}

// Pin is a port and a pin index 0..7 packed as port*8+index.
type Pin uint8

const (
	PTA0 Pin = iota
	PTA1
	PTA2
	PTA3
	PTA4
	PTA5
	PTA6
	PTA7
	PTB0
	PTB1
	PTB2
	PTB3
	PTB4
	PTB5
	PTB6
	PTB7
	PTC0
	PTC1
	PTC2
	PTC3
	PTC4
	PTC5
	PTC6
	PTC7
	PTD0
	PTD1
	PTD2
	PTD3
	PTD4
	PTD5
	PTD6
	PTD7
	PTE0
	PTE1
	PTE2
	PTE3
	PTE4
	PTE5
	PTE6
	PTE7
	PTF0
	PTF1
	PTF2
	PTF3
	PTF4
	PTF5
	PTF6
	PTF7
	PTG0
	PTG1
	PTG2
	PTG3
	PTG4
	PTG5
	PTG6
	PTG7
	PTH0
	PTH1
	PTH2
	PTH3
	PTH4
	PTH5
	PTH6
	PTH7
	PTI0
	PTI1
	PTI2
	PTI3
	PTI4
	PTI5
	PTI6
	PTI7
)

func NewPin(port Port, index uint8) (Pin, error) {
	if port >= numPorts || index > 7 {
		return 0, fmt.Errorf("%w: port %d pin %d", peripheral.ErrInvalidPin, port, index)
	}
	return Pin(uint8(port)*8 + index), nil
}

func (p Pin) Port() Port { return Port(p >> 3) }

func (p Pin) Index() uint8 { return uint8(p) & 7 }

// Bank is the GPIO bank that holds the pin.
func (p Pin) Bank() int { return int(p.Port()) / 4 }

// Mask is the pin's bit within its bank registers.
func (p Pin) Mask() uint32 {
	return 1 << (8*(uint(p.Port())%4) + uint(p.Index()))
}

func (p Pin) String() string {
	return fmt.Sprintf("PT%s%d", p.Port(), p.Index())
}

// ParsePin accepts names such as "PTC5" or "c5".
func ParsePin(s string) (Pin, error) {
	name := strings.TrimPrefix(strings.ToUpper(s), "PT")
	if len(name) != 2 || name[0] < 'A' || name[0] > 'I' || name[1] < '0' || name[1] > '7' {
		return 0, fmt.Errorf("%w: %q", peripheral.ErrInvalidPin, s)
	}
	return NewPin(Port(name[0]-'A'), name[1]-'0')
}
