// Package gpio configures pin direction and pull, and drives and samples
// pin levels through the GPIO banks and the PORT pull-enable registers.
package gpio

import (
	"fmt"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/peripheral/sim"
)

type Mode uint8

const (
	Input Mode = iota
	InputPullUp
	InputPullDown
	Output
	// Peripheral hands the pin to a peripheral function.
	Peripheral
)

func (m Mode) String() string {
	switch m {
	case Input:
		return "input"
	case InputPullUp:
		return "input pull-up"
	case InputPullDown:
		return "input pull-down"
	case Output:
		return "output"
	case Peripheral:
		return "peripheral"
	}
	return "Mode(?)"
}

type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

type Driver struct {
	banks []*chip.GPIO
	port  *chip.PORT
	sim   *sim.Driver

	peripheralMode bool
}

func New(dev *chip.Device) *Driver {
	d := &Driver{
		port:           dev.PORT(),
		sim:            sim.New(dev),
		peripheralMode: dev.Chip.Features.PeripheralPinMode,
	}
	for bank := 0; bank < dev.Chip.Banks(); bank++ {
		regs, _ := dev.GPIO(bank)
		d.banks = append(d.banks, regs)
	}
	return d
}

func (d *Driver) bank(pin Pin) (*chip.GPIO, error) {
	if pin.Bank() >= len(d.banks) {
		return nil, fmt.Errorf("%w: %v not bonded on this chip", peripheral.ErrInvalidPin, pin)
	}
	return d.banks[pin.Bank()], nil
}

// SetDirection configures pin. The hardware holds the only copy of the
// configuration.
func (d *Driver) SetDirection(pin Pin, mode Mode) error {
	regs, err := d.bank(pin)
	if err != nil {
		return err
	}
	mask := pin.Mask()

	switch mode {
	case Input, InputPullUp, InputPullDown:
		regs.PDDR.ClearBits(mask)
		regs.PIDR.ClearBits(mask)
		// There are no pull-downs, so pull-down means pull-up off
		switch mode {
		case InputPullUp:
			d.port.PUE[pin.Bank()].SetBits(mask)
		case InputPullDown:
			d.port.PUE[pin.Bank()].ClearBits(mask)
		}
	case Output:
		regs.PDDR.SetBits(mask)
	case Peripheral:
		if !d.peripheralMode {
			return fmt.Errorf("%w: %v peripheral mode", peripheral.ErrNotImplemented, pin)
		}
		regs.PDDR.ClearBits(mask)
		regs.PIDR.SetBits(mask)
	default:
		return fmt.Errorf("%w: mode %d", peripheral.ErrInvalidConfig, mode)
	}
	return nil
}

func (d *Driver) Set(pin Pin, level Level) error {
	regs, err := d.bank(pin)
	if err != nil {
		return err
	}
	if level {
		regs.PSOR.Set(pin.Mask())
	} else {
		regs.PCOR.Set(pin.Mask())
	}
	return nil
}

func (d *Driver) High(pin Pin) error { return d.Set(pin, High) }

func (d *Driver) Low(pin Pin) error { return d.Set(pin, Low) }

func (d *Driver) Toggle(pin Pin) error {
	regs, err := d.bank(pin)
	if err != nil {
		return err
	}
	regs.PTOR.Set(pin.Mask())
	return nil
}

func (d *Driver) Read(pin Pin) (Level, error) {
	regs, err := d.bank(pin)
	if err != nil {
		return Low, err
	}
	return Level(regs.PDIR.HasBits(pin.Mask())), nil
}

// EnableUART routes a UART to its default pins. Only UART0 has a route,
// on PTB0 (RX) and PTB1 (TX).
func (d *Driver) EnableUART(id int) error {
	switch id {
	case 0:
		d.sim.RouteUART0(false)
		return nil
	case 1, 2:
		return fmt.Errorf("%w: UART%d pin route", peripheral.ErrNotImplemented, id)
	}
	return fmt.Errorf("%w: UART%d", peripheral.ErrInvalidInstance, id)
}
