package chip

import (
	"fmt"

	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/targets"
	"omibyte.io/kinetis/volatile"
)

// Device binds a bus to a chip profile and hands out register blocks at the
// profile's base addresses.
type Device struct {
	Bus  volatile.Bus
	Chip targets.Chip
}

func NewDevice(bus volatile.Bus, chip targets.Chip) *Device {
	return &Device{Bus: bus, Chip: chip}
}

func (d *Device) UARTBase(id int) (uintptr, error) {
	if id < 0 || id >= len(d.Chip.Base.UART) {
		return 0, fmt.Errorf("%w: UART%d on %s", peripheral.ErrInvalidInstance, id, d.Chip.Name)
	}
	return uintptr(d.Chip.Base.UART[id]), nil
}

func (d *Device) UART(id int) (*UART, error) {
	base, err := d.UARTBase(id)
	if err != nil {
		return nil, err
	}
	return NewUART(d.Bus, base), nil
}

func (d *Device) GPIOBase(bank int) (uintptr, error) {
	if bank < 0 || bank >= len(d.Chip.Base.GPIO) {
		return 0, fmt.Errorf("%w: GPIO bank %d on %s", peripheral.ErrInvalidInstance, bank, d.Chip.Name)
	}
	return uintptr(d.Chip.Base.GPIO[bank]), nil
}

func (d *Device) GPIO(bank int) (*GPIO, error) {
	base, err := d.GPIOBase(bank)
	if err != nil {
		return nil, err
	}
	return NewGPIO(d.Bus, base), nil
}

func (d *Device) PORT() *PORT {
	p := d.Chip.Port
	return NewPORT(d.Bus, uintptr(d.Chip.Base.PORT), p.IOFLT, p.PUE, p.HDRVE)
}

func (d *Device) SIM() *SIM {
	return NewSIM(d.Bus, uintptr(d.Chip.Base.SIM))
}

func (d *Device) ICS() *ICS {
	return NewICS(d.Bus, uintptr(d.Chip.Base.ICS))
}

func (d *Device) OSC() *OSC {
	return NewOSC(d.Bus, uintptr(d.Chip.Base.OSC))
}
