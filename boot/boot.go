package boot

import (
	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral/gpio"
	"omibyte.io/kinetis/peripheral/ics"
	"omibyte.io/kinetis/peripheral/osc"
	"omibyte.io/kinetis/peripheral/sim"
	"omibyte.io/kinetis/peripheral/uart"
	"omibyte.io/kinetis/targets"
)

// Step names used by the standard plans
const (
	StepOscillator = "osc"
	StepClock      = "ics"
	StepPins       = "pins"
	StepConsole    = "console"
)

// NoConsole disables the console UART in Config.
const NoConsole = -1

type Config struct {
	Profile targets.Profile

	// Console is the UART instance to open once clocks are running, or
	// NoConsole.
	Console  int
	BaudRate uint32
	Newline  uart.NewlineMode
}

// System is what a completed bring-up leaves behind.
type System struct {
	Frequencies ics.Frequencies
	SIM         *sim.Driver
	GPIO        *gpio.Driver
	Console     *uart.UART
	Steps       []string
}

// ClockPlan adds the oscillator and ICS steps for profile to p. The
// frequencies are stored in freq once the ICS step has run.
func ClockPlan(p *Plan, dev *chip.Device, profile targets.Profile, freq *ics.Frequencies) error {
	if err := p.Add(StepOscillator, func() error {
		osc.New(dev).Init(profile)
		return nil
	}); err != nil {
		return err
	}
	return p.Add(StepClock, func() error {
		f, err := ics.New(dev).Engage(profile, sim.New(dev))
		if err != nil {
			return err
		}
		*freq = f
		return nil
	}, StepOscillator)
}

// Clocks runs oscillator and ICS bring-up for profile. It blocks until the
// loop locks.
func Clocks(dev *chip.Device, profile targets.Profile) (ics.Frequencies, error) {
	var freq ics.Frequencies
	p := NewPlan()
	if err := ClockPlan(p, dev, profile, &freq); err != nil {
		return ics.Frequencies{}, err
	}
	if err := p.Run(); err != nil {
		return ics.Frequencies{}, err
	}
	return freq, nil
}

// Start brings up clocks and, if configured, the console UART on its pins.
func Start(dev *chip.Device, config Config) (*System, error) {
	sys := &System{
		SIM:  sim.New(dev),
		GPIO: gpio.New(dev),
	}

	p := NewPlan()
	if err := ClockPlan(p, dev, config.Profile, &sys.Frequencies); err != nil {
		return nil, err
	}

	if config.Console != NoConsole {
		if err := p.Add(StepPins, func() error {
			return sys.GPIO.EnableUART(config.Console)
		}); err != nil {
			return nil, err
		}
		if err := p.Add(StepConsole, func() error {
			u, err := uart.New(dev, config.Console, uart.Config{
				BaudRate: config.BaudRate,
				Newline:  config.Newline,
				ClockHz:  sys.Frequencies.BusHz,
			})
			if err != nil {
				return err
			}
			sys.Console = u
			return nil
		}, StepClock, StepPins); err != nil {
			return nil, err
		}
	}

	steps, err := p.Order()
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		sys.Steps = append(sys.Steps, step.Name)
	}

	if err := p.Run(); err != nil {
		return nil, err
	}
	return sys, nil
}
