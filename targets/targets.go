package targets

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets

var (
	ErrChipNotFound    = errors.New("chip not found")
	ErrProfileNotFound = errors.New("frequency profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// All returns the embedded chip and frequency profile table.
func All() Targets {
	return targets
}

type Targets struct {
	Chips    []Chip    `yaml:"chips"`
	Profiles []Profile `yaml:"profiles"`
}

type Chip struct {
	Name           string   `yaml:"name"`
	Series         string   `yaml:"series"`
	Aliases        []string `yaml:"aliases"`
	Provisional    bool     `yaml:"provisional"`
	DefaultProfile string   `yaml:"defaultProfile"`
	Features       Features `yaml:"features"`
	Base           Bases    `yaml:"base"`
	Port           Port     `yaml:"port"`
}

// Features marks hardware paths that are ported on a chip. A path that is
// not ported fails at the point of use.
type Features struct {
	PeripheralPinMode bool `yaml:"peripheralPinMode"`
	UARTTransmit      bool `yaml:"uartTransmit"`
}

type Bases struct {
	UART []uint32 `yaml:"uart"`
	GPIO []uint32 `yaml:"gpio"`
	PORT uint32   `yaml:"port"`
	SIM  uint32   `yaml:"sim"`
	ICS  uint32   `yaml:"ics"`
	OSC  uint32   `yaml:"osc"`
}

// Port holds register offsets within the PORT block. PUE has one entry per
// GPIO bank.
type Port struct {
	IOFLT []uint32 `yaml:"ioflt"`
	PUE   []uint32 `yaml:"pue"`
	HDRVE []uint32 `yaml:"hdrve"`
}

// Profile is the set of constants that drives the clock bring-up sequence.
type Profile struct {
	Name         string      `yaml:"name"`
	Chips        []string    `yaml:"chips"`
	Description  string      `yaml:"description"`
	CrystalHz    uint32      `yaml:"crystalHz"`
	RDIV         uint8       `yaml:"rdiv"`
	BDIV         uint8       `yaml:"bdiv"`
	OscRange     bool        `yaml:"oscRange"`
	OscHighGain  bool        `yaml:"oscHighGain"`
	SettleCycles int         `yaml:"settleCycles"`
	SIMDivider   *SIMDivider `yaml:"simDivider"`
	CoreHz       uint32      `yaml:"coreHz"`
	BusHz        uint32      `yaml:"busHz"`
}

// SIMDivider is the optional step that programs the core/bus ratio once the
// loop has locked and then sets the final ICS output divider.
type SIMDivider struct {
	OUTDIV1   uint8 `yaml:"outdiv1"`
	OUTDIV2   uint8 `yaml:"outdiv2"`
	OUTDIV3   uint8 `yaml:"outdiv3"`
	FinalBDIV uint8 `yaml:"finalBdiv"`
}

func (c Chip) Matches(name string) bool {
	name = strings.ToLower(name)
	return c.Name == name || slices.Contains(c.Aliases, name)
}

// Banks returns the number of GPIO banks on the chip.
func (c Chip) Banks() int {
	return len(c.Base.GPIO)
}

func (c Chip) Validate() error {
	var errs []error
	if len(c.Base.UART) == 0 {
		errs = append(errs, fmt.Errorf("chip %s: no UART instances", c.Name))
	}
	if len(c.Base.GPIO) == 0 {
		errs = append(errs, fmt.Errorf("chip %s: no GPIO banks", c.Name))
	}
	if len(c.Port.PUE) != len(c.Base.GPIO) {
		errs = append(errs, fmt.Errorf("chip %s: %d pull-enable registers for %d GPIO banks", c.Name, len(c.Port.PUE), len(c.Base.GPIO)))
	}
	for _, block := range []struct {
		name string
		base uint32
	}{
		{"port", c.Base.PORT},
		{"sim", c.Base.SIM},
		{"ics", c.Base.ICS},
		{"osc", c.Base.OSC},
	} {
		if block.base == 0 {
			errs = append(errs, fmt.Errorf("chip %s: missing %s base address", c.Name, block.name))
		}
	}
	return errors.Join(errs...)
}

func (p Profile) Validate() error {
	var errs []error
	if p.RDIV > 7 {
		errs = append(errs, fmt.Errorf("rdiv %d out of range 0..7", p.RDIV))
	} else if p.OscRange && p.RDIV > 5 {
		errs = append(errs, fmt.Errorf("rdiv %d is reserved in the high oscillator range", p.RDIV))
	}
	if p.BDIV > 7 {
		errs = append(errs, fmt.Errorf("bdiv %d out of range 0..7", p.BDIV))
	}
	if p.SettleCycles < 1 {
		errs = append(errs, errors.New("settleCycles must be at least 1"))
	}
	if p.CrystalHz == 0 {
		errs = append(errs, errors.New("crystalHz must be set"))
	}
	if p.CoreHz == 0 || p.BusHz == 0 {
		errs = append(errs, errors.New("coreHz and busHz must be set"))
	}
	if d := p.SIMDivider; d != nil {
		if d.OUTDIV1 > 3 {
			errs = append(errs, fmt.Errorf("outdiv1 %d out of range 0..3", d.OUTDIV1))
		}
		if d.OUTDIV2 > 1 || d.OUTDIV3 > 1 {
			errs = append(errs, errors.New("outdiv2 and outdiv3 must be 0 or 1"))
		}
		if d.FinalBDIV > 7 {
			errs = append(errs, fmt.Errorf("finalBdiv %d out of range 0..7", d.FinalBDIV))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidProfile, p.Name, errors.Join(errs...))
	}
	return nil
}

func (t Targets) FindChip(name string) (Chip, error) {
	for _, chip := range t.Chips {
		if chip.Matches(name) {
			return chip, nil
		}
	}
	return Chip{}, fmt.Errorf("%w: %s", ErrChipNotFound, name)
}

func (t Targets) FindProfile(name string) (Profile, error) {
	for _, profile := range t.Profiles {
		if profile.Name == strings.ToLower(name) {
			return profile, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ProfilesFor lists the profiles that apply to chip, in table order.
func (t Targets) ProfilesFor(chip Chip) []Profile {
	var profiles []Profile
	for _, profile := range t.Profiles {
		if slices.Contains(profile.Chips, chip.Name) {
			profiles = append(profiles, profile)
		}
	}
	return profiles
}

// DefaultProfile returns the profile named by the chip.
func (t Targets) DefaultProfile(chip Chip) (Profile, error) {
	return t.FindProfile(chip.DefaultProfile)
}

func (t Targets) Validate() error {
	var errs []error
	for _, chip := range t.Chips {
		if err := chip.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, err := t.DefaultProfile(chip); err != nil {
			errs = append(errs, fmt.Errorf("chip %s: %w", chip.Name, err))
		}
	}
	for _, profile := range t.Profiles {
		if err := profile.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load decodes and validates a table with the same schema as the embedded
// one.
func Load(r io.Reader) (Targets, error) {
	var t Targets
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return Targets{}, err
	}
	if err := t.Validate(); err != nil {
		return Targets{}, err
	}
	return t, nil
}

func init() {
	if err := yaml.Unmarshal(rawTargets, &targets); err != nil {
		panic(err)
	}
	if err := targets.Validate(); err != nil {
		panic(err)
	}
}
