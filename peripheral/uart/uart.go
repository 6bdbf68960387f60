// Package uart is a polled driver for the Kinetis E UARTs.
//
// Transmit busy-waits for the data register to empty and never fails on a
// ported chip. Receive never waits: with nothing ready it returns
// peripheral.ErrNoData, and the caller polls.
package uart

import (
	"fmt"
	"strings"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/peripheral/sim"
	"omibyte.io/kinetis/volatile"
)

// DefaultClockHz is the bus clock assumed when Config.ClockHz is zero.
const DefaultClockHz = 20_000_000

type NewlineMode uint8

const (
	// Binary sends every byte unchanged.
	Binary NewlineMode = iota
	// SwapLFtoCRLF sends a carriage return before every line feed.
	SwapLFtoCRLF
)

func (m NewlineMode) String() string {
	switch m {
	case Binary:
		return "binary"
	case SwapLFtoCRLF:
		return "crlf"
	}
	return "NewlineMode(?)"
}

// ParseNewline accepts the names printed by NewlineMode.String.
func ParseNewline(s string) (NewlineMode, error) {
	switch strings.ToLower(s) {
	case "binary", "":
		return Binary, nil
	case "crlf":
		return SwapLFtoCRLF, nil
	}
	return Binary, fmt.Errorf("%w: newline mode %q", peripheral.ErrInvalidConfig, s)
}

// Vectors are the per-instance interrupt entry points. Nothing is
// interrupt driven yet, so an open UART installs a handler that does
// nothing. The table is shared by every Device; Close only removes the
// handler its own UART installed.
var Vectors = [...]*peripheral.Vector{
	peripheral.NewVector("UART0", 12),
	peripheral.NewVector("UART1", 13),
	peripheral.NewVector("UART2", 14),
}

type Config struct {
	BaudRate uint32
	Newline  NewlineMode
	// ClockHz is the bus clock feeding the baud generator.
	ClockHz uint32
}

type UART struct {
	id       int
	regs     *chip.UART
	sim      *sim.Driver
	gate     sim.Peripheral
	claim    *chip.Claim
	newline  NewlineMode
	transmit bool
}

var _ peripheral.Serial = (*UART)(nil)

// Divisor is the 13-bit baud generator setting for baud from clockHz,
// clockHz/(16*baud) rounded half up.
func Divisor(clockHz, baud uint32) (uint16, error) {
	if baud == 0 {
		return 0, fmt.Errorf("%w: zero baud rate", peripheral.ErrInvalidConfig)
	}
	div := (uint64(clockHz) + 8*uint64(baud)) / (16 * uint64(baud))
	if div == 0 || div > chip.UART_SBR_MAX {
		return 0, fmt.Errorf("%w: %d baud from %d Hz needs divisor %d", peripheral.ErrInvalidConfig, baud, clockHz, div)
	}
	return uint16(div), nil
}

// New takes ownership of UART id, gates its clock on and programs it for
// config. The system clock must already be running at config.ClockHz.
func New(dev *chip.Device, id int, config Config) (*UART, error) {
	base, err := dev.UARTBase(id)
	if err != nil {
		return nil, err
	}
	gate, ok := sim.UARTGate(id)
	if !ok || id >= len(Vectors) {
		return nil, fmt.Errorf("%w: UART%d", peripheral.ErrInvalidInstance, id)
	}
	if config.ClockHz == 0 {
		config.ClockHz = DefaultClockHz
	}
	div, err := Divisor(config.ClockHz, config.BaudRate)
	if err != nil {
		return nil, err
	}

	claim, err := chip.Acquire(dev.Bus, base, fmt.Sprintf("UART%d", id))
	if err != nil {
		return nil, err
	}

	u := &UART{
		id:       id,
		regs:     chip.NewUART(dev.Bus, base),
		sim:      sim.New(dev),
		gate:     gate,
		claim:    claim,
		newline:  config.Newline,
		transmit: dev.Chip.Features.UARTTransmit,
	}

	// Gate the clock on before touching any UART register
	u.sim.PowerEnable(gate)

	// Disable while configuring
	u.regs.C2.ClearBits(chip.UART_C2_TE | chip.UART_C2_RE)

	// 8N1
	u.regs.C1.Set(0)

	u.regs.BDH.Set(uint8(div>>8) & chip.UART_BDH_SBR_Msk)
	u.regs.BDL.Set(uint8(div))

	u.regs.C2.SetBits(chip.UART_C2_TE | chip.UART_C2_RE)

	Vectors[id].Install(u, u.HandleInterrupt)
	return u, nil
}

func (u *UART) ID() int { return u.id }

// WriteByte blocks until the transmit data register is empty and then
// sends b.
func (u *UART) WriteByte(b byte) error {
	if !u.transmit {
		return fmt.Errorf("%w: UART%d transmit", peripheral.ErrNotImplemented, u.id)
	}
	volatile.SpinUntil(func() bool {
		return u.regs.S1.HasBits(chip.UART_S1_TDRE)
	})
	u.regs.D.Set(b)
	return nil
}

// ReadByte returns the received byte if one is ready, or
// peripheral.ErrNoData without waiting. Reading the status register leaves
// the data ready flag alone; reading the data register clears it.
func (u *UART) ReadByte() (byte, error) {
	if !u.regs.S1.HasBits(chip.UART_S1_RDRF) {
		return 0, peripheral.ErrNoData
	}
	return u.regs.D.Get(), nil
}

// Read drains whatever has arrived, up to len(p). It returns
// peripheral.ErrNoData when nothing has.
func (u *UART) Read(p []byte) (n int, err error) {
	for n < len(p) {
		b, err := u.ReadByte()
		if err != nil {
			if n == 0 {
				return 0, err
			}
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Write sends p, translating newlines per the configured mode. n counts
// bytes of p, not bytes on the wire.
func (u *UART) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err = u.put(b); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (u *UART) WriteString(s string) (n int, err error) {
	for i := 0; i < len(s); i++ {
		if err = u.put(s[i]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (u *UART) put(b byte) error {
	if b == '\n' && u.newline == SwapLFtoCRLF {
		if err := u.WriteByte('\r'); err != nil {
			return err
		}
	}
	return u.WriteByte(b)
}

// Flush blocks until the last byte has left the shift register.
func (u *UART) Flush() {
	volatile.SpinUntil(func() bool {
		return u.regs.S1.HasBits(chip.UART_S1_TC)
	})
}

// HandleInterrupt services the instance's interrupt vector. It does
// nothing until interrupt driven I/O exists; any handler added here must
// guard C2 and D against the polled paths.
func (u *UART) HandleInterrupt() {}

// Close disables the UART, gates its clock off and releases the instance.
func (u *UART) Close() error {
	if u.claim == nil {
		return nil
	}
	u.regs.C2.ClearBits(chip.UART_C2_TE | chip.UART_C2_RE | chip.UART_C2_TIE | chip.UART_C2_RIE)
	u.sim.PowerDisable(u.gate)
	Vectors[u.id].Uninstall(u)
	u.claim.Release()
	u.claim = nil
	return nil
}
