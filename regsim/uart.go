package regsim

import (
	"errors"
	"fmt"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/internal/ringbuffer"
)

var ErrUngated = errors.New("peripheral accessed with its clock gated off")

// UART models the status and data registers of one UART. Transmitted bytes
// are captured while TE is set; received bytes are staged with Receive and
// surface one at a time through D, with RDRF set while any remain.
type UART struct {
	// TxBusyReads is the number of S1 reads after each transmit that report
	// the data register still full.
	TxBusyReads int

	// Gate, when set, reports whether the instance is clocked. Any access
	// while it reports false panics with ErrUngated.
	Gate func() bool

	tx   []byte
	rx   *ringbuffer.RingBuffer
	busy int
}

func NewUART() *UART {
	return &UART{rx: ringbuffer.New(64)}
}

func (m *UART) Reset(w Window) {
	for offset := uintptr(0); offset < chip.UART_SIZE; offset++ {
		w.Set8(offset, 0)
	}
	w.Set8(chip.UART_S1, chip.UART_S1_TDRE|chip.UART_S1_TC)
	m.tx = nil
	m.busy = 0
	m.rx.Reset()
}

func (m *UART) checkGate(w Window) {
	if m.Gate != nil && !m.Gate() {
		panic(fmt.Errorf("%w: UART at 0x%08X", ErrUngated, w.Base()))
	}
}

func (m *UART) Load(w Window, offset uintptr, width int) uint32 {
	m.checkGate(w)

	switch offset {
	case chip.UART_S1:
		var s uint8
		if m.busy > 0 {
			m.busy--
		} else {
			s |= chip.UART_S1_TDRE | chip.UART_S1_TC
		}
		if m.rx.Len() > 0 {
			s |= chip.UART_S1_RDRF
		}
		w.Set8(chip.UART_S1, s)
	case chip.UART_D:
		if b, err := m.rx.ReadByte(); err == nil {
			w.Set8(chip.UART_D, b)
		}
	}
	return w.Get(offset, width)
}

func (m *UART) Store(w Window, offset uintptr, width int, value uint32) {
	m.checkGate(w)

	switch offset {
	case chip.UART_S1:
	case chip.UART_D:
		if w.Get8(chip.UART_C2)&chip.UART_C2_TE != 0 {
			m.tx = append(m.tx, uint8(value))
			m.busy = m.TxBusyReads
		}
	default:
		w.Set(offset, width, value)
	}
}

// Receive stages bytes as if they arrived on the RX line.
func (m *UART) Receive(p ...byte) error {
	_, err := m.rx.Write(p)
	return err
}

// Transmitted returns every byte written to D while the transmitter was
// enabled.
func (m *UART) Transmitted() []byte {
	return append([]byte(nil), m.tx...)
}

func (m *UART) ClearTransmitted() {
	m.tx = nil
}
