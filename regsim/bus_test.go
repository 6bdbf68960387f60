package regsim

import (
	"errors"
	"testing"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/targets"
)

func TestBusMemory(t *testing.T) {
	b := New()

	b.Store32(0x1000, 0xAABBCCDD)
	if got := b.Load8(0x1000); got != 0xDD {
		t.Errorf("low byte = 0x%02X, want 0xDD", got)
	}
	if got := b.Load8(0x1003); got != 0xAA {
		t.Errorf("high byte = 0x%02X, want 0xAA", got)
	}

	b.Store8(0x1001, 0x11)
	if got := b.Load32(0x1000); got != 0xAABB11DD {
		t.Errorf("word = 0x%08X, want 0xAABB11DD", got)
	}

	trace := b.Trace()
	if len(trace) != 5 {
		t.Fatalf("trace has %d entries, want 5", len(trace))
	}
	if trace[0].Op != OpWrite || trace[0].Width != 4 || trace[0].Value != 0xAABBCCDD {
		t.Errorf("unexpected first access: %v", trace[0])
	}
	if trace[4].Op != OpRead || trace[4].Value != 0xAABB11DD {
		t.Errorf("unexpected last access: %v", trace[4])
	}

	b.ResetTrace()
	if len(b.Trace()) != 0 {
		t.Error("trace not cleared")
	}
	if got := b.Addresses(); len(got) != 4 || got[0] != 0x1000 || got[3] != 0x1003 {
		t.Errorf("unexpected addresses: %v", got)
	}
}

func TestBusHooks(t *testing.T) {
	b := New()

	// Write-one-to-clear
	b.Poke(0x20, 1, 0x81)
	b.OnWrite(0x20, func(old, value uint32) uint32 {
		return old &^ value
	})
	b.Store8(0x20, 0x80)
	if got := b.Peek(0x20, 1); got != 0x01 {
		t.Errorf("stored 0x%02X, want 0x01", got)
	}

	reads := 0
	b.OnRead(0x20, func(value uint32) uint32 {
		reads++
		return value | 0x40
	})
	if got := b.Load8(0x20); got != 0x41 || reads != 1 {
		t.Errorf("read 0x%02X after %d hook calls", got, reads)
	}

	if got := b.Writes(0x20); len(got) != 1 || got[0] != 0x80 {
		t.Errorf("unexpected writes: %v", got)
	}
}

func TestBusMapOverlap(t *testing.T) {
	b := New()
	if err := b.Map(0x100, 0x10, Memory{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Map(0x10F, 0x4, Memory{}); err == nil {
		t.Error("expected an overlap error")
	}
	if err := b.Map(0x110, 0x4, Memory{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBusSpinLimit(t *testing.T) {
	b := New(WithSpinLimit(10))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrStalled) {
			t.Errorf("expected ErrStalled panic, got %v", r)
		}
	}()

	for b.Load8(0x40)&1 == 0 {
	}
	t.Error("poll returned without the bit ever being set")
}

func TestBusSpinLimitResetsOnWrite(t *testing.T) {
	b := New(WithSpinLimit(3), WithoutTrace())
	for i := 0; i < 10; i++ {
		b.Load8(0x40)
		b.Load8(0x40)
		b.Store8(0x41, 0)
	}
	if len(b.Trace()) != 0 {
		t.Error("trace recorded while disabled")
	}
}

func newBoard(t *testing.T) *Board {
	t.Helper()
	c, err := targets.All().FindChip("mke06z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewBoard(c, WithSpinLimit(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestICSModel(t *testing.T) {
	b := newBoard(t)
	base := uintptr(b.Device.Chip.Base.ICS)
	status := func() uint8 { return b.Load8(base + chip.ICS_S) }

	if s := status(); s&chip.ICS_S_IREFST == 0 || s&chip.ICS_S_LOCK != 0 {
		t.Fatalf("unexpected reset status 0x%02X", s)
	}

	b.Store8(base+chip.ICS_C1, chip.ICS_C1_RESET&^chip.ICS_C1_IREFS)

	var settled, locked int
	for i := 1; i <= 20; i++ {
		s := status()
		if settled == 0 && s&chip.ICS_S_IREFST == 0 {
			settled = i
		}
		if locked == 0 && s&chip.ICS_S_LOCK != 0 {
			locked = i
			if s&chip.ICS_S_IREFST != 0 {
				t.Error("locked before the reference settled")
			}
		}
	}
	if settled != b.ICS.SettleReads+1 {
		t.Errorf("settled on read %d, want %d", settled, b.ICS.SettleReads+1)
	}
	if locked != b.ICS.SettleReads+b.ICS.LockReads+1 {
		t.Errorf("locked on read %d, want %d", locked, b.ICS.SettleReads+b.ICS.LockReads+1)
	}

	b.ICS.LoseLock()
	if s := status(); s&chip.ICS_S_LOLS == 0 || s&chip.ICS_S_LOCK != 0 {
		t.Fatalf("unexpected status after loss of lock 0x%02X", s)
	}
	b.Store8(base+chip.ICS_S, chip.ICS_S_LOLS)
	if s := status(); s&chip.ICS_S_LOLS != 0 {
		t.Errorf("LOLS not cleared by writing one: 0x%02X", s)
	}
}

func TestOSCModel(t *testing.T) {
	b := newBoard(t)
	cr := uintptr(b.Device.Chip.Base.OSC) + chip.OSC_CR

	b.Store8(cr, chip.OSC_CR_OSCEN|chip.OSC_CR_OSCINIT)
	if b.Peek(cr, 1)&chip.OSC_CR_OSCINIT != 0 {
		t.Fatal("OSCINIT is not writable")
	}

	reads := 0
	for b.Load8(cr)&chip.OSC_CR_OSCINIT == 0 {
		reads++
	}
	if reads != b.OSC.InitReads {
		t.Errorf("OSCINIT after %d reads, want %d", reads, b.OSC.InitReads)
	}

	b.Store8(cr, 0)
	if b.Load8(cr)&chip.OSC_CR_OSCINIT != 0 {
		t.Error("OSCINIT survived disabling the oscillator")
	}
}

func TestUARTModel(t *testing.T) {
	b := newBoard(t)
	base := uintptr(b.Device.Chip.Base.UART[0])
	scgc := uintptr(b.Device.Chip.Base.SIM) + chip.SIM_SCGC

	t.Run("gated", func(t *testing.T) {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrUngated) {
				t.Errorf("expected ErrUngated panic, got %v", r)
			}
		}()
		b.Load8(base + chip.UART_S1)
	})

	b.Poke(scgc, 4, b.Peek(scgc, 4)|1<<chip.SIM_SCGC_UART0)

	t.Run("transmit", func(t *testing.T) {
		b.Store8(base+chip.UART_D, 'x')
		if len(b.UART[0].Transmitted()) != 0 {
			t.Error("byte captured with the transmitter disabled")
		}
		b.Store8(base+chip.UART_C2, chip.UART_C2_TE)
		b.Store8(base+chip.UART_D, 'y')
		if got := string(b.UART[0].Transmitted()); got != "y" {
			t.Errorf("transmitted %q, want %q", got, "y")
		}
	})

	t.Run("receive", func(t *testing.T) {
		if b.Load8(base+chip.UART_S1)&chip.UART_S1_RDRF != 0 {
			t.Fatal("RDRF set with nothing staged")
		}
		if err := b.UART[0].Receive('a', 'b'); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Status reads do not consume data
		for i := 0; i < 3; i++ {
			if b.Load8(base+chip.UART_S1)&chip.UART_S1_RDRF == 0 {
				t.Fatal("RDRF clear with data staged")
			}
		}
		if got := b.Load8(base + chip.UART_D); got != 'a' {
			t.Errorf("read %q, want 'a'", got)
		}
		if got := b.Load8(base + chip.UART_D); got != 'b' {
			t.Errorf("read %q, want 'b'", got)
		}
		if b.Load8(base+chip.UART_S1)&chip.UART_S1_RDRF != 0 {
			t.Error("RDRF still set after draining")
		}
	})
}

func TestGPIOModel(t *testing.T) {
	b := newBoard(t)
	base := uintptr(b.Device.Chip.Base.GPIO[0])
	pdor := base + chip.GPIO_PDOR

	b.Store32(base+chip.GPIO_PSOR, 0x0000_0101)
	b.Store32(base+chip.GPIO_PCOR, 0x0000_0001)
	b.Store32(base+chip.GPIO_PTOR, 0x0001_0000)
	if got := b.Peek(pdor, 4); got != 0x0001_0100 {
		t.Errorf("PDOR = 0x%08X, want 0x00010100", got)
	}

	// Inputs are disabled out of reset
	b.GPIO[0].Drive(0x0000_0002, true)
	if got := b.Load32(base + chip.GPIO_PDIR); got != 0 {
		t.Errorf("PDIR = 0x%08X with input disabled", got)
	}

	b.Store32(base+chip.GPIO_PIDR, 0)
	b.Store32(base+chip.GPIO_PDDR, 0x0000_0100)
	if got := b.Load32(base + chip.GPIO_PDIR); got != 0x0000_0102 {
		t.Errorf("PDIR = 0x%08X, want 0x00000102", got)
	}
}
