// Package regsim is a simulated register file for exercising drivers on the
// host. It implements volatile.Bus over a sparse byte-addressed memory,
// routes accesses inside mapped windows to device models, records every
// access in order and caps runaway polling loops.
package regsim

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/kinetis/volatile"
)

// DefaultSpinLimit is the number of back-to-back reads of one address the
// bus tolerates before it decides the caller is stuck.
const DefaultSpinLimit = 1 << 16

var ErrStalled = errors.New("register poll exceeded spin limit")

type Op uint8

const (
	OpRead Op = iota
	OpWrite
	OpStall
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "R"
	case OpWrite:
		return "W"
	case OpStall:
		return "NOP"
	}
	return "?"
}

// Access is one entry of the bus trace. Value is the value observed by a
// read, the value issued by a write, or the cycle count of a stall.
type Access struct {
	Op    Op
	Addr  uintptr
	Width int
	Value uint32
}

func (a Access) String() string {
	if a.Op == OpStall {
		return fmt.Sprintf("%-3s %d", a.Op, a.Value)
	}
	return fmt.Sprintf("%-3s 0x%08X/%d = 0x%0*X", a.Op, a.Addr, a.Width*8, a.Width*2, a.Value)
}

type region struct {
	base uintptr
	size uintptr
	dev  Device
}

type Bus struct {
	mem     map[uintptr]byte
	regions []region
	onRead  map[uintptr]func(value uint32) uint32
	onWrite map[uintptr]func(old, value uint32) uint32

	trace   []Access
	tracing bool

	spinLimit int
	spinAddr  uintptr
	spinCount int
}

type Option func(b *Bus)

// WithSpinLimit overrides DefaultSpinLimit. Zero disables the cap.
func WithSpinLimit(n int) Option {
	return func(b *Bus) {
		b.spinLimit = n
	}
}

// WithoutTrace turns off access recording.
func WithoutTrace() Option {
	return func(b *Bus) {
		b.tracing = false
	}
}

func New(options ...Option) *Bus {
	b := &Bus{
		mem:       map[uintptr]byte{},
		onRead:    map[uintptr]func(uint32) uint32{},
		onWrite:   map[uintptr]func(uint32, uint32) uint32{},
		tracing:   true,
		spinLimit: DefaultSpinLimit,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

var _ volatile.Bus = (*Bus)(nil)

// Map routes every access in [base, base+size) to dev. Windows must not
// overlap.
func (b *Bus) Map(base, size uintptr, dev Device) error {
	for _, r := range b.regions {
		if base < r.base+r.size && r.base < base+size {
			return fmt.Errorf("window 0x%08X+0x%X overlaps 0x%08X+0x%X", base, size, r.base, r.size)
		}
	}
	b.regions = append(b.regions, region{base: base, size: size, dev: dev})
	if r, ok := dev.(Resetter); ok {
		r.Reset(Window{bus: b, base: base})
	}
	return nil
}

// OnRead installs a hook that rewrites the value observed by reads of addr.
// Hooks take precedence over mapped devices.
func (b *Bus) OnRead(addr uintptr, fn func(value uint32) uint32) {
	b.onRead[addr] = fn
}

// OnWrite installs a hook that decides the value stored by writes to addr.
func (b *Bus) OnWrite(addr uintptr, fn func(old, value uint32) uint32) {
	b.onWrite[addr] = fn
}

func (b *Bus) Load8(addr uintptr) uint8 {
	return uint8(b.load(addr, 1))
}

func (b *Bus) Store8(addr uintptr, value uint8) {
	b.store(addr, 1, uint32(value))
}

func (b *Bus) Load32(addr uintptr) uint32 {
	return b.load(addr, 4)
}

func (b *Bus) Store32(addr uintptr, value uint32) {
	b.store(addr, 4, value)
}

func (b *Bus) Stall(cycles int) {
	b.spinCount = 0
	b.record(Access{Op: OpStall, Value: uint32(cycles)})
}

func (b *Bus) load(addr uintptr, width int) uint32 {
	b.checkSpin(addr)

	var value uint32
	if r, ok := b.find(addr); ok {
		value = r.dev.Load(Window{bus: b, base: r.base}, addr-r.base, width)
	} else {
		value = b.Peek(addr, width)
	}
	if fn, ok := b.onRead[addr]; ok {
		value = fn(value)
	}

	b.record(Access{Op: OpRead, Addr: addr, Width: width, Value: value})
	return value
}

func (b *Bus) store(addr uintptr, width int, value uint32) {
	b.spinCount = 0
	b.record(Access{Op: OpWrite, Addr: addr, Width: width, Value: value})

	if fn, ok := b.onWrite[addr]; ok {
		value = fn(b.Peek(addr, width), value)
	}
	if r, ok := b.find(addr); ok {
		r.dev.Store(Window{bus: b, base: r.base}, addr-r.base, width, value)
		return
	}
	b.Poke(addr, width, value)
}

func (b *Bus) checkSpin(addr uintptr) {
	if addr != b.spinAddr {
		b.spinAddr = addr
		b.spinCount = 0
	}
	b.spinCount++
	if b.spinLimit > 0 && b.spinCount > b.spinLimit {
		panic(fmt.Errorf("%w: 0x%08X read %d times", ErrStalled, addr, b.spinCount))
	}
}

func (b *Bus) find(addr uintptr) (region, bool) {
	for _, r := range b.regions {
		if addr >= r.base && addr < r.base+r.size {
			return r, true
		}
	}
	return region{}, false
}

func (b *Bus) record(a Access) {
	if b.tracing {
		b.trace = append(b.trace, a)
	}
}

// Peek returns the stored little-endian value at addr without tracing,
// hooks or device side effects.
func (b *Bus) Peek(addr uintptr, width int) uint32 {
	var value uint32
	for i := 0; i < width; i++ {
		value |= uint32(b.mem[addr+uintptr(i)]) << (8 * i)
	}
	return value
}

// Poke stores value at addr without tracing, hooks or device side effects.
func (b *Bus) Poke(addr uintptr, width int, value uint32) {
	for i := 0; i < width; i++ {
		b.mem[addr+uintptr(i)] = byte(value >> (8 * i))
	}
}

// Trace returns a copy of the recorded accesses in issue order.
func (b *Bus) Trace() []Access {
	return slices.Clone(b.trace)
}

// Writes returns only the writes in the trace that hit addr.
func (b *Bus) Writes(addr uintptr) []uint32 {
	var values []uint32
	for _, a := range b.trace {
		if a.Op == OpWrite && a.Addr == addr {
			values = append(values, a.Value)
		}
	}
	return values
}

func (b *Bus) ResetTrace() {
	b.trace = b.trace[:0]
	b.spinCount = 0
}

// Snapshot returns every stored byte keyed by address, for dumps.
func (b *Bus) Snapshot() map[uintptr]byte {
	return maps.Clone(b.mem)
}

// Addresses lists every address that has ever been stored to, ascending.
func (b *Bus) Addresses() []uintptr {
	addrs := maps.Keys(b.mem)
	slices.Sort(addrs)
	return addrs
}
