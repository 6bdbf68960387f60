package volatile

// Register8 is a read-write 8-bit register.
type Register8 struct {
	bus  Bus
	addr uintptr
}

func NewRegister8(bus Bus, addr uintptr) Register8 {
	return Register8{bus: bus, addr: addr}
}

func (r Register8) Address() uintptr { return r.addr }

func (r Register8) Get() uint8 {
	return r.bus.Load8(r.addr)
}

func (r Register8) Set(value uint8) {
	r.bus.Store8(r.addr, value)
}

// Modify performs exactly one read followed by exactly one write of fn's
// result. It is not atomic with respect to interrupts.
func (r Register8) Modify(fn func(uint8) uint8) {
	r.bus.Store8(r.addr, fn(r.bus.Load8(r.addr)))
}

func (r Register8) SetBits(mask uint8) {
	r.Modify(func(v uint8) uint8 { return v | mask })
}

func (r Register8) ClearBits(mask uint8) {
	r.Modify(func(v uint8) uint8 { return v &^ mask })
}

func (r Register8) HasBits(mask uint8) bool {
	return r.Get()&mask != 0
}

// ReplaceBits writes value into the field described by mask at shift,
// leaving every other bit unchanged.
func (r Register8) ReplaceBits(value, mask uint8, shift uint8) {
	r.Modify(func(v uint8) uint8 {
		return v&^(mask<<shift) | (value&mask)<<shift
	})
}

// RO8 is a read-only 8-bit register.
type RO8 struct {
	bus  Bus
	addr uintptr
}

func NewRO8(bus Bus, addr uintptr) RO8 {
	return RO8{bus: bus, addr: addr}
}

func (r RO8) Address() uintptr { return r.addr }

func (r RO8) Get() uint8 {
	return r.bus.Load8(r.addr)
}

func (r RO8) HasBits(mask uint8) bool {
	return r.Get()&mask != 0
}

// Register32 is a read-write 32-bit register.
type Register32 struct {
	bus  Bus
	addr uintptr
}

func NewRegister32(bus Bus, addr uintptr) Register32 {
	return Register32{bus: bus, addr: addr}
}

func (r Register32) Address() uintptr { return r.addr }

func (r Register32) Get() uint32 {
	return r.bus.Load32(r.addr)
}

func (r Register32) Set(value uint32) {
	r.bus.Store32(r.addr, value)
}

// Modify performs exactly one read followed by exactly one write of fn's
// result. It is not atomic with respect to interrupts.
func (r Register32) Modify(fn func(uint32) uint32) {
	r.bus.Store32(r.addr, fn(r.bus.Load32(r.addr)))
}

func (r Register32) SetBits(mask uint32) {
	r.Modify(func(v uint32) uint32 { return v | mask })
}

func (r Register32) ClearBits(mask uint32) {
	r.Modify(func(v uint32) uint32 { return v &^ mask })
}

func (r Register32) HasBits(mask uint32) bool {
	return r.Get()&mask != 0
}

func (r Register32) ReplaceBits(value, mask uint32, shift uint8) {
	r.Modify(func(v uint32) uint32 {
		return v&^(mask<<shift) | (value&mask)<<shift
	})
}

// RO32 is a read-only 32-bit register.
type RO32 struct {
	bus  Bus
	addr uintptr
}

func NewRO32(bus Bus, addr uintptr) RO32 {
	return RO32{bus: bus, addr: addr}
}

func (r RO32) Address() uintptr { return r.addr }

func (r RO32) Get() uint32 {
	return r.bus.Load32(r.addr)
}

func (r RO32) HasBits(mask uint32) bool {
	return r.Get()&mask != 0
}

// WO32 is a write-only 32-bit register. Reads of the underlying address are
// undefined on hardware, so the handle offers none.
type WO32 struct {
	bus  Bus
	addr uintptr
}

func NewWO32(bus Bus, addr uintptr) WO32 {
	return WO32{bus: bus, addr: addr}
}

func (r WO32) Address() uintptr { return r.addr }

func (r WO32) Set(value uint32) {
	r.bus.Store32(r.addr, value)
}
