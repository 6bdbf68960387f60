package regsim

// Device models the side effects of a peripheral mapped into a window of the
// bus. Offsets are relative to the window base.
type Device interface {
	Load(w Window, offset uintptr, width int) uint32
	Store(w Window, offset uintptr, width int, value uint32)
}

// Resetter is implemented by devices that need their power-on register
// values written when they are mapped.
type Resetter interface {
	Reset(w Window)
}

// Window gives a device raw access to its own backing memory.
type Window struct {
	bus  *Bus
	base uintptr
}

func (w Window) Base() uintptr { return w.base }

func (w Window) Get8(offset uintptr) uint8 {
	return uint8(w.bus.Peek(w.base+offset, 1))
}

func (w Window) Set8(offset uintptr, value uint8) {
	w.bus.Poke(w.base+offset, 1, uint32(value))
}

func (w Window) Get32(offset uintptr) uint32 {
	return w.bus.Peek(w.base+offset, 4)
}

func (w Window) Set32(offset uintptr, value uint32) {
	w.bus.Poke(w.base+offset, 4, value)
}

func (w Window) Get(offset uintptr, width int) uint32 {
	return w.bus.Peek(w.base+offset, width)
}

func (w Window) Set(offset uintptr, width int, value uint32) {
	w.bus.Poke(w.base+offset, width, value)
}

// Memory is a device with no side effects.
type Memory struct{}

func (Memory) Load(w Window, offset uintptr, width int) uint32 {
	return w.Get(offset, width)
}

func (Memory) Store(w Window, offset uintptr, width int, value uint32) {
	w.Set(offset, width, value)
}
