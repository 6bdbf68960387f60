// Package volatile provides typed access to memory-mapped peripheral
// registers through an injectable backing store.
//
// Drivers never touch memory directly. Every register handle carries a Bus
// and an absolute address, so the same driver code runs against the real
// device on target and against a simulated register file on the host.
package volatile

// Bus is the memory-mapped read/write contract behind every register handle.
// Each call is a single access of the given width that the compiler or
// runtime must not elide, merge or reorder with respect to other calls.
type Bus interface {
	Load8(addr uintptr) uint8
	Store8(addr uintptr, value uint8)
	Load32(addr uintptr) uint32
	Store32(addr uintptr, value uint32)

	// Stall burns the given number of processor cycles without touching any
	// register.
	Stall(cycles int)
}
