//go:build tinygo && cortexm

package volatile

import (
	"device/arm"
	rv "runtime/volatile"
	"unsafe"
)

// MMIO is the bus of the running device. Every access is a volatile load or
// store of the exact width requested.
var MMIO Bus = mmio{}

type mmio struct{}

func (mmio) Load8(addr uintptr) uint8 {
	return rv.LoadUint8((*uint8)(unsafe.Pointer(addr)))
}

func (mmio) Store8(addr uintptr, value uint8) {
	rv.StoreUint8((*uint8)(unsafe.Pointer(addr)), value)
}

func (mmio) Load32(addr uintptr) uint32 {
	return rv.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (mmio) Store32(addr uintptr, value uint32) {
	rv.StoreUint32((*uint32)(unsafe.Pointer(addr)), value)
}

func (mmio) Stall(cycles int) {
	for i := 0; i < cycles; i++ {
		arm.Asm("nop")
	}
}
