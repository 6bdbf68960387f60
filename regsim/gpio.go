package regsim

import "omibyte.io/kinetis/chip"

// GPIO models one bank. Set, clear and toggle writes act on the output
// latch; PDIR shows the latch for output pins and the externally driven
// level for input pins, and reads zero where input is disabled.
type GPIO struct {
	external uint32
}

func (m *GPIO) Reset(w Window) {
	m.external = 0
	for offset := uintptr(0); offset < chip.GPIO_SIZE; offset += 4 {
		w.Set32(offset, 0)
	}
	w.Set32(chip.GPIO_PIDR, 0xFFFFFFFF)
}

func (m *GPIO) Load(w Window, offset uintptr, width int) uint32 {
	switch offset {
	case chip.GPIO_PSOR, chip.GPIO_PCOR, chip.GPIO_PTOR:
		return 0
	case chip.GPIO_PDIR:
		ddr := w.Get32(chip.GPIO_PDDR)
		v := w.Get32(chip.GPIO_PDOR)&ddr | m.external&^ddr
		return v &^ w.Get32(chip.GPIO_PIDR)
	}
	return w.Get(offset, width)
}

func (m *GPIO) Store(w Window, offset uintptr, width int, value uint32) {
	pdor := w.Get32(chip.GPIO_PDOR)
	switch offset {
	case chip.GPIO_PSOR:
		w.Set32(chip.GPIO_PDOR, pdor|value)
	case chip.GPIO_PCOR:
		w.Set32(chip.GPIO_PDOR, pdor&^value)
	case chip.GPIO_PTOR:
		w.Set32(chip.GPIO_PDOR, pdor^value)
	case chip.GPIO_PDIR:
	default:
		w.Set(offset, width, value)
	}
}

// Drive sets the level an external circuit applies to the pins in mask.
func (m *GPIO) Drive(mask uint32, high bool) {
	if high {
		m.external |= mask
	} else {
		m.external &^= mask
	}
}
