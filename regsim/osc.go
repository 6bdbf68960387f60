package regsim

import "omibyte.io/kinetis/chip"

// OSC models crystal start-up. OSCINIT reads clear for InitReads control
// register reads after OSCEN is set.
type OSC struct {
	InitReads int
	NeverInit bool

	starting bool
	reads    int
}

func (m *OSC) Reset(w Window) {
	m.starting = false
	m.reads = 0
	w.Set8(chip.OSC_CR, 0)
}

func (m *OSC) Load(w Window, offset uintptr, width int) uint32 {
	if offset == chip.OSC_CR && m.starting {
		m.reads++
		if !m.NeverInit && m.reads > m.InitReads {
			w.Set8(chip.OSC_CR, w.Get8(chip.OSC_CR)|chip.OSC_CR_OSCINIT)
			m.starting = false
		}
	}
	return w.Get(offset, width)
}

func (m *OSC) Store(w Window, offset uintptr, width int, value uint32) {
	if offset != chip.OSC_CR {
		w.Set(offset, width, value)
		return
	}

	old := w.Get8(chip.OSC_CR)
	v := uint8(value)&^chip.OSC_CR_OSCINIT | old&chip.OSC_CR_OSCINIT
	switch {
	case v&chip.OSC_CR_OSCEN == 0:
		m.starting = false
		v &^= chip.OSC_CR_OSCINIT
	case old&chip.OSC_CR_OSCEN == 0:
		m.starting = true
		m.reads = 0
	}
	w.Set8(chip.OSC_CR, v)
}
