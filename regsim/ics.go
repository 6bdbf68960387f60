package regsim

import "omibyte.io/kinetis/chip"

// ICS models the clock generator's reference switch and loop lock. Once
// IREFS is cleared, IREFST reads set for SettleReads status reads and LOCK
// reads clear for a further LockReads reads.
type ICS struct {
	SettleReads int
	LockReads   int
	NeverSettle bool
	NeverLock   bool

	win       Window
	switching bool
	reads     int
}

func (m *ICS) Reset(w Window) {
	m.win = w
	m.switching = false
	m.reads = 0
	w.Set8(chip.ICS_C1, chip.ICS_C1_RESET)
	w.Set8(chip.ICS_C2, chip.ICS_C2_RESET)
	w.Set8(chip.ICS_C3, 0)
	w.Set8(chip.ICS_C4, 0)
	w.Set8(chip.ICS_S, chip.ICS_S_RESET)
}

func (m *ICS) Load(w Window, offset uintptr, width int) uint32 {
	if offset == chip.ICS_S && m.switching {
		m.reads++
		s := w.Get8(chip.ICS_S)
		if !m.NeverSettle && m.reads > m.SettleReads {
			s &^= chip.ICS_S_IREFST
			if !m.NeverLock && m.reads > m.SettleReads+m.LockReads {
				s |= chip.ICS_S_LOCK
				m.switching = false
			}
		}
		w.Set8(chip.ICS_S, s)
	}
	return w.Get(offset, width)
}

func (m *ICS) Store(w Window, offset uintptr, width int, value uint32) {
	switch offset {
	case chip.ICS_C1:
		old := w.Get8(chip.ICS_C1)
		v := uint8(value)
		w.Set8(chip.ICS_C1, v)

		s := w.Get8(chip.ICS_S)
		if old&chip.ICS_C1_IREFS != 0 && v&chip.ICS_C1_IREFS == 0 {
			m.switching = true
			m.reads = 0
			s &^= chip.ICS_S_LOCK
		} else if v&chip.ICS_C1_IREFS != 0 {
			m.switching = false
			s |= chip.ICS_S_IREFST
		}
		clks := (v >> chip.ICS_C1_CLKS_Pos) & chip.ICS_C1_CLKS_Msk
		s = s&^(chip.ICS_S_CLKST_Msk<<chip.ICS_S_CLKST_Pos) | clks<<chip.ICS_S_CLKST_Pos
		w.Set8(chip.ICS_S, s)
	case chip.ICS_S:
		// Only LOLS is writable, and writing one clears it
		s := w.Get8(chip.ICS_S)
		if uint8(value)&chip.ICS_S_LOLS != 0 {
			s &^= chip.ICS_S_LOLS
		}
		w.Set8(chip.ICS_S, s)
	default:
		w.Set(offset, width, value)
	}
}

// LoseLock drops LOCK and latches the loss-of-lock sticky flag.
func (m *ICS) LoseLock() {
	s := m.win.Get8(chip.ICS_S)
	m.win.Set8(chip.ICS_S, s&^chip.ICS_S_LOCK|chip.ICS_S_LOLS)
}
