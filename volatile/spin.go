package volatile

// SpinUntil polls cond until it reports true. There is no timeout: if the
// hardware never reaches the condition the caller hangs, which is the only
// observable failure of a clock or oscillator that will not settle.
func SpinUntil(cond func() bool) {
	for !cond() {
	}
}

// SpinWhile polls cond until it reports false. It blocks forever under the
// same terms as SpinUntil.
func SpinWhile(cond func() bool) {
	for cond() {
	}
}

// Delay stalls for the given number of cycles on bus.
func Delay(bus Bus, cycles int) {
	if cycles > 0 {
		bus.Stall(cycles)
	}
}
