// Package peripheral holds what every Kinetis E driver shares: sentinel
// errors and the interrupt vector seam.
package peripheral

// Vector is a named interrupt entry point. Until a handler is installed,
// invoking it does nothing.
//
// A vector holds one handler for the whole program. When two driver
// instances for the same peripheral exist, as with simulated boards, the
// most recently installed one receives the interrupt and only its owner
// can remove it.
//
// Handlers run in interrupt context. Any handler that touches registers a
// driver also modifies in thread context must guard both sides with a
// critical section, since register Modify is not atomic.
type Vector struct {
	Name    string
	IRQ     int
	handler func()
	owner   any
}

func NewVector(name string, irq int) *Vector {
	return &Vector{Name: name, IRQ: irq}
}

// Set installs h, replacing any previous handler. A nil h restores the
// no-op.
func (v *Vector) Set(h func()) {
	v.handler = h
	v.owner = nil
}

// Install sets h on behalf of owner, replacing any previous handler.
func (v *Vector) Install(owner any, h func()) {
	v.handler = h
	v.owner = owner
}

// Uninstall restores the no-op if owner still holds the vector and reports
// whether it did.
func (v *Vector) Uninstall(owner any) bool {
	if v.handler == nil || v.owner != owner {
		return false
	}
	v.handler = nil
	v.owner = nil
	return true
}

func (v *Vector) Installed() bool {
	return v.handler != nil
}

// Invoke is called by the entry point the hardware jumps to.
func (v *Vector) Invoke() {
	if h := v.handler; h != nil {
		h()
	}
}
