package chip

import (
	"fmt"
	"sync"

	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/volatile"
)

type claimKey struct {
	bus  volatile.Bus
	addr uintptr
}

var (
	claims   = map[claimKey]string{}
	claimsMu sync.Mutex
)

// Claim is exclusive ownership of one peripheral instance on one bus.
type Claim struct {
	key      claimKey
	released bool
}

// Acquire takes ownership of the instance whose registers start at base. A
// second Acquire of the same instance fails with peripheral.ErrInstanceTaken
// until the first claim is released.
func Acquire(bus volatile.Bus, base uintptr, owner string) (*Claim, error) {
	key := claimKey{bus: bus, addr: base}

	claimsMu.Lock()
	defer claimsMu.Unlock()

	if holder, ok := claims[key]; ok {
		return nil, fmt.Errorf("%w: 0x%08X held by %s", peripheral.ErrInstanceTaken, base, holder)
	}
	claims[key] = owner
	return &Claim{key: key}, nil
}

// Release gives the instance back. Releasing twice is a no-op.
func (c *Claim) Release() {
	if c == nil || c.released {
		return
	}

	claimsMu.Lock()
	delete(claims, c.key)
	claimsMu.Unlock()

	c.released = true
}

// Claimed reports whether the instance at base is currently owned.
func Claimed(bus volatile.Bus, base uintptr) bool {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	_, ok := claims[claimKey{bus: bus, addr: base}]
	return ok
}
