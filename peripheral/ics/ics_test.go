package ics_test

import (
	"errors"
	"testing"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral"
	"omibyte.io/kinetis/peripheral/ics"
	"omibyte.io/kinetis/peripheral/sim"
	"omibyte.io/kinetis/regsim"
	"omibyte.io/kinetis/targets"
)

type recordingDivider struct {
	*sim.Driver
	bus   *regsim.Bus
	calls int
	at    int
	args  [3]uint8
}

func (r *recordingDivider) SetClockDivider(outdiv1, outdiv2, outdiv3 uint8) {
	r.calls++
	r.at = len(r.bus.Trace())
	r.args = [3]uint8{outdiv1, outdiv2, outdiv3}
	r.Driver.SetClockDivider(outdiv1, outdiv2, outdiv3)
}

func newBoard(t *testing.T) *regsim.Board {
	t.Helper()
	c, err := targets.All().FindChip("mke06z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := regsim.NewBoard(c, regsim.WithSpinLimit(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func profile(t *testing.T, name string) targets.Profile {
	t.Helper()
	p, err := targets.All().FindProfile(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestEngage(t *testing.T) {
	tests := []struct {
		name        string
		profile     string
		settleReads int
		lockReads   int
		wantBDIV    []uint8
		wantDivider bool
	}{
		{name: "single divider", profile: "ke06z-20mhz", settleReads: 3, lockReads: 5, wantBDIV: []uint8{0}},
		{name: "immediate settle", profile: "ke06z-20mhz", settleReads: 0, lockReads: 0, wantBDIV: []uint8{0}},
		{name: "slow lock", profile: "ke06z-20mhz", settleReads: 1, lockReads: 200, wantBDIV: []uint8{0}},
		{name: "sim divider", profile: "ke06z-40mhz", settleReads: 2, lockReads: 2, wantBDIV: []uint8{1, 0}, wantDivider: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t)
			b.ICS.SettleReads = tt.settleReads
			b.ICS.LockReads = tt.lockReads
			p := profile(t, tt.profile)
			div := &recordingDivider{Driver: sim.New(b.Device), bus: b.Bus}

			d := ics.New(b.Device)
			var states []ics.State
			d.Observe = func(s ics.State) { states = append(states, s) }

			if s := d.State(); s != ics.StateInternal {
				t.Fatalf("state before Engage = %v", s)
			}

			freq, err := d.Engage(p, div)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if freq.CoreHz != p.CoreHz || freq.BusHz != p.BusHz {
				t.Errorf("got %+v", freq)
			}

			wantStates := []ics.State{ics.StateSwitchPending, ics.StateSettled, ics.StateLockPending, ics.StateLocked}
			if len(states) != len(wantStates) {
				t.Fatalf("states %v, want %v", states, wantStates)
			}
			for i := range states {
				if states[i] != wantStates[i] {
					t.Errorf("state %d = %v, want %v", i, states[i], wantStates[i])
				}
			}
			if s := d.State(); s != ics.StateLocked {
				t.Errorf("state after Engage = %v", s)
			}

			base := uintptr(b.Device.Chip.Base.ICS)
			c1 := uint8(b.Peek(base+chip.ICS_C1, 1))
			if rdiv := (c1 >> chip.ICS_C1_RDIV_Pos) & chip.ICS_C1_RDIV_Msk; rdiv != p.RDIV {
				t.Errorf("RDIV = %d, want %d", rdiv, p.RDIV)
			}
			if c1&chip.ICS_C1_IREFS != 0 {
				t.Error("IREFS still set")
			}

			var bdivs []uint8
			for _, v := range b.Writes(base + chip.ICS_C2) {
				bdivs = append(bdivs, (uint8(v)>>chip.ICS_C2_BDIV_Pos)&chip.ICS_C2_BDIV_Msk)
			}
			if len(bdivs) != len(tt.wantBDIV) {
				t.Fatalf("BDIV writes %v, want %v", bdivs, tt.wantBDIV)
			}
			for i := range bdivs {
				if bdivs[i] != tt.wantBDIV[i] {
					t.Errorf("BDIV write %d = %d, want %d", i, bdivs[i], tt.wantBDIV[i])
				}
			}

			if (div.calls == 1) != tt.wantDivider {
				t.Fatalf("divider called %d times", div.calls)
			}
			if tt.wantDivider {
				s := p.SIMDivider
				if div.args != [3]uint8{s.OUTDIV1, s.OUTDIV2, s.OUTDIV3} {
					t.Errorf("divider args %v", div.args)
				}
				assertDividerOrder(t, b.Trace(), base, div.at)
			}
		})
	}
}

// The SIM divider must be written after lock is observed and between the
// first and final output divider writes.
func assertDividerOrder(t *testing.T, trace []regsim.Access, base uintptr, at int) {
	t.Helper()
	locked, firstC2, lastC2 := -1, -1, -1
	for i, a := range trace {
		switch {
		case a.Op == regsim.OpRead && a.Addr == base+chip.ICS_S && a.Value&chip.ICS_S_LOCK != 0 && locked < 0:
			locked = i
		case a.Op == regsim.OpWrite && a.Addr == base+chip.ICS_C2:
			if firstC2 < 0 {
				firstC2 = i
			}
			lastC2 = i
		}
	}
	if !(locked < firstC2 && firstC2 < at && at <= lastC2) {
		t.Errorf("lock at %d, BDIV writes at %d and %d, divider at %d", locked, firstC2, lastC2, at)
	}
}

func TestEngageOrdering(t *testing.T) {
	b := newBoard(t)
	b.ICS.SettleReads = 6
	b.ICS.LockReads = 4
	d := ics.New(b.Device)

	if _, err := d.Engage(profile(t, "ke06z-20mhz"), sim.New(b.Device)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := uintptr(b.Device.Chip.Base.ICS)
	c1, s, c2 := base+chip.ICS_C1, base+chip.ICS_S, base+chip.ICS_C2

	switchAt, stallAt, firstStatus, c2At := -1, -1, -1, -1
	for i, a := range b.Trace() {
		switch {
		case a.Op == regsim.OpWrite && a.Addr == c1 && a.Value&chip.ICS_C1_IREFS == 0 && switchAt < 0:
			switchAt = i
		case a.Op == regsim.OpStall && stallAt < 0:
			stallAt = i
		case a.Op == regsim.OpRead && a.Addr == s && firstStatus < 0:
			firstStatus = i
		case a.Op == regsim.OpWrite && a.Addr == c2 && c2At < 0:
			c2At = i
		}
	}
	if !(switchAt >= 0 && switchAt < stallAt && stallAt < firstStatus) {
		t.Fatalf("reference switch at %d, delay at %d, first status poll at %d", switchAt, stallAt, firstStatus)
	}

	// Between the switch and the first divider write, once the reference is
	// seen settled it must stay settled, and lock polling only happens after.
	settledSeen := false
	for _, a := range b.Trace()[firstStatus:c2At] {
		if a.Op != regsim.OpRead || a.Addr != s {
			continue
		}
		irefst := a.Value&chip.ICS_S_IREFST != 0
		if settledSeen && irefst {
			t.Fatalf("IREFST observed set after the reference settled")
		}
		if !irefst {
			settledSeen = true
		}
		if a.Value&chip.ICS_S_LOCK != 0 && irefst {
			t.Fatalf("LOCK observed before the reference settled")
		}
	}
	if !settledSeen {
		t.Error("reference never observed settled")
	}
}

func TestEngageClearsLossOfLock(t *testing.T) {
	b := newBoard(t)
	b.ICS.LoseLock()
	d := ics.New(b.Device)
	if !d.LossOfLock() {
		t.Fatal("loss of lock not latched")
	}

	if _, err := d.Engage(profile(t, "ke06z-20mhz"), sim.New(b.Device)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.LossOfLock() {
		t.Error("loss of lock still latched after Engage")
	}
}

func TestEngageInvalidProfile(t *testing.T) {
	valid := targets.Profile{Name: "ok", CrystalHz: 8_000_000, RDIV: 4, OscRange: true, SettleCycles: 1, CoreHz: 1, BusHz: 1}
	reserved := valid
	reserved.RDIV = 6

	tests := []struct {
		name    string
		profile targets.Profile
		divider bool
	}{
		{name: "rdiv out of range", profile: targets.Profile{Name: "bad", CrystalHz: 1, RDIV: 9, SettleCycles: 1, CoreHz: 1, BusHz: 1}, divider: true},
		{name: "reserved high range rdiv", profile: reserved, divider: true},
		{name: "no settle delay", profile: targets.Profile{Name: "bad", CrystalHz: 1, RDIV: 4, CoreHz: 1, BusHz: 1}, divider: true},
		{name: "no crystal", profile: targets.Profile{Name: "bad", RDIV: 4, SettleCycles: 1, CoreHz: 1, BusHz: 1}, divider: true},
		{name: "missing divider", profile: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t)
			d := ics.New(b.Device)
			var div ics.ClockDivider
			if tt.divider {
				div = sim.New(b.Device)
			}
			if _, err := d.Engage(tt.profile, div); !errors.Is(err, peripheral.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if n := len(b.Trace()); n != 0 {
				t.Errorf("%d register accesses before rejecting the profile", n)
			}
		})
	}
}

func TestEngageHangsWithoutLock(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *regsim.ICS)
	}{
		{name: "reference never settles", modify: func(m *regsim.ICS) { m.NeverSettle = true }},
		{name: "loop never locks", modify: func(m *regsim.ICS) { m.NeverLock = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t)
			tt.modify(b.ICS)
			d := ics.New(b.Device)

			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, regsim.ErrStalled) {
					t.Errorf("expected ErrStalled panic, got %v", r)
				}
				if d.State() == ics.StateLocked {
					t.Error("reported locked")
				}
			}()
			_, _ = d.Engage(profile(t, "ke06z-20mhz"), sim.New(b.Device))
			t.Error("Engage returned without lock")
		})
	}
}

// The frequencies Engage reports must follow from the dividers left in the
// ICS and SIM registers, not from the profile's own figures.
func TestEngageFrequencies(t *testing.T) {
	all := targets.All()
	got := map[string]ics.Frequencies{}

	for _, c := range all.Chips {
		for _, p := range all.ProfilesFor(c) {
			t.Run(p.Name, func(t *testing.T) {
				b, err := regsim.NewBoard(c, regsim.WithSpinLimit(1000))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				freq, err := ics.New(b.Device).Engage(p, sim.New(b.Device))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				icsBase := uintptr(c.Base.ICS)
				c1 := b.Peek(icsBase+chip.ICS_C1, 1)
				c2 := b.Peek(icsBase+chip.ICS_C2, 1)
				clkdiv := b.Peek(uintptr(c.Base.SIM)+chip.SIM_CLKDIV, 4)

				refDiv := uint64(1) << ((c1 >> chip.ICS_C1_RDIV_Pos) & chip.ICS_C1_RDIV_Msk)
				if p.OscRange {
					refDiv *= 32
				}
				out := uint64(p.CrystalHz) * 1280 / refDiv >> ((c2 >> chip.ICS_C2_BDIV_Pos) & chip.ICS_C2_BDIV_Msk)
				core := out / (uint64((clkdiv>>chip.SIM_CLKDIV_OUTDIV1_Pos)&chip.SIM_CLKDIV_OUTDIV1_Msk) + 1)
				bus := core / (uint64((clkdiv>>chip.SIM_CLKDIV_OUTDIV2_Pos)&chip.SIM_CLKDIV_OUTDIV2_Msk) + 1)

				if uint64(freq.CoreHz) != core || uint64(freq.BusHz) != bus {
					t.Errorf("reported %+v, registers give core %d bus %d", freq, core, bus)
				}
				if freq.CoreHz != p.CoreHz || freq.BusHz != p.BusHz {
					t.Errorf("reported %+v, profile declares core %d bus %d", freq, p.CoreHz, p.BusHz)
				}
				got[p.Name] = freq
			})
		}
	}

	slow, fast := got["ke06z-20mhz"], got["ke06z-40mhz"]
	if slow.CoreHz == 0 || fast.CoreHz != 2*slow.CoreHz || fast.BusHz != 2*slow.BusHz {
		t.Errorf("ke06z-40mhz %+v is not double ke06z-20mhz %+v", fast, slow)
	}
}

func TestReferenceDivider(t *testing.T) {
	tests := []struct {
		rdiv      uint8
		highRange bool
		want      uint32
	}{
		{0, false, 1},
		{7, false, 128},
		{3, true, 256},
		{4, true, 512},
		{5, true, 1024},
	}
	for _, tt := range tests {
		if got := ics.ReferenceDivider(tt.rdiv, tt.highRange); got != tt.want {
			t.Errorf("ReferenceDivider(%d, %t) = %d, want %d", tt.rdiv, tt.highRange, got, tt.want)
		}
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		name string
		c1   uint8
		s    uint8
		want ics.State
	}{
		{name: "reset", c1: chip.ICS_C1_RESET, s: chip.ICS_S_RESET, want: ics.StateInternal},
		{name: "locked internal", c1: chip.ICS_C1_IREFS, s: chip.ICS_S_IREFST | chip.ICS_S_LOCK, want: ics.StateInternal},
		{name: "switch pending", s: chip.ICS_S_IREFST, want: ics.StateSwitchPending},
		{name: "lock pending", want: ics.StateLockPending},
		{name: "locked", s: chip.ICS_S_LOCK, want: ics.StateLocked},
		{name: "switch back pending", c1: chip.ICS_C1_IREFS, want: ics.StateUnknown},
		{name: "switch back pending locked", c1: chip.ICS_C1_IREFS, s: chip.ICS_S_LOCK, want: ics.StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t)
			base := uintptr(b.Device.Chip.Base.ICS)
			b.Poke(base+chip.ICS_C1, 1, uint32(tt.c1))
			b.Poke(base+chip.ICS_S, 1, uint32(tt.s))
			if got := ics.New(b.Device).State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}
