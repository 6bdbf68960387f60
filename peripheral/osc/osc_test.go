package osc_test

import (
	"testing"

	"omibyte.io/kinetis/chip"
	"omibyte.io/kinetis/peripheral/osc"
	"omibyte.io/kinetis/regsim"
	"omibyte.io/kinetis/targets"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		profile targets.Profile
		wantCR  uint8
	}{
		{
			name:    "low range",
			profile: targets.Profile{},
			wantCR:  chip.OSC_CR_OSCEN | chip.OSC_CR_OSCOS,
		},
		{
			name:    "high range high gain",
			profile: targets.Profile{OscRange: true, OscHighGain: true},
			wantCR:  chip.OSC_CR_OSCEN | chip.OSC_CR_OSCOS | chip.OSC_CR_RANGE | chip.OSC_CR_HGO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := targets.All().FindChip("mke06z")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			board, err := regsim.NewBoard(c, regsim.WithSpinLimit(100))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			cr := uintptr(c.Base.OSC) + chip.OSC_CR

			d := osc.New(board.Device)
			if d.Ready() {
				t.Fatal("oscillator ready before Init")
			}
			d.Init(tt.profile)

			if !d.Ready() {
				t.Error("oscillator not ready after Init")
			}
			if got := board.Writes(cr); len(got) != 1 || uint8(got[0]) != tt.wantCR {
				t.Errorf("CR writes %v, want [0x%02X]", got, tt.wantCR)
			}

			d.Disable()
			if d.Ready() {
				t.Error("oscillator still ready after Disable")
			}
		})
	}
}
