package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/systems"
)

func TestParamSlidersRoundTrip(t *testing.T) {
	p := systems.DefaultParams()
	seen := make(map[string]bool)

	for _, s := range ParamSliders() {
		if seen[s.ID] {
			t.Errorf("duplicate slider id %q", s.ID)
		}
		seen[s.ID] = true

		if s.Min >= s.Max {
			t.Errorf("%s: empty range [%v, %v]", s.ID, s.Min, s.Max)
		}
		def := s.Get(&p)
		if def < s.Min || def > s.Max {
			t.Errorf("%s: default %v outside slider range [%v, %v]", s.ID, def, s.Min, s.Max)
		}

		mid := (s.Min + s.Max) / 2
		s.Set(&p, mid)
		if got := s.Get(&p); got != mid {
			t.Errorf("%s: set %v, got %v", s.ID, mid, got)
		}
	}

	if len(seen) != 7 {
		t.Errorf("expected a slider per parameter, got %d", len(seen))
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.Toggle(OverlayHomes)
	if !reg.IsEnabled(OverlayHomes) {
		t.Fatal("homes should be enabled")
	}
	reg.Toggle(OverlaySwirlTargets)
	if reg.IsEnabled(OverlayHomes) {
		t.Error("enabling swirl targets should disable homes")
	}
	if !reg.IsEnabled(OverlaySwirlTargets) {
		t.Error("swirl targets should be enabled")
	}
}

func TestOverlayKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, on, ok := reg.HandleKeyPress(rl.KeyT)
	if !ok || id != OverlayTuning || !on {
		t.Errorf("expected tuning toggled on, got %q %v %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}

	if n := len(reg.Group(GroupScene)); n != 4 {
		t.Errorf("expected 4 scene overlays, got %d", n)
	}
	if n := len(reg.Group(GroupPanels)); n != 3 {
		t.Errorf("expected 3 panel overlays, got %d", n)
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay should stay off")
	}
}

func TestHUDStatus(t *testing.T) {
	cases := []struct {
		d    HUDData
		want string
	}{
		{HUDData{}, "Running"},
		{HUDData{Autopilot: true}, "Autopilot"},
		{HUDData{Hidden: true, Autopilot: true}, "HIDDEN"},
		{HUDData{Paused: true, Hidden: true}, "PAUSED"},
	}
	for _, tc := range cases {
		if got := tc.d.status(); got != tc.want {
			t.Errorf("%+v: status %q, want %q", tc.d, got, tc.want)
		}
	}
}
