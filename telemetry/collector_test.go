package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
	"github.com/pthm-cable/swirl/systems"
)

func TestCollectorWindowTicks(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	if c.WindowDurationTicks() != 60 {
		t.Errorf("expected 60 ticks per window, got %d", c.WindowDurationTicks())
	}
	if c.ShouldFlush(59) {
		t.Error("should not flush before window end")
	}
	if !c.ShouldFlush(60) {
		t.Error("should flush at window end")
	}

	if NewCollector(0, 0.016).WindowDurationTicks() != 1 {
		t.Error("window should be at least one tick")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5)

	c.RecordStep(systems.StepStats{Ran: true, ActivePairs: 4, PointerHits: 2})
	c.RecordStep(systems.StepStats{Ran: true, ActivePairs: 2, PointerHits: 0})
	c.RecordStep(systems.StepStats{})

	f := components.NewEmptyField(2)
	f.SetVel(0, r3.Vec{X: 3, Y: 4}) // speed 5
	f.SetVel(1, r3.Vec{})

	stats := c.Flush(2, f, components.PointerState{}, systems.DefaultParams(), 1.0)

	if stats.TicksRun != 2 || stats.TicksSkipped != 1 {
		t.Errorf("expected 2 run / 1 skipped, got %d / %d", stats.TicksRun, stats.TicksSkipped)
	}
	if stats.ActivePairsMean != 3 || stats.ActivePairsMax != 4 {
		t.Errorf("unexpected pair stats: mean=%v max=%d", stats.ActivePairsMean, stats.ActivePairsMax)
	}
	if stats.PointerHitsMean != 1 {
		t.Errorf("expected pointer hits mean 1, got %v", stats.PointerHitsMean)
	}
	if stats.SpeedMax != 5 || math.Abs(stats.SpeedMean-2.5) > 1e-12 {
		t.Errorf("unexpected speed stats: mean=%v max=%v", stats.SpeedMean, stats.SpeedMax)
	}
	if math.Abs(stats.KineticEnergy-12.5) > 1e-12 {
		t.Errorf("expected kinetic energy 12.5, got %v", stats.KineticEnergy)
	}
	if stats.SimTimeSec != 1.0 || stats.Particles != 2 {
		t.Errorf("unexpected header fields: %+v", stats)
	}

	// Counters reset after flush
	next := c.Flush(4, f, components.PointerState{}, systems.DefaultParams(), 2.0)
	if next.TicksRun != 0 || next.ActivePairsMax != 0 || next.WindowStartTick != 2 {
		t.Errorf("counters not reset: %+v", next)
	}
}
