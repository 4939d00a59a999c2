package telemetry

import (
	"github.com/pthm-cable/swirl/components"
	"github.com/pthm-cable/swirl/systems"
)

// Collector accumulates step results within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	ticksRun     int
	ticksSkipped int
	pairSum      int
	pairMax      int
	hitSum       int

	speeds []float64 // scratch reused across flushes
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / dt)
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep records the outcome of one simulation step.
func (c *Collector) RecordStep(s systems.StepStats) {
	if !s.Ran {
		c.ticksSkipped++
		return
	}
	c.ticksRun++
	c.pairSum += s.ActivePairs
	c.hitSum += s.PointerHits
	if s.ActivePairs > c.pairMax {
		c.pairMax = s.ActivePairs
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The field is sampled for the speed distribution; ptr, params and elapsed
// give the swirl targets for the tracking error.
func (c *Collector) Flush(
	currentTick int32,
	f *components.Field,
	ptr components.PointerState,
	params systems.Params,
	elapsed float64,
) WindowStats {
	c.speeds = systems.SpeedsInto(c.speeds[:0], f)
	mean, std, p50, p90, maxV := ComputeSpeedStats(c.speeds)

	var pairMean, hitMean float64
	if c.ticksRun > 0 {
		pairMean = float64(c.pairSum) / float64(c.ticksRun)
		hitMean = float64(c.hitSum) / float64(c.ticksRun)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles:    f.N,
		TicksRun:     c.ticksRun,
		TicksSkipped: c.ticksSkipped,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP50:  p50,
		SpeedP90:  p90,
		SpeedMax:  maxV,

		KineticEnergy: systems.KineticEnergy(f),
		TargetError:   systems.MeanTargetError(f, ptr, params, elapsed),

		ActivePairsMean: pairMean,
		ActivePairsMax:  c.pairMax,
		PointerHitsMean: hitMean,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.ticksRun = 0
	c.ticksSkipped = 0
	c.pairSum = 0
	c.pairMax = 0
	c.hitSum = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
