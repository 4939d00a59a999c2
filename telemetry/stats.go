package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles    int `csv:"particles"`
	TicksRun     int `csv:"ticks_run"`
	TicksSkipped int `csv:"ticks_skipped"` // hidden ticks

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	KineticEnergy float64 `csv:"kinetic_energy"`
	TargetError   float64 `csv:"target_error"` // mean distance to swirl target

	// Interactions averaged over ticks that ran
	ActivePairsMean float64 `csv:"active_pairs_mean"`
	ActivePairsMax  int     `csv:"active_pairs_max"`
	PointerHitsMean float64 `csv:"pointer_hits_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, standard deviation, median, p90 and
// max of the given speeds. values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p50, p90, maxV float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0 // single sample
	}

	sort.Float64s(values)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)
	maxV = values[n-1]

	return mean, std, p50, p90, maxV
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("ticks_run", s.TicksRun),
		slog.Int("ticks_skipped", s.TicksSkipped),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("target_error", s.TargetError),
		slog.Float64("active_pairs_mean", s.ActivePairsMean),
		slog.Int("active_pairs_max", s.ActivePairsMax),
		slog.Float64("pointer_hits_mean", s.PointerHitsMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ticks_run", s.TicksRun,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"kinetic_energy", s.KineticEnergy,
		"target_error", s.TargetError,
		"active_pairs_mean", s.ActivePairsMean,
		"pointer_hits_mean", s.PointerHitsMean,
	)
}
