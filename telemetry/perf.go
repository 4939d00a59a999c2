package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/swirl/systems"
)

// Phase names for the simulation step.
const (
	PhaseForce     = systems.PhaseForce
	PhasePairwise  = systems.PhasePairwise
	PhaseIntegrate = systems.PhaseIntegrate
	PhasePublish   = systems.PhasePublish
	PhaseTelemetry = "telemetry"
)

// phaseOrder lists phases in pipeline order.
var phaseOrder = []string{
	PhaseForce, PhasePairwise, PhaseIntegrate, PhasePublish, PhaseTelemetry,
}

// Phases returns the phase names in pipeline order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

// perfSample holds one tick. phases is indexed by slot.
type perfSample struct {
	tick   time.Duration
	phases []time.Duration
}

// PerfCollector times tick phases over a rolling window of ticks. Phase
// names are interned into slots on first use so recording a tick does not
// allocate.
type PerfCollector struct {
	ring   []perfSample
	next   int
	filled int

	slots map[string]int
	names []string
	cur   []time.Duration

	tickStart  time.Time
	phaseStart time.Time
	phase      int // current slot, -1 between phases

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		ring:  make([]perfSample, windowSize),
		slots: make(map[string]int),
		phase: -1,
	}
	for _, name := range phaseOrder {
		p.slot(name)
	}
	return p
}

func (p *PerfCollector) slot(name string) int {
	if i, ok := p.slots[name]; ok {
		return i
	}
	i := len(p.names)
	p.slots[name] = i
	p.names = append(p.names, name)
	p.cur = append(p.cur, 0)
	return i
}

// closePhase charges the time since the last phase boundary to the open phase.
func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur[p.phase] += now.Sub(p.phaseStart)
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.cur)
	p.phase = -1
}

// StartPhase ends the open phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = p.slot(phase)
	p.phaseStart = now
}

// EndTick closes the open phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1

	s := &p.ring[p.next]
	s.tick = now.Sub(p.tickStart)
	s.phases = append(s.phases[:0], p.cur...)

	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame measures the time between consecutive rendered frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration // mean time per tick
	PhasePct map[string]float64       // share of the mean tick, 0-100

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.names))
	for i, s := range p.ring[:p.filled] {
		total += s.tick
		if i == 0 || s.tick < out.MinTickDuration {
			out.MinTickDuration = s.tick
		}
		out.MaxTickDuration = max(out.MaxTickDuration, s.tick)
		for k, d := range s.phases {
			sums[k] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgTickDuration = total / n
	for k, sum := range sums {
		if sum == 0 {
			continue
		}
		avg := sum / n
		out.PhaseAvg[p.names[k]] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[p.names[k]] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Pipeline phases come first in
// pipeline order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	ForcePct     float64 `csv:"force_pct"`
	PairwisePct  float64 `csv:"pairwise_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	PublishPct   float64 `csv:"publish_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		ForcePct:     s.PhasePct[PhaseForce],
		PairwisePct:  s.PhasePct[PhasePairwise],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		PublishPct:   s.PhasePct[PhasePublish],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
