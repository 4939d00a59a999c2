package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
	"github.com/pthm-cable/swirl/telemetry"
)

// Fitness component weights.
const (
	weightTracking  = 1.0 // mean distance to swirl target
	weightOverlap   = 0.5 // active pairs per particle
	weightStability = 0.3 // kinetic energy coefficient of variation

	warmupWindows = 2 // skip first N windows while the field settles
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastParts   fitnessParts // components from most recent Evaluate call
}

// fitnessParts breaks a fitness value into its weighted terms.
type fitnessParts struct {
	Tracking  float64
	Overlap   float64
	Stability float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 2.0,
		bestFitness: math.Inf(1),
	}
}

// LastParts returns the fitness components from the most recent evaluation.
func (fe *FitnessEvaluator) LastParts() fitnessParts {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastParts
}

// Evaluate computes fitness for a parameter vector (lower = better),
// averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]fitnessParts, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx] = computeParts(windows)
		}(i, seed)
	}
	wg.Wait()

	var avg fitnessParts
	for _, r := range results {
		avg.Tracking += r.Tracking
		avg.Overlap += r.Overlap
		avg.Stability += r.Stability
	}
	n := float64(len(results))
	avg.Tracking /= n
	avg.Overlap /= n
	avg.Stability /= n

	fitness := avg.total()

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastParts = avg
	fe.mu.Unlock()

	return fitness
}

func (p fitnessParts) total() float64 {
	f := weightTracking*p.Tracking + weightOverlap*p.Overlap + weightStability*p.Stability
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.MaxFloat64
	}
	return f
}

// runSimulation executes a single headless run with the autopilot steering
// the pointer and returns the collected windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		Autopilot:      true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig creates a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeParts scores a run from its windows. Runs too short to score get
// +Inf tracking so they never win.
func computeParts(windows []telemetry.WindowStats) fitnessParts {
	if len(windows) <= warmupWindows {
		return fitnessParts{Tracking: math.Inf(1)}
	}
	valid := windows[warmupWindows:]

	var parts fitnessParts
	energy := make([]float64, 0, len(valid))
	for _, w := range valid {
		parts.Tracking += w.TargetError
		if w.Particles > 0 {
			parts.Overlap += w.ActivePairsMean / float64(w.Particles)
		}
		energy = append(energy, w.KineticEnergy)
	}
	n := float64(len(valid))
	parts.Tracking /= n
	parts.Overlap /= n
	parts.Stability = cv(energy)

	return parts
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
