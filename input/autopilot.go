package input

import (
	"math"

	perlin "github.com/aquilax/go-perlin"

	"github.com/pthm-cable/swirl/components"
)

// AutopilotConfig tunes the noise path.
type AutopilotConfig struct {
	Speed   float64 // noise samples per second
	Extent  float64 // NDC amplitude in [0,1]
	Alpha   float64
	Beta    float64
	Octaves int32
	Seed    int64
}

// Autopilot steers the pointer along a smooth noise path so headless runs
// exercise the pointer repulsion. It is driven by the simulation clock and
// is deterministic for a given seed.
type Autopilot struct {
	cfg  AutopilotConfig
	proj *Projector
	x, y *perlin.Perlin
}

// NewAutopilot creates an autopilot projecting through proj.
func NewAutopilot(cfg AutopilotConfig, proj *Projector) *Autopilot {
	if cfg.Octaves <= 0 {
		cfg.Octaves = 3
	}
	return &Autopilot{
		cfg:  cfg,
		proj: proj,
		x:    perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed),
		y:    perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed+1),
	}
}

// NDC returns the pointer position in NDC at elapsed seconds.
func (a *Autopilot) NDC(elapsed float64) (x, y float64) {
	t := elapsed * a.cfg.Speed
	x = clampUnit(a.x.Noise1D(t) * 2 * a.cfg.Extent)
	y = clampUnit(a.y.Noise1D(t) * 2 * a.cfg.Extent)
	return x, y
}

// Ray returns the pointer ray at elapsed seconds.
func (a *Autopilot) Ray(elapsed float64) (components.PointerState, error) {
	x, y := a.NDC(elapsed)
	return a.proj.Ray(x, y)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
