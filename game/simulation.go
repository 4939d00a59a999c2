package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/telemetry"
)

// Update runs one frame in graphical mode: input, then stepsPerUpdate ticks
// using the frame time as dt.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}

	dt := float64(rl.GetFrameTime())
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.stepOnce(dt)
	}
}

// UpdateHeadless runs stepsPerUpdate ticks at the configured fixed dt.
// The autopilot drives the pointer when enabled.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.stepOnce(g.cfg.Derived.DT)
	}
}

// stepOnce runs one simulation tick. The simulation clock only advances
// when the tick ran, so a hidden stretch leaves the swirl phase where it was.
func (g *Game) stepOnce(dt float64) {
	g.perfCollector.StartTick()

	next := g.elapsed + dt
	if g.autopilotActive() {
		g.steerAutopilot(next)
	}

	g.lastStep = g.sim.Step(systems.Frame{Elapsed: next, DT: dt})
	if g.lastStep.Ran {
		g.elapsed = next
	}
	g.collector.RecordStep(g.lastStep)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// autopilotActive reports whether the noise pointer should steer this tick.
// A moving mouse takes over for mouseYieldSec.
func (g *Game) autopilotActive() bool {
	return g.useAutopilot && g.mouseIdle >= mouseYieldSec
}

func (g *Game) steerAutopilot(elapsed float64) {
	ray, err := g.autopilot.Ray(elapsed)
	if err != nil {
		slog.Warn("autopilot pointer dropped", "error", err)
		return
	}
	g.sim.SetPointer(ray)
}

// reset sends every particle home at rest.
func (g *Game) reset() {
	g.sim.Reset()
	slog.Info("field reset", "tick", g.tick)
}
