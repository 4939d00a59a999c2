package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/renderer"
	"github.com/pthm-cable/swirl/telemetry"
	"github.com/pthm-cable/swirl/ui"
)

// Draw renders the scene and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.background.Draw()

	var cam3d rl.Camera3D
	g.proj.WithCamera(func(cam *camera.Camera) {
		cam3d = renderer.Camera3D(cam)
	})

	buf := g.sim.Buffer()
	buf.TakeDirty()

	rl.BeginMode3D(cam3d)
	g.drawOverlays()
	g.particles.Draw(buf.Positions(), g.sim.Field())
	rl.EndMode3D()

	g.drawUI()

	rl.EndDrawing()
}

// drawOverlays renders the enabled scene overlays.
func (g *Game) drawOverlays() {
	ptr := g.sim.Pointer()
	params := g.sim.Params()

	if g.overlays.IsEnabled(ui.OverlayPointerRay) {
		g.particles.DrawPointer(ptr, g.cfg.Camera.Far)
	}
	if g.overlays.IsEnabled(ui.OverlayReach) {
		g.particles.DrawReach(g.sim.Field(), ptr, params.PointerThreshold)
	}
	if g.overlays.IsEnabled(ui.OverlayHomes) {
		g.particles.DrawHomes(g.sim.Field())
	}
	if g.overlays.IsEnabled(ui.OverlaySwirlTargets) {
		g.particles.DrawSwirlTargets(g.sim.Field(), ptr, params, g.elapsed)
	}
}

// drawUI renders the HUD and any open panels.
func (g *Game) drawUI() {
	hubClients := 0
	if g.hub != nil {
		hubClients = g.hub.Clients()
	}

	g.hud.Draw(ui.HUDData{
		Title:          "Swirl",
		Particles:      g.sim.Field().N,
		Tick:           g.tick,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Hidden:         !g.sim.Visible(),
		Autopilot:      g.autopilotActive(),
		ActivePairs:    g.lastStep.ActivePairs,
		PointerHits:    g.lastStep.PointerHits,
		PairMethod:     g.cfg.Pairwise.Method,
		StreamClients:  hubClients,
	})

	y := int32(100)
	if g.overlays.IsEnabled(ui.OverlayHelp) {
		y = g.controls.Draw(g.overlays) + 10
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.SetPosition(10, y)
		g.perfPanel.Draw(ui.PerfPanelData{
			TicksPerSecond: stats.TicksPerSecond,
			AvgTickMicros:  float64(stats.AvgTickDuration) / float64(time.Microsecond),
			Phases:         telemetry.Phases(),
			PhasePct:       stats.PhasePct,
		})
	}

	if g.overlays.IsEnabled(ui.OverlayTuning) {
		p := g.sim.Params()
		if changed, reset := g.tuning.Draw(&p); changed || reset {
			g.applyTuning(p, reset)
		}
	}

	g.hud.DrawControls(int32(g.screenHeight),
		"[Space] pause  [</>] speed  [Bksp] reset  [A] autopilot  [T] tuning  [P] perf  [O] overlays  [RMB] orbit")
}
