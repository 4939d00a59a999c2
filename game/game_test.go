package game

import (
	"os"
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.Count = 40
	cfg.Telemetry.StatsWindow = 0.5
	return cfg
}

func TestHeadlessDeterministic(t *testing.T) {
	run := func() []float64 {
		g := NewGameWithOptions(Options{Seed: 3, Headless: true, Autopilot: true, Config: testConfig(t)})
		defer g.Unload()
		for i := 0; i < 60; i++ {
			g.UpdateHeadless()
		}
		return append([]float64(nil), g.Simulation().Field().Position...)
	}

	a, b := run(), run()
	for k := range a {
		if a[k] != b[k] {
			t.Fatalf("position[%d] diverged: %v vs %v", k, a[k], b[k])
		}
	}
}

func TestHeadlessStatsCallback(t *testing.T) {
	cfg := testConfig(t)
	var windows []telemetry.WindowStats

	g := NewGameWithOptions(Options{
		Seed:           1,
		Headless:       true,
		StepsPerUpdate: 5,
		Config:         cfg,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	defer g.Unload()

	// 0.5s windows at 60 ticks/s flush every 30 ticks
	for g.Tick() < 95 {
		g.UpdateHeadless()
	}

	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for _, w := range windows {
		if w.Particles != cfg.Field.Count {
			t.Errorf("expected %d particles, got %d", cfg.Field.Count, w.Particles)
		}
		if w.TicksRun != 30 {
			t.Errorf("expected 30 ticks per window, got %d", w.TicksRun)
		}
	}
}

func TestAutopilotMovesPointer(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 2, Headless: true, Autopilot: true, Config: testConfig(t)})
	defer g.Unload()

	start := g.Simulation().Pointer()
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	if g.Simulation().Pointer() == start {
		t.Error("autopilot should have moved the pointer")
	}
}

func TestHiddenTicksCounted(t *testing.T) {
	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Seed:     4,
		Headless: true,
		Config:   testConfig(t),
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	defer g.Unload()

	g.Simulation().SetVisible(false)
	before := append([]float64(nil), g.Simulation().Field().Position...)
	for g.Tick() < 30 {
		g.UpdateHeadless()
	}

	if len(windows) != 1 || windows[0].TicksSkipped != 30 || windows[0].TicksRun != 0 {
		t.Fatalf("expected one window of skipped ticks, got %+v", windows)
	}
	for k, v := range g.Simulation().Field().Position {
		if v != before[k] {
			t.Fatalf("position[%d] changed while hidden", k)
		}
	}
}

func TestOutputDirWritesCSV(t *testing.T) {
	dir := t.TempDir()
	g := NewGameWithOptions(Options{Seed: 5, Headless: true, OutputDir: dir, Config: testConfig(t)})
	for g.Tick() < 31 {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestHiddenClockDoesNotAdvance(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 6, Headless: true, Config: testConfig(t)})
	defer g.Unload()

	g.UpdateHeadless()
	at := g.Elapsed()
	if at == 0 {
		t.Fatal("clock should advance on a visible tick")
	}

	g.Simulation().SetVisible(false)
	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}
	if g.Elapsed() != at {
		t.Errorf("clock moved while hidden: %v -> %v", at, g.Elapsed())
	}

	g.Simulation().SetVisible(true)
	g.UpdateHeadless()
	if want := at + g.cfg.Derived.DT; g.Elapsed() != want {
		t.Errorf("clock should resume from %v, got %v", want, g.Elapsed())
	}
}

func TestWindowVisibilityForwardsTransitionsOnly(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 7, Headless: true, Config: testConfig(t)})
	defer g.Unload()
	sim := g.Simulation()

	// Another source hides the field while the window stays visible
	sim.SetVisible(false)
	g.trackWindowVisibility(true)
	if sim.Visible() {
		t.Fatal("an unchanged window state should not override other sources")
	}

	g.trackWindowVisibility(false)
	if sim.Visible() {
		t.Error("minimizing the window should hide the field")
	}
	g.trackWindowVisibility(true)
	if !sim.Visible() {
		t.Error("restoring the window should show the field")
	}
}

func TestPointerFollowsCameraMoves(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 8, Headless: true, Config: testConfig(t)})
	defer g.Unload()
	sim := g.Simulation()

	// Camera motion before the mouse was ever seen leaves the pointer alone
	before := sim.Pointer()
	g.trackPointer(rl.Vector2{}, 0.016, true)
	if sim.Pointer() != before {
		t.Fatal("pointer should not aim at a mouse position never reported")
	}

	mouse := rl.Vector2{X: g.screenWidth / 3, Y: g.screenHeight / 2}
	g.trackPointer(mouse, 0.016, false)
	aimed := sim.Pointer()

	var pos r3.Vec
	g.proj.WithCamera(func(cam *camera.Camera) {
		cam.Orbit(0.4, 0.1)
		pos = cam.Position
	})

	g.trackPointer(mouse, 0.016, false)
	if sim.Pointer() != aimed {
		t.Fatal("a resting mouse without camera motion should keep the ray")
	}

	g.trackPointer(mouse, 0.016, true)
	got := sim.Pointer()
	if got.Origin != pos {
		t.Errorf("ray origin %v, want new camera position %v", got.Origin, pos)
	}
	if got == aimed {
		t.Error("ray should be rebuilt after the camera moved")
	}
}
