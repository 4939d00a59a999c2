// Package game wires the swarm simulation to its hosts: the raylib window,
// headless runs, the websocket stream and telemetry output.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/input"
	"github.com/pthm-cable/swirl/palette"
	"github.com/pthm-cable/swirl/renderer"
	"github.com/pthm-cable/swirl/stream"
	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/telemetry"
	"github.com/pthm-cable/swirl/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Autopilot      bool           // force the noise pointer on
	ServeAddr      string         // websocket listen address, empty = off
	Config         *config.Config // nil = config.Cfg()
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete application state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	sim       *systems.Simulation
	cam       *camera.Camera
	proj      *input.Projector
	autopilot *input.Autopilot

	// Websocket stream
	hub         *stream.Hub
	detachHub   func()
	cancelServe context.CancelFunc

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	lastStep      systems.StepStats

	// Rendering, nil when headless
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	tuning     *ui.TuningPanel
	controls   *ui.ControlsPanel
	overlays   *ui.OverlayRegistry

	// State
	tick           int32
	elapsed        float64
	paused         bool
	headless       bool
	stepsPerUpdate int
	useAutopilot   bool
	mouseIdle      float64 // seconds since the mouse last moved
	lastMouse      rl.Vector2
	mouseSeen      bool // lastMouse holds a real position
	windowVisible  bool // last window state forwarded to the simulation
	screenWidth    float32
	screenHeight   float32
}

// mouseYieldSec is how long the autopilot stays off after the mouse moves.
const mouseYieldSec = 3.0

// NewGameWithOptions creates a game. Graphical mode requires an open raylib
// window.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	field := systems.NewField(cfg.FieldLayout(), rng)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	simOpts := cfg.SimulationOptions()
	simOpts.Recorder = perf

	cam := newCamera(cfg)
	proj := input.NewProjector(cam, cfg.Pointer.Depth)

	g := &Game{
		cfg:            cfg,
		rng:            rng,
		rngSeed:        opts.Seed,
		sim:            systems.NewSimulation(field, simOpts),
		cam:            cam,
		proj:           proj,
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		perfCollector:  perf,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		useAutopilot:   cfg.Autopilot.Enabled || opts.Autopilot,
		mouseIdle:      mouseYieldSec,
		windowVisible:  true,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	g.autopilot = input.NewAutopilot(input.AutopilotConfig{
		Speed:   cfg.Autopilot.Speed,
		Extent:  cfg.Autopilot.Extent,
		Alpha:   cfg.Autopilot.Alpha,
		Beta:    cfg.Autopilot.Beta,
		Octaves: cfg.Autopilot.Octaves,
		Seed:    opts.Seed,
	}, proj)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	if opts.ServeAddr != "" {
		g.startStream(opts.ServeAddr)
	}

	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("simulation created",
		"seed", opts.Seed,
		"particles", field.N,
		"pair_method", cfg.Pairwise.Method,
		"headless", opts.Headless,
		"autopilot", g.useAutopilot,
	)

	return g
}

func newCamera(cfg *config.Config) *camera.Camera {
	return camera.New(
		cfg.Derived.CameraPos,
		cfg.Derived.CameraLook,
		cfg.Derived.CameraUp,
		cfg.Camera.FovY,
		cfg.Derived.Aspect,
		cfg.Camera.Near,
		cfg.Camera.Far,
	)
}

// startStream serves the render buffer over websocket until Unload.
func (g *Game) startStream(addr string) {
	g.hub = stream.NewHub(stream.Config{
		Path:         g.cfg.Stream.Path,
		SendInterval: seconds(g.cfg.Stream.SendInterval),
		WriteTimeout: seconds(g.cfg.Stream.WriteTimeout),
	}, g.sim.Buffer(), g.proj)
	g.detachHub = g.sim.Attach(g.hub)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancelServe = cancel
	go func() {
		if err := g.hub.Serve(ctx, addr); err != nil {
			slog.Error("stream server stopped", "error", err)
		}
	}()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// initRendering creates the raylib-backed renderers and panels.
func (g *Game) initRendering() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.background = renderer.NewBackgroundRenderer(w, h,
		rl.Color{R: 8, G: 10, B: 22, A: 255},
		rl.Color{R: 24, G: 18, B: 40, A: 255},
	)
	g.particles = renderer.NewParticleRenderer(palette.Default(g.cfg.Screen.SpeedScale), g.cfg.Screen.PointSize)
	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.NewControlsPanel(10, 100, 220)
	g.tuning = ui.NewTuningPanel(w-330, 10, 320, ui.ParamSliders())
	g.perfPanel = ui.NewPerfPanel(10, 100, 260)
}

// Tick returns the number of simulation ticks so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Elapsed returns the simulation clock in seconds.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

// Simulation returns the underlying simulation.
func (g *Game) Simulation() *systems.Simulation {
	return g.sim
}

// LastStep returns the stats of the most recent tick.
func (g *Game) LastStep() systems.StepStats {
	return g.lastStep
}

// Unload stops the stream, detaches inputs and closes output files.
func (g *Game) Unload() {
	if g.cancelServe != nil {
		g.cancelServe()
		g.cancelServe = nil
	}
	if g.detachHub != nil {
		g.detachHub()
		g.detachHub = nil
	}
	g.sim.Close()

	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}
