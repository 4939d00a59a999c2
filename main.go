// Command swirl runs the particle swarm in a raylib window or headless.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	autopilot := flag.Bool("autopilot", false, "Steer the pointer along a noise path")
	serve := flag.String("serve", "", "Serve positions over websocket on this address (e.g. :8080)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Build game options
	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Autopilot:      *autopilot,
		ServeAddr:      *serve,
	}

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runHeadless(ctx, opts, *maxTicks)
		return
	}
	runWindow(cfg, opts, *maxTicks)
}

// runHeadless steps the simulation on the CPU until maxTicks or until ctx
// is cancelled. Output files are closed either way.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for ctx.Err() == nil {
		g.UpdateHeadless()
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
}

// runWindow opens the raylib window and runs the frame loop until it is
// closed.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Swirl")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			return
		}
	}
}
