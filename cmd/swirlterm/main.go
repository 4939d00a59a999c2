// Command swirlterm runs the swarm in a terminal. The mouse steers the
// pointer; losing terminal focus freezes the simulation.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/input"
	"github.com/pthm-cable/swirl/palette"
	"github.com/pthm-cable/swirl/stream"
	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/term"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "", "Write JSON logs to this file (terminal output is the screen)")
	serve := flag.String("serve", "", "Also serve positions over websocket on this address")
	flag.Parse()

	// The screen owns stdout, so logs go to a file or nowhere
	logOut, err := openLog(*logPath)
	if err != nil {
		slog.Error("failed to open log", "error", err)
		os.Exit(1)
	}
	defer logOut.Close()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to create screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to init screen", "error", err)
		os.Exit(1)
	}
	defer screen.Fini()

	field := systems.NewField(cfg.FieldLayout(), rand.New(rand.NewSource(rngSeed)))
	sim := systems.NewSimulation(field, cfg.SimulationOptions())
	defer sim.Close()

	cam := camera.New(cfg.Derived.CameraPos, cfg.Derived.CameraLook, cfg.Derived.CameraUp,
		cfg.Camera.FovY, cfg.Derived.Aspect, cfg.Camera.Near, cfg.Camera.Far)
	proj := input.NewProjector(cam, cfg.Pointer.Depth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *serve != "" {
		hub := stream.NewHub(stream.Config{
			Path:         cfg.Stream.Path,
			SendInterval: time.Duration(cfg.Stream.SendInterval * float64(time.Second)),
			WriteTimeout: time.Duration(cfg.Stream.WriteTimeout * float64(time.Second)),
		}, sim.Buffer(), proj)
		sim.Attach(hub)
		go func() {
			if err := hub.Serve(ctx, *serve); err != nil {
				slog.Error("stream server stopped", "error", err)
			}
		}()
	}

	front := term.New(screen, proj, palette.Default(cfg.Screen.SpeedScale), cfg.Terminal.CellAspect)
	slog.Info("terminal frontend started", "seed", rngSeed, "particles", field.N)

	if err := front.Run(ctx, sim, cfg.Terminal.FrameRate); err != nil {
		slog.Error("terminal frontend failed", "error", err)
	}
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
