// Package term renders the swarm in a terminal and feeds mouse and focus
// events back into the simulation.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/components"
	"github.com/pthm-cable/swirl/input"
	"github.com/pthm-cable/swirl/palette"
	"github.com/pthm-cable/swirl/systems"
)

// Action is what the caller should do after an event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionReset
	ActionPause
)

const glyph = '•'

// Frontend draws particles into a tcell screen. It implements
// systems.InputSource.
type Frontend struct {
	screen     tcell.Screen
	proj       *input.Projector
	ramp       palette.Ramp
	cellAspect float64

	mu   sync.Mutex
	sink systems.InputSink

	ndc     []r3.Vec
	speeds  []float64
	paused  bool
	elapsed float64 // simulation clock, advanced only by ticks that ran
	ticks   int
	skipped int
}

// New creates a frontend on an initialized screen. Mouse and focus
// reporting are enabled.
func New(screen tcell.Screen, proj *input.Projector, ramp palette.Ramp, cellAspect float64) *Frontend {
	if cellAspect <= 0 {
		cellAspect = 2
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	f := &Frontend{
		screen:     screen,
		proj:       proj,
		ramp:       ramp,
		cellAspect: cellAspect,
	}
	f.resize()
	return f
}

// Attach starts relaying terminal input to sink.
func (f *Frontend) Attach(sink systems.InputSink) func() {
	f.mu.Lock()
	f.sink = sink
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		if f.sink == sink {
			f.sink = nil
		}
		f.mu.Unlock()
	}
}

func (f *Frontend) currentSink() systems.InputSink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sink
}

// resize matches the camera aspect to the terminal, counting cells as
// cellAspect times taller than wide.
func (f *Frontend) resize() {
	w, h := f.screen.Size()
	f.proj.Resize(float64(w), float64(h)*f.cellAspect)
}

// HandleEvent applies one terminal event.
func (f *Frontend) HandleEvent(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		f.screen.Sync()
		f.resize()

	case *tcell.EventFocus:
		if sink := f.currentSink(); sink != nil {
			sink.SetVisible(ev.Focused)
		}

	case *tcell.EventMouse:
		switch ev.Buttons() {
		case tcell.WheelUp:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Zoom(0.9) })
			return ActionNone
		case tcell.WheelDown:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Zoom(1.1) })
			return ActionNone
		}
		sink := f.currentSink()
		if sink == nil {
			return ActionNone
		}
		x, y := ev.Position()
		w, h := f.screen.Size()
		ray, err := f.proj.ScreenRay(float64(x)+0.5, float64(y)+0.5, float64(w), float64(h))
		if err != nil {
			slog.Warn("dropping mouse event", "error", err)
			return ActionNone
		}
		sink.SetPointer(ray)

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return ActionQuit
		case tcell.KeyLeft:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Orbit(-0.1, 0) })
		case tcell.KeyRight:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Orbit(0.1, 0) })
		case tcell.KeyUp:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Orbit(0, 0.1) })
		case tcell.KeyDown:
			f.proj.WithCamera(func(cam *camera.Camera) { cam.Orbit(0, -0.1) })
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return ActionQuit
			case 'r':
				return ActionReset
			case ' ':
				f.paused = !f.paused
				return ActionPause
			}
		}
	}
	return ActionNone
}

// Paused reports whether stepping is suspended.
func (f *Frontend) Paused() bool {
	return f.paused
}

// Draw renders the field and a status line.
func (f *Frontend) Draw(field *components.Field, status string) {
	f.screen.Clear()
	w, h := f.screen.Size()

	f.ndc = f.proj.ProjectInto(f.ndc, field.Position)
	f.speeds = systems.SpeedsInto(f.speeds, field)

	for i, p := range f.ndc {
		// Behind the camera or outside the clip range
		if p.Z < -1 || p.Z > 1 || math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		col := int(math.Floor((p.X + 1) / 2 * float64(w)))
		row := int(math.Floor((1 - p.Y) / 2 * float64(h)))
		if col < 0 || col >= w || row < 0 || row >= h {
			continue
		}
		r, g, b := f.ramp.RGB8(f.speeds[i])
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		f.screen.SetContent(col, row, glyph, nil, style)
	}

	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	for i, ch := range status {
		if i >= w {
			break
		}
		f.screen.SetContent(i, h-1, ch, nil, statusStyle)
	}

	f.screen.Show()
}

// Step advances sim by dt unless paused. The clock only moves when the
// tick ran, so time spent hidden does not shift the swirl phase.
func (f *Frontend) Step(sim *systems.Simulation, dt float64) systems.StepStats {
	if f.paused {
		return systems.StepStats{}
	}
	next := f.elapsed + dt
	stats := sim.Step(systems.Frame{Elapsed: next, DT: dt})
	if stats.Ran {
		f.elapsed = next
		f.ticks++
	} else {
		f.skipped++
	}
	return stats
}

// Elapsed returns the simulation clock in seconds.
func (f *Frontend) Elapsed() float64 {
	return f.elapsed
}

// Run steps sim at frameRate and draws each tick until ctx is done or the
// user quits.
func (f *Frontend) Run(ctx context.Context, sim *systems.Simulation, frameRate int) error {
	if frameRate <= 0 {
		frameRate = 30
	}
	detach := sim.Attach(f)
	defer detach()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch f.HandleEvent(ev) {
			case ActionQuit:
				return nil
			case ActionReset:
				sim.Reset()
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			f.Step(sim, dt)
			f.Draw(sim.Field(), f.status(sim))
		}
	}
}

func (f *Frontend) status(sim *systems.Simulation) string {
	state := "running"
	switch {
	case f.paused:
		state = "paused"
	case !sim.Visible():
		state = "hidden"
	}
	return fmt.Sprintf(" %d particles  tick %d  skipped %d  %s  [q]uit [r]eset [space] pause ",
		sim.Field().N, f.ticks, f.skipped, state)
}
