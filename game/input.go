package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/ui"
)

// handleInput processes window, keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()
	g.handleVisibility()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.useAutopilot = !g.useAutopilot
	}

	// Overlay toggles
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	cameraMoved := g.handleCameraInput()
	g.handlePointer(cameraMoved)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.proj.Resize(float64(w), float64(h))
	g.background.Resize(int32(w), int32(h))
	g.tuning.SetPosition(int32(w)-330, 10)
}

// handleVisibility freezes the simulation while the window is minimized or
// hidden.
func (g *Game) handleVisibility() {
	g.trackWindowVisibility(!rl.IsWindowMinimized() && !rl.IsWindowHidden())
}

// trackWindowVisibility forwards changes of the window's own state only,
// so other sources such as stream clients are not overridden every frame.
func (g *Game) trackWindowVisibility(visible bool) {
	if visible == g.windowVisible {
		return
	}
	g.windowVisible = visible
	g.sim.SetVisible(visible)
}

// handleCameraInput orbits with the right mouse button or arrow keys and
// zooms with the wheel. It reports whether the camera changed.
func (g *Game) handleCameraInput() bool {
	const orbitSpeed = 0.005
	const keyOrbit = 0.02

	var yaw, pitch float64
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		yaw -= float64(d.X) * orbitSpeed
		pitch -= float64(d.Y) * orbitSpeed
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		yaw -= keyOrbit
	}
	if rl.IsKeyDown(rl.KeyRight) {
		yaw += keyOrbit
	}
	if rl.IsKeyDown(rl.KeyUp) {
		pitch += keyOrbit
	}
	if rl.IsKeyDown(rl.KeyDown) {
		pitch -= keyOrbit
	}

	wheel := rl.GetMouseWheelMove()

	if yaw == 0 && pitch == 0 && wheel == 0 && !rl.IsKeyPressed(rl.KeyHome) {
		return false
	}

	g.proj.WithCamera(func(cam *camera.Camera) {
		if rl.IsKeyPressed(rl.KeyHome) {
			*cam = *newCamera(g.cfg)
			cam.Resize(float64(g.screenWidth), float64(g.screenHeight))
			return
		}
		if yaw != 0 || pitch != 0 {
			cam.Orbit(yaw, pitch)
		}
		if wheel != 0 {
			cam.Zoom(1 - float64(wheel)*0.1)
		}
	})
	return true
}

// handlePointer turns mouse motion into a pointer ray.
func (g *Game) handlePointer(cameraMoved bool) {
	g.trackPointer(rl.GetMousePosition(), float64(rl.GetFrameTime()), cameraMoved)
}

// trackPointer rebuilds the pointer ray when the mouse moved, or when the
// camera moved under a resting mouse so the ray starts at the new camera
// position. Motion over an open panel is ignored.
func (g *Game) trackPointer(mouse rl.Vector2, dt float64, cameraMoved bool) {
	moved := mouse != g.lastMouse && !g.overPanel(mouse)
	if moved {
		g.lastMouse = mouse
		g.mouseIdle = 0
	} else {
		g.mouseIdle += dt
	}

	// The autopilot re-aims from the new camera on its own
	if !moved && (!cameraMoved || g.autopilotActive() || !g.mouseSeen) {
		return
	}
	g.mouseSeen = true

	ray, err := g.proj.ScreenRay(float64(g.lastMouse.X), float64(g.lastMouse.Y), float64(g.screenWidth), float64(g.screenHeight))
	if err != nil {
		return
	}
	g.sim.SetPointer(ray)
}

func (g *Game) overPanel(p rl.Vector2) bool {
	if g.overlays == nil || !g.overlays.IsEnabled(ui.OverlayTuning) {
		return false
	}
	x, y := g.screenWidth-330, float32(10)
	return p.X >= x && p.X <= x+320 && p.Y >= y && p.Y <= y+float32(g.tuning.Height())
}

// applyTuning pushes slider edits into the simulation.
func (g *Game) applyTuning(p systems.Params, reset bool) {
	if reset {
		p = g.cfg.SwarmParams()
	}
	g.sim.SetParams(p)
}
