package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the screen with a vertical gradient.
type BackgroundRenderer struct {
	top, bottom      rl.Color
	screenW, screenH int32
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		top:     top,
		bottom:  bottom,
		screenW: screenW,
		screenH: screenH,
	}
}

// Resize updates the fill area.
func (b *BackgroundRenderer) Resize(w, h int32) {
	b.screenW = w
	b.screenH = h
}

// Draw renders the background. Call before BeginMode3D.
func (b *BackgroundRenderer) Draw() {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}
