package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed panel primitives.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel rectangle.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
	rl.DrawRectangleRec(rect, r.Theme.PanelBg)
	rl.DrawRectangleLinesEx(rect, 1, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a header and returns the y of the next line.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the y of the next line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// DrawBar draws a labelled share bar. frac is clamped to [0, 1] and shown
// as a percentage.
func (r *Renderer) DrawBar(x, y int32, label string, frac float32, width int32) int32 {
	t := r.Theme
	frac = max(0, min(1, frac))
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - 44

	rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*frac), t.BarHeight, t.BarFill)
	rl.DrawText(fmt.Sprintf("%3.0f%%", frac*100), barX+barW+6, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}

// DrawToggle draws an on/off marker, a name and a right-aligned hint.
func (r *Renderer) DrawToggle(x, y, width int32, name, hint string, on bool) {
	t := r.Theme
	marker, text := t.ToggleOff, t.LabelColor
	if on {
		marker, text = t.ToggleOn, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, marker)
	rl.DrawText(name, x+14, y, t.FontSize, text)
	if hint != "" {
		w := rl.MeasureText(hint, t.FontSize)
		rl.DrawText(hint, x+width-w, y, t.FontSize, t.LabelColor)
	}
}
