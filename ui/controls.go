package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/systems"
)

// ControlsPanel lists the overlays grouped by kind with their key bindings.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

var groupTitles = []struct{ group, title string }{
	{GroupScene, "Scene"},
	{GroupPanels, "Panels"},
}

// Draw renders the overlay list and returns the y just below the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight

	rows := int32(0)
	for _, g := range groupTitles {
		rows += int32(len(overlays.Group(g.group))) + 1
	}
	r.DrawPanel(c.x, c.y, c.width, (rows+1)*line+pad*3)

	y := r.DrawSectionHeader(c.x+pad, c.y+pad, "Overlays") + 4
	for _, g := range groupTitles {
		rl.DrawText(g.title, c.x+pad, y, r.Theme.FontSize, r.Theme.SectionHeader)
		y += line
		for _, desc := range overlays.Group(g.group) {
			r.DrawToggle(c.x+pad, y, c.width-pad*2, desc.Name, "["+desc.KeyLabel+"]", overlays.IsEnabled(desc.ID))
			y += line
		}
		y += 4
	}
	return c.y + (rows+1)*line + pad*3
}

// TuningPanel renders a raygui slider per parameter.
type TuningPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	x, y     int32
	width    int32
}

// NewTuningPanel creates a tuning panel for the given sliders.
func NewTuningPanel(x, y, width int32, sliders []SliderDescriptor) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		sliders:  sliders,
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (t *TuningPanel) SetPosition(x, y int32) {
	t.x = x
	t.y = y
}

// Height returns the panel height in pixels.
func (t *TuningPanel) Height() int32 {
	r := t.renderer
	return int32(len(t.sliders))*(r.Theme.LineHeight+8) + r.Theme.LineHeight*3 + r.Theme.Padding*3
}

// Draw renders the sliders and applies edits to p. It reports whether any
// value changed and whether the reset button was pressed.
func (t *TuningPanel) Draw(p *systems.Params) (changed, reset bool) {
	r := t.renderer
	padding := r.Theme.Padding

	r.DrawPanel(t.x, t.y, t.width, t.Height())

	y := t.y + padding
	y = r.DrawSectionHeader(t.x+padding, y, "Tuning")

	sliderX := float32(t.x + padding + r.Theme.LabelWidth)
	sliderW := float32(t.width - padding*2 - r.Theme.LabelWidth - 50)

	for _, s := range t.sliders {
		cur := s.Get(p)
		rl.DrawText(s.Label, t.x+padding, y+2, r.Theme.FontSize, r.Theme.LabelColor)

		next := gui.SliderBar(
			rl.Rectangle{X: sliderX, Y: float32(y), Width: sliderW, Height: float32(r.Theme.LineHeight)},
			"", "",
			float32(cur), float32(s.Min), float32(s.Max),
		)
		rl.DrawText(fmt.Sprintf(s.Format, cur), int32(sliderX+sliderW)+6, y+2, r.Theme.FontSize, r.Theme.ValueColor)

		if float64(next) != float64(float32(cur)) {
			s.Set(p, float64(next))
			changed = true
		}
		y += r.Theme.LineHeight + 8
	}

	y += 4
	reset = gui.Button(rl.Rectangle{X: float32(t.x + padding), Y: float32(y), Width: 120, Height: 24}, "Defaults")
	return changed, reset
}
