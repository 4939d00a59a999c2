package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Particles      int
	Tick           int32
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Hidden         bool
	Autopilot      bool
	ActivePairs    int
	PointerHits    int
	PairMethod     string
	StreamClients  int
}

// HUD draws the status lines in the top-left corner and the key legend
// along the bottom edge.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(d HUDData) {
	rl.DrawText(d.Title, 10, 10, 20, rl.White)

	lines := []string{
		fmt.Sprintf("Particles: %d | Pairs: %d (%s) | Under pointer: %d",
			d.Particles, d.ActivePairs, d.PairMethod, d.PointerHits),
		fmt.Sprintf("Tick: %d | Steps: %dx | FPS: %d | Viewers: %d",
			d.Tick, d.StepsPerUpdate, d.FPS, d.StreamClients),
	}
	y := int32(35)
	for _, l := range lines {
		rl.DrawText(l, 10, y, 16, rl.LightGray)
		y += 20
	}
	rl.DrawText(d.status(), 10, y, 16, h.renderer.Theme.SectionHeader)
}

func (d HUDData) status() string {
	switch {
	case d.Paused:
		return "PAUSED"
	case d.Hidden:
		return "HIDDEN"
	case d.Autopilot:
		return "Autopilot"
	}
	return "Running"
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, legend string) {
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds per-phase timing shares for display.
type PerfPanelData struct {
	TicksPerSecond float64
	AvgTickMicros  float64
	Phases         []string
	PhasePct       map[string]float64
}

// PerfPanel renders the phase performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	padding := r.Theme.Padding
	height := int32(len(data.Phases)+3)*r.Theme.LineHeight + padding*2

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding
	y = r.DrawSectionHeader(x, y, "Phase Performance")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%.0fus", data.AvgTickMicros))
	y = r.DrawLabelValue(x, y, "Rate", fmt.Sprintf("%.0f/s", data.TicksPerSecond))

	for _, name := range data.Phases {
		y = r.DrawBar(x, y, name, float32(data.PhasePct[name]/100), p.width-padding*2)
	}
}
