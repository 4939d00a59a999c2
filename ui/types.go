// Package ui provides a descriptor-driven UI for the simulation.
// Panels and sliders are defined through metadata so they can be updated
// alongside the parameters they control.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/systems"
)

// SliderDescriptor binds a slider to one simulation parameter.
type SliderDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display label
	Min    float64 // Slider range
	Max    float64
	Format string                          // Printf format for the value
	Get    func(p *systems.Params) float64 // Value extractor
	Set    func(p *systems.Params, v float64)
}

// ParamSliders returns the tunable force model parameters.
func ParamSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{
			ID: "base_offset", Label: "Orbit", Min: 0, Max: 2, Format: "%.2f",
			Get: func(p *systems.Params) float64 { return p.BaseOffset },
			Set: func(p *systems.Params, v float64) { p.BaseOffset = v },
		},
		{
			ID: "spring", Label: "Spring", Min: 0, Max: 20, Format: "%.1f",
			Get: func(p *systems.Params) float64 { return p.Spring },
			Set: func(p *systems.Params, v float64) { p.Spring = v },
		},
		{
			ID: "damping", Label: "Damping", Min: 0.5, Max: 0.999, Format: "%.3f",
			Get: func(p *systems.Params) float64 { return p.Damping },
			Set: func(p *systems.Params, v float64) { p.Damping = v },
		},
		{
			ID: "pointer_threshold", Label: "Reach", Min: 0, Max: 3, Format: "%.2f",
			Get: func(p *systems.Params) float64 { return p.PointerThreshold },
			Set: func(p *systems.Params, v float64) { p.PointerThreshold = v },
		},
		{
			ID: "pointer_strength", Label: "Push", Min: 0, Max: 50, Format: "%.1f",
			Get: func(p *systems.Params) float64 { return p.PointerStrength },
			Set: func(p *systems.Params, v float64) { p.PointerStrength = v },
		},
		{
			ID: "min_dist", Label: "Spacing", Min: 0, Max: 1, Format: "%.2f",
			Get: func(p *systems.Params) float64 { return p.MinDist },
			Set: func(p *systems.Params, v float64) { p.MinDist = v },
		},
		{
			ID: "repulsion_factor", Label: "Repel", Min: 0, Max: 10, Format: "%.2f",
			Get: func(p *systems.Params) float64 { return p.RepulsionFactor },
			Set: func(p *systems.Params, v float64) { p.RepulsionFactor = v },
		},
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	ToggleOn       rl.Color
	ToggleOff      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		ToggleOn:       rl.Color{R: 100, G: 200, B: 100, A: 255},
		ToggleOff:      rl.Color{R: 80, G: 80, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
