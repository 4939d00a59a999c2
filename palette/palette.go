// Package palette maps particle speed to colour.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp blends from Cold at rest to Hot at Scale speed in HCL space.
type Ramp struct {
	Cold  colorful.Color
	Hot   colorful.Color
	Scale float64
}

// Default returns a blue-to-orange ramp saturating at scale.
func Default(scale float64) Ramp {
	return Ramp{
		Cold:  colorful.Hcl(250, 0.45, 0.55),
		Hot:   colorful.Hcl(40, 0.9, 0.85),
		Scale: scale,
	}
}

// At returns the colour for a particle moving at speed.
func (r Ramp) At(speed float64) colorful.Color {
	t := 0.0
	if r.Scale > 0 && !math.IsNaN(speed) {
		t = math.Min(1, math.Max(0, speed/r.Scale))
	}
	return r.Cold.BlendHcl(r.Hot, t).Clamped()
}

// RGB8 returns the colour for speed as 8-bit channels.
func (r Ramp) RGB8(speed float64) (uint8, uint8, uint8) {
	return r.At(speed).RGB255()
}
