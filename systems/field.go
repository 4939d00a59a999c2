package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/swirl/components"
)

// FieldLayout describes the annulus particles start on.
type FieldLayout struct {
	Count  int
	Radius float64 // base radius R; each particle lands in [0.8R, 1.2R)
	Depth  float64 // z shared by every particle
}

// NewField lays out layout.Count particles on the annulus.
// Positions start at home and velocities at zero. Count <= 0 yields
// empty buffers.
func NewField(layout FieldLayout, rng *rand.Rand) *components.Field {
	f := components.NewEmptyField(layout.Count)
	if f.N == 0 {
		return f
	}

	for i := 0; i < f.N; i++ {
		turn := float64(i) / float64(f.N) * 2 * math.Pi
		angle := turn * (0.5 + rng.Float64())
		radius := layout.Radius * (0.8 + 0.4*rng.Float64())

		j := 3 * i
		f.Home[j] = radius * math.Cos(angle)
		f.Home[j+1] = radius * math.Sin(angle)
		f.Home[j+2] = layout.Depth
		f.Seed[i] = rng.Float64()
	}

	copy(f.Position, f.Home)
	return f
}
