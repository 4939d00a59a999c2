// Package components defines the state blocks shared by the simulation systems.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Field holds the per-particle state as flat buffers.
// Position, Velocity and Home carry one xyz triple per particle.
type Field struct {
	N        int
	Position []float64
	Velocity []float64
	Home     []float64 // immutable after creation
	Seed     []float64 // phase factor in [0,1), immutable
}

// NewEmptyField allocates zeroed buffers for n particles.
func NewEmptyField(n int) *Field {
	if n < 0 {
		n = 0
	}
	return &Field{
		N:        n,
		Position: make([]float64, 3*n),
		Velocity: make([]float64, 3*n),
		Home:     make([]float64, 3*n),
		Seed:     make([]float64, n),
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := NewEmptyField(f.N)
	copy(c.Position, f.Position)
	copy(c.Velocity, f.Velocity)
	copy(c.Home, f.Home)
	copy(c.Seed, f.Seed)
	return c
}

// Pos returns particle i's position.
func (f *Field) Pos(i int) r3.Vec {
	return get(f.Position, i)
}

// Vel returns particle i's velocity.
func (f *Field) Vel(i int) r3.Vec {
	return get(f.Velocity, i)
}

// HomeOf returns particle i's home position.
func (f *Field) HomeOf(i int) r3.Vec {
	return get(f.Home, i)
}

// SetPos overwrites particle i's position.
func (f *Field) SetPos(i int, v r3.Vec) {
	set(f.Position, i, v)
}

// SetVel overwrites particle i's velocity.
func (f *Field) SetVel(i int, v r3.Vec) {
	set(f.Velocity, i, v)
}

// Reset moves every particle back home and zeroes velocities.
func (f *Field) Reset() {
	copy(f.Position, f.Home)
	clear(f.Velocity)
}

func get(buf []float64, i int) r3.Vec {
	j := 3 * i
	return r3.Vec{X: buf[j], Y: buf[j+1], Z: buf[j+2]}
}

func set(buf []float64, i int, v r3.Vec) {
	j := 3 * i
	buf[j] = v.X
	buf[j+1] = v.Y
	buf[j+2] = v.Z
}
