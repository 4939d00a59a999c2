package systems

import (
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/pthm-cable/swirl/components"
)

// Integrate advances every position by velocity·dt in one pass over the
// flat buffers. Velocities must already hold this tick's forces
// (semi-implicit Euler).
func Integrate(f *components.Field, dt float64) {
	if f.N == 0 || dt == 0 {
		return
	}
	vel := blas64.Vector{N: len(f.Velocity), Inc: 1, Data: f.Velocity}
	pos := blas64.Vector{N: len(f.Position), Inc: 1, Data: f.Position}
	blas64.Axpy(dt, vel, pos)
}
