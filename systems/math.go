package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// finite reports whether every component of v is a finite number.
func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// perpendicular returns a unit vector orthogonal to the unit vector dir.
// The choice is deterministic for a given dir.
func perpendicular(dir r3.Vec) r3.Vec {
	axis := r3.Vec{X: 1}
	if math.Abs(dir.X) > 0.9 {
		axis = r3.Vec{Y: 1}
	}
	return r3.Unit(r3.Cross(dir, axis))
}

// distanceSq returns the squared distance between two points.
func distanceSq(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// speed returns the magnitude of a velocity vector.
func speed(v r3.Vec) float64 {
	return r3.Norm(v)
}
