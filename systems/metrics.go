package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// SpeedsInto appends every particle's speed to dst and returns it.
func SpeedsInto(dst []float64, f *components.Field) []float64 {
	for i := 0; i < f.N; i++ {
		dst = append(dst, speed(f.Vel(i)))
	}
	return dst
}

// KineticEnergy returns Σ ½|v|² with unit mass.
func KineticEnergy(f *components.Field) float64 {
	var e float64
	for _, v := range f.Velocity {
		e += v * v
	}
	return 0.5 * e
}

// MeanTargetError returns the mean distance between each particle and its
// swirl target at time t.
func MeanTargetError(f *components.Field, ptr components.PointerState, p Params, t float64) float64 {
	if f.N == 0 {
		return 0
	}
	pointerDist := r3.Norm(ptr.Target)
	var sum float64
	for i := 0; i < f.N; i++ {
		target := SwirlTarget(f.HomeOf(i), i, f.Seed[i], t, pointerDist, p.BaseOffset)
		sum += math.Sqrt(distanceSq(f.Pos(i), target))
	}
	return sum / float64(f.N)
}
