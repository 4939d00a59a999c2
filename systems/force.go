package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// swirlRadiusGain scales how much the pointer's distance from the world
// origin inflates every orbit.
const swirlRadiusGain = 0.3

// SwirlTarget returns the orbit point particle i is pulled toward at time t.
// pointerDist is the pointer target's distance from the world origin, so
// far pointer excursions widen every orbit by the same factor.
func SwirlTarget(home r3.Vec, i int, seed, t, pointerDist, baseOffset float64) r3.Vec {
	phase := t + float64(i)*(1+seed)
	offset := baseOffset * (1 + swirlRadiusGain*pointerDist) * (0.5 + seed)
	return r3.Vec{
		X: home.X + offset*math.Cos(phase),
		Y: home.Y + offset*math.Sin(phase),
		Z: home.Z,
	}
}

// SpringForce pulls pos toward target with stiffness k.
func SpringForce(pos, target r3.Vec, k float64) r3.Vec {
	return r3.Scale(k, r3.Sub(target, pos))
}

// ClosestOnRay projects p onto the line through origin along unit dir and
// returns the closest point and the perpendicular distance to it.
func ClosestOnRay(p, origin, dir r3.Vec) (r3.Vec, float64) {
	t := r3.Dot(r3.Sub(p, origin), dir)
	closest := r3.Add(origin, r3.Scale(t, dir))
	return closest, r3.Norm(r3.Sub(p, closest))
}

// PointerFalloff returns the repulsion magnitude at perpendicular distance d.
// It is strength at d == 0, falls off quadratically and is exactly zero
// from the threshold onward.
func PointerFalloff(d, threshold, strength float64) float64 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	k := 1 - d/threshold
	return strength * k * k
}

// PointerForce returns the repulsion the pointer ray applies to a particle
// at p, and the particle's perpendicular distance to the ray. The force
// points from the closest ray point toward the particle. A particle sitting
// on the ray is pushed along a fixed perpendicular instead. A degenerate
// ray contributes nothing.
func PointerForce(p r3.Vec, ptr components.PointerState, threshold, strength float64) (r3.Vec, float64) {
	dir, ok := ptr.Direction()
	if !ok {
		return r3.Vec{}, math.Inf(1)
	}

	closest, d := ClosestOnRay(p, ptr.Origin, dir)
	mag := PointerFalloff(d, threshold, strength)
	if mag == 0 {
		return r3.Vec{}, d
	}

	var away r3.Vec
	if d > 0 {
		away = r3.Scale(1/d, r3.Sub(p, closest))
	} else {
		away = perpendicular(dir)
	}

	force := r3.Scale(mag, away)
	if !finite(force) {
		return r3.Vec{}, d
	}
	return force, d
}

// ForceSystem applies the single-particle forces (spring toward the swirl
// target plus pointer repulsion) and damps every velocity.
type ForceSystem struct{}

// NewForceSystem creates a new force system.
func NewForceSystem() *ForceSystem {
	return &ForceSystem{}
}

// Update integrates single-particle forces into velocity:
// v = (v + a·dt)·damping. Damping applies even when a is zero.
// Returns how many particles were inside the pointer threshold.
func (s *ForceSystem) Update(f *components.Field, ptr components.PointerState, p Params, fr Frame) int {
	pointerDist := r3.Norm(ptr.Target)
	hits := 0

	for i := 0; i < f.N; i++ {
		pos := f.Pos(i)
		target := SwirlTarget(f.HomeOf(i), i, f.Seed[i], fr.Elapsed, pointerDist, p.BaseOffset)
		accel := SpringForce(pos, target, p.Spring)

		push, _ := PointerForce(pos, ptr, p.PointerThreshold, p.PointerStrength)
		if push != (r3.Vec{}) {
			hits++
			accel = r3.Add(accel, push)
		}
		if !finite(accel) {
			accel = r3.Vec{}
		}

		vel := r3.Add(f.Vel(i), r3.Scale(fr.DT, accel))
		f.SetVel(i, r3.Scale(p.Damping, vel))
	}

	return hits
}
