package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// PairMethod selects how candidate pairs are found.
type PairMethod string

const (
	// PairBrute visits every unordered pair.
	PairBrute PairMethod = "brute"
	// PairGrid visits only pairs in adjacent grid cells. Pairs are visited
	// in the same order as PairBrute so the forces are bit-identical.
	PairGrid PairMethod = "grid"
)

// PairForce returns the separation force on a particle at a from one at b.
// The force on b is its exact negation. ok is false when the pair is out of
// range, coincident, or the result would not be finite.
func PairForce(a, b r3.Vec, minDist float64) (force r3.Vec, ok bool) {
	delta := r3.Sub(a, b)
	distSq := r3.Norm2(delta)
	if distSq == 0 || distSq >= minDist*minDist {
		return r3.Vec{}, false
	}

	dist := math.Sqrt(distSq)
	k := (minDist - dist) / dist
	r := k * k

	force = r3.Scale(r/dist, delta)
	if !finite(force) {
		return r3.Vec{}, false
	}
	return force, true
}

// PairSolver accumulates short-range separation forces between particles.
// The force buffer is allocated once and reused every tick.
type PairSolver struct {
	method PairMethod
	force  []float64
	grid   *SpatialGrid
	cand   []int
}

// NewPairSolver creates a solver for n particles. Unknown methods fall back
// to brute force.
func NewPairSolver(n int, method PairMethod, minDist float64) *PairSolver {
	s := &PairSolver{
		method: PairBrute,
		force:  make([]float64, 3*max(n, 0)),
	}
	if method == PairGrid && minDist > 0 {
		s.method = PairGrid
		s.grid = NewSpatialGrid(minDist)
		s.cand = make([]int, 0, 64)
	}
	return s
}

// Method returns the active pair search method.
func (s *PairSolver) Method() PairMethod {
	return s.method
}

// Forces returns the force buffer accumulated by the last Update.
func (s *PairSolver) Forces() []float64 {
	return s.force
}

// Update accumulates pair forces from the current (not yet advanced)
// positions, then folds them into velocity: v += F·factor·dt.
// Returns the number of interacting pairs.
func (s *PairSolver) Update(f *components.Field, minDist, factor, dt float64) int {
	if len(s.force) != 3*f.N {
		s.force = make([]float64, 3*f.N)
	}
	clear(s.force)

	var pairs int
	if s.method == PairGrid {
		pairs = s.accumulateGrid(f, minDist)
	} else {
		pairs = s.accumulateBrute(f, minDist)
	}

	scale := factor * dt
	for k := range s.force {
		f.Velocity[k] += s.force[k] * scale
	}
	return pairs
}

func (s *PairSolver) accumulateBrute(f *components.Field, minDist float64) int {
	pairs := 0
	for i := 0; i < f.N; i++ {
		pi := f.Pos(i)
		for j := i + 1; j < f.N; j++ {
			if s.accumulate(i, j, pi, f.Pos(j), minDist) {
				pairs++
			}
		}
	}
	return pairs
}

func (s *PairSolver) accumulateGrid(f *components.Field, minDist float64) int {
	s.grid.Build(f.Position, f.N)
	pairs := 0
	for i := 0; i < f.N; i++ {
		pi := f.Pos(i)
		s.cand = s.grid.QueryAfterInto(s.cand[:0], i)
		for _, j := range s.cand {
			if s.accumulate(i, j, pi, f.Pos(j), minDist) {
				pairs++
			}
		}
	}
	return pairs
}

func (s *PairSolver) accumulate(i, j int, pi, pj r3.Vec, minDist float64) bool {
	fi, ok := PairForce(pi, pj, minDist)
	if !ok {
		return false
	}
	a, b := 3*i, 3*j
	s.force[a] += fi.X
	s.force[a+1] += fi.Y
	s.force[a+2] += fi.Z
	s.force[b] -= fi.X
	s.force[b+1] -= fi.Y
	s.force[b+2] -= fi.Z
	return true
}
