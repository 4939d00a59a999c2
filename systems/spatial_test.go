package systems

import (
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSpatialGridQueryAfter(t *testing.T) {
	pos := []float64{
		0.05, 0.05, 0, // 0
		0.15, 0.05, 0, // 1: neighbor cell of 0
		0.05, 0.05, 0, // 2: same cell as 0
		0.95, 0.95, 0, // 3: far away
		-0.05, 0.05, 0, // 4: negative neighbor cell
	}
	g := NewSpatialGrid(0.1)
	g.Build(pos, 5)

	got := g.QueryAfterInto(nil, 0)
	want := []int{1, 2, 4}
	if !slices.Equal(got, want) {
		t.Errorf("QueryAfterInto(0) = %v, want %v", got, want)
	}

	if got := g.QueryAfterInto(nil, 3); len(got) != 0 {
		t.Errorf("expected no neighbors after 3, got %v", got)
	}
}

func TestSpatialGridFindsAllClosePairs(t *testing.T) {
	const n, cell = 400, 0.2
	rng := rand.New(rand.NewSource(8))
	pos := make([]float64, 3*n)
	for k := range pos {
		pos[k] = rng.Float64()*2 - 1
	}

	g := NewSpatialGrid(cell)
	g.Build(pos, n)

	var cand []int
	for i := 0; i < n; i++ {
		cand = g.QueryAfterInto(cand[:0], i)
		if !slices.IsSorted(cand) {
			t.Fatalf("candidates for %d not sorted: %v", i, cand)
		}
		pi := r3.Vec{X: pos[3*i], Y: pos[3*i+1], Z: pos[3*i+2]}
		for j := i + 1; j < n; j++ {
			pj := r3.Vec{X: pos[3*j], Y: pos[3*j+1], Z: pos[3*j+2]}
			if distanceSq(pi, pj) < cell*cell && !slices.Contains(cand, j) {
				t.Fatalf("pair (%d,%d) within range missing from candidates", i, j)
			}
		}
	}
}

func TestSpatialGridClearReuses(t *testing.T) {
	g := NewSpatialGrid(1)
	g.Build([]float64{0, 0, 0, 0.5, 0.5, 0.5}, 2)
	g.Build([]float64{0, 0, 0}, 1)
	if got := g.QueryAfterInto(nil, 0); len(got) != 0 {
		t.Errorf("stale entries survived Clear: %v", got)
	}
}
