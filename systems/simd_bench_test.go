package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/spatial/r3"
)

func benchField(n int) *Simulation {
	return newTestSim(n, 1, PairBrute)
}

// Benchmark position advance with a scalar loop
func BenchmarkIntegrateScalar(b *testing.B) {
	f := benchField(2000).Field()
	dt := 0.016

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for k := range f.Position {
			f.Position[k] += f.Velocity[k] * dt
		}
	}
}

// Benchmark position advance with blas64 Axpy
func BenchmarkIntegrateBLAS(b *testing.B) {
	f := benchField(2000).Field()
	vel := blas64.Vector{N: len(f.Velocity), Inc: 1, Data: f.Velocity}
	pos := blas64.Vector{N: len(f.Position), Inc: 1, Data: f.Position}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas64.Axpy(0.016, vel, pos)
	}
}

func benchmarkPairs(b *testing.B, n int, method PairMethod) {
	rng := rand.New(rand.NewSource(3))
	f := NewField(FieldLayout{Count: n, Radius: 2}, rng)
	s := NewPairSolver(n, method, 0.2)

	b.ResetTimer()
	for k := 0; k < b.N; k++ {
		s.Update(f, 0.2, 1, 0)
	}
}

func BenchmarkPairsBrute500(b *testing.B)  { benchmarkPairs(b, 500, PairBrute) }
func BenchmarkPairsGrid500(b *testing.B)   { benchmarkPairs(b, 500, PairGrid) }
func BenchmarkPairsBrute2000(b *testing.B) { benchmarkPairs(b, 2000, PairBrute) }
func BenchmarkPairsGrid2000(b *testing.B)  { benchmarkPairs(b, 2000, PairGrid) }

// Benchmark a full step at the default particle count
func BenchmarkStep(b *testing.B) {
	sim := benchField(400)
	sim.SetPointerTarget(r3.Vec{X: 0.5})
	fr := Frame{DT: 0.016}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		fr.Elapsed += fr.DT
		sim.Step(fr)
	}
}
