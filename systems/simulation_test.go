package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// farPointer is a ray well away from anything near the origin.
var farPointer = components.PointerState{
	Origin: r3.Vec{X: 50, Y: 50, Z: 5},
	Target: r3.Vec{X: 50, Y: 50, Z: 0},
}

func newTestSim(n int, seed int64, method PairMethod) *Simulation {
	rng := rand.New(rand.NewSource(seed))
	field := NewField(FieldLayout{Count: n, Radius: 1, Depth: 0}, rng)
	return NewSimulation(field, Options{
		Params:       DefaultParams(),
		PairMethod:   method,
		CameraOrigin: r3.Vec{Z: 5},
	})
}

func TestStepDeterministic(t *testing.T) {
	a := newTestSim(60, 7, PairBrute)
	b := newTestSim(60, 7, PairBrute)

	dts := []float64{0.016, 0.017, 0.015, 0.033, 0.016}
	elapsed := 0.0
	for k, dt := range dts {
		elapsed += dt
		target := r3.Vec{X: 0.1 * float64(k), Y: -0.05 * float64(k)}
		a.SetPointerTarget(target)
		b.SetPointerTarget(target)
		a.Step(Frame{Elapsed: elapsed, DT: dt})
		b.Step(Frame{Elapsed: elapsed, DT: dt})
	}

	fa, fb := a.Field(), b.Field()
	for k := range fa.Position {
		if fa.Position[k] != fb.Position[k] {
			t.Fatalf("position[%d] diverged: %v vs %v", k, fa.Position[k], fb.Position[k])
		}
		if fa.Velocity[k] != fb.Velocity[k] {
			t.Fatalf("velocity[%d] diverged: %v vs %v", k, fa.Velocity[k], fb.Velocity[k])
		}
	}
}

func TestStepZeroDTKeepsPositionAndDamps(t *testing.T) {
	sim := newTestSim(20, 3, PairBrute)
	f := sim.Field()
	for k := range f.Velocity {
		f.Velocity[k] = 0.5 - float64(k%3)*0.25
	}

	before := f.Clone()
	damping := sim.Params().Damping

	sim.Step(Frame{Elapsed: 1.25, DT: 0})

	for k := range f.Position {
		if f.Position[k] != before.Position[k] {
			t.Errorf("position[%d] moved with dt=0: %v -> %v", k, before.Position[k], f.Position[k])
		}
		want := before.Velocity[k] * damping
		if f.Velocity[k] != want {
			t.Errorf("velocity[%d] = %v, want damped %v", k, f.Velocity[k], want)
		}
	}
}

func TestStepHiddenFreezes(t *testing.T) {
	sim := newTestSim(30, 11, PairBrute)
	sim.Step(Frame{Elapsed: 0.016, DT: 0.016})

	before := sim.Field().Clone()
	sim.Buffer().TakeDirty()
	sim.SetVisible(false)

	for _, dt := range []float64{0.016, 0, 1.5, 0.2} {
		stats := sim.Step(Frame{Elapsed: 3, DT: dt})
		if stats.Ran {
			t.Fatal("expected hidden tick to be skipped")
		}
	}

	f := sim.Field()
	for k := range f.Position {
		if f.Position[k] != before.Position[k] || f.Velocity[k] != before.Velocity[k] {
			t.Fatalf("state changed while hidden at %d", k)
		}
	}
	if sim.Buffer().Dirty() {
		t.Error("buffer should not be republished while hidden")
	}

	sim.SetVisible(true)
	if stats := sim.Step(Frame{Elapsed: 3.016, DT: 0.016}); !stats.Ran {
		t.Error("expected tick to run after becoming visible")
	}
}

func TestTwoParticlesSeparate(t *testing.T) {
	f := components.NewEmptyField(2)
	f.Home[3] = 0.1
	f.Seed[0], f.Seed[1] = 0.25, 0.75
	copy(f.Position, f.Home)

	p := DefaultParams()
	p.BaseOffset = 0 // swirl target == home, so the spring is idle
	p.MinDist = 0.2

	sim := NewSimulation(f, Options{Params: p, PairMethod: PairBrute})
	sim.SetPointer(farPointer)

	stats := sim.Step(Frame{Elapsed: 0, DT: 0.016})
	if stats.ActivePairs != 1 {
		t.Fatalf("expected 1 active pair, got %d", stats.ActivePairs)
	}

	v0, v1 := f.Vel(0), f.Vel(1)
	if v0.X >= 0 {
		t.Errorf("particle 0 should move toward -x, got %v", v0)
	}
	if v1.X <= 0 {
		t.Errorf("particle 1 should move toward +x, got %v", v1)
	}
	if v0.X != -v1.X {
		t.Errorf("expected equal and opposite x velocity, got %v and %v", v0.X, v1.X)
	}
	if v0.Y != 0 || v0.Z != 0 || v1.Y != 0 || v1.Z != 0 {
		t.Errorf("expected motion only along x, got %v and %v", v0, v1)
	}

	// r = ((0.2-0.1)/0.1)^2 = 1, so |v| = r·factor·dt.
	want := 1.0 * p.RepulsionFactor * 0.016
	if math.Abs(v1.X-want) > 1e-12 {
		t.Errorf("expected |v| = %v, got %v", want, v1.X)
	}
}

func TestPairForceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 0; n < 200; n++ {
		a := r3.Vec{X: rng.Float64() * 0.2, Y: rng.Float64() * 0.2, Z: rng.Float64() * 0.2}
		b := r3.Vec{X: rng.Float64() * 0.2, Y: rng.Float64() * 0.2, Z: rng.Float64() * 0.2}

		fa, okA := PairForce(a, b, 0.2)
		fb, okB := PairForce(b, a, 0.2)
		if okA != okB {
			t.Fatalf("asymmetric range check for %v %v", a, b)
		}
		if !okA {
			continue
		}
		if fa != r3.Scale(-1, fb) {
			t.Fatalf("force on a %v is not the negation of force on b %v", fa, fb)
		}
	}
}

func TestPairForceGuards(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	if _, ok := PairForce(p, p, 0.2); ok {
		t.Error("coincident particles must not interact")
	}
	if _, ok := PairForce(r3.Vec{}, r3.Vec{X: 0.2}, 0.2); ok {
		t.Error("force must vanish at exactly minDist")
	}
	if _, ok := PairForce(r3.Vec{}, r3.Vec{X: 1e-200}, 0.2); ok {
		t.Error("non-finite force must degrade to no force")
	}
}

func TestPairSolverAccumulatesEqualAndOpposite(t *testing.T) {
	f := components.NewEmptyField(2)
	f.SetPos(0, r3.Vec{X: 0.01, Y: 0.02, Z: -0.03})
	f.SetPos(1, r3.Vec{X: 0.05, Y: -0.04, Z: 0.06})

	s := NewPairSolver(2, PairBrute, 0.2)
	if pairs := s.Update(f, 0.2, 1, 0.016); pairs != 1 {
		t.Fatalf("expected 1 pair, got %d", pairs)
	}

	force := s.Forces()
	for k := 0; k < 3; k++ {
		if force[k] != -force[3+k] {
			t.Errorf("component %d: %v is not the negation of %v", k, force[k], force[3+k])
		}
	}
}

func TestGridMatchesBrute(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	field := NewField(FieldLayout{Count: 300, Radius: 0.5, Depth: 0}, rng)

	opts := Options{Params: DefaultParams(), CameraOrigin: r3.Vec{Z: 5}}
	opts.PairMethod = PairBrute
	brute := NewSimulation(field.Clone(), opts)
	opts.PairMethod = PairGrid
	grid := NewSimulation(field.Clone(), opts)

	if grid.pairs.Method() != PairGrid {
		t.Fatal("expected grid solver")
	}

	elapsed := 0.0
	for step := 0; step < 20; step++ {
		elapsed += 0.016
		target := r3.Vec{X: 0.3 * math.Cos(elapsed), Y: 0.3 * math.Sin(elapsed)}
		brute.SetPointerTarget(target)
		grid.SetPointerTarget(target)

		sb := brute.Step(Frame{Elapsed: elapsed, DT: 0.016})
		sg := grid.Step(Frame{Elapsed: elapsed, DT: 0.016})
		if sb.ActivePairs != sg.ActivePairs {
			t.Fatalf("step %d: pair count %d vs %d", step, sb.ActivePairs, sg.ActivePairs)
		}
	}

	if brute.Field().N == 0 {
		t.Fatal("empty field")
	}
	fb, fg := brute.Field(), grid.Field()
	for k := range fb.Velocity {
		if fb.Velocity[k] != fg.Velocity[k] {
			t.Fatalf("velocity[%d]: brute %v grid %v", k, fb.Velocity[k], fg.Velocity[k])
		}
		if fb.Position[k] != fg.Position[k] {
			t.Fatalf("position[%d]: brute %v grid %v", k, fb.Position[k], fg.Position[k])
		}
	}
}

func TestStepPublishesBuffer(t *testing.T) {
	sim := newTestSim(4, 1, PairBrute)
	buf := sim.Buffer()

	if !buf.TakeDirty() {
		t.Error("new buffer should start dirty")
	}
	if buf.TakeDirty() {
		t.Error("TakeDirty should clear the flag")
	}

	_, v0 := buf.Snapshot(nil)
	sim.Step(Frame{Elapsed: 0.016, DT: 0.016})
	if !buf.Dirty() {
		t.Error("expected dirty after step")
	}

	snap, v1 := buf.Snapshot(nil)
	if v1 != v0+1 {
		t.Errorf("expected version %d, got %d", v0+1, v1)
	}
	if len(snap) != 12 || buf.Len() != 4 {
		t.Fatalf("unexpected snapshot length %d", len(snap))
	}
	for k, v := range buf.Positions() {
		if snap[k] != float32(v) {
			t.Errorf("snapshot[%d] = %v, want %v", k, snap[k], float32(v))
		}
	}
}

func TestStepEmptyField(t *testing.T) {
	sim := newTestSim(0, 1, PairGrid)
	stats := sim.Step(Frame{Elapsed: 1, DT: 0.016})
	if !stats.Ran || stats.ActivePairs != 0 || stats.PointerHits != 0 {
		t.Errorf("unexpected stats for empty field: %+v", stats)
	}
}

type fakeSource struct {
	attached int
	detached int
}

func (s *fakeSource) Attach(sink InputSink) func() {
	s.attached++
	sink.SetVisible(false)
	sink.SetPointer(farPointer)
	return func() { s.detached++ }
}

func TestAttachDetach(t *testing.T) {
	sim := newTestSim(3, 1, PairBrute)
	src := &fakeSource{}

	detach := sim.Attach(src)
	if src.attached != 1 {
		t.Fatalf("expected source attached once, got %d", src.attached)
	}
	if sim.Visible() {
		t.Error("source signal should have closed the gate")
	}
	if sim.Pointer() != farPointer {
		t.Error("source signal should have set the pointer")
	}

	detach()
	detach()
	if src.detached != 1 {
		t.Errorf("expected one detach, got %d", src.detached)
	}

	other := &fakeSource{}
	sim.Attach(other)
	sim.Close()
	if other.detached != 1 {
		t.Errorf("Close should detach remaining sources, got %d", other.detached)
	}
}

func TestSetParamsRebuildsSolver(t *testing.T) {
	sim := newTestSim(10, 2, PairGrid)
	p := sim.Params()
	p.MinDist = 0.4
	sim.SetParams(p)

	if sim.Params().MinDist != 0.4 {
		t.Error("params not applied")
	}
	if sim.pairs.Method() != PairGrid {
		t.Error("rebuilt solver should keep its method")
	}
	if sim.pairs.grid.cellSize != 0.4 {
		t.Errorf("expected grid cell size 0.4, got %v", sim.pairs.grid.cellSize)
	}
}
