// Package systems contains the particle swarm simulation: the field
// initializer, force model, pairwise solver, integrator and the per-tick
// pipeline that ties them together.
package systems

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// Phase names reported to a PhaseRecorder.
const (
	PhaseForce     = "force"
	PhasePairwise  = "pairwise"
	PhaseIntegrate = "integrate"
	PhasePublish   = "publish"
)

// Params holds the force model constants.
type Params struct {
	BaseOffset       float64 // swirl orbit base radius
	Spring           float64 // spring stiffness toward the swirl target
	Damping          float64 // per-tick velocity factor in (0,1)
	PointerThreshold float64 // ray distance beyond which the pointer has no effect
	PointerStrength  float64 // repulsion magnitude at ray distance 0
	MinDist          float64 // pairwise separation threshold
	RepulsionFactor  float64 // pairwise force scale
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		BaseOffset:       0.3,
		Spring:           4.0,
		Damping:          0.95,
		PointerThreshold: 0.8,
		PointerStrength:  12.0,
		MinDist:          0.2,
		RepulsionFactor:  1.0,
	}
}

// Frame carries the host clock for one tick.
type Frame struct {
	Elapsed float64 // seconds since an arbitrary epoch
	DT      float64 // seconds since the previous tick
}

// StepStats describes what one Step did.
type StepStats struct {
	Ran         bool // false when the visibility gate skipped the tick
	PointerHits int  // particles inside the pointer threshold
	ActivePairs int  // pairs closer than MinDist
}

// PhaseRecorder receives phase boundaries for profiling.
// telemetry.PerfCollector implements it.
type PhaseRecorder interface {
	StartPhase(phase string)
}

// InputSink receives host signals. Simulation implements it.
type InputSink interface {
	SetPointer(components.PointerState)
	SetVisible(bool)
}

// InputSource delivers host signals to a sink until the returned detach
// func is called.
type InputSource interface {
	Attach(sink InputSink) (detach func())
}

// Options configures a Simulation.
type Options struct {
	Params       Params
	PairMethod   PairMethod
	CameraOrigin r3.Vec // initial pointer ray origin
	Recorder     PhaseRecorder
}

// Simulation owns the particle buffers and runs the per-tick pipeline:
// visibility gate, single-particle forces, pairwise repulsion, position
// advance and buffer publish.
type Simulation struct {
	field   *components.Field
	params  Params
	forces  *ForceSystem
	pairs   *PairSolver
	gate    *VisibilityGate
	pointer *PointerCell
	buffer  *RenderBuffer
	rec     PhaseRecorder

	mu      sync.Mutex
	sources map[int]func()
	nextSrc int
}

// NewSimulation wraps field. The simulation starts visible.
func NewSimulation(field *components.Field, opts Options) *Simulation {
	return &Simulation{
		field:   field,
		params:  opts.Params,
		forces:  NewForceSystem(),
		pairs:   NewPairSolver(field.N, opts.PairMethod, opts.Params.MinDist),
		gate:    NewVisibilityGate(true),
		pointer: NewPointerCell(opts.CameraOrigin),
		buffer:  NewRenderBuffer(field),
		rec:     opts.Recorder,
		sources: make(map[int]func()),
	}
}

// Step runs one tick. When the gate is closed nothing changes.
func (s *Simulation) Step(fr Frame) StepStats {
	if !s.gate.Visible() {
		return StepStats{}
	}

	ptr := s.pointer.Load()
	p := s.params

	s.phase(PhaseForce)
	hits := s.forces.Update(s.field, ptr, p, fr)

	s.phase(PhasePairwise)
	pairs := s.pairs.Update(s.field, p.MinDist, p.RepulsionFactor, fr.DT)

	s.phase(PhaseIntegrate)
	Integrate(s.field, fr.DT)

	s.phase(PhasePublish)
	s.buffer.Publish()

	return StepStats{Ran: true, PointerHits: hits, ActivePairs: pairs}
}

func (s *Simulation) phase(name string) {
	if s.rec != nil {
		s.rec.StartPhase(name)
	}
}

// SetPointer overwrites the pointer ray.
func (s *Simulation) SetPointer(p components.PointerState) {
	s.pointer.Set(p)
}

// SetPointerTarget moves the pointer target, keeping the ray origin.
func (s *Simulation) SetPointerTarget(target r3.Vec) {
	s.pointer.SetTarget(target)
}

// Pointer returns the current pointer ray.
func (s *Simulation) Pointer() components.PointerState {
	return s.pointer.Load()
}

// SetVisible opens or closes the visibility gate.
func (s *Simulation) SetVisible(v bool) {
	s.gate.SetVisible(v)
}

// Visible reports the gate state.
func (s *Simulation) Visible() bool {
	return s.gate.Visible()
}

// Attach registers an input source and returns a func that detaches it.
// Detaching twice is a no-op.
func (s *Simulation) Attach(src InputSource) func() {
	detach := src.Attach(s)

	s.mu.Lock()
	id := s.nextSrc
	s.nextSrc++
	s.sources[id] = detach
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		d, ok := s.sources[id]
		delete(s.sources, id)
		s.mu.Unlock()
		if ok {
			d()
		}
	}
}

// Close detaches every input source.
func (s *Simulation) Close() {
	s.mu.Lock()
	sources := s.sources
	s.sources = make(map[int]func())
	s.mu.Unlock()

	for _, d := range sources {
		d()
	}
}

// Params returns the active constants.
func (s *Simulation) Params() Params {
	return s.params
}

// SetParams replaces the constants between ticks. The pair solver is
// rebuilt when the separation distance changes.
func (s *Simulation) SetParams(p Params) {
	if p.MinDist != s.params.MinDist {
		s.pairs = NewPairSolver(s.field.N, s.pairs.Method(), p.MinDist)
	}
	s.params = p
}

// Field returns the particle state.
func (s *Simulation) Field() *components.Field {
	return s.field
}

// Buffer returns the render buffer.
func (s *Simulation) Buffer() *RenderBuffer {
	return s.buffer
}

// Reset sends every particle home at rest and republishes.
func (s *Simulation) Reset() {
	s.field.Reset()
	s.buffer.Publish()
}
