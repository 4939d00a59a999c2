package systems

import (
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/components"
)

// VisibilityGate holds the host's foreground flag. Ticks are skipped while
// it is false. Safe to set from any goroutine.
type VisibilityGate struct {
	visible atomic.Bool
}

// NewVisibilityGate creates a gate with the given initial state.
func NewVisibilityGate(visible bool) *VisibilityGate {
	g := &VisibilityGate{}
	g.visible.Store(visible)
	return g
}

// SetVisible records the latest visibility signal.
func (g *VisibilityGate) SetVisible(v bool) {
	g.visible.Store(v)
}

// Visible reports whether ticks should run.
func (g *VisibilityGate) Visible() bool {
	return g.visible.Load()
}

// PointerCell is a last-write-wins cell for the pointer ray. Writers may be
// on other goroutines; the tick reads one consistent copy.
type PointerCell struct {
	mu    sync.Mutex
	state components.PointerState
}

// NewPointerCell creates a cell whose ray starts at origin and points at the
// world origin.
func NewPointerCell(origin r3.Vec) *PointerCell {
	return &PointerCell{state: components.PointerState{Origin: origin}}
}

// Set overwrites the whole ray.
func (c *PointerCell) Set(s components.PointerState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// SetTarget overwrites only the target, keeping the ray origin.
func (c *PointerCell) SetTarget(target r3.Vec) {
	c.mu.Lock()
	c.state.Target = target
	c.mu.Unlock()
}

// Load returns a copy of the current ray.
func (c *PointerCell) Load() components.PointerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
