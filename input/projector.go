// Package input turns host pointer signals into pointer rays for the
// simulation.
package input

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/components"
)

// Projector unprojects pointer positions through a camera at a fixed NDC
// depth. It guards the camera so pointer events may arrive on any goroutine.
type Projector struct {
	mu    sync.Mutex
	cam   *camera.Camera
	depth float64
}

// NewProjector creates a projector for cam.
func NewProjector(cam *camera.Camera, depth float64) *Projector {
	return &Projector{cam: cam, depth: depth}
}

// Ray returns the pointer ray through the NDC point (x, y).
func (p *Projector) Ray(ndcX, ndcY float64) (components.PointerState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	target, err := p.cam.Unproject(ndcX, ndcY, p.depth)
	if err != nil {
		return components.PointerState{}, fmt.Errorf("unprojecting pointer: %w", err)
	}
	return components.PointerState{Origin: p.cam.Position, Target: target}, nil
}

// ScreenRay returns the pointer ray through pixel (sx, sy) of a
// width×height viewport.
func (p *Projector) ScreenRay(sx, sy, width, height float64) (components.PointerState, error) {
	x, y := camera.ScreenToNDC(sx, sy, width, height)
	return p.Ray(x, y)
}

// ProjectInto maps a flat 3·N position buffer to NDC, reusing dst.
func (p *Projector) ProjectInto(dst []r3.Vec, positions []float64) []r3.Vec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cam.ProjectInto(dst, positions)
}

// Resize updates the camera aspect for a new viewport size.
func (p *Projector) Resize(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cam.Resize(width, height)
}

// WithCamera runs fn with exclusive access to the camera.
func (p *Projector) WithCamera(fn func(cam *camera.Camera)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.cam)
	p.cam.Invalidate()
}
