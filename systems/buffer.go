package systems

import (
	"sync"

	"github.com/pthm-cable/swirl/components"
)

// RenderBuffer exposes the position buffer to renderers.
// Positions and the dirty flag belong to the tick goroutine; Snapshot is
// safe to call from elsewhere.
type RenderBuffer struct {
	positions []float64
	dirty     bool

	mu      sync.Mutex
	snap    []float32
	version uint64
}

// NewRenderBuffer wraps the field's position buffer. The buffer starts dirty
// so the first frame is uploaded.
func NewRenderBuffer(f *components.Field) *RenderBuffer {
	b := &RenderBuffer{
		positions: f.Position,
		dirty:     true,
		snap:      make([]float32, len(f.Position)),
	}
	for i, v := range f.Position {
		b.snap[i] = float32(v)
	}
	return b
}

// Positions returns the live 3·N position buffer. Read-only for callers.
func (b *RenderBuffer) Positions() []float64 {
	return b.positions
}

// Len returns the number of points in the buffer.
func (b *RenderBuffer) Len() int {
	return len(b.positions) / 3
}

// Dirty reports whether positions changed since the last TakeDirty.
func (b *RenderBuffer) Dirty() bool {
	return b.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (b *RenderBuffer) TakeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// Publish marks the buffer dirty and refreshes the shared snapshot.
func (b *RenderBuffer) Publish() {
	b.dirty = true

	b.mu.Lock()
	for i, v := range b.positions {
		b.snap[i] = float32(v)
	}
	b.version++
	b.mu.Unlock()
}

// Snapshot copies the last published positions into dst (grown as needed)
// and returns it with the publish version.
func (b *RenderBuffer) Snapshot(dst []float32) ([]float32, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	dst = append(dst[:0], b.snap...)
	return dst, b.version
}
