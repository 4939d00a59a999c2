package components

import "gonum.org/v1/gonum/spatial/r3"

// PointerState is the interaction ray: it starts at Origin (the camera
// position) and passes through Target (the unprojected pointer).
// Target defaults to the world origin until the first pointer event.
type PointerState struct {
	Origin r3.Vec
	Target r3.Vec
}

// Direction returns the normalized ray direction and false when the ray
// is degenerate (Target == Origin).
func (p PointerState) Direction() (r3.Vec, bool) {
	d := r3.Sub(p.Target, p.Origin)
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, d), true
}
