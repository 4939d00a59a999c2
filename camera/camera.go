// Package camera provides a perspective camera and pointer unprojection.
package camera

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSingular is returned when the view-projection matrix cannot be inverted.
var ErrSingular = errors.New("camera: view-projection matrix is singular")

// Camera is a right-handed perspective camera looking from Position at Target.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	// Vertical field of view in degrees
	FovY float64

	// Viewport aspect ratio (width / height)
	Aspect float64

	Near, Far float64

	// Zoom constraints on the distance to Target
	MinDistance, MaxDistance float64

	inv   *mat.Dense // cached inverse view-projection
	stale bool
}

// New creates a camera. up defaults to +Y when zero.
func New(position, target, up r3.Vec, fovY, aspect, near, far float64) *Camera {
	if up == (r3.Vec{}) {
		up = r3.Vec{Y: 1}
	}
	dist := r3.Norm(r3.Sub(position, target))
	return &Camera{
		Position:    position,
		Target:      target,
		Up:          up,
		FovY:        fovY,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
		MinDistance: dist * 0.25,
		MaxDistance: dist * 4,
		stale:       true,
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() *mat.Dense {
	f := r3.Unit(r3.Sub(c.Target, c.Position))
	s := r3.Unit(r3.Cross(f, c.Up))
	u := r3.Cross(s, f)

	return mat.NewDense(4, 4, []float64{
		s.X, s.Y, s.Z, -r3.Dot(s, c.Position),
		u.X, u.Y, u.Z, -r3.Dot(u, c.Position),
		-f.X, -f.Y, -f.Z, r3.Dot(f, c.Position),
		0, 0, 0, 1,
	})
}

// Projection returns the camera-to-clip matrix (OpenGL conventions,
// NDC depth in [-1, 1]).
func (c *Camera) Projection() *mat.Dense {
	t := 1 / math.Tan(c.FovY*math.Pi/360)
	nf := 1 / (c.Near - c.Far)
	return mat.NewDense(4, 4, []float64{
		t / c.Aspect, 0, 0, 0,
		0, t, 0, 0,
		0, 0, (c.Far + c.Near) * nf, 2 * c.Far * c.Near * nf,
		0, 0, -1, 0,
	})
}

// ViewProjection returns Projection·View.
func (c *Camera) ViewProjection() *mat.Dense {
	var vp mat.Dense
	vp.Mul(c.Projection(), c.View())
	return &vp
}

// Project maps a world point to normalized device coordinates.
func (c *Camera) Project(p r3.Vec) r3.Vec {
	return transform(c.ViewProjection(), p)
}

// ProjectInto maps each point of a flat 3·N position buffer to NDC,
// reusing dst.
func (c *Camera) ProjectInto(dst []r3.Vec, positions []float64) []r3.Vec {
	vp := c.ViewProjection()
	dst = dst[:0]
	for k := 0; k+2 < len(positions); k += 3 {
		dst = append(dst, transform(vp, r3.Vec{X: positions[k], Y: positions[k+1], Z: positions[k+2]}))
	}
	return dst
}

// Unproject maps a normalized device coordinate point (x, y in [-1, 1])
// at the given NDC depth back into world space.
func (c *Camera) Unproject(ndcX, ndcY, depth float64) (r3.Vec, error) {
	if c.stale || c.inv == nil {
		var inv mat.Dense
		err := inv.Inverse(c.ViewProjection())
		// An ill-conditioned result is still usable
		var cond mat.Condition
		if err != nil && !errors.As(err, &cond) {
			return r3.Vec{}, ErrSingular
		}
		c.inv = &inv
		c.stale = false
	}
	return transform(c.inv, r3.Vec{X: ndcX, Y: ndcY, Z: depth}), nil
}

// ScreenToNDC converts pixel coordinates (origin top-left) to NDC.
func ScreenToNDC(sx, sy, width, height float64) (x, y float64) {
	return sx/width*2 - 1, -(sy/height*2 - 1)
}

// Resize updates the aspect ratio for a new viewport size.
func (c *Camera) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = width / height
	c.stale = true
}

// Orbit rotates the camera around Target by yaw (about Up) and pitch
// (about the camera's right axis), in radians.
func (c *Camera) Orbit(yaw, pitch float64) {
	off := r3.Sub(c.Position, c.Target)
	up := r3.Unit(c.Up)

	off = rotate(off, up, yaw)

	right := r3.Unit(r3.Cross(r3.Scale(-1, off), up))
	next := rotate(off, right, pitch)
	// Keep away from the poles so the view basis stays defined
	if math.Abs(r3.Dot(r3.Unit(next), up)) < 0.98 {
		off = next
	}

	c.Position = r3.Add(c.Target, off)
	c.stale = true
}

// Zoom moves the camera toward (factor < 1) or away from (factor > 1) Target
// within the distance constraints.
func (c *Camera) Zoom(factor float64) {
	off := r3.Sub(c.Position, c.Target)
	dist := r3.Norm(off) * factor
	dist = max(c.MinDistance, min(c.MaxDistance, dist))
	c.Position = r3.Add(c.Target, r3.Scale(dist, r3.Unit(off)))
	c.stale = true
}

// Invalidate drops the cached inverse after direct field edits.
func (c *Camera) Invalidate() {
	c.stale = true
}

// transform applies a 4x4 homogeneous matrix to p with perspective divide.
func transform(m mat.Matrix, p r3.Vec) r3.Vec {
	in := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(m, in)
	w := out.AtVec(3)
	if w == 0 {
		w = 1
	}
	return r3.Vec{X: out.AtVec(0) / w, Y: out.AtVec(1) / w, Z: out.AtVec(2) / w}
}

// rotate turns v around the unit axis by angle (Rodrigues).
func rotate(v, axis r3.Vec, angle float64) r3.Vec {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return r3.Add(
		r3.Add(r3.Scale(cos, v), r3.Scale(sin, r3.Cross(axis, v))),
		r3.Scale(r3.Dot(axis, v)*(1-cos), axis),
	)
}
