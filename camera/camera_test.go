package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCamera() *Camera {
	return New(r3.Vec{Z: 8}, r3.Vec{}, r3.Vec{Y: 1}, 60, 16.0/9.0, 0.1, 100)
}

func near(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestProjectTargetToCenter(t *testing.T) {
	cam := newTestCamera()

	// Target should map to the middle of the screen
	ndc := cam.Project(r3.Vec{})
	if math.Abs(ndc.X) > 1e-9 || math.Abs(ndc.Y) > 1e-9 {
		t.Errorf("expected target at NDC center, got %v", ndc)
	}
	if ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("expected target depth inside clip range, got %v", ndc.Z)
	}
}

func TestUnprojectRoundtrip(t *testing.T) {
	cam := newTestCamera()

	points := []r3.Vec{
		{},
		{X: 1, Y: -0.5, Z: 0.3},
		{X: -2, Y: 1, Z: -3},
	}
	for _, p := range points {
		ndc := cam.Project(p)
		back, err := cam.Unproject(ndc.X, ndc.Y, ndc.Z)
		if err != nil {
			t.Fatalf("unproject: %v", err)
		}
		if !near(back, p, 1e-6) {
			t.Errorf("roundtrip failed: %v -> %v -> %v", p, ndc, back)
		}
	}
}

func TestUnprojectCenterOnViewAxis(t *testing.T) {
	cam := newTestCamera()

	w, err := cam.Unproject(0, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w.X) > 1e-9 || math.Abs(w.Y) > 1e-9 {
		t.Errorf("center pointer should lie on the view axis, got %v", w)
	}
	if w.Z >= cam.Position.Z || w.Z <= -cam.Far {
		t.Errorf("unprojected point should be in front of the camera, got %v", w)
	}
}

func TestUnprojectRightOfCenter(t *testing.T) {
	cam := newTestCamera()
	w, err := cam.Unproject(0.5, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if w.X <= 0 {
		t.Errorf("positive NDC x should unproject to +x, got %v", w)
	}
}

func TestScreenToNDC(t *testing.T) {
	tests := []struct {
		sx, sy float64
		wx, wy float64
	}{
		{640, 360, 0, 0},   // center
		{0, 0, -1, 1},      // top-left
		{1280, 720, 1, -1}, // bottom-right
	}
	for _, tc := range tests {
		x, y := ScreenToNDC(tc.sx, tc.sy, 1280, 720)
		if math.Abs(x-tc.wx) > 1e-12 || math.Abs(y-tc.wy) > 1e-12 {
			t.Errorf("ScreenToNDC(%v,%v) = (%v,%v), want (%v,%v)", tc.sx, tc.sy, x, y, tc.wx, tc.wy)
		}
	}
}

func TestResizeInvalidatesInverse(t *testing.T) {
	cam := newTestCamera()
	before, _ := cam.Unproject(0.5, 0.5, 0.5)

	cam.Resize(720, 720)
	after, _ := cam.Unproject(0.5, 0.5, 0.5)

	if near(before, after, 1e-9) {
		t.Error("expected unprojection to change after resize")
	}
	if cam.Aspect != 1 {
		t.Errorf("expected aspect 1, got %v", cam.Aspect)
	}
}

func TestZoomClamps(t *testing.T) {
	cam := newTestCamera()
	for i := 0; i < 50; i++ {
		cam.Zoom(0.5)
	}
	if d := r3.Norm(cam.Position); math.Abs(d-cam.MinDistance) > 1e-9 {
		t.Errorf("expected distance clamped to %v, got %v", cam.MinDistance, d)
	}
	for i := 0; i < 50; i++ {
		cam.Zoom(2)
	}
	if d := r3.Norm(cam.Position); math.Abs(d-cam.MaxDistance) > 1e-9 {
		t.Errorf("expected distance clamped to %v, got %v", cam.MaxDistance, d)
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := newTestCamera()
	cam.Orbit(0.7, 0.3)
	if d := r3.Norm(cam.Position); math.Abs(d-8) > 1e-9 {
		t.Errorf("orbit should keep distance 8, got %v", d)
	}
	if near(cam.Position, r3.Vec{Z: 8}, 1e-6) {
		t.Error("orbit should move the camera")
	}
}

func TestProjectIntoMatchesProject(t *testing.T) {
	cam := newTestCamera()
	positions := []float64{0, 0, 0, 1, -0.5, 0.3, -2, 1, -3}

	out := cam.ProjectInto(nil, positions)
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	for i := range out {
		p := r3.Vec{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]}
		if !near(out[i], cam.Project(p), 1e-12) {
			t.Errorf("point %d: got %v, want %v", i, out[i], cam.Project(p))
		}
	}
}
