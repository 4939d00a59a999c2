package input

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/camera"
)

func newTestProjector() *Projector {
	cam := camera.New(r3.Vec{Z: 8}, r3.Vec{}, r3.Vec{Y: 1}, 60, 1, 0.1, 100)
	return NewProjector(cam, 0.5)
}

func TestProjectorCenterRayHitsOrigin(t *testing.T) {
	p := newTestProjector()
	ray, err := p.Ray(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ray.Origin != (r3.Vec{Z: 8}) {
		t.Errorf("ray should start at the camera, got %v", ray.Origin)
	}

	dir, ok := ray.Direction()
	if !ok {
		t.Fatal("expected a proper ray")
	}
	if math.Abs(dir.X) > 1e-9 || math.Abs(dir.Y) > 1e-9 || dir.Z >= 0 {
		t.Errorf("center ray should point down -z, got %v", dir)
	}
}

func TestProjectorScreenRay(t *testing.T) {
	p := newTestProjector()
	ray, err := p.ScreenRay(900, 100, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if ray.Target.X <= 0 || ray.Target.Y <= 0 {
		t.Errorf("top-right pixel should unproject to +x,+y, got %v", ray.Target)
	}
}

func TestProjectorFollowsCamera(t *testing.T) {
	p := newTestProjector()
	before, _ := p.Ray(0, 0)
	p.WithCamera(func(cam *camera.Camera) {
		cam.Orbit(0.5, 0)
	})
	after, _ := p.Ray(0, 0)
	if after.Origin == before.Origin {
		t.Error("ray origin should follow the camera")
	}
}

func TestAutopilotDeterministicAndBounded(t *testing.T) {
	cfg := AutopilotConfig{Speed: 0.5, Extent: 0.8, Alpha: 2, Beta: 2, Octaves: 3, Seed: 9}
	a := NewAutopilot(cfg, newTestProjector())
	b := NewAutopilot(cfg, newTestProjector())

	moved := false
	x0, y0 := a.NDC(0.1)
	for i := 0; i < 500; i++ {
		tm := float64(i) * 0.05
		ax, ay := a.NDC(tm)
		bx, by := b.NDC(tm)
		if ax != bx || ay != by {
			t.Fatalf("autopilot not deterministic at t=%v", tm)
		}
		if ax < -1 || ax > 1 || ay < -1 || ay > 1 {
			t.Fatalf("autopilot left NDC range at t=%v: (%v, %v)", tm, ax, ay)
		}
		if ax != x0 || ay != y0 {
			moved = true
		}
	}
	if !moved {
		t.Error("autopilot pointer never moved")
	}

	if _, err := a.Ray(1.5); err != nil {
		t.Errorf("Ray: %v", err)
	}
}
