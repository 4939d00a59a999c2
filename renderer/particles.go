// Package renderer draws the swarm with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/swirl/camera"
	"github.com/pthm-cable/swirl/components"
	"github.com/pthm-cable/swirl/palette"
	"github.com/pthm-cable/swirl/systems"
)

// Camera3D converts cam into a raylib camera.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(cam.Position),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up),
		Fovy:       float32(cam.FovY),
		Projection: rl.CameraPerspective,
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// ParticleRenderer draws particles as small spheres coloured by speed.
type ParticleRenderer struct {
	ramp   palette.Ramp
	radius float32
	speeds []float64
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(ramp palette.Ramp, radius float64) *ParticleRenderer {
	return &ParticleRenderer{ramp: ramp, radius: float32(radius)}
}

// Draw renders all particles. positions is the render buffer's live
// position slice; speeds come from the field. Call inside BeginMode3D.
func (r *ParticleRenderer) Draw(positions []float64, f *components.Field) {
	r.speeds = systems.SpeedsInto(r.speeds, f)
	for i := 0; i < len(positions)/3; i++ {
		p := rl.NewVector3(float32(positions[3*i]), float32(positions[3*i+1]), float32(positions[3*i+2]))
		cr, cg, cb := r.ramp.RGB8(r.speeds[i])
		rl.DrawSphereEx(p, r.radius, 6, 6, rl.Color{R: cr, G: cg, B: cb, A: 255})
	}
}

// DrawPointer renders the pointer ray from its origin through and past its
// target.
func (r *ParticleRenderer) DrawPointer(ptr components.PointerState, length float64) {
	dir, ok := ptr.Direction()
	if !ok {
		return
	}
	end := r3.Add(ptr.Origin, r3.Scale(length, dir))
	rl.DrawLine3D(vec3(ptr.Origin), vec3(end), rl.Color{R: 255, G: 255, B: 255, A: 120})
	rl.DrawSphereEx(vec3(ptr.Target), r.radius*1.5, 6, 6, rl.White)
}

// DrawReach outlines particles within the pointer threshold.
func (r *ParticleRenderer) DrawReach(f *components.Field, ptr components.PointerState, threshold float64) {
	dir, ok := ptr.Direction()
	if !ok {
		return
	}
	for i := 0; i < f.N; i++ {
		if _, d := systems.ClosestOnRay(f.Pos(i), ptr.Origin, dir); d < threshold {
			rl.DrawSphereWires(vec3(f.Pos(i)), r.radius*2, 4, 4, rl.Yellow)
		}
	}
}

// DrawHomes marks every particle's home position.
func (r *ParticleRenderer) DrawHomes(f *components.Field) {
	size := rl.NewVector3(r.radius, r.radius, r.radius)
	for i := 0; i < f.N; i++ {
		rl.DrawCubeWiresV(vec3(f.HomeOf(i)), size, rl.Gray)
	}
}

// DrawSwirlTargets links each particle to its current swirl target.
func (r *ParticleRenderer) DrawSwirlTargets(f *components.Field, ptr components.PointerState, p systems.Params, t float64) {
	pointerDist := r3.Norm(ptr.Target)
	for i := 0; i < f.N; i++ {
		target := systems.SwirlTarget(f.HomeOf(i), i, f.Seed[i], t, pointerDist, p.BaseOffset)
		rl.DrawLine3D(vec3(f.Pos(i)), vec3(target), rl.Color{R: 120, G: 160, B: 255, A: 90})
	}
}
