// Package frame renders one frame of the skinned mesh scene.
package frame

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/mesh"
)

// Technique receives the per-frame shader state.
type Technique interface {
	mesh.MaterialSetter
	Enable()
	SetWVP(wvp mgl32.Mat4)
	SetCameraLocalPos(pos mgl32.Vec3)
	SetLights(lights *lighting.Set)
	SetDisplayBoneIndex(index int)
}

// Drawable is a mesh that draws its submeshes.
type Drawable interface {
	Render(setter mesh.MaterialSetter)
	Material() *material.Material
}

// View supplies the camera.
type View interface {
	OnRender()
	Matrix() mgl32.Mat4
	Position() mgl32.Vec3
	Front() mgl32.Vec3
}

// Orchestrator draws a mesh through a technique from a view.
type Orchestrator struct {
	tech   Technique
	view   View
	lights lighting.Set

	Transform Transform

	// PerSubmeshMaterials passes the technique to the mesh so each submesh
	// uploads its own material. Otherwise the representative material is
	// used for the whole mesh.
	PerSubmeshMaterials bool

	// DisplayBoneIndex highlights one bone's weights; -1 disables it.
	DisplayBoneIndex int

	projection Projection
	proj       mgl32.Mat4

	clear func()
}

// New creates an orchestrator. The light set is copied.
func New(tech Technique, view View, lights lighting.Set, transform Transform, projection Projection) *Orchestrator {
	o := &Orchestrator{
		tech:             tech,
		view:             view,
		lights:           lights,
		Transform:        transform,
		DisplayBoneIndex: -1,
		clear: func() {
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		},
	}
	o.SetProjection(projection)
	return o
}

// SetProjection replaces the projection parameters.
func (o *Orchestrator) SetProjection(p Projection) {
	o.projection = p
	o.proj = p.Matrix()
}

// Resize updates the viewport size.
func (o *Orchestrator) Resize(width, height int) {
	p := o.projection
	p.Width, p.Height = width, height
	o.SetProjection(p)
}

// Projection returns the current projection parameters.
func (o *Orchestrator) Projection() Projection {
	return o.projection
}

// Render draws one frame.
func (o *Orchestrator) Render(d Drawable) {
	o.clear()
	o.view.OnRender()

	world := o.Transform.World()
	wvp := o.proj.Mul4(o.view.Matrix()).Mul4(world)
	invWorld := world.Inv()

	o.lights.Follow(o.view.Position(), o.view.Front())
	o.lights.ToLocal(invWorld)

	cameraLocal := invWorld.Mul4x1(o.view.Position().Vec4(1)).Vec3()

	o.tech.Enable()
	o.tech.SetWVP(wvp)
	o.tech.SetLights(&o.lights)
	o.tech.SetMaterial(d.Material())
	o.tech.SetCameraLocalPos(cameraLocal)
	o.tech.SetDisplayBoneIndex(o.DisplayBoneIndex)

	if o.PerSubmeshMaterials {
		d.Render(o.tech)
	} else {
		d.Render(nil)
	}
}
