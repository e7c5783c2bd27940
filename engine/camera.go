// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/scenegl/linear"
)

// Projection is the type of camera projections.
type Projection int

// Projections.
const (
	Perspective Projection = iota
	Orthographic
)

// Camera defines the view and projection used to
// render a scene.
// If a look-at target is set, the view is computed from
// it; otherwise it is the inverse of the camera's
// translation and rotation.
type Camera struct {
	Transform
	name  string
	proj  Projection
	near  float32
	far   float32
	fov   float32
	// Half height of the orthographic view volume.
	orthoH float32
	width  int
	height int

	view    linear.M4
	projM   linear.M4
	vp      linear.M4
	invVP   linear.M4
	frustum Frustum
}

// NewCamera creates a perspective camera with a 45
// degree field of view, near plane at 1 and far plane
// at 120.
func NewCamera() *Camera {
	c := &Camera{near: 1, far: 120, fov: 45, orthoH: 1, width: 1, height: 1}
	c.init()
	c.Update()
	return c
}

// SetName sets the name of c.
func (c *Camera) SetName(name string) { c.name = name }

// Name returns the name of c.
func (c *Camera) Name() string { return c.name }

// SetNearPlane sets the distance to the near plane.
func (c *Camera) SetNearPlane(near float32) { c.near = near }

// NearPlane returns the distance to the near plane.
func (c *Camera) NearPlane() float32 { return c.near }

// SetFarPlane sets the distance to the far plane.
func (c *Camera) SetFarPlane(far float32) { c.far = far }

// FarPlane returns the distance to the far plane.
func (c *Camera) FarPlane() float32 { return c.far }

// SetFieldOfView sets the vertical field of view, in
// degrees.
func (c *Camera) SetFieldOfView(fov float32) { c.fov = fov }

// FieldOfView returns the vertical field of view.
func (c *Camera) FieldOfView() float32 { return c.fov }

// SetProjectionMode sets the projection mode.
func (c *Camera) SetProjectionMode(p Projection) { c.proj = p }

// ProjectionMode returns the projection mode.
func (c *Camera) ProjectionMode() Projection { return c.proj }

// SetOrthoHeight sets the half height of the
// orthographic view volume.
func (c *Camera) SetOrthoHeight(h float32) { c.orthoH = h }

// SetProjection sets the size of the viewport.
// The projection matrix is recomputed by Update.
func (c *Camera) SetProjection(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
}

// Update recomputes the view, projection and
// view-projection matrices, and the frustum.
func (c *Camera) Update() {
	aspect := float32(c.width) / float32(c.height)
	switch c.proj {
	case Orthographic:
		w := c.orthoH * aspect
		c.projM.Ortho(-w, w, -c.orthoH, c.orthoH, c.near, c.far)
	default:
		c.projM.Perspective(c.fov*math32.Pi/180, aspect, c.near, c.far)
	}
	if target, ok := c.LookAt(); ok {
		up := c.Up()
		pos := c.Position()
		c.view.LookAt(&pos, &target, &up)
	} else {
		var t linear.M4
		t.Translate(c.pos[0], c.pos[1], c.pos[2])
		r := c.RotationMatrix()
		t.Mul(&t, &r)
		c.view.Invert(&t)
	}
	c.vp.Mul(&c.projM, &c.view)
	c.invVP.Invert(&c.vp)
	c.frustum.Update(&c.invVP)
}

// ViewMatrix returns the view matrix computed by the
// last call to Update.
func (c *Camera) ViewMatrix() linear.M4 { return c.view }

// ProjectionMatrix returns the projection matrix
// computed by the last call to Update.
func (c *Camera) ProjectionMatrix() linear.M4 { return c.projM }

// ViewProjection returns P ⋅ V.
func (c *Camera) ViewProjection() linear.M4 { return c.vp }

// Frustum returns the frustum computed by the last call
// to Update.
func (c *Camera) Frustum() *Frustum { return &c.frustum }
