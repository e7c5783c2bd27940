// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"slices"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

// ShadowMapPass renders the depth of the scene from the
// point of view of a light into a render target of its
// own. It does not touch the composer's targets.
type ShadowMapPass struct {
	PassBase
	light   *Light
	camera  *Camera
	target  *RenderTarget
	mat     *Material
	center  linear.V3
	dist    float32
	lightVP linear.M4
}

// NewShadowMapPass creates a shadow map pass for light,
// with a square target of the given size.
// The light's view volume is an orthographic box of
// half height area, centered at the origin.
func NewShadowMapPass(light *Light, size int, area float32) (*ShadowMapPass, error) {
	if light == nil {
		return nil, newPassErr("shadow map requires a light")
	}
	p := DefaultTexParam()
	p.Min, p.Mag = driver.FNearest, driver.FNearest
	p.AddrU, p.AddrV = driver.AClamp, driver.AClamp
	rt, err := NewRenderTarget("shadowMap", size, size, false, &p)
	if err != nil {
		return nil, err
	}
	cam := NewCamera()
	cam.SetName("shadowMap")
	cam.SetProjectionMode(Orthographic)
	cam.SetOrthoHeight(area)
	cam.SetNearPlane(0.1)
	cam.SetFarPlane(4 * area)
	cam.SetProjection(size, size)

	vs := shader.New(shader.Vertex)
	mvp := vs.AddUniform(shader.UMVPMatrix, shader.Mat4)
	pos := vs.AddAttribute(shader.APosition, shader.Vec4)
	vs.SetMain(func() { vs.GLPosition().Assign(mvp.Mul(pos)) })
	fs := shader.New(shader.Fragment)
	fs.AddFunction(shader.FuncPackDepth, shader.PackDepthSrc)
	fs.SetMain(func() {
		fs.GLFragColor().Assign(fs.Expr(shader.Vec4, shader.FuncPackDepth+"("+fs.GLFragCoord().Z().Name()+")"))
	})
	mat, err := NewMaterial(vs, fs)
	if err != nil {
		return nil, err
	}
	mat.SetName("shadowMap")

	s := &ShadowMapPass{
		PassBase: newPassBase(PassShadow, true, false),
		light:    light,
		camera:   cam,
		target:   rt,
		mat:      mat,
		dist:     2 * area,
	}
	s.SetSize(size, size)
	return s, nil
}

// SetCenter sets the point that the light looks at.
func (p *ShadowMapPass) SetCenter(c *linear.V3) { p.center = *c }

// Camera returns the light's camera.
func (p *ShadowMapPass) Camera() *Camera { return p.camera }

// RenderTarget returns the shadow map.
func (p *ShadowMapPass) RenderTarget() *RenderTarget { return p.target }

// LightViewProjection returns the light's view and
// projection matrices, as of the last render.
func (p *ShadowMapPass) LightViewProjection() linear.M4 { return p.lightVP }

func (p *ShadowMapPass) place() {
	var eye linear.V3
	if p.light.IsDirectional() {
		d := p.light.Direction()
		eye.Scale(-p.dist, &d)
		eye.Add(&eye, &p.center)
	} else {
		eye = p.light.Position()
	}
	p.camera.SetPosition(eye[0], eye[1], eye[2])
	p.camera.SetLookAt(p.center[0], p.center[1], p.center[2])
	p.camera.Update()
	p.lightVP = p.camera.ViewProjection()
}

// Render implements Pass.
func (p *ShadowMapPass) Render(scene *Scene, _ *ScreenQuad, _, _ *RenderTarget) error {
	p.place()
	return scene.render(renderOpts{
		target: p.target,
		camera: p.camera,
		mat:    p.mat,
		clear:  true,
		color:  &linear.V4{1, 1, 1, 1},
	})
}

// Reload recreates the shadow map.
func (p *ShadowMapPass) Reload() error { return p.target.Reload() }

// Destroy releases the shadow map.
func (p *ShadowMapPass) Destroy() { p.target.Destroy() }

// ShadowEffect casts shadows from a light onto the
// materials added as receivers.
// It renders in two phases: its ShadowMapPass renders
// the shadow map, then each receiver samples it when
// drawn by a later RenderPass.
type ShadowEffect struct {
	pass      *ShadowMapPass
	influence float32
	receivers []*Material
}

// shadowRecv is the receiver side of a ShadowEffect in
// one material.
type shadowRecv struct {
	effect *ShadowEffect
	frag   *shader.ShadowMap
}

// setModel sets the light MVP matrix for an object with
// the given model matrix.
func (r *shadowRecv) setModel(m *linear.M4) {
	var x linear.M4
	x.Mul(&r.effect.pass.lightVP, m)
	r.frag.SetLightMVP(&x)
}

// NewShadowEffect creates a shadow effect.
// influence is how much shadowed fragments are
// darkened, in the range [0, 1].
func NewShadowEffect(light *Light, size int, area, influence float32) (*ShadowEffect, error) {
	p, err := NewShadowMapPass(light, size, area)
	if err != nil {
		return nil, err
	}
	return &ShadowEffect{pass: p, influence: min(max(influence, 0), 1)}, nil
}

// Passes implements Effect.
func (e *ShadowEffect) Passes() []Pass { return []Pass{e.pass} }

// ShadowMapPass returns the pass that renders the
// shadow map.
func (e *ShadowEffect) ShadowMapPass() *ShadowMapPass { return e.pass }

// AddReceiver makes m receive shadows.
// The fragment shader of m must write its color through
// shader.GColor, as those of NewBasicMaterial do.
// m is recompiled the next time it is drawn.
func (e *ShadowEffect) AddReceiver(m *Material) error {
	var reason string
	switch {
	case m == nil:
		reason = "nil material"
	case m.shadow != nil:
		reason = "material already receives shadows"
	default:
		goto valid
	}
	return newMatErr(reason)
valid:
	frag := shader.NewShadowMap()
	frag.Attach(m.vs, m.fs)
	if err := m.AddTexture(shader.UShadowMap, e.pass.target.Texture()); err != nil {
		m.vs.Detach(frag.Vertex)
		m.fs.Detach(frag.Fragment)
		return err
	}
	frag.SetInfluence(e.influence)
	m.shadow = &shadowRecv{effect: e, frag: frag}
	m.Destroy()
	e.receivers = append(e.receivers, m)
	return nil
}

// RemoveReceiver stops m from receiving shadows.
func (e *ShadowEffect) RemoveReceiver(m *Material) bool {
	i := slices.Index(e.receivers, m)
	if i < 0 {
		return false
	}
	e.receivers = slices.Delete(e.receivers, i, i+1)
	m.vs.Detach(m.shadow.frag.Vertex)
	m.fs.Detach(m.shadow.frag.Fragment)
	m.RemoveTexture(shader.UShadowMap)
	m.shadow = nil
	m.Destroy()
	return true
}

// Receivers returns the materials that receive shadows.
func (e *ShadowEffect) Receivers() []*Material { return slices.Clone(e.receivers) }
