// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

const passPrefix = "pass: "

func newPassErr(reason string) error { return errors.New(passPrefix + reason) }

// PassType is the type of a Pass.
// It determines what the Composer renders it with.
type PassType int

// Pass types.
const (
	// Renders the scene.
	PassRender PassType = iota
	// Renders the scene's depth.
	PassDepth
	// Renders a shadow map.
	PassShadow
	// Writes the stencil buffer and activates the
	// stencil mask.
	PassMask
	// Deactivates the stencil mask.
	PassClear
	// Renders a full-screen quad.
	PassEffect
)

func (t PassType) String() string {
	switch t {
	case PassRender:
		return "Render"
	case PassDepth:
		return "Depth"
	case PassShadow:
		return "Shadow"
	case PassMask:
		return "Mask"
	case PassClear:
		return "Clear"
	case PassEffect:
		return "Effect"
	}
	return "!engine.PassType"
}

// Pass is a step of a Composer's pipeline.
type Pass interface {
	Type() PassType
	Enabled() bool
	// Whether the target is cleared before rendering.
	Clear() bool
	// Whether the pass renders into the write target,
	// after which the composer swaps write and read.
	// A pass that does not swap renders into the read
	// target.
	NeedsSwap() bool
	// Whether the pass renders into the default
	// framebuffer.
	RenderToScreen() bool
	// Size returns the viewport size of the pass.
	// Negative values mean the size of the targets.
	Size() (width, height int)
	SetSize(width, height int)
	// Render renders the pass. scene is the scene for
	// PassRender, PassDepth, PassShadow and PassMask and
	// the screen quad scene for PassEffect. quad is
	// always the screen quad.
	Render(scene *Scene, quad *ScreenQuad, write, read *RenderTarget) error
}

// PassBase implements the state common to every Pass.
// Passes embed it.
type PassBase struct {
	typ      PassType
	enabled  bool
	clear    bool
	swap     bool
	toScreen bool
	width    int
	height   int
}

func newPassBase(typ PassType, clear, swap bool) PassBase {
	return PassBase{
		typ:     typ,
		enabled: true,
		clear:   clear,
		swap:    swap,
		width:   -1,
		height:  -1,
	}
}

// Type implements Pass.
func (p *PassBase) Type() PassType { return p.typ }

// Enabled implements Pass.
func (p *PassBase) Enabled() bool { return p.enabled }

// SetEnabled sets whether the pass runs.
func (p *PassBase) SetEnabled(b bool) { p.enabled = b }

// Clear implements Pass.
func (p *PassBase) Clear() bool { return p.clear }

// SetClear sets whether the target is cleared.
func (p *PassBase) SetClear(b bool) { p.clear = b }

// NeedsSwap implements Pass.
func (p *PassBase) NeedsSwap() bool { return p.swap }

// SetNeedsSwap sets whether the targets are swapped
// after the pass.
func (p *PassBase) SetNeedsSwap(b bool) { p.swap = b }

// RenderToScreen implements Pass.
func (p *PassBase) RenderToScreen() bool { return p.toScreen }

// SetRenderToScreen sets whether the pass renders into
// the default framebuffer.
func (p *PassBase) SetRenderToScreen(b bool) { p.toScreen = b }

// Size implements Pass.
func (p *PassBase) Size() (width, height int) { return p.width, p.height }

// SetSize implements Pass.
func (p *PassBase) SetSize(width, height int) { p.width, p.height = width, height }

// Target returns the target that the pass renders into:
// nil for the default framebuffer, write if the pass
// needs a swap and read otherwise.
func (p *PassBase) Target(write, read *RenderTarget) *RenderTarget {
	switch {
	case p.toScreen:
		return nil
	case p.swap:
		return write
	}
	return read
}

// Effect is a group of passes added to a Composer as a
// unit.
type Effect interface {
	Passes() []Pass
}

// ScreenQuad is a scene holding a single quad that
// covers the viewport. Effect passes draw it with their
// own material.
type ScreenQuad struct {
	scene *Scene
	obj   *Object
}

func newScreenQuad() *ScreenQuad {
	s := NewScene("screenQuad")
	s.camera.SetProjectionMode(Orthographic)
	s.camera.SetPosition(0, 0, 1)
	s.camera.SetNearPlane(0.5)
	s.camera.SetFarPlane(2)
	o := NewMesh("screenQuad", NewScreenQuad(), nil)
	o.depthTest = false
	o.depthMask = false
	s.children = []*Object{o}
	return &ScreenQuad{scene: s, obj: o}
}

// Scene returns the scene of q.
func (q *ScreenQuad) Scene() *Scene { return q.scene }

// Render draws q with m into target, or into the
// default framebuffer if target is nil.
func (q *ScreenQuad) Render(m *Material, target *RenderTarget, clear bool) error {
	q.obj.mat = m
	return q.scene.render(renderOpts{
		target: target,
		clear:  clear,
		color:  &linear.V4{},
	})
}

// NewEffectVertexShader creates the vertex shader of
// full-screen effects. It passes aTextureCoord to
// vTextureCoord.
func NewEffectVertexShader() *shader.Shader {
	vs := shader.New(shader.Vertex)
	mvp := vs.AddUniform(shader.UMVPMatrix, shader.Mat4)
	pos := vs.AddAttribute(shader.APosition, shader.Vec4)
	tc := vs.AddAttribute(shader.ATextureCoord, shader.Vec2)
	vtc := vs.AddVarying(shader.VTextureCoord, shader.Vec2)
	vs.SetMain(func() {
		vs.GLPosition().Assign(mvp.Mul(pos))
		vtc.Assign(tc)
	})
	return vs
}

// EffectPass renders a full-screen quad with a
// fragment shader that samples the previous pass's
// output through shader.UTexture.
type EffectPass struct {
	PassBase
	mat     *Material
	opacity float32
	// Copies the output back into read when the pass
	// does not swap. Created on demand.
	back *Material
}

// NewEffectPass creates an effect pass from fs, which
// must declare shader.UTexture as a sampler2D.
// It may also declare shader.UOpacity.
func NewEffectPass(fs *shader.Shader) (*EffectPass, error) {
	mat, err := NewMaterial(NewEffectVertexShader(), fs)
	if err != nil {
		return nil, err
	}
	if err := mat.AddTexture(shader.UTexture, nil); err != nil {
		return nil, fmt.Errorf("%s%w", passPrefix, err)
	}
	p := &EffectPass{PassBase: newPassBase(PassEffect, false, true), mat: mat}
	p.SetOpacity(1)
	return p, nil
}

// Material returns the material of p.
func (p *EffectPass) Material() *Material { return p.mat }

// SetOpacity sets the uniform shader.UOpacity, if
// declared.
func (p *EffectPass) SetOpacity(f float32) {
	p.opacity = f
	if v := p.mat.Uniform(shader.UOpacity); v != nil {
		v.SetFloat(f)
	}
}

// Opacity returns the opacity of p.
func (p *EffectPass) Opacity() float32 { return p.opacity }

// Render implements Pass.
func (p *EffectPass) Render(_ *Scene, quad *ScreenQuad, write, read *RenderTarget) error {
	if read == nil {
		return newPassErr("effect pass requires an input")
	}
	if err := p.mat.SetTexture(shader.UTexture, read.Texture()); err != nil {
		return err
	}
	target := p.Target(write, read)
	if target != read {
		return quad.Render(p.mat, target, p.clear)
	}
	// read cannot be sampled while it is rendered into,
	// so the output goes through write.
	if write == nil {
		return newPassErr("effect pass without swap requires a write target")
	}
	if err := quad.Render(p.mat, write, p.clear); err != nil {
		return err
	}
	if p.back == nil {
		m, err := newCopyMaterial()
		if err != nil {
			return err
		}
		p.back = m
	}
	if err := p.back.SetTexture(shader.UTexture, write.Texture()); err != nil {
		return err
	}
	return quad.Render(p.back, read, false)
}

// newCopyMaterial creates a material that copies
// shader.UTexture unchanged.
func newCopyMaterial() (*Material, error) {
	m, err := NewMaterial(NewEffectVertexShader(), NewCopyFragmentShader())
	if err != nil {
		return nil, err
	}
	m.SetName("copy")
	if err := m.AddTexture(shader.UTexture, nil); err != nil {
		return nil, fmt.Errorf("%s%w", passPrefix, err)
	}
	m.Uniform(shader.UOpacity).SetFloat(1)
	return m, nil
}

// NewCopyFragmentShader creates a fragment shader that
// outputs uTexture scaled by uOpacity.
func NewCopyFragmentShader() *shader.Shader {
	fs := shader.New(shader.Fragment)
	tex := fs.AddUniform(shader.UTexture, shader.Sampler2D)
	op := fs.AddUniform(shader.UOpacity, shader.Float)
	tc := fs.AddVarying(shader.VTextureCoord, shader.Vec2)
	fs.SetMain(func() {
		fs.GLFragColor().Assign(shader.Texture2D(tex, tc).Mul(op))
	})
	return fs
}

// CopyPass copies its input into its target.
type CopyPass struct{ *EffectPass }

// NewCopyPass creates a copy pass.
func NewCopyPass() *CopyPass {
	p, err := NewEffectPass(NewCopyFragmentShader())
	if err != nil {
		panic("unexpected error in NewCopyPass: " + err.Error())
	}
	return &CopyPass{p}
}

// RenderPass renders the scene.
type RenderPass struct {
	PassBase
	camera *Camera
	color  *linear.V4
}

// NewRenderPass creates a pass that renders the scene
// with camera, or with the scene's current camera if
// camera is nil.
func NewRenderPass(camera *Camera) *RenderPass {
	return &RenderPass{PassBase: newPassBase(PassRender, true, false), camera: camera}
}

// SetClearColor sets the color that the target is
// cleared with, instead of the scene's background.
// nil restores the background.
func (p *RenderPass) SetClearColor(c *linear.V4) { p.color = c }

// Render implements Pass.
func (p *RenderPass) Render(scene *Scene, _ *ScreenQuad, write, read *RenderTarget) error {
	return scene.render(renderOpts{
		target: p.Target(write, read),
		camera: p.camera,
		clear:  p.clear,
		color:  p.color,
	})
}

// MaskPass writes the stencil buffer of both targets
// where the scene's objects are drawn, and makes later
// passes affect only those pixels.
// Color and depth are not written.
type MaskPass struct {
	PassBase
	inverse bool
}

// NewMaskPass creates a mask pass.
// If inverse is true, later passes affect only the
// pixels not covered by the scene's objects.
func NewMaskPass(inverse bool) *MaskPass {
	return &MaskPass{PassBase: newPassBase(PassMask, true, false), inverse: inverse}
}

// Render implements Pass.
func (p *MaskPass) Render(scene *Scene, _ *ScreenQuad, write, read *RenderTarget) error {
	gpu := ctxt.GPU()
	ref, clear := 1, 0
	if p.inverse {
		ref, clear = 0, 1
	}
	gpu.ColorMask(false, false, false, false)
	gpu.DepthMask(false)
	gpu.Enable(driver.CapStencilTest)
	gpu.StencilOp(driver.SReplace, driver.SReplace, driver.SReplace)
	gpu.StencilFunc(driver.CAlways, ref, 0xffffffff)
	gpu.StencilMask(0xffffffff)
	var errs []error
	for _, rt := range [2]*RenderTarget{read, write} {
		if rt == nil {
			continue
		}
		errs = append(errs, scene.render(renderOpts{target: rt, stencil: &clear}))
	}
	gpu.ColorMask(true, true, true, true)
	gpu.DepthMask(true)
	gpu.StencilFunc(driver.CEqual, 1, 0xffffffff)
	gpu.StencilOp(driver.SKeep, driver.SKeep, driver.SKeep)
	return errors.Join(errs...)
}

// ClearMaskPass deactivates the mask of a previous
// MaskPass.
type ClearMaskPass struct{ PassBase }

// NewClearMaskPass creates a clear mask pass.
func NewClearMaskPass() *ClearMaskPass {
	return &ClearMaskPass{newPassBase(PassClear, false, false)}
}

// Render implements Pass.
func (p *ClearMaskPass) Render(*Scene, *ScreenQuad, *RenderTarget, *RenderTarget) error {
	ctxt.GPU().Disable(driver.CapStencilTest)
	return nil
}

// DepthPass renders the linear depth of the scene,
// packed into the color channels with
// shader.FuncPackDepth. Nearer fragments have lower
// values; the target is cleared to white.
type DepthPass struct {
	PassBase
	camera *Camera
	mat    *Material
}

// NewDepthPass creates a depth pass that uses camera,
// or the scene's current camera if camera is nil.
func NewDepthPass(camera *Camera) *DepthPass {
	vs := shader.New(shader.Vertex)
	mvp := vs.AddUniform(shader.UMVPMatrix, shader.Mat4)
	mv := vs.AddUniform(shader.UModelViewMatrix, shader.Mat4)
	pos := vs.AddAttribute(shader.APosition, shader.Vec4)
	vpos := vs.AddVarying(shader.VPosition, shader.Vec4)
	vs.SetMain(func() {
		vs.GLPosition().Assign(mvp.Mul(pos))
		vpos.Assign(mv.Mul(pos))
	})
	fs := shader.New(shader.Fragment)
	near := fs.AddUniform(shader.UNear, shader.Float)
	far := fs.AddUniform(shader.UFar, shader.Float)
	fpos := fs.AddVarying(shader.VPosition, shader.Vec4)
	fs.AddFunction(shader.FuncPackDepth, shader.PackDepthSrc)
	fs.SetMain(func() {
		d := fs.Var(shader.Float)
		d.Assign(fpos.Z().Negate().Sub(near).Enclose().Div(far.Sub(near).Enclose()))
		fs.GLFragColor().Assign(fs.Expr(shader.Vec4, shader.FuncPackDepth+"("+shader.Clamp(d, 0, 0.999).Name()+")"))
	})
	mat, err := NewMaterial(vs, fs)
	if err != nil {
		panic("unexpected error in NewDepthPass: " + err.Error())
	}
	mat.SetName("depth")
	return &DepthPass{PassBase: newPassBase(PassDepth, true, true), camera: camera, mat: mat}
}

// Material returns the material of p.
func (p *DepthPass) Material() *Material { return p.mat }

// Render implements Pass.
func (p *DepthPass) Render(scene *Scene, _ *ScreenQuad, write, read *RenderTarget) error {
	cam := p.camera
	if cam == nil {
		cam = scene.camera
	}
	p.mat.Uniform(shader.UNear).SetFloat(cam.near)
	p.mat.Uniform(shader.UFar).SetFloat(cam.far)
	return scene.render(renderOpts{
		target: p.Target(write, read),
		camera: cam,
		mat:    p.mat,
		clear:  p.clear,
		color:  &linear.V4{1, 1, 1, 1},
	})
}

// CopyToNewRenderTargetPass copies its input into a
// render target of its own, which other materials can
// then sample.
type CopyToNewRenderTargetPass struct {
	PassBase
	target *RenderTarget
	copy   *CopyPass
}

// NewCopyToNewRenderTargetPass creates the pass and
// its render target.
func NewCopyToNewRenderTargetPass(name string, width, height int) (*CopyToNewRenderTargetPass, error) {
	rt, err := newScreenTarget(name, width, height, false)
	if err != nil {
		return nil, err
	}
	return &CopyToNewRenderTargetPass{
		PassBase: newPassBase(PassEffect, false, false),
		target:   rt,
		copy:     NewCopyPass(),
	}, nil
}

// RenderTarget returns the target that p copies into.
func (p *CopyToNewRenderTargetPass) RenderTarget() *RenderTarget { return p.target }

// Render implements Pass.
func (p *CopyToNewRenderTargetPass) Render(_ *Scene, quad *ScreenQuad, _, read *RenderTarget) error {
	if read == nil {
		return newPassErr("copy pass requires an input")
	}
	if err := p.copy.mat.SetTexture(shader.UTexture, read.Texture()); err != nil {
		return err
	}
	return quad.Render(p.copy.mat, p.target, true)
}

// Reload recreates the render target of p.
func (p *CopyToNewRenderTargetPass) Reload() error { return p.target.Reload() }

// Destroy releases the render target of p.
func (p *CopyToNewRenderTargetPass) Destroy() { p.target.Destroy() }
