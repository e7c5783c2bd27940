// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

const matPrefix = "material: "

func newMatErr(reason string) error { return errors.New(matPrefix + reason) }

// MaterialID identifies a Material in the
// MaterialManager.
type MaterialID int

// Material defines how geometry is shaded.
// It owns a vertex and a fragment shader, the program
// they link into and the textures that the fragment
// shader samples, each bound to the unit matching its
// position in the texture list.
// A Material cannot be used to render until it is
// compiled.
type Material struct {
	name     string
	vs, fs   *shader.Shader
	prog     driver.Program
	compiled bool
	// Set by a failed link until m is reloaded.
	linkErr error
	texs    []matTex

	lighting *shader.Lighting
	fog      *shader.Fog
	shadow   *shadowRecv

	// Resolved by Compile.
	mvp, model, modelView, normal *shader.Var
	attrs                         [IndexBuffer]*shader.Var

	id  MaterialID
	reg bool
}

type matTex struct {
	sampler string
	tex     *Texture
}

// NewMaterial creates a material from a vertex and a
// fragment shader.
// Standard uniforms and attributes (shader.UMVPMatrix,
// shader.APosition and so on) are set by the engine
// when the shaders declare them.
func NewMaterial(vs, fs *shader.Shader) (*Material, error) {
	var reason string
	switch {
	case vs == nil || fs == nil:
		reason = "nil shader"
	case vs.Kind() != shader.Vertex:
		reason = "not a vertex shader"
	case fs.Kind() != shader.Fragment:
		reason = "not a fragment shader"
	default:
		return &Material{vs: vs, fs: fs}, nil
	}
	return nil, newMatErr(reason)
}

// MaterialOptions configures the material created by
// NewBasicMaterial.
type MaterialOptions struct {
	// Sample a texture bound to shader.UTexture.
	Texture bool
	// Use per-vertex colors.
	VertexColors bool
	// Apply diffuse lighting from the scene's lights.
	Lighting bool
	// Apply the scene's fog.
	Fog bool
	// Draw points of size shader.UPointSize.
	Points bool
}

// NewBasicMaterial creates a material from the shaders
// of shader.NewBasic, optionally extended with lighting
// and fog. Its color is opaque white.
func NewBasicMaterial(opts MaterialOptions) *Material {
	vs, fs := shader.NewBasic(shader.BasicOptions{
		Texture:      opts.Texture,
		VertexColors: opts.VertexColors,
		Normals:      opts.Lighting,
		Points:       opts.Points,
	})
	m := &Material{vs: vs, fs: fs}
	if opts.Lighting {
		m.lighting = shader.NewLighting(cfg.MaxLight)
		m.lighting.Attach(vs, fs)
		m.lighting.SetAmbient(&linear.V3{1, 1, 1}, 0.2)
	}
	if opts.Fog {
		m.fog = shader.NewFog()
		m.fog.Attach(vs, fs)
		m.fog.Set(&linear.V3{}, 0, 1, false)
	}
	m.SetColor(&linear.V4{1, 1, 1, 1})
	if opts.Texture {
		m.SetColorInfluence(0)
	} else {
		m.SetColorInfluence(1)
	}
	if opts.Points {
		m.Uniform(shader.UPointSize).SetFloat(1)
	}
	return m
}

// SetName sets the name of m.
func (m *Material) SetName(name string) { m.name = name }

// Name returns the name of m.
func (m *Material) Name() string { return m.name }

// VertexShader returns the vertex shader of m.
func (m *Material) VertexShader() *shader.Shader { return m.vs }

// FragmentShader returns the fragment shader of m.
func (m *Material) FragmentShader() *shader.Shader { return m.fs }

// Uniform returns the named uniform of the fragment
// shader or, failing that, of the vertex shader.
// It returns nil if neither declares it.
func (m *Material) Uniform(name string) *shader.Var {
	if v := m.fs.Uniform(name); v != nil {
		return v
	}
	return m.vs.Uniform(name)
}

// Lit returns whether m is lit by the scene's lights.
func (m *Material) Lit() bool { return m.lighting != nil }

// Compile builds the shaders of m and links them.
// It does nothing if m is already compiled.
// A link failure is fatal to m: it is logged once and
// returned by every call until m is reloaded.
func (m *Material) Compile() error {
	if m.compiled {
		return nil
	}
	if m.linkErr != nil {
		return m.linkErr
	}
	gpu := ctxt.GPU()
	if gpu == nil {
		return newMatErr("no GPU")
	}
	prog, err := gpu.NewProgram(m.vs.Build(), m.fs.Build())
	if err != nil {
		logger().Error("material link failed", "name", m.name, "err", err)
		m.linkErr = fmt.Errorf("%s%w", matPrefix, err)
		return m.linkErr
	}
	m.prog = prog
	m.vs.SetLocations(gpu, prog)
	m.fs.SetLocations(gpu, prog)
	m.mvp = m.Uniform(shader.UMVPMatrix)
	m.model = m.Uniform(shader.UModelMatrix)
	m.modelView = m.Uniform(shader.UModelViewMatrix)
	m.normal = m.Uniform(shader.UNormalMatrix)
	m.attrs[VertexBuffer] = m.vs.Attribute(shader.APosition)
	m.attrs[NormalBuffer] = m.vs.Attribute(shader.ANormal)
	m.attrs[TexCoordBuffer] = m.vs.Attribute(shader.ATextureCoord)
	m.attrs[ColorBuffer] = m.vs.Attribute(shader.AVertexColor)
	m.compiled = true
	logger().Debug("material compiled", "name", m.name, "program", prog)
	return nil
}

// Compiled returns whether m is compiled.
func (m *Material) Compiled() bool { return m.compiled }

// Program returns the program of m.
// It is zero until m is compiled.
func (m *Material) Program() driver.Program { return m.prog }

// Use makes the program of m current.
// m must be compiled.
func (m *Material) Use() { ctxt.GPU().UseProgram(m.prog) }

// AddTexture adds t to m, to be sampled through the
// named sampler uniform. Textures are bound to units in
// the order they are added.
// t may be nil, in which case it must be set with
// SetTexture before m is used.
func (m *Material) AddTexture(sampler string, t *Texture) error {
	var reason string
	v := m.Uniform(sampler)
	n := MaxTextureUnit
	if ctxt.Loaded() {
		n = min(n, ctxt.Limits().MaxTextureUnits)
	}
	switch {
	case v == nil || !v.Type().IsSampler():
		reason = "no sampler named " + sampler
	case slices.ContainsFunc(m.texs, func(x matTex) bool { return x.sampler == sampler }):
		reason = "sampler already in use: " + sampler
	case len(m.texs) >= n:
		reason = "too many textures"
	default:
		v.SetUnit(len(m.texs))
		m.texs = append(m.texs, matTex{sampler, t})
		return nil
	}
	return newMatErr(reason)
}

// SetTexture replaces the texture sampled through the
// named sampler.
func (m *Material) SetTexture(sampler string, t *Texture) error {
	for i := range m.texs {
		if m.texs[i].sampler == sampler {
			m.texs[i].tex = t
			return nil
		}
	}
	return newMatErr("no texture for sampler " + sampler)
}

// RemoveTexture removes the texture sampled through the
// named sampler. The units of the textures that follow
// it are shifted down.
func (m *Material) RemoveTexture(sampler string) bool {
	i := slices.IndexFunc(m.texs, func(x matTex) bool { return x.sampler == sampler })
	if i < 0 {
		return false
	}
	m.texs = slices.Delete(m.texs, i, i+1)
	for j := i; j < len(m.texs); j++ {
		m.Uniform(m.texs[j].sampler).SetUnit(j)
	}
	return true
}

// Textures returns the textures of m in unit order.
func (m *Material) Textures() []*Texture {
	t := make([]*Texture, len(m.texs))
	for i := range m.texs {
		t[i] = m.texs[i].tex
	}
	return t
}

// BindTextures binds every texture of m to its unit.
func (m *Material) BindTextures() {
	gpu := ctxt.GPU()
	for i, x := range m.texs {
		if x.tex != nil {
			gpu.BindTexture(i, x.tex.target, x.tex.tex)
		}
	}
}

// UnbindTextures unbinds the units used by m.
func (m *Material) UnbindTextures() {
	gpu := ctxt.GPU()
	for i, x := range m.texs {
		if x.tex != nil {
			gpu.BindTexture(i, x.tex.target, 0)
		}
	}
}

func (m *Material) setBuffer(key BufferKey, b BufferInfo) {
	v := m.attrs[key]
	if v == nil || v.Loc() < 0 {
		return
	}
	gpu := ctxt.GPU()
	if b.Buf == 0 {
		gpu.DisableVertexAttrib(v.Loc())
		return
	}
	gpu.VertexAttrib(v.Loc(), b.Buf, b.Components, 0, 0)
}

// SetVertices sources the position attribute from b.
func (m *Material) SetVertices(b BufferInfo) { m.setBuffer(VertexBuffer, b) }

// SetNormals sources the normal attribute from b.
func (m *Material) SetNormals(b BufferInfo) { m.setBuffer(NormalBuffer, b) }

// SetTexCoords sources the texture coordinate attribute
// from b.
func (m *Material) SetTexCoords(b BufferInfo) { m.setBuffer(TexCoordBuffer, b) }

// SetColors sources the vertex color attribute from b.
func (m *Material) SetColors(b BufferInfo) { m.setBuffer(ColorBuffer, b) }

// bindGeometry sources every attribute of m from g.
// Attributes that g lacks are disabled.
func (m *Material) bindGeometry(g *Geometry) {
	m.SetVertices(g.bufs[VertexBuffer])
	m.SetNormals(g.bufs[NormalBuffer])
	m.SetTexCoords(g.bufs[TexCoordBuffer])
	m.SetColors(g.bufs[ColorBuffer])
}

// SetMVPMatrix sets the model-view-projection matrix.
func (m *Material) SetMVPMatrix(x *linear.M4) {
	if m.mvp != nil {
		m.mvp.SetM4(x)
	}
}

// SetModelMatrix sets the model matrix.
func (m *Material) SetModelMatrix(x *linear.M4) {
	if m.model != nil {
		m.model.SetM4(x)
	}
	if m.shadow != nil {
		m.shadow.setModel(x)
	}
}

// SetModelViewMatrix sets the model-view matrix.
func (m *Material) SetModelViewMatrix(x *linear.M4) {
	if m.modelView != nil {
		m.modelView.SetM4(x)
	}
}

// SetNormalMatrix sets the normal matrix.
func (m *Material) SetNormalMatrix(x *linear.M3) {
	if m.normal != nil {
		m.normal.SetM3(x)
	}
}

// SetColor sets the uniform shader.UColor, if declared.
func (m *Material) SetColor(c *linear.V4) {
	if v := m.Uniform(shader.UColor); v != nil {
		v.SetVec4(c)
	}
}

// SetColorInfluence sets the uniform
// shader.UColorInfluence, if declared.
func (m *Material) SetColorInfluence(f float32) {
	if v := m.Uniform(shader.UColorInfluence); v != nil {
		v.SetFloat(f)
	}
}

// SetAmbient sets the ambient light of a lit material.
func (m *Material) SetAmbient(color *linear.V3, intensity float32) {
	if m.lighting != nil {
		m.lighting.SetAmbient(color, intensity)
	}
}

// setLights sets the lights and camera position of a
// lit material.
func (m *Material) setLights(lights []*Light, camera *linear.V3) {
	if m.lighting == nil {
		return
	}
	m.lighting.SetLights(lightParams(lights, m.lighting.Len()))
	m.lighting.SetCamera(camera)
}

// setFog sets the fog of a material created with fog.
func (m *Material) setFog(f *Fog) {
	if m.fog == nil {
		return
	}
	if f == nil {
		m.fog.Set(&linear.V3{}, 0, 1, false)
		return
	}
	m.fog.Set(&f.Color, f.Near, f.Far, f.Enabled)
}

// ApplyParams uploads the uniforms of m.
// The program of m must be current.
func (m *Material) ApplyParams() {
	m.vs.ApplyParams()
	m.fs.ApplyParams()
}

// Reload relinks m.
// The previous program is assumed to be invalid.
func (m *Material) Reload() error {
	m.invalidate()
	return m.Compile()
}

func (m *Material) invalidate() {
	m.compiled = false
	m.linkErr = nil
	m.prog = 0
	m.vs.Invalidate()
	m.fs.Invalidate()
}

// Destroy deletes the program of m.
// m can be compiled again.
func (m *Material) Destroy() {
	if m.prog != 0 {
		if gpu := ctxt.GPU(); gpu != nil {
			gpu.DeleteProgram(m.prog)
		}
	}
	m.invalidate()
}

// MaterialManager tracks materials so they can be
// relinked after the context is lost.
// Materials are registered when first drawn.
type MaterialManager struct {
	mu   sync.Mutex
	mats idTable[MaterialID, *Material]
}

var materials MaterialManager

// Materials returns the MaterialManager.
func Materials() *MaterialManager { return &materials }

// Register registers m. It does nothing if m is
// already registered.
func (mm *MaterialManager) Register(m *Material) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if !m.reg {
		m.id = mm.mats.add(m)
		m.reg = true
	}
}

// Unregister unregisters m and deletes its program.
// It must be called on the GPU goroutine.
func (mm *MaterialManager) Unregister(m *Material) {
	mm.mu.Lock()
	if m.reg {
		mm.mats.del(m.id)
		m.reg = false
	}
	mm.mu.Unlock()
	m.Destroy()
}

// Registered returns whether m is registered.
func (mm *MaterialManager) Registered(m *Material) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return m.reg
}

// Len returns the number of registered materials.
func (mm *MaterialManager) Len() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.mats.len()
}

// Reload relinks every registered material.
// It must be called on the GPU goroutine, after the
// context is lost. Failures are joined.
func (mm *MaterialManager) Reload() error {
	mm.mu.Lock()
	mats := slices.Clone(mm.mats.values())
	mm.mu.Unlock()
	var errs []error
	for _, m := range mats {
		if err := m.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reset unregisters every material without touching
// the GPU.
func (mm *MaterialManager) reset() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	for _, m := range mm.mats.values() {
		m.reg = false
		m.invalidate()
	}
	mm.mats = idTable[MaterialID, *Material]{}
}
