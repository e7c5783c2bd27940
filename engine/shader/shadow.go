// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import "github.com/gviegas/scenegl/linear"

// ShadowMap is a pair of fragments that darken gColor
// where the fragment is occluded from the light, as
// recorded in a packed depth texture rendered from the
// light's point of view.
type ShadowMap struct {
	Vertex   *Shader
	Fragment *Shader

	lightMVP  *Var
	texture   *Var
	influence *Var
}

// NewShadowMap creates the shadow map fragments.
func NewShadowMap() *ShadowMap {
	m := &ShadowMap{Vertex: New(VertexFragment), Fragment: New(FragmentFragment)}

	vs := m.Vertex
	m.lightMVP = vs.AddUniform(ULightMVPMatrix, Mat4)
	vtc := vs.AddVarying(VShadowTexCoord, Vec4)
	vs.SetMain(func() {
		vtc.Assign(m.lightMVP.Mul(vs.Global(APosition, Vec4)))
	})

	fs := m.Fragment
	m.texture = fs.AddUniform(UShadowMap, Sampler2D)
	m.influence = fs.AddUniform(UShadowInfluence, Float)
	ftc := fs.AddVarying(VShadowTexCoord, Vec4)
	fs.AddFunction(FuncUnpackDepth, UnpackDepthSrc)
	shadow := fs.AddGlobal(GShadowValue, Float)
	fs.SetMain(func() {
		coord := fs.Var(Vec3)
		coord.Assign(ftc.XYZ().Div(ftc.W()).Enclose().MulF(0.5).AddF(0.5))
		depth := fs.Var(Float)
		depth.Assign(fs.Expr(Float, FuncUnpackDepth+"("+Texture2D(m.texture, coord.XY()).Name()+")"))
		shadow.AssignF(0)
		fs.If(Compare(coord.Z().SubF(defaultShadowBias), ">", depth))
		shadow.Assign(m.influence)
		fs.EndIf()
		fs.Global(GColor, Vec4).RGB().AssignMul(fs.Float(1).Sub(shadow).Enclose())
	})
	return m
}

// SetLightMVP sets the light's projection * view * model
// matrix of the object being drawn.
func (m *ShadowMap) SetLightMVP(mvp *linear.M4) { m.lightMVP.SetM4(mvp) }

// SetUnit sets the texture unit of the shadow map.
func (m *ShadowMap) SetUnit(unit int) { m.texture.SetUnit(unit) }

// SetInfluence sets how much shadowed fragments are
// darkened, in the range [0, 1].
func (m *ShadowMap) SetInfluence(f float32) { m.influence.SetFloat(f) }

// Attach attaches the shadow fragments to a vertex and
// a fragment shader.
func (m *ShadowMap) Attach(vs, fs *Shader) {
	vs.Attach(m.Vertex)
	fs.Attach(m.Fragment)
}
