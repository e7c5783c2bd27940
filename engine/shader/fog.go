// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import "github.com/gviegas/scenegl/linear"

// Fog is a pair of fragments that blend gColor with a
// fog color based on view depth.
// The density grows linearly from the near distance to
// the far distance.
type Fog struct {
	Vertex   *Shader
	Fragment *Shader

	near, far, enabled *Var
	color              *Var
}

// NewFog creates the fog fragments.
func NewFog() *Fog {
	f := &Fog{Vertex: New(VertexFragment), Fragment: New(FragmentFragment)}

	vs := f.Vertex
	f.near = vs.AddUniform(UFogNear, Float)
	f.far = vs.AddUniform(UFogFar, Float)
	f.enabled = vs.AddUniform(UFogEnabled, Bool)
	density := vs.AddVarying(VFogDensity, Float)
	vs.SetMain(func() {
		vs.If(IsTrue(f.enabled))
		z := vs.GLPosition().Z()
		density.Assign(Clamp(z.Sub(f.near).Enclose().Div(f.far.Sub(f.near).Enclose()), 0, 1))
		vs.Else()
		density.AssignF(0)
		vs.EndIf()
	})

	fs := f.Fragment
	f.color = fs.AddUniform(UFogColor, Vec3)
	fdensity := fs.AddVarying(VFogDensity, Float)
	fs.SetMain(func() {
		rgb := fs.Global(GColor, Vec4).RGB()
		rgb.Assign(Mix(rgb, f.color, fdensity))
	})
	return f
}

// Set sets the fog parameters.
func (f *Fog) Set(color *linear.V3, near, far float32, enabled bool) {
	f.color.SetVec3(color)
	f.near.SetFloat(near)
	f.far.SetFloat(far)
	f.enabled.SetBool(enabled)
}

// Attach attaches the fog fragments to a vertex and a
// fragment shader.
func (f *Fog) Attach(vs, fs *Shader) {
	vs.Attach(f.Vertex)
	fs.Attach(f.Fragment)
}
