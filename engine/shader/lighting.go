// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import "github.com/gviegas/scenegl/linear"

// LightParams are the per-light values consumed by
// Lighting.
type LightParams struct {
	Type      int
	Color     linear.V3
	Power     float32
	Position  linear.V3
	Direction linear.V3
}

// Lighting is a pair of fragments that compute diffuse
// (Lambert) lighting for a fixed number of lights.
// The accumulated light, plus ambient, scales gColor.rgb.
type Lighting struct {
	Vertex   *Shader
	Fragment *Shader

	n         int
	color     *Var
	power     *Var
	position  *Var
	direction *Var
	typ       *Var
	ambient   *Var
	intensity *Var
	camera    *Var
}

// NewLighting creates lighting fragments for n lights.
func NewLighting(n int) *Lighting {
	if n < 1 {
		panic("shader: lighting needs at least one light")
	}
	l := &Lighting{Vertex: New(VertexFragment), Fragment: New(FragmentFragment), n: n}

	vs := l.Vertex
	model := vs.AddUniform(UModelMatrix, Mat4)
	normal := vs.AddUniform(UNormalMatrix, Mat3)
	l.camera = vs.AddUniform(UCameraPosition, Vec3)
	anrm := vs.AddAttribute(ANormal, Vec3)
	vnrm := vs.AddVarying(VNormal, Vec3)
	vpos := vs.AddVarying(VPosition, Vec3)
	veye := vs.AddVarying(VEyeDir, Vec3)
	vs.SetMain(func() {
		vnrm.Assign(Normalize(normal.Mul(anrm)))
		vpos.Assign(model.Mul(vs.Global(APosition, Vec4)).Enclose().XYZ())
		veye.Assign(Normalize(l.camera.Sub(vpos)))
	})

	fs := l.Fragment
	l.color = fs.AddUniformArray(ULightColor, Vec3, n)
	l.power = fs.AddUniformArray(ULightPower, Float, n)
	l.position = fs.AddUniformArray(ULightPosition, Vec3, n)
	l.direction = fs.AddUniformArray(ULightDirection, Vec3, n)
	l.typ = fs.AddUniformArray(ULightType, Int, n)
	l.ambient = fs.AddUniform(UAmbientColor, Vec3)
	l.intensity = fs.AddUniform(UAmbientIntensity, Float)
	fnrm := fs.AddVarying(VNormal, Vec3)
	fpos := fs.AddVarying(VPosition, Vec3)
	fs.AddVarying(VEyeDir, Vec3)
	fs.SetMain(func() {
		nrm := fs.Var(Vec3)
		nrm.Assign(Normalize(fnrm))
		acc := fs.Var(Vec3)
		acc.Assign(l.ambient.Mul(l.intensity))
		dir := fs.Var(Vec3)
		att := fs.Var(Float)
		for i := range n {
			if i == 0 {
				dir.Assign(fs.Vec3(0, 0, 0))
				att.AssignF(1)
			}
			fs.If(Compare(l.typ.ElementAt(i), "==", fs.Int(DirectionalLight)))
			dir.Assign(l.direction.ElementAt(i).Negate())
			att.AssignF(1)
			fs.Else()
			dir.Assign(l.position.ElementAt(i).Sub(fpos))
			d := Length(dir)
			att.Assign(fs.Float(1).Div(fs.Float(1).Add(d.Mul(d)).Enclose()))
			fs.EndIf()
			lambert := MaxF(Dot(nrm, Normalize(dir)), 0)
			acc.AssignAdd(l.color.ElementAt(i).Mul(l.power.ElementAt(i)).Mul(lambert).Mul(att))
		}
		fs.Global(GColor, Vec4).RGB().AssignMul(acc)
	})
	return l
}

// Len returns the number of lights.
func (l *Lighting) Len() int { return l.n }

// SetLights sets the light values.
// Lights beyond the capacity are ignored; missing lights
// have zero power.
func (l *Lighting) SetLights(lights []LightParams) {
	color := make([]float32, 0, 3*l.n)
	power := make([]float32, 0, l.n)
	pos := make([]float32, 0, 3*l.n)
	dir := make([]float32, 0, 3*l.n)
	typ := make([]int32, 0, l.n)
	for i := range l.n {
		var p LightParams
		if i < len(lights) {
			p = lights[i]
		}
		color = append(color, p.Color[:]...)
		power = append(power, p.Power)
		pos = append(pos, p.Position[:]...)
		dir = append(dir, p.Direction[:]...)
		typ = append(typ, int32(p.Type))
	}
	l.color.SetFloats(color...)
	l.power.SetFloats(power...)
	l.position.SetFloats(pos...)
	l.direction.SetFloats(dir...)
	l.typ.SetInts(typ...)
}

// SetAmbient sets the ambient light.
func (l *Lighting) SetAmbient(color *linear.V3, intensity float32) {
	l.ambient.SetVec3(color)
	l.intensity.SetFloat(intensity)
}

// SetCamera sets the world position of the viewer.
func (l *Lighting) SetCamera(pos *linear.V3) { l.camera.SetVec3(pos) }

// Attach attaches the lighting fragments to a vertex and
// a fragment shader.
func (l *Lighting) Attach(vs, fs *Shader) {
	vs.Attach(l.Vertex)
	fs.Attach(l.Fragment)
}
