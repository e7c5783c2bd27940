// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package effect

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/shader"
)

// Sobel highlights the edges of the input.
type Sobel struct {
	*engine.EffectPass
	resolution
}

// Sobel kernels, row by row from the top left texel.
var (
	sobelX = [9]float32{-1, 0, 1, -2, 0, 2, -1, 0, 1}
	sobelY = [9]float32{-1, -2, -1, 0, 0, 0, 1, 2, 1}
)

// NewSobel creates a Sobel edge detection effect.
func NewSobel() (*Sobel, error) {
	f := newFrag()
	fs := f.fs
	res := fs.AddUniform(UResolution, shader.Vec2)
	luma := f.luma()
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		texel := fs.Var(shader.Vec2)
		texel.Assign(fs.Float(1).Div(res))
		gx := fs.Var(shader.Float)
		gy := fs.Var(shader.Float)
		gx.AssignF(0)
		gy.AssignF(0)
		for i := range 9 {
			if sobelX[i] == 0 && sobelY[i] == 0 {
				continue
			}
			dx, dy := float32(i%3-1), float32(1-i/3)
			l := fs.Var(shader.Float)
			l.Assign(shader.Dot(f.sample(fs.Vec2(dx, dy).Mul(texel)).RGB(), luma))
			if sobelX[i] != 0 {
				gx.AssignAdd(l.MulF(sobelX[i]))
			}
			if sobelY[i] != 0 {
				gy.AssignAdd(l.MulF(sobelY[i]))
			}
		}
		g := fs.Var(shader.Float)
		g.Assign(shader.Length(shader.CastVec2(gx, gy)))
		f.output(in, shader.CastVec4(shader.CastVec3(g), fs.Float(1)))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &Sobel{p, resolution{res}}
	e.SetResolution(1, 1)
	return e, nil
}

// Kaleidoscope mirrors a wedge of the input around its
// center.
type Kaleidoscope struct {
	*engine.EffectPass
	sides *shader.Var
	angle *shader.Var
}

// NewKaleidoscope creates a kaleidoscope effect with
// the given number of sides and rotation, in degrees.
func NewKaleidoscope(sides int, angle float32) (*Kaleidoscope, error) {
	f := newFrag()
	fs := f.fs
	sd := fs.AddUniform(USides, shader.Float)
	ang := fs.AddUniform(UAngle, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		p := fs.Var(shader.Vec2)
		p.Assign(f.tc.SubF(0.5))
		r := fs.Var(shader.Float)
		r.Assign(shader.Length(p))
		wedge := fs.Var(shader.Float)
		wedge.Assign(fs.Float(2 * math32.Pi).Div(sd))
		a := fs.Var(shader.Float)
		a.Assign(shader.Atan(p.Y(), p.X()).Add(ang))
		a.Assign(shader.Mod(a, wedge))
		a.Assign(shader.Abs(a.Sub(wedge.MulF(0.5))))
		p.Assign(shader.CastVec2(shader.Cos(a), shader.Sin(a)).Mul(r))
		f.output(in, shader.Texture2D(f.tex, p.AddF(0.5)))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &Kaleidoscope{p, sd, ang}
	e.SetSides(sides)
	e.SetAngle(angle)
	return e, nil
}

// SetSides sets the number of sides. It must be at
// least 2.
func (e *Kaleidoscope) SetSides(n int) { e.sides.SetFloat(float32(max(n, 2))) }

// SetAngle sets the rotation, in degrees.
func (e *Kaleidoscope) SetAngle(deg float32) { e.angle.SetFloat(deg * math32.Pi / 180) }

// RadialBlur blurs the input outwards from a center.
type RadialBlur struct {
	*engine.EffectPass
	center   *shader.Var
	strength *shader.Var
}

// Number of samples taken by RadialBlur.
const radialSamples = 10

// NewRadialBlur creates a radial blur centered at
// (cx, cy), in texture coordinates.
func NewRadialBlur(cx, cy, strength float32) (*RadialBlur, error) {
	f := newFrag()
	fs := f.fs
	ctr := fs.AddUniform(UCenter, shader.Vec2)
	str := fs.AddUniform(UStrength, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		dir := fs.Var(shader.Vec2)
		dir.Assign(f.tc.Sub(ctr).Mul(str).DivF(radialSamples))
		acc := fs.Var(shader.Vec4)
		acc.Assign(fs.Vec4(0, 0, 0, 0))
		i := fs.For("i", 0, radialSamples)
		acc.AssignAdd(shader.Texture2D(f.tex, f.tc.Sub(dir.Mul(shader.CastFloat(i)))))
		fs.EndFor()
		f.output(in, acc.DivF(radialSamples))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &RadialBlur{p, ctr, str}
	e.Set(cx, cy, strength)
	return e, nil
}

// Set sets the center and strength of e.
func (e *RadialBlur) Set(cx, cy, strength float32) {
	e.center.SetFloats(cx, cy)
	e.strength.SetFloat(strength)
}

// FXAA applies fast approximate anti-aliasing.
type FXAA struct {
	*engine.EffectPass
	resolution
}

const (
	fxaaReduceMin = 1.0 / 128
	fxaaReduceMul = 1.0 / 8
	fxaaSpanMax   = 8
)

// NewFXAA creates an FXAA effect.
func NewFXAA() (*FXAA, error) {
	f := newFrag()
	fs := f.fs
	res := fs.AddUniform(UResolution, shader.Vec2)
	luma := f.luma()
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		inv := fs.Var(shader.Vec2)
		inv.Assign(fs.Float(1).Div(res))
		lum := func(dx, dy float32) *shader.Var {
			l := fs.Var(shader.Float)
			l.Assign(shader.Dot(f.sample(fs.Vec2(dx, dy).Mul(inv)).RGB(), luma))
			return l
		}
		nw, ne, sw, se := lum(-1, -1), lum(1, -1), lum(-1, 1), lum(1, 1)
		m := fs.Var(shader.Float)
		m.Assign(shader.Dot(in.RGB(), luma))
		lo := fs.Var(shader.Float)
		lo.Assign(shader.Min(m, shader.Min(shader.Min(nw, ne), shader.Min(sw, se))))
		hi := fs.Var(shader.Float)
		hi.Assign(shader.Max(m, shader.Max(shader.Max(nw, ne), shader.Max(sw, se))))

		dir := fs.Var(shader.Vec2)
		dir.Assign(shader.CastVec2(
			nw.Add(ne).Enclose().Sub(sw.Add(se).Enclose()).Enclose().Negate(),
			nw.Add(sw).Enclose().Sub(ne.Add(se).Enclose()),
		))
		reduce := fs.Var(shader.Float)
		reduce.Assign(shader.MaxF(nw.Add(ne).Add(sw).Add(se).Enclose().MulF(0.25*fxaaReduceMul), fxaaReduceMin))
		rcp := fs.Var(shader.Float)
		rcp.Assign(fs.Float(1).Div(shader.Min(shader.Abs(dir.X()), shader.Abs(dir.Y())).Add(reduce).Enclose()))
		dir.Assign(shader.ClampV(dir.Mul(rcp), fs.Vec2(-fxaaSpanMax, -fxaaSpanMax), fs.Vec2(fxaaSpanMax, fxaaSpanMax)).Mul(inv))

		a := fs.Var(shader.Vec3)
		a.Assign(f.sample(dir.MulF(1.0/3-0.5)).RGB().Add(f.sample(dir.MulF(2.0/3-0.5)).RGB()).Enclose().MulF(0.5))
		b := fs.Var(shader.Vec3)
		b.Assign(a.MulF(0.5).Add(f.sample(dir.MulF(-0.5)).RGB().Add(f.sample(dir.MulF(0.5)).RGB()).Enclose().MulF(0.25)))
		lb := fs.Var(shader.Float)
		lb.Assign(shader.Dot(b, luma))
		out := fs.Var(shader.Vec4)
		out.Assign(shader.CastVec4(b, in.A()))
		fs.If(shader.Compare(lb, "<", lo).Or(shader.Compare(lb, ">", hi)))
		out.Assign(shader.CastVec4(a, in.A()))
		fs.EndIf()
		f.output(in, out)
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &FXAA{p, resolution{res}}
	e.SetResolution(1, 1)
	return e, nil
}
