// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package effect

import (
	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/shader"
)

// BlendMode is the type of blend modes.
type BlendMode int

// Blend modes.
const (
	Add BlendMode = iota
	Burn
	Darken
	HardLight
	Lighten
	Multiply
	Overlay
	Screen
	SoftLight
	Subtract
)

func (m BlendMode) String() string {
	switch m {
	case Add:
		return "Add"
	case Burn:
		return "Burn"
	case Darken:
		return "Darken"
	case HardLight:
		return "HardLight"
	case Lighten:
		return "Lighten"
	case Multiply:
		return "Multiply"
	case Overlay:
		return "Overlay"
	case Screen:
		return "Screen"
	case SoftLight:
		return "SoftLight"
	case Subtract:
		return "Subtract"
	}
	return "!effect.BlendMode"
}

// Blend blends a texture over the input.
type Blend struct {
	*engine.EffectPass
	mode BlendMode
}

// NewBlend creates a blend effect that combines the
// input (base) with tex (blend) using mode.
func NewBlend(mode BlendMode, tex *engine.Texture) (*Blend, error) {
	if mode < Add || mode > Subtract {
		return nil, newErr("undefined blend mode")
	}
	f := newFrag()
	fs := f.fs
	btex := fs.AddUniform(UBlendTexture, shader.Sampler2D)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		base := in.RGB()
		blend := fs.Var(shader.Vec3)
		blend.Assign(shader.Texture2D(btex, f.tc).RGB())
		res := fs.Var(shader.Vec3)
		res.Assign(blendExpr(fs, mode, base, blend))
		f.output(in, shader.CastVec4(res, in.A()))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	if err := p.Material().AddTexture(UBlendTexture, tex); err != nil {
		return nil, err
	}
	return &Blend{p, mode}, nil
}

// Mode returns the blend mode of b.
func (b *Blend) Mode() BlendMode { return b.mode }

// SetTexture sets the blend texture.
func (b *Blend) SetTexture(tex *engine.Texture) error {
	return b.Material().SetTexture(UBlendTexture, tex)
}

// blendExpr returns the vec3 expression of mode applied
// to base and blend.
func blendExpr(fs *shader.Shader, mode BlendMode, base, blend *shader.Var) *shader.Var {
	one := fs.Float(1)
	// 2ab if a < 0.5, 1 - 2(1-a)(1-b) otherwise.
	overlay := func(a, b *shader.Var) *shader.Var {
		lo := a.Mul(b).MulF(2)
		hi := one.Sub(one.Sub(a).Enclose().Mul(one.Sub(b).Enclose()).MulF(2))
		return shader.Mix(lo, hi.Enclose(), shader.Step(fs.Float(0.5), a))
	}
	switch mode {
	case Add:
		return shader.MinF(base.Add(blend), 1)
	case Burn:
		b := shader.MaxF(blend, 1e-5)
		return shader.MaxF(one.Sub(one.Sub(base).Enclose().Div(b)), 0)
	case Darken:
		return shader.Min(base, blend)
	case HardLight:
		return overlay(blend, base)
	case Lighten:
		return shader.Max(base, blend)
	case Multiply:
		return base.Mul(blend)
	case Overlay:
		return overlay(base, blend)
	case Screen:
		return one.Sub(one.Sub(base).Enclose().Mul(one.Sub(blend).Enclose()))
	case SoftLight:
		lo := base.Mul(blend).MulF(2).Add(base.Mul(base).Mul(one.Sub(blend.MulF(2)).Enclose()))
		hi := shader.Sqrt(base).Mul(blend.MulF(2).SubF(1).Enclose()).Add(base.MulF(2).Mul(one.Sub(blend).Enclose()))
		return shader.Mix(lo.Enclose(), hi.Enclose(), shader.Step(fs.Float(0.5), blend))
	case Subtract:
		return shader.MaxF(base.Add(blend).SubF(1), 0)
	}
	panic("undefined blend mode")
}
