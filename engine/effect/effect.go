// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package effect implements full-screen post-processing
// effects for engine.Composer.
//
// Every effect is an engine.EffectPass whose fragment
// shader is written with the shader package. It samples
// the output of the previous pass through
// shader.UTexture at shader.VTextureCoord and blends its
// result with the input according to shader.UOpacity.
package effect

import (
	"errors"

	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/shader"
)

const prefix = "effect: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Names of the uniforms declared by effects.
const (
	UBlendTexture = "uBlendTexture"
	UResolution   = "uResolution"
	UThreshold    = "uThreshold"
	UPixelSize    = "uPixelSize"
	UTiles        = "uTiles"
	USides        = "uSides"
	UAngle        = "uAngle"
	UCenter       = "uCenter"
	UStrength     = "uStrength"
	UOffset       = "uOffset"
	UDarkness     = "uDarkness"
)

// frag holds the declarations shared by the fragment
// shaders of effects.
type frag struct {
	fs      *shader.Shader
	tex     *shader.Var
	opacity *shader.Var
	tc      *shader.Var
}

func newFrag() *frag {
	fs := shader.New(shader.Fragment)
	return &frag{
		fs:      fs,
		tex:     fs.AddUniform(shader.UTexture, shader.Sampler2D),
		opacity: fs.AddUniform(shader.UOpacity, shader.Float),
		tc:      fs.AddVarying(shader.VTextureCoord, shader.Vec2),
	}
}

// sample returns texture2D(uTexture, vTextureCoord + off).
// A nil off samples at vTextureCoord.
func (f *frag) sample(off *shader.Var) *shader.Var {
	if off == nil {
		return shader.Texture2D(f.tex, f.tc)
	}
	return shader.Texture2D(f.tex, f.tc.Add(off))
}

// luma declares the Rec. 601 luma weights.
func (f *frag) luma() *shader.Var {
	return f.fs.AddConst("cLuma", shader.Vec3, "vec3(0.299, 0.587, 0.114)")
}

// output writes color blended over the input by
// uOpacity.
func (f *frag) output(in, color *shader.Var) {
	f.fs.GLFragColor().Assign(shader.Mix(in, color, f.opacity))
}

// pass creates the effect pass of f.
func (f *frag) pass() (*engine.EffectPass, error) { return engine.NewEffectPass(f.fs) }

// resolution is embedded by effects that need the size
// of their input in pixels.
type resolution struct{ v *shader.Var }

// SetResolution sets the size of the input, in pixels.
// The composer calls it before each render.
func (r resolution) SetResolution(width, height int) {
	r.v.SetFloats(float32(max(width, 1)), float32(max(height, 1)))
}
