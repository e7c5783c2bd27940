// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package effect

import (
	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/shader"
)

// GreyMode is the type of greyscale conversions.
type GreyMode int

// Greyscale conversions.
const (
	// Average of the three channels.
	Intensity GreyMode = iota
	// Average of the largest and smallest channels.
	Lightness
	// Weighted sum of the channels (Rec. 601).
	Luma
	// Largest channel.
	Value
)

// GreyScale converts the input to shades of grey.
type GreyScale struct {
	*engine.EffectPass
	mode GreyMode
}

// NewGreyScale creates a greyscale effect.
func NewGreyScale(mode GreyMode) (*GreyScale, error) {
	if mode < Intensity || mode > Value {
		return nil, newErr("undefined greyscale mode")
	}
	f := newFrag()
	fs := f.fs
	var luma *shader.Var
	if mode == Luma {
		luma = f.luma()
	}
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		c := in.RGB()
		g := fs.Var(shader.Float)
		switch mode {
		case Intensity:
			g.Assign(c.X().Add(c.Y()).Add(c.Z()).Enclose().DivF(3))
		case Lightness:
			hi := shader.Max(c.X(), shader.Max(c.Y(), c.Z()))
			lo := shader.Min(c.X(), shader.Min(c.Y(), c.Z()))
			g.Assign(hi.Add(lo).Enclose().MulF(0.5))
		case Luma:
			g.Assign(shader.Dot(c, luma))
		case Value:
			g.Assign(shader.Max(c.X(), shader.Max(c.Y(), c.Z())))
		}
		f.output(in, shader.CastVec4(shader.CastVec3(g), in.A()))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	return &GreyScale{p, mode}, nil
}

// Mode returns the conversion of g.
func (g *GreyScale) Mode() GreyMode { return g.mode }

// ColorThreshold keeps the pixels whose luma is above
// a threshold and blacks out the rest.
type ColorThreshold struct {
	*engine.EffectPass
	threshold *shader.Var
}

// NewColorThreshold creates a color threshold effect.
func NewColorThreshold(threshold float32) (*ColorThreshold, error) {
	f := newFrag()
	fs := f.fs
	luma := f.luma()
	th := fs.AddUniform(UThreshold, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		keep := fs.Var(shader.Float)
		keep.Assign(shader.Step(th, shader.Dot(in.RGB(), luma)))
		f.output(in, shader.CastVec4(in.RGB().Mul(keep), in.A()))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &ColorThreshold{p, th}
	e.SetThreshold(threshold)
	return e, nil
}

// SetThreshold sets the luma threshold, in [0, 1].
func (e *ColorThreshold) SetThreshold(t float32) { e.threshold.SetFloat(t) }

// Pixelated renders the input with large pixels.
type Pixelated struct {
	*engine.EffectPass
	resolution
	size *shader.Var
}

// NewPixelated creates a pixelation effect whose pixels
// are size input pixels wide.
func NewPixelated(size float32) (*Pixelated, error) {
	f := newFrag()
	fs := f.fs
	res := fs.AddUniform(UResolution, shader.Vec2)
	px := fs.AddUniform(UPixelSize, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		cell := fs.Var(shader.Vec2)
		cell.Assign(px.Div(res))
		coord := fs.Var(shader.Vec2)
		coord.Assign(shader.Floor(f.tc.Div(cell)).AddF(0.5).Mul(cell))
		f.output(in, shader.Texture2D(f.tex, coord))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &Pixelated{p, resolution{res}, px}
	e.SetResolution(1, 1)
	e.SetPixelSize(size)
	return e, nil
}

// SetPixelSize sets the width of the large pixels, in
// input pixels.
func (e *Pixelated) SetPixelSize(size float32) { e.size.SetFloat(max(size, 1)) }

// Tile repeats the input in a grid.
type Tile struct {
	*engine.EffectPass
	tiles *shader.Var
}

// NewTile creates a tiling effect with n tiles per row
// and column.
func NewTile(n float32) (*Tile, error) {
	f := newFrag()
	fs := f.fs
	tiles := fs.AddUniform(UTiles, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		f.output(in, shader.Texture2D(f.tex, shader.Fract(f.tc.Mul(tiles))))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &Tile{p, tiles}
	e.SetTiles(n)
	return e, nil
}

// SetTiles sets the number of tiles per row and column.
func (e *Tile) SetTiles(n float32) { e.tiles.SetFloat(max(n, 1)) }

// Vignette darkens the borders of the input.
type Vignette struct {
	*engine.EffectPass
	offset   *shader.Var
	darkness *shader.Var
}

// NewVignette creates a vignette effect.
// offset scales the distance from the center; darkness
// is the intensity of the darkening.
func NewVignette(offset, darkness float32) (*Vignette, error) {
	f := newFrag()
	fs := f.fs
	off := fs.AddUniform(UOffset, shader.Float)
	dark := fs.AddUniform(UDarkness, shader.Float)
	fs.SetMain(func() {
		in := fs.Var(shader.Vec4)
		in.Assign(f.sample(nil))
		uv := fs.Var(shader.Vec2)
		uv.Assign(f.tc.SubF(0.5).Enclose().Mul(off))
		c := fs.Var(shader.Vec3)
		c.Assign(shader.Mix(in.RGB(), shader.CastVec3(fs.Float(1).Sub(dark)), shader.Dot(uv, uv)))
		f.output(in, shader.CastVec4(c, in.A()))
	})
	p, err := f.pass()
	if err != nil {
		return nil, err
	}
	e := &Vignette{p, off, dark}
	e.Set(offset, darkness)
	return e, nil
}

// Set sets the offset and darkness of e.
func (e *Vignette) Set(offset, darkness float32) {
	e.offset.SetFloat(offset)
	e.darkness.SetFloat(darkness)
}
