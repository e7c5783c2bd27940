// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"image"
	"slices"

	"golang.org/x/image/draw"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

const texPrefix = "texture: "

func newTexErr(reason string) error { return errors.New(texPrefix + reason) }

// TextureID identifies a Texture in a TextureManager.
type TextureID int

// Texture wraps a driver.Texture.
// It keeps a CPU copy of its pixels so it can be
// recreated after the context is lost.
type Texture struct {
	name   string
	target driver.TexTarget
	tex    driver.Texture
	param  TexParam
	width  int
	height int
	// One element per face: one for 2D textures and
	// six for cube maps. Nil for external textures and
	// for the color textures of render targets.
	pixels [][]byte

	id  TextureID
	mgr *TextureManager
}

// TexParam describes parameters of a texture.
type TexParam struct {
	driver.PixelFmt
	driver.Sampling
	// Whether to generate a mip chain on upload.
	Mipmap bool
}

// DefaultTexParam returns RGBA8 with linear filtering
// and wrap addressing.
func DefaultTexParam() TexParam {
	return TexParam{
		PixelFmt: driver.RGBA8,
		Sampling: driver.Sampling{Min: driver.FLinear, Mag: driver.FLinear},
	}
}

func (p *TexParam) validate() error {
	var reason string
	switch {
	case p.PixelFmt.Size() == 0:
		reason = "undefined pixel format"
	case p.Mag != driver.FNearest && p.Mag != driver.FLinear:
		reason = "invalid magnification filter"
	case (p.Min == driver.FNearestMipmap || p.Min == driver.FLinearMipmap) && !p.Mipmap:
		reason = "mipmap filter requires Mipmap"
	case p.Min < driver.FNearest || p.Min > driver.FLinearMipmap:
		reason = "invalid minification filter"
	case p.AddrU < driver.AWrap || p.AddrU > driver.AClamp, p.AddrV < driver.AWrap || p.AddrV > driver.AClamp:
		reason = "invalid address mode"
	default:
		return nil
	}
	return newTexErr(reason)
}

func validSize(width, height, limit int) error {
	var reason string
	switch {
	case width <= 0 || height <= 0:
		reason = "invalid size"
	case ctxt.Loaded() && (width > limit || height > limit):
		reason = "size exceeds limit"
	default:
		return nil
	}
	return newTexErr(reason)
}

// rgba converts img to tightly packed RGBA8 pixels.
func rgba(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == 4*m.Rect.Dx() {
		return m
	}
	b := img.Bounds()
	m := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(m, m.Rect, img, b.Min, draw.Src)
	return m
}

// New2D creates a 2D texture from img.
// param.PixelFmt is ignored; the pixels are stored as
// RGBA8.
func New2D(name string, img image.Image, param *TexParam) (*Texture, error) {
	if img == nil {
		return nil, newTexErr("no pixel source")
	}
	p := *param
	p.PixelFmt = driver.RGBA8
	m := rgba(img)
	return NewRaw2D(name, m.Rect.Dx(), m.Rect.Dy(), m.Pix, &p)
}

// NewRaw2D creates a 2D texture from pixels, which must
// hold width*height pixels of format param.PixelFmt.
// pixels is copied.
func NewRaw2D(name string, width, height int, pixels []byte, param *TexParam) (*Texture, error) {
	if err := param.validate(); err != nil {
		return nil, err
	}
	if err := validSize(width, height, ctxt.Limits().MaxTexture2D); err != nil {
		return nil, err
	}
	switch {
	case pixels == nil:
		return nil, newTexErr("no pixel source")
	case len(pixels) != width*height*param.PixelFmt.Size():
		return nil, newTexErr("pixel data size mismatch")
	}
	return &Texture{
		name:   name,
		target: driver.Tex2D,
		param:  *param,
		width:  width,
		height: height,
		pixels: [][]byte{slices.Clone(pixels)},
	}, nil
}

// NewCubeMap creates a cube texture from exactly six
// square images of equal size, in the order +X, -X, +Y,
// -Y, +Z, -Z.
func NewCubeMap(name string, faces []image.Image, param *TexParam) (*Texture, error) {
	if len(faces) != 6 {
		return nil, newTexErr("cube map requires exactly six faces")
	}
	if err := param.validate(); err != nil {
		return nil, err
	}
	t := &Texture{name: name, target: driver.TexCube, param: *param, pixels: make([][]byte, 6)}
	t.param.PixelFmt = driver.RGBA8
	for i, f := range faces {
		if f == nil {
			return nil, newTexErr("no pixel source")
		}
		m := rgba(f)
		w, h := m.Rect.Dx(), m.Rect.Dy()
		var reason string
		switch {
		case w != h:
			reason = "cube face is not square"
		case i > 0 && w != t.width:
			reason = "cube face size mismatch"
		default:
			t.width, t.height = w, h
			t.pixels[i] = slices.Clone(m.Pix)
			continue
		}
		return nil, newTexErr(reason)
	}
	if err := validSize(t.width, t.height, ctxt.Limits().MaxTextureCube); err != nil {
		return nil, err
	}
	return t, nil
}

// NewExternal creates an external texture, whose
// contents are produced outside of the engine (e.g.,
// by a video decoder).
func NewExternal(name string) *Texture {
	p := DefaultTexParam()
	p.AddrU, p.AddrV = driver.AClamp, driver.AClamp
	return &Texture{name: name, target: driver.TexExternal, param: p}
}

// newTarget creates the color texture of a render
// target. It has no pixels.
func newTarget(name string, width, height int, param *TexParam) *Texture {
	return &Texture{
		name:   name,
		target: driver.Tex2D,
		param:  *param,
		width:  width,
		height: height,
	}
}

// Name returns the name of t.
func (t *Texture) Name() string { return t.name }

// Target returns the texture target of t.
func (t *Texture) Target() driver.TexTarget { return t.target }

// Handle returns the driver.Texture of t.
// It is zero until t is created.
func (t *Texture) Handle() driver.Texture { return t.tex }

// Param returns the parameters of t.
func (t *Texture) Param() TexParam { return t.param }

// Width returns the width of t.
func (t *Texture) Width() int { return t.width }

// Height returns the height of t.
func (t *Texture) Height() int { return t.height }

// Created returns whether t exists on the GPU.
func (t *Texture) Created() bool { return t.tex != 0 }

// Create creates t on the GPU and uploads its pixels.
// It does nothing if t was already created.
func (t *Texture) Create() error {
	if t.tex != 0 {
		return nil
	}
	gpu := ctxt.GPU()
	if gpu == nil {
		return newTexErr("no GPU")
	}
	tex, err := gpu.NewTexture()
	if err != nil {
		return err
	}
	t.tex = tex
	t.upload()
	return nil
}

// upload specifies the images of t through unit 0.
func (t *Texture) upload() {
	gpu := ctxt.GPU()
	gpu.BindTexture(0, t.target, t.tex)
	switch t.target {
	case driver.Tex2D:
		var pix []byte
		if len(t.pixels) > 0 {
			pix = t.pixels[0]
		}
		gpu.TexImage(driver.Tex2D, 0, t.param.PixelFmt, t.width, t.height, pix)
	case driver.TexCube:
		for i := range t.pixels {
			gpu.TexImage(driver.CubeFace(i), 0, t.param.PixelFmt, t.width, t.height, t.pixels[i])
		}
	}
	gpu.TexSampling(t.target, &t.param.Sampling)
	if t.param.Mipmap && t.target != driver.TexExternal {
		gpu.GenerateMipmap(t.target)
	}
	gpu.BindTexture(0, t.target, 0)
}

// Replace replaces the pixels of a 2D texture with
// those of img, which must have the same size.
// The GPU copy is updated if t was created.
func (t *Texture) Replace(img image.Image) error {
	var reason string
	switch {
	case img == nil:
		reason = "no pixel source"
	case t.target != driver.Tex2D || t.pixels == nil:
		reason = "cannot replace pixels of this texture"
	case img.Bounds().Dx() != t.width || img.Bounds().Dy() != t.height:
		reason = "replacement size mismatch"
	default:
		goto valid
	}
	return newTexErr(reason)
valid:
	m := rgba(img)
	if t.param.PixelFmt != driver.RGBA8 {
		return newTexErr("replacement requires RGBA8")
	}
	t.pixels[0] = slices.Clone(m.Pix)
	if t.tex != 0 {
		t.upload()
	}
	return nil
}

// resize changes the size of a pixel-less texture.
func (t *Texture) resize(width, height int) {
	t.width, t.height = width, height
	if t.tex != 0 {
		t.upload()
	}
}

// Reload recreates t from its CPU copy.
// The previous handle is assumed to be invalid.
func (t *Texture) Reload() error {
	t.tex = 0
	return t.Create()
}

// Destroy releases the GPU texture.
// The CPU copy is kept.
func (t *Texture) Destroy() {
	if t.tex != 0 {
		if gpu := ctxt.GPU(); gpu != nil {
			gpu.DeleteTexture(t.tex)
		}
		t.tex = 0
	}
}
