// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

const rtPrefix = "render target: "

func newRTErr(reason string) error { return errors.New(rtPrefix + reason) }

// RenderTarget is an off-screen framebuffer whose color
// attachment is a Texture. It always has a depth
// buffer; the stencil buffer is optional.
type RenderTarget struct {
	name       string
	width      int
	height     int
	stencil    bool
	fullscreen bool
	tex        *Texture
	fb         driver.Framebuf
}

// NewRenderTarget creates a new render target.
// param describes the color texture. Mipmaps are not
// supported.
func NewRenderTarget(name string, width, height int, stencil bool, param *TexParam) (*RenderTarget, error) {
	p := *param
	p.Mipmap = false
	var reason string
	switch {
	case width <= 0 || height <= 0:
		reason = "invalid size"
	case ctxt.Loaded() && (width > ctxt.Limits().MaxRenderbuf || height > ctxt.Limits().MaxRenderbuf):
		reason = "size exceeds limit"
	default:
		if err := p.validate(); err != nil {
			return nil, err
		}
		goto valid
	}
	return nil, newRTErr(reason)
valid:
	return &RenderTarget{
		name:    name,
		width:   width,
		height:  height,
		stencil: stencil,
		tex:     newTarget(name+"Tex", width, height, &p),
	}, nil
}

// newScreenTarget creates a full-screen render target
// with linear filtering and clamp addressing.
func newScreenTarget(name string, width, height int, stencil bool) (*RenderTarget, error) {
	p := DefaultTexParam()
	p.AddrU, p.AddrV = driver.AClamp, driver.AClamp
	return NewRenderTarget(name, width, height, stencil, &p)
}

// Name returns the name of rt.
func (rt *RenderTarget) Name() string { return rt.name }

// Width returns the width of rt.
func (rt *RenderTarget) Width() int { return rt.width }

// Height returns the height of rt.
func (rt *RenderTarget) Height() int { return rt.height }

// Stencil returns whether rt has a stencil buffer.
func (rt *RenderTarget) Stencil() bool { return rt.stencil }

// Texture returns the color texture of rt.
func (rt *RenderTarget) Texture() *Texture { return rt.tex }

// Framebuf returns the driver.Framebuf of rt.
// It is zero until rt is created.
func (rt *RenderTarget) Framebuf() driver.Framebuf { return rt.fb }

// SetFullscreen sets whether rt follows the size of the
// surface.
func (rt *RenderTarget) SetFullscreen(b bool) { rt.fullscreen = b }

// Fullscreen returns whether rt follows the size of the
// surface.
func (rt *RenderTarget) Fullscreen() bool { return rt.fullscreen }

// Create creates the color texture and the framebuffer.
// It does nothing if rt was already created.
func (rt *RenderTarget) Create() error {
	if rt.fb != 0 {
		return nil
	}
	if err := rt.tex.Create(); err != nil {
		return err
	}
	fb, err := ctxt.GPU().NewFramebuf(rt.tex.tex, rt.width, rt.height, true, rt.stencil)
	if err != nil {
		rt.tex.Destroy()
		return fmt.Errorf("%s%w", rtPrefix, err)
	}
	rt.fb = fb
	return nil
}

// Bind binds rt for rendering, creating it if needed.
func (rt *RenderTarget) Bind() error {
	if err := rt.Create(); err != nil {
		return err
	}
	ctxt.GPU().BindFramebuf(rt.fb)
	return nil
}

// Unbind binds the default framebuffer.
func (rt *RenderTarget) Unbind() { ctxt.GPU().BindFramebuf(0) }

// Resize changes the size of rt.
// If rt was created, it is recreated with the new size.
func (rt *RenderTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return newRTErr("invalid size")
	}
	if width == rt.width && height == rt.height {
		return nil
	}
	rt.width, rt.height = width, height
	created := rt.fb != 0
	rt.Destroy()
	rt.tex.resize(width, height)
	if created {
		return rt.Create()
	}
	return nil
}

// Reload recreates rt.
// The previous handles are assumed to be invalid.
func (rt *RenderTarget) Reload() error {
	rt.fb = 0
	rt.tex.tex = 0
	return rt.Create()
}

// Destroy releases the framebuffer and the color
// texture.
func (rt *RenderTarget) Destroy() {
	if rt.fb != 0 {
		if gpu := ctxt.GPU(); gpu != nil {
			gpu.DeleteFramebuf(rt.fb)
		}
		rt.fb = 0
	}
	rt.tex.Destroy()
}
