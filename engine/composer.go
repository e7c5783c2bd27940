// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

// Composer renders a scene through an ordered list of
// passes, ping-ponging between two render targets.
// Passes that render to the screen write the default
// framebuffer.
type Composer struct {
	mu    sync.Mutex
	comps []component
	// Flattened from comps; nil when out of date.
	passes []Pass

	rt1, rt2   *RenderTarget
	fullscreen bool
	width      int
	height     int
	screenW    int
	screenH    int

	quad *ScreenQuad
	copy *CopyPass
}

// component is either a Pass or an Effect.
type component struct {
	pass   Pass
	effect Effect
}

func (c component) flatten() []Pass {
	if c.effect != nil {
		return c.effect.Passes()
	}
	return []Pass{c.pass}
}

// NewComposer creates a composer with no passes.
// The size of its render targets is given by
// Config.PostWidth/PostHeight or, if either is zero,
// follows the size of the surface.
func NewComposer() (*Composer, error) {
	w, h := cfg.PostWidth, cfg.PostHeight
	fullscreen := w == 0 || h == 0
	if fullscreen {
		w, h = 1, 1
	}
	rt1, err := newScreenTarget("composer1", w, h, true)
	if err != nil {
		return nil, err
	}
	rt2, err := newScreenTarget("composer2", w, h, true)
	if err != nil {
		return nil, err
	}
	rt1.fullscreen, rt2.fullscreen = fullscreen, fullscreen
	return &Composer{
		rt1:        rt1,
		rt2:        rt2,
		fullscreen: fullscreen,
		width:      w,
		height:     h,
		screenW:    w,
		screenH:    h,
		quad:       newScreenQuad(),
		copy:       NewCopyPass(),
	}, nil
}

// AddPass appends p.
func (c *Composer) AddPass(p Pass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comps = append(c.comps, component{pass: p})
	c.passes = nil
}

// AddEffect appends the passes of e.
// They are expanded when the composer next renders,
// so e can change them until then.
func (c *Composer) AddEffect(e Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comps = append(c.comps, component{effect: e})
	c.passes = nil
}

// InsertPass inserts p at index i of the components
// added so far.
func (c *Composer) InsertPass(i int, p Pass) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i > len(c.comps) {
		return newPassErr("insertion index out of range")
	}
	c.comps = slices.Insert(c.comps, i, component{pass: p})
	c.passes = nil
	return nil
}

// RemovePass removes p.
// It returns false if p was not added with AddPass or
// InsertPass.
func (c *Composer) RemovePass(p Pass) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.comps, func(x component) bool { return x.pass == p })
	if i < 0 {
		return false
	}
	c.comps = slices.Delete(c.comps, i, i+1)
	c.passes = nil
	return true
}

// RemoveEffect removes e.
func (c *Composer) RemoveEffect(e Effect) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.comps, func(x component) bool { return x.effect == e })
	if i < 0 {
		return false
	}
	c.comps = slices.Delete(c.comps, i, i+1)
	c.passes = nil
	return true
}

// ReplacePass replaces old with p.
func (c *Composer) ReplacePass(old, p Pass) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.comps, func(x component) bool { return x.pass == old })
	if i < 0 {
		return newPassErr("pass not found")
	}
	c.comps[i] = component{pass: p}
	c.passes = nil
	return nil
}

// Passes returns the flattened list of passes.
func (c *Composer) Passes() []Pass {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.flatten())
}

// Len returns the number of passes.
func (c *Composer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.flatten())
}

func (c *Composer) flatten() []Pass {
	if c.passes == nil {
		c.passes = []Pass{}
		for _, x := range c.comps {
			c.passes = append(c.passes, x.flatten()...)
		}
	}
	return c.passes
}

// SetSize sets a fixed size for the render targets.
// Zero values make them follow the surface.
func (c *Composer) SetSize(width, height int) error {
	if width == 0 || height == 0 {
		c.fullscreen = true
		return c.resize(c.screenW, c.screenH)
	}
	c.fullscreen = false
	return c.resize(width, height)
}

// Size returns the size of the render targets.
func (c *Composer) Size() (width, height int) { return c.width, c.height }

func (c *Composer) resize(width, height int) error {
	c.rt1.fullscreen, c.rt2.fullscreen = c.fullscreen, c.fullscreen
	if err := c.rt1.Resize(width, height); err != nil {
		return err
	}
	if err := c.rt2.Resize(width, height); err != nil {
		return err
	}
	c.width, c.height = width, height
	return nil
}

func (c *Composer) surfaceChanged(width, height int) error {
	c.screenW, c.screenH = width, height
	if c.fullscreen {
		return c.resize(width, height)
	}
	return nil
}

// Targets returns the write and read render targets,
// in their initial order.
func (c *Composer) Targets() (write, read *RenderTarget) { return c.rt1, c.rt2 }

// Render renders scene through the enabled passes.
//
// Each pass is rendered with its own viewport size or,
// lacking one, the size of the targets (or of the
// surface, when rendering to the screen). After a pass
// that needs a swap, other than the last, the targets
// are swapped. While a mask is active, the pixels
// outside of it are first copied from read to write,
// so the swap preserves them.
// A failing pass does not stop the others.
func (c *Composer) Render(scene *Scene) error {
	c.mu.Lock()
	passes := slices.Clone(c.flatten())
	c.mu.Unlock()

	last := -1
	for i, p := range passes {
		if p.Enabled() {
			last = i
		}
	}
	gpu := ctxt.GPU()
	write, read := c.rt1, c.rt2
	masked := false
	var errs []error
	for i, p := range passes {
		if !p.Enabled() {
			continue
		}
		w, h := p.Size()
		if w < 0 || h < 0 {
			if p.RenderToScreen() {
				w, h = c.screenW, c.screenH
			} else {
				w, h = c.width, c.height
			}
		}
		gpu.Viewport(0, 0, w, h)
		if r, ok := p.(resolutionSetter); ok {
			r.SetResolution(w, h)
		}

		s := scene
		if p.Type() == PassEffect {
			s = c.quad.scene
		}
		if err := p.Render(s, c.quad, write, read); err != nil {
			errs = append(errs, fmt.Errorf("%s%v pass %d: %w", passPrefix, p.Type(), i, err))
		}

		switch p.Type() {
		case PassMask:
			masked = true
		case PassClear:
			masked = false
		}
		if p.NeedsSwap() && i != last {
			if masked {
				gpu.StencilFunc(driver.CNotEqual, 1, 0xffffffff)
				if err := c.copy.Render(c.quad.scene, c.quad, write, read); err != nil {
					errs = append(errs, err)
				}
				gpu.StencilFunc(driver.CEqual, 1, 0xffffffff)
			}
			write, read = read, write
		}
	}
	if masked {
		gpu.Disable(driver.CapStencilTest)
	}
	return errors.Join(errs...)
}

// resolutionSetter is implemented by passes that need
// the size of their viewport.
type resolutionSetter interface {
	SetResolution(width, height int)
}

type reloader interface {
	Reload() error
}

// Reload recreates the render targets of c and of its
// passes. It must be called on the GPU goroutine after
// the context is lost.
func (c *Composer) Reload() error {
	errs := []error{c.rt1.Reload(), c.rt2.Reload()}
	if err := c.quad.scene.Reload(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Passes() {
		if r, ok := p.(reloader); ok {
			errs = append(errs, r.Reload())
		}
	}
	return errors.Join(errs...)
}

// Destroy releases the render targets of c and of its
// passes.
func (c *Composer) Destroy() {
	c.rt1.Destroy()
	c.rt2.Destroy()
	c.quad.obj.geom.Destroy()
	for _, p := range c.Passes() {
		if d, ok := p.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
}
