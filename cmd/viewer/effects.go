// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/effect"
)

var effects = map[string]func() (engine.Pass, error){
	"grey":       func() (engine.Pass, error) { return effect.NewGreyScale(effect.Luma) },
	"threshold":  func() (engine.Pass, error) { return effect.NewColorThreshold(0.5) },
	"pixelated":  func() (engine.Pass, error) { return effect.NewPixelated(6) },
	"tile":       func() (engine.Pass, error) { return effect.NewTile(4) },
	"vignette":   func() (engine.Pass, error) { return effect.NewVignette(1, 1.2) },
	"sobel":      func() (engine.Pass, error) { return effect.NewSobel() },
	"kaleido":    func() (engine.Pass, error) { return effect.NewKaleidoscope(6, 0) },
	"radialblur": func() (engine.Pass, error) { return effect.NewRadialBlur(0.5, 0.5, 0.2) },
	"fxaa":       func() (engine.Pass, error) { return effect.NewFXAA() },
}

func knownEffect(name string) bool {
	_, ok := effects[name]
	return ok
}

func newEffect(name string) (engine.Pass, error) {
	f, ok := effects[name]
	if !ok {
		return nil, newCfgErr("unknown effect " + name)
	}
	return f()
}

// newComposer creates a composer that renders the scene
// after shadow, if not nil, and then applies the named
// effects. The last pass renders to the screen.
func newComposer(shadow *engine.ShadowEffect, names []string) (*engine.Composer, error) {
	c, err := engine.NewComposer()
	if err != nil {
		return nil, err
	}
	if shadow != nil {
		c.AddEffect(shadow)
	}
	last := engine.Pass(engine.NewRenderPass(nil))
	c.AddPass(last)
	for _, n := range names {
		p, err := newEffect(n)
		if err != nil {
			c.Destroy()
			return nil, err
		}
		c.AddPass(p)
		last = p
	}
	last.(interface{ SetRenderToScreen(bool) }).SetRenderToScreen(true)
	return c, nil
}
