// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/gviegas/scenegl/engine"
)

func TestReadConfig(t *testing.T) {
	const s = `
effects = ["vignette", "fxaa"]

[window]
width = 1280
title = "test"

[engine]
frame_rate = 30
depth_sort = true
log_level = "debug"

[scene]
primitive = "sphere"
background = [0, 0, 0, 1]

[shadow]
enabled = true
size = 512
`
	c, err := readConfig(strings.NewReader(s))
	if err != nil {
		t.Fatalf("readConfig:\nhave %v\nwant nil", err)
	}
	dfl := defaultConfig()
	switch {
	case c.Window.Width != 1280 || c.Window.Height != dfl.Window.Height || c.Window.Title != "test":
		t.Fatalf("readConfig: window\nhave %+v", c.Window)
	case c.Engine.FrameRate != 30 || !c.Engine.DepthSort || c.Engine.LogLevel != slog.LevelDebug:
		t.Fatalf("readConfig: engine\nhave %+v", c.Engine)
	case c.Scene.Primitive != "sphere" || c.Scene.Background != [4]float32{0, 0, 0, 1} || !c.Scene.Floor:
		t.Fatalf("readConfig: scene\nhave %+v", c.Scene)
	case !c.Shadow.Enabled || c.Shadow.Size != 512 || c.Shadow.Area != dfl.Shadow.Area:
		t.Fatalf("readConfig: shadow\nhave %+v", c.Shadow)
	case !slices.Equal(c.Effects, []string{"vignette", "fxaa"}):
		t.Fatalf("readConfig: effects\nhave %v", c.Effects)
	}

	ec := c.engineConfig()
	if ec.FrameRate != 30 || !ec.DepthSort || ec.MaxLight != engine.DefaultConfig().MaxLight {
		t.Fatalf("Config.engineConfig:\nhave %+v", ec)
	}
}

func TestReadConfigInvalid(t *testing.T) {
	for _, s := range [...]string{
		"[window]\nwidth = -1",
		"[window]\ndepth = 24",
		"[scene]\nprimitive = \"torus\"",
		"effects = [\"blur\"]",
		"[shadow]\nenabled = true\narea = 0",
		"[engine]\nlog_level = \"loud\"",
		"[window",
	} {
		if _, err := readConfig(strings.NewReader(s)); err == nil {
			t.Fatalf("readConfig(%q): should fail", s)
		}
	}
	// A mesh file makes the primitive irrelevant.
	if _, err := readConfig(strings.NewReader("[scene]\nmesh = \"a.mesh\"\nprimitive = \"torus\"")); err != nil {
		t.Fatalf("readConfig: mesh\nhave %v\nwant nil", err)
	}
}

func TestGeometry(t *testing.T) {
	c := defaultConfig()
	for _, x := range [...]struct {
		prim string
		nv   int
	}{
		{"cube", 24},
		{"plane", 4},
		{"sphere", 33 * 17},
	} {
		c.Scene.Primitive = x.prim
		g, err := c.geometry()
		if err != nil {
			t.Fatalf("Config.geometry:\nhave %v\nwant nil", err)
		}
		if g.NumVertices() != x.nv {
			t.Fatalf("Config.geometry: %s\nhave %d vertices\nwant %d", x.prim, g.NumVertices(), x.nv)
		}
	}

	name := t.TempDir() + "/cube.mesh"
	c.Scene.Primitive = "cube"
	g, _ := c.geometry()
	if err := exportGeometry(name, g); err != nil {
		t.Fatalf("exportGeometry:\nhave %v\nwant nil", err)
	}
	c.Scene.Mesh = name
	m, err := c.geometry()
	if err != nil {
		t.Fatalf("Config.geometry: mesh file\nhave %v\nwant nil", err)
	}
	if !slices.Equal(m.Indices(), g.Indices()) {
		t.Fatal("Config.geometry: mesh file differs")
	}
	c.Scene.Mesh = name + ".missing"
	if _, err := c.geometry(); err == nil {
		t.Fatal("Config.geometry: missing file should fail")
	}
}

func TestNewComposer(t *testing.T) {
	c, err := newComposer(nil, []string{"grey", "fxaa"})
	if err != nil {
		t.Fatalf("newComposer:\nhave %v\nwant nil", err)
	}
	ps := c.Passes()
	if len(ps) != 3 {
		t.Fatalf("newComposer:\nhave %d passes\nwant 3", len(ps))
	}
	for i, p := range ps {
		if p.RenderToScreen() != (i == 2) {
			t.Fatalf("newComposer: pass %d renders to screen: %t", i, p.RenderToScreen())
		}
	}
	if ps[0].Type() != engine.PassRender || ps[1].Type() != engine.PassEffect {
		t.Fatal("newComposer: pass types differ")
	}

	c, _ = newComposer(nil, nil)
	if ps := c.Passes(); len(ps) != 1 || !ps[0].RenderToScreen() {
		t.Fatal("newComposer: render pass should render to screen")
	}
	if _, err := newComposer(nil, []string{"blur"}); err == nil {
		t.Fatal("newComposer: unknown effect should fail")
	}
	for n := range effects {
		if _, err := newEffect(n); err != nil {
			t.Fatalf("newEffect(%q):\nhave %v\nwant nil", n, err)
		}
	}
}
