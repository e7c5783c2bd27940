// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

func TestShadowMapPass(t *testing.T) {
	if _, err := NewShadowMapPass(nil, 256, 10); err == nil {
		t.Fatal("NewShadowMapPass: nil light should fail")
	}
	pl := PointLight{Position: linear.V3{0, 10, 5}, Power: 1, R: 1, G: 1, B: 1}
	l := pl.Light()
	if _, err := NewShadowMapPass(&l, 0, 10); err == nil {
		t.Fatal("NewShadowMapPass: invalid size should fail")
	}

	gpu := useGPU(t)
	p, err := NewShadowMapPass(&l, 256, 10)
	if err != nil {
		t.Fatalf("NewShadowMapPass:\nhave %v\nwant nil", err)
	}
	o := NewMesh("o", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	s := newTestScene(t, o)
	c := newTestComposer(t)
	c.AddPass(p)
	if err := c.Render(s); err != nil {
		t.Fatalf("Composer.Render:\nhave %v\nwant nil", err)
	}
	if gpu.Index("Viewport(0, 0, 256, 256)", 0) < 0 {
		t.Fatalf("ShadowMapPass.Render: viewport\n%v", gpu.Calls())
	}
	rt := p.RenderTarget()
	if f := gpu.Framebuf(rt.Framebuf()); f == nil || f.Width != 256 || f.Height != 256 {
		t.Fatalf("ShadowMapPass.Render: shadow map\nhave %+v", f)
	}
	if o.Material().Compiled() {
		t.Fatal("ShadowMapPass.Render: object's material used")
	}
	if pos := p.Camera().Position(); pos != l.Position() {
		t.Fatalf("ShadowMapPass.Render: camera position\nhave %v\nwant %v", pos, l.Position())
	}
	vp := p.LightViewProjection()
	want := mgl32.Ortho(-10, 10, -10, 10, 0.1, 40).Mul4(mgl32.LookAtV(mgl32.Vec3{0, 10, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
	if !nearM4(&vp, want) {
		t.Fatalf("ShadowMapPass.LightViewProjection:\nhave %v\nwant %v", vp, want)
	}

	dl := DirectionalLight{Direction: linear.V3{0, 0, -1}, Power: 1}
	l = dl.Light()
	p.SetCenter(&linear.V3{1, 2, 3})
	c.Render(s)
	if pos := p.Camera().Position(); !nearV3(&pos, &linear.V3{1, 2, 23}) {
		t.Fatalf("ShadowMapPass.Render: directional camera position\nhave %v\nwant [1 2 23]", pos)
	}
}

func TestShadowEffect(t *testing.T) {
	gpu := useGPU(t)
	pl := PointLight{Position: linear.V3{0, 10, 5}, Power: 1, R: 1, G: 1, B: 1}
	l := pl.Light()
	e, err := NewShadowEffect(&l, 128, 5, 2)
	if err != nil {
		t.Fatalf("NewShadowEffect:\nhave %v\nwant nil", err)
	}
	recv := NewBasicMaterial(MaterialOptions{Lighting: true})
	other := NewBasicMaterial(MaterialOptions{})
	if err := e.AddReceiver(nil); err == nil {
		t.Fatal("ShadowEffect.AddReceiver: nil material should fail")
	}
	if err := e.AddReceiver(recv); err != nil {
		t.Fatalf("ShadowEffect.AddReceiver:\nhave %v\nwant nil", err)
	}
	if err := e.AddReceiver(recv); err == nil {
		t.Fatal("ShadowEffect.AddReceiver: duplicate should fail")
	}
	if v := recv.Uniform(shader.UShadowInfluence); v == nil || !v.IsSet() {
		t.Fatal("ShadowEffect.AddReceiver: influence not set")
	}
	if tex := recv.Textures(); len(tex) != 1 || tex[0] != e.ShadowMapPass().RenderTarget().Texture() {
		t.Fatalf("ShadowEffect.AddReceiver: textures\nhave %v", tex)
	}

	a := NewMesh("a", NewCube(1), recv)
	a.SetPosition(1, 0, 0)
	b := NewMesh("b", NewCube(1), other)
	s := newTestScene(t, a, b)
	c := newTestComposer(t)
	c.AddEffect(e)
	rp := NewRenderPass(nil)
	rp.SetRenderToScreen(true)
	c.AddPass(rp)
	if err := c.Render(s); err != nil {
		t.Fatalf("Composer.Render:\nhave %v\nwant nil", err)
	}
	vp := e.ShadowMapPass().LightViewProjection()
	var model, want linear.M4
	model.Translate(1, 0, 0)
	want.Mul(&vp, &model)
	have, ok := gpu.Uniform(recv.Program(), shader.ULightMVPMatrix)
	if !ok || !slices.Equal(have, want.Floats()) {
		t.Fatalf("ShadowEffect: light MVP\nhave %v\nwant %v", have, want.Floats())
	}
	if _, ok := gpu.Uniform(other.Program(), shader.ULightMVPMatrix); ok {
		t.Fatal("ShadowEffect: non-receiver has a light MVP")
	}
	// The shadow map is bound while the receiver draws.
	tex := e.ShadowMapPass().RenderTarget().Texture()
	if gpu.Count(fmt.Sprintf("BindTexture(0, %v, %d)", tex.Target(), tex.Handle())) == 0 {
		t.Fatalf("ShadowEffect: shadow map not bound\n%v", gpu.Calls())
	}

	if !e.RemoveReceiver(recv) || e.RemoveReceiver(recv) {
		t.Fatal("ShadowEffect.RemoveReceiver: should remove once")
	}
	if recv.Uniform(shader.UShadowMap) != nil || len(recv.Textures()) != 0 || recv.Compiled() {
		t.Fatal("ShadowEffect.RemoveReceiver: receiver not restored")
	}
	if len(e.Receivers()) != 0 {
		t.Fatalf("ShadowEffect.Receivers:\nhave %v\nwant []", e.Receivers())
	}
}
