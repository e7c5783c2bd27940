// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package drivertest

import (
	"slices"
	"testing"

	"github.com/gviegas/scenegl/driver"
)

const (
	vsrc = `precision mediump float;
uniform mat4 uMVPMatrix;
uniform float uLightPower[2];
attribute vec4 aPosition;
attribute vec2 aTextureCoord;
void main() {
	gl_Position = uMVPMatrix * aPosition;
}
`
	fsrc = `precision mediump float;
uniform vec4 uColor;
void main() {
	gl_FragColor = uColor;
}
`
)

func TestProgram(t *testing.T) {
	g := New()
	p, err := g.NewProgram(vsrc, fsrc)
	if err != nil {
		t.Fatalf("GPU.NewProgram:\nhave %v\nwant nil", err)
	}
	for _, x := range [...]struct {
		name string
		loc  int
	}{
		{"uMVPMatrix", 0},
		{"uLightPower", 1},
		{"uLightPower[1]", 2},
		{"uColor", 3},
		{"uTime", -1},
	} {
		if loc := g.UniformLocation(p, x.name); loc != x.loc {
			t.Errorf("GPU.UniformLocation(%s):\nhave %d\nwant %d", x.name, loc, x.loc)
		}
	}
	if loc := g.AttribLocation(p, "aTextureCoord"); loc != 1 {
		t.Errorf("GPU.AttribLocation:\nhave %d\nwant 1", loc)
	}
	if loc := g.AttribLocation(p, "aNormal"); loc != -1 {
		t.Errorf("GPU.AttribLocation:\nhave %d\nwant -1", loc)
	}

	g.UseProgram(p)
	g.Uniformf(3, 1, 0, 0, 1)
	v, ok := g.Uniform(p, "uColor")
	if !ok || !slices.Equal(v, []float32{1, 0, 0, 1}) {
		t.Fatalf("GPU.Uniform:\nhave %v, %t\nwant [1 0 0 1], true", v, ok)
	}
	if _, ok := g.Uniform(p, "uMVPMatrix"); ok {
		t.Fatal("GPU.Uniform: unexpected value for unset uniform")
	}
}

func TestRecord(t *testing.T) {
	g := New()
	g.Enable(driver.CapDepthTest)
	g.DepthFunc(driver.CLess)
	g.Disable(driver.CapBlend)
	g.DrawElements(driver.TTriangle, 36, driver.Index16, 0)
	want := []string{
		"Enable(DepthTest)",
		"DepthFunc(Less)",
		"Disable(Blend)",
		"DrawElements(Triangles, 36)",
	}
	if !slices.Equal(g.Calls(), want) {
		t.Fatalf("GPU.Calls:\nhave %q\nwant %q", g.Calls(), want)
	}
	if !g.Enabled(driver.CapDepthTest) || g.Enabled(driver.CapBlend) {
		t.Fatal("GPU.Enabled: unexpected state")
	}
	if n := g.Count("Enable("); n != 1 {
		t.Fatalf("GPU.Count:\nhave %d\nwant 1", n)
	}
	if i := g.Index("DrawElements(Triangles, 36)", 1); i != 3 {
		t.Fatalf("GPU.Index:\nhave %d\nwant 3", i)
	}
	g.Reset()
	if len(g.Calls()) != 0 {
		t.Fatal("GPU.Reset: calls not discarded")
	}
}

func TestLose(t *testing.T) {
	g := New()
	buf, _ := g.NewBuffer(driver.ArrayBuffer, []byte{1, 2, 3, 4}, driver.StaticDraw)
	g.BufferSubData(driver.ArrayBuffer, buf, 2, []byte{9})
	if b := g.Buffer(buf); !slices.Equal(b, []byte{1, 2, 9, 4}) {
		t.Fatalf("GPU.BufferSubData:\nhave %v\nwant [1 2 9 4]", b)
	}
	tex, _ := g.NewTexture()
	if _, err := g.NewFramebuf(tex, 64, 64, true, false); err != nil {
		t.Fatalf("GPU.NewFramebuf:\nhave %v\nwant nil", err)
	}
	if _, b, x, f := g.Live(); b != 1 || x != 1 || f != 1 {
		t.Fatalf("GPU.Live:\nhave %d %d %d\nwant 1 1 1", b, x, f)
	}
	g.Lose()
	if p, b, x, f := g.Live(); p+b+x+f != 0 {
		t.Fatal("GPU.Lose: objects still live")
	}
	buf2, _ := g.NewBuffer(driver.ArrayBuffer, nil, driver.StaticDraw)
	if buf2 == buf {
		t.Fatal("GPU.NewBuffer: handle reused after Lose")
	}
	if _, err := g.NewFramebuf(tex, 64, 64, true, false); err == nil {
		t.Fatal("GPU.NewFramebuf: unexpected success with stale texture")
	}
}

func TestFeedback(t *testing.T) {
	g := New()
	tex, _ := g.NewTexture()
	fb, _ := g.NewFramebuf(tex, 16, 16, false, false)
	g.BindFramebuf(fb)
	g.BindTexture(1, driver.Tex2D, tex)
	g.DrawArrays(driver.TTriStrip, 0, 4)
	if n := g.Count("Feedback("); n != 1 {
		t.Fatalf("GPU.DrawArrays: sampling the target\nhave %d feedbacks\nwant 1", n)
	}
	g.BindTexture(1, driver.Tex2D, 0)
	g.DrawArrays(driver.TTriStrip, 0, 4)
	g.BindTexture(0, driver.Tex2D, tex)
	g.BindFramebuf(0)
	g.DrawElements(driver.TTriangle, 6, driver.Index16, 0)
	if n := g.Count("Feedback("); n != 1 {
		t.Fatalf("GPU.Draw*: no feedback\nhave %d feedbacks\nwant 1", n)
	}
}
