// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package effect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegl/driver/drivertest"
	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/engine/shader"
)

func source(t *testing.T, p *engine.EffectPass) string {
	t.Helper()
	fs := p.Material().FragmentShader()
	require.Equal(t, shader.Fragment, fs.Kind())
	return fs.Build()
}

func checkCommon(t *testing.T, src string) {
	t.Helper()
	for _, s := range [...]string{
		"uniform sampler2D " + shader.UTexture + ";",
		"uniform float " + shader.UOpacity + ";",
		"varying vec2 " + shader.VTextureCoord + ";",
		"gl_FragColor = mix(",
	} {
		assert.Contains(t, src, s)
	}
}

func TestBlend(t *testing.T) {
	for mode, want := range map[BlendMode]string{
		Add:       "min(",
		Burn:      "max(",
		Darken:    "min(",
		HardLight: "step(0.5, v_vec3_",
		Lighten:   "max(",
		Multiply:  " * ",
		Overlay:   "step(0.5, v_vec4_",
		Screen:    "1.0 - (1.0 - ",
		SoftLight: "sqrt(",
		Subtract:  " - 1.0, 0.0)",
	} {
		b, err := NewBlend(mode, nil)
		require.NoError(t, err, mode.String())
		assert.Equal(t, mode, b.Mode())
		src := source(t, b.EffectPass)
		checkCommon(t, src)
		assert.Contains(t, src, "uniform sampler2D "+UBlendTexture+";", mode.String())
		assert.Contains(t, src, want, mode.String())
		assert.Len(t, b.Material().Textures(), 2)
	}
	_, err := NewBlend(Subtract+1, nil)
	assert.Error(t, err)
}

func TestBlendModeString(t *testing.T) {
	assert.Equal(t, "SoftLight", SoftLight.String())
	assert.Equal(t, "!effect.BlendMode", BlendMode(-1).String())
}

func TestGreyScale(t *testing.T) {
	for mode, want := range map[GreyMode]string{
		Intensity: " / 3.0",
		Lightness: " * 0.5",
		Luma:      "dot(",
		Value:     "max(",
	} {
		g, err := NewGreyScale(mode)
		require.NoError(t, err)
		src := source(t, g.EffectPass)
		checkCommon(t, src)
		assert.Contains(t, src, want)
		assert.Equal(t, mode == Luma, strings.Contains(src, "cLuma"))
	}
	_, err := NewGreyScale(Value + 1)
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	th, err := NewColorThreshold(0.5)
	require.NoError(t, err)
	src := source(t, th.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "uniform float "+UThreshold+";")
	assert.Contains(t, src, "step("+UThreshold+", dot(")

	px, err := NewPixelated(4)
	require.NoError(t, err)
	src = source(t, px.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "uniform vec2 "+UResolution+";")
	assert.Contains(t, src, "floor(")

	tl, err := NewTile(3)
	require.NoError(t, err)
	src = source(t, tl.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "fract("+shader.VTextureCoord+" * "+UTiles+")")

	vg, err := NewVignette(1, 1)
	require.NoError(t, err)
	src = source(t, vg.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "("+shader.VTextureCoord+" - 0.5) * "+UOffset)
}

func TestSobel(t *testing.T) {
	s, err := NewSobel()
	require.NoError(t, err)
	src := source(t, s.EffectPass)
	checkCommon(t, src)
	// The center texel is not sampled by either kernel.
	assert.Equal(t, 1+8, strings.Count(src, "texture2D("))
	assert.Contains(t, src, "length(vec2(")
}

func TestDistortions(t *testing.T) {
	k, err := NewKaleidoscope(6, 30)
	require.NoError(t, err)
	src := source(t, k.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "atan(")
	assert.Contains(t, src, "mod(")

	r, err := NewRadialBlur(0.5, 0.5, 0.2)
	require.NoError(t, err)
	src = source(t, r.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "for (int i = 0; i < 10; i++) {")
	assert.Contains(t, src, "float(i)")

	f, err := NewFXAA()
	require.NoError(t, err)
	src = source(t, f.EffectPass)
	checkCommon(t, src)
	assert.Contains(t, src, "if (")
	assert.Contains(t, src, "clamp(")
}

func TestOpacity(t *testing.T) {
	g, err := NewGreyScale(Luma)
	require.NoError(t, err)
	assert.Equal(t, float32(1), g.Opacity())
	g.SetOpacity(0.25)
	assert.Equal(t, float32(0.25), g.Opacity())
	assert.True(t, g.Material().Uniform(shader.UOpacity).IsSet())
}

func TestComposerResolution(t *testing.T) {
	gpu := drivertest.New()
	ctxt.Use(gpu)

	c, err := engine.NewComposer()
	require.NoError(t, err)
	require.NoError(t, c.SetSize(64, 32))
	px, err := NewPixelated(8)
	require.NoError(t, err)
	c.AddPass(px)

	require.NoError(t, c.Render(engine.NewScene("s")))
	prog := px.Material().Program()
	require.NotZero(t, prog)
	res, ok := gpu.Uniform(prog, UResolution)
	require.True(t, ok)
	assert.Equal(t, []float32{64, 32}, res)
	size, ok := gpu.Uniform(prog, UPixelSize)
	require.True(t, ok)
	assert.Equal(t, []float32{8}, size)
	assert.Equal(t, 1, gpu.Count("DrawElements("))
}
