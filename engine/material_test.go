// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/driver/drivertest"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

// samplerMaterial creates a material whose fragment
// shader declares n 2D samplers named s0, s1 and so on.
func samplerMaterial(t *testing.T, n int) *Material {
	t.Helper()
	vs := NewEffectVertexShader()
	fs := shader.New(shader.Fragment)
	var ss []*shader.Var
	for i := range n {
		ss = append(ss, fs.AddUniform(fmt.Sprint("s", i), shader.Sampler2D))
	}
	tc := fs.AddVarying(shader.VTextureCoord, shader.Vec2)
	fs.SetMain(func() {
		c := fs.Var(shader.Vec4)
		c.Assign(fs.Vec4(0, 0, 0, 0))
		for _, s := range ss {
			c.AssignAdd(shader.Texture2D(s, tc))
		}
		fs.GLFragColor().Assign(c)
	})
	m, err := NewMaterial(vs, fs)
	if err != nil {
		t.Fatalf("NewMaterial:\nhave %v\nwant nil", err)
	}
	return m
}

// uniformAt returns the value of element i of the named
// uniform array.
func uniformAt(gpu *drivertest.GPU, prog driver.Program, name string, i int) []float32 {
	p := gpu.Program(prog)
	loc, ok := p.Uniforms[name]
	if !ok {
		return nil
	}
	return p.Values[loc+i]
}

func TestNewMaterial(t *testing.T) {
	vs, fs := shader.NewBasic(shader.BasicOptions{})
	for _, x := range [...]struct{ vs, fs *shader.Shader }{
		{nil, fs},
		{vs, nil},
		{fs, fs},
		{vs, vs},
	} {
		if _, err := NewMaterial(x.vs, x.fs); err == nil {
			t.Fatal("NewMaterial: invalid shaders should fail")
		}
	}
	m, err := NewMaterial(vs, fs)
	if err != nil {
		t.Fatalf("NewMaterial:\nhave %v\nwant nil", err)
	}
	if m.Compiled() || m.Program() != 0 {
		t.Fatal("NewMaterial: should not compile")
	}
	if m.VertexShader() != vs || m.FragmentShader() != fs {
		t.Fatal("NewMaterial: shaders differ")
	}
}

func TestBasicMaterial(t *testing.T) {
	m := NewBasicMaterial(MaterialOptions{})
	if m.Lit() {
		t.Fatal("NewBasicMaterial: should not be lit")
	}
	if v := m.Uniform(shader.UColor); v == nil || !v.IsSet() {
		t.Fatal("NewBasicMaterial: color not set")
	}
	if m.Uniform(shader.UTexture) != nil {
		t.Fatal("NewBasicMaterial: unexpected sampler")
	}
	m = NewBasicMaterial(MaterialOptions{Texture: true, Lighting: true, Fog: true})
	if !m.Lit() {
		t.Fatal("NewBasicMaterial: should be lit")
	}
	for _, u := range [...]string{shader.UTexture, shader.ULightPower, shader.UFogEnabled, shader.UNormalMatrix} {
		if m.Uniform(u) == nil {
			t.Fatalf("NewBasicMaterial: %s not declared", u)
		}
	}
}

func TestMaterialTextures(t *testing.T) {
	ctxt.Use(nil)
	m := samplerMaterial(t, 9)
	p := DefaultTexParam()
	texs := make([]*Texture, 9)
	for i := range texs {
		texs[i], _ = NewRaw2D(fmt.Sprint("t", i), 1, 1, make([]byte, 4), &p)
		if err := m.AddTexture(fmt.Sprint("s", i), texs[i]); err != nil {
			t.Fatalf("Material.AddTexture: s%d\nhave %v\nwant nil", i, err)
		}
	}
	if !slices.Equal(m.Textures(), texs) {
		t.Fatal("Material.Textures: order differs")
	}
	if err := m.AddTexture("s0", nil); err == nil {
		t.Fatal("Material.AddTexture: sampler in use should fail")
	}
	if err := m.AddTexture(shader.UMVPMatrix, nil); err == nil {
		t.Fatal("Material.AddTexture: non-sampler should fail")
	}

	// The drivertest GPU has 8 units.
	gpu := useGPU(t)
	m = samplerMaterial(t, 9)
	for i := range 8 {
		m.AddTexture(fmt.Sprint("s", i), nil)
	}
	if err := m.AddTexture("s8", nil); err == nil {
		t.Fatal("Material.AddTexture: above the GPU limit should fail")
	}
	if err := m.SetTexture("s8", texs[8]); err == nil {
		t.Fatal("Material.SetTexture: unknown sampler should fail")
	}
	if err := m.SetTexture("s2", texs[2]); err != nil {
		t.Fatalf("Material.SetTexture:\nhave %v\nwant nil", err)
	}
	if !m.RemoveTexture("s1") || m.RemoveTexture("s1") {
		t.Fatal("Material.RemoveTexture: should remove once")
	}
	if err := m.Compile(); err != nil {
		t.Fatalf("Material.Compile:\nhave %v\nwant nil", err)
	}
	m.Use()
	m.ApplyParams()
	// s2 moved to unit 1.
	if v, ok := gpu.Uniform(m.Program(), "s2"); !ok || v[0] != 1 {
		t.Fatalf("Material.RemoveTexture: s2 unit\nhave %v\nwant [1]", v)
	}
	texs[2].Create()
	gpu.Reset()
	m.BindTextures()
	if have := gpu.Calls(); len(have) != 1 || have[0] != fmt.Sprintf("BindTexture(1, %v, %d)", driver.Tex2D, texs[2].Handle()) {
		t.Fatalf("Material.BindTextures:\nhave %v", have)
	}
	m.UnbindTextures()
	if gpu.Index(fmt.Sprintf("BindTexture(1, %v, 0)", driver.Tex2D), 0) < 0 {
		t.Fatal("Material.UnbindTextures: unit 1 not unbound")
	}
}

func TestMaterialCompile(t *testing.T) {
	gpu := useGPU(t)
	m := NewBasicMaterial(MaterialOptions{VertexColors: true})
	m.SetName("basic")
	if err := m.Compile(); err != nil {
		t.Fatalf("Material.Compile:\nhave %v\nwant nil", err)
	}
	prog := m.Program()
	m.Compile()
	if m.Program() != prog || gpu.Count("NewProgram(") != 1 {
		t.Fatal("Material.Compile: compiled twice")
	}
	if src := gpu.Program(prog).Fragment; !strings.Contains(src, "uniform vec4 "+shader.UColor+";") {
		t.Fatalf("Material.Compile: fragment source\n%s", src)
	}
	if m.attrs[VertexBuffer] == nil || m.attrs[ColorBuffer] == nil || m.attrs[NormalBuffer] != nil {
		t.Fatal("Material.Compile: attributes not resolved")
	}

	m.Destroy()
	if m.Compiled() || gpu.Program(prog) != nil {
		t.Fatal("Material.Destroy: program still live")
	}

	gpu.FailLink = true
	err := m.Compile()
	if !errors.Is(err, driver.ErrCompile) || m.Compiled() {
		t.Fatalf("Material.Compile: link failure\nhave %v\nwant %v", err, driver.ErrCompile)
	}

	// The failure sticks until the material is reloaded.
	gpu.FailLink = false
	gpu.Reset()
	if err2 := m.Compile(); err2 != err || gpu.Count("NewProgram(") != 0 {
		t.Fatalf("Material.Compile: after link failure\nhave %v, %d links\nwant %v, 0 links", err2, gpu.Count("NewProgram("), err)
	}
	if err := m.Reload(); err != nil || !m.Compiled() {
		t.Fatalf("Material.Reload: after link failure\nhave %v\nwant nil", err)
	}
}

func TestMaterialManager(t *testing.T) {
	gpu := useGPU(t)
	mm := Materials()
	a, b := NewBasicMaterial(MaterialOptions{}), NewBasicMaterial(MaterialOptions{Texture: true})
	mm.Register(a)
	mm.Register(a)
	mm.Register(b)
	if mm.Len() != 2 || !mm.Registered(a) {
		t.Fatalf("MaterialManager.Register:\nhave %d materials\nwant 2", mm.Len())
	}
	a.Compile()
	b.Compile()

	gpu.Lose()
	if err := mm.Reload(); err != nil {
		t.Fatalf("MaterialManager.Reload:\nhave %v\nwant nil", err)
	}
	for _, m := range [...]*Material{a, b} {
		if !m.Compiled() || gpu.Program(m.Program()) == nil {
			t.Fatal("MaterialManager.Reload: material not relinked")
		}
	}

	pa := a.Program()
	mm.Unregister(a)
	if mm.Len() != 1 || mm.Registered(a) || gpu.Program(pa) != nil {
		t.Fatal("MaterialManager.Unregister: material still registered or live")
	}
	gpu.FailLink = true
	gpu.Lose()
	if err := mm.Reload(); !errors.Is(err, driver.ErrCompile) {
		t.Fatalf("MaterialManager.Reload: link failure\nhave %v\nwant %v", err, driver.ErrCompile)
	}
}

func TestMaterialLights(t *testing.T) {
	gpu := useGPU(t)
	c := DefaultConfig()
	c.MaxLight = 2
	Configure(&c)
	defer func() {
		c := DefaultConfig()
		Configure(&c)
	}()

	m := NewBasicMaterial(MaterialOptions{Lighting: true})
	o := NewMesh("o", NewCube(1), m)
	s := newTestScene(t, o)
	d := DirectionalLight{Direction: linear.V3{0, -2, 0}, Power: 2, R: 1, G: 0.5, B: 0}
	p := PointLight{Position: linear.V3{1, 2, 3}, Power: 3, R: 1, G: 1, B: 1}
	off := p.Light()
	off.SetEnabled(false)
	l1, l2, l3 := d.Light(), off, p.Light()
	s.AddLight(&l1)
	s.AddLight(&l2)
	s.AddLight(&l3)
	s.BeginFrame()
	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	prog := m.Program()
	if v := uniformAt(gpu, prog, shader.ULightPower, 0); !slices.Equal(v, []float32{2}) {
		t.Fatalf("Material.setLights: power[0]\nhave %v\nwant [2]", v)
	}
	if v := uniformAt(gpu, prog, shader.ULightPower, 1); !slices.Equal(v, []float32{3}) {
		t.Fatalf("Material.setLights: power[1]\nhave %v\nwant [3]", v)
	}
	if v := uniformAt(gpu, prog, shader.ULightDirection, 0); !slices.Equal(v, []float32{0, -1, 0}) {
		t.Fatalf("Material.setLights: direction[0]\nhave %v\nwant [0 -1 0]", v)
	}
	if v := uniformAt(gpu, prog, shader.ULightColor, 0); !slices.Equal(v, []float32{1, 0.5, 0}) {
		t.Fatalf("Material.setLights: color[0]\nhave %v\nwant [1 0.5 0]", v)
	}
	if v := uniformAt(gpu, prog, shader.ULightPosition, 1); !slices.Equal(v, []float32{1, 2, 3}) {
		t.Fatalf("Material.setLights: position[1]\nhave %v\nwant [1 2 3]", v)
	}
	if v := uniformAt(gpu, prog, shader.ULightType, 1); len(v) != 1 || v[0] != float32(shader.PointLight) {
		t.Fatalf("Material.setLights: type[1]\nhave %v\nwant [%d]", v, shader.PointLight)
	}
	if v, _ := gpu.Uniform(prog, shader.UCameraPosition); !slices.Equal(v, []float32{0, 0, 10}) {
		t.Fatalf("Material.setLights: camera\nhave %v\nwant [0 0 10]", v)
	}
}
