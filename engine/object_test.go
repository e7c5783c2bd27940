// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

// newTestScene creates a scene whose camera is at
// (0, 0, 10), with objs added.
func newTestScene(t *testing.T, objs ...*Object) *Scene {
	t.Helper()
	s := NewScene("test")
	s.Camera().SetPosition(0, 0, 10)
	s.SetSize(1, 1)
	s.AddChildren(objs...)
	if err := s.BeginFrame(); err != nil {
		t.Fatalf("Scene.BeginFrame:\nhave %v\nwant nil", err)
	}
	return s
}

func drawElements(n int) string {
	return fmt.Sprintf("DrawElements(%v, %d)", driver.TTriangle, n)
}

func TestObjectHierarchy(t *testing.T) {
	a, b, c := NewObject("a"), NewObject("b"), NewObject("c")
	if err := a.AddChild(b); err != nil {
		t.Fatalf("Object.AddChild:\nhave %v\nwant nil", err)
	}
	if err := b.AddChild(c); err != nil {
		t.Fatalf("Object.AddChild:\nhave %v\nwant nil", err)
	}
	if p := c.Parent(); p != b {
		t.Fatalf("Object.Parent:\nhave %v\nwant %v", p, b)
	}
	if err := c.AddChild(a); err == nil {
		t.Fatal("Object.AddChild: adding an ancestor should fail")
	}
	if err := a.AddChild(a); err == nil {
		t.Fatal("Object.AddChild: adding itself should fail")
	}
	if err := a.AddChild(nil); err == nil {
		t.Fatal("Object.AddChild: adding nil should fail")
	}
	if n := a.NumObjects(); n != 2 {
		t.Fatalf("Object.NumObjects:\nhave %d\nwant 2", n)
	}
	if x := a.ChildByName("b"); x != b {
		t.Fatalf("Object.ChildByName:\nhave %v\nwant %v", x, b)
	}
	if x := a.ChildByName("c"); x != nil {
		t.Fatalf("Object.ChildByName: grandchild\nhave %v\nwant nil", x)
	}

	// Re-parenting removes c from b.
	if err := a.AddChild(c); err != nil {
		t.Fatalf("Object.AddChild: re-parent\nhave %v\nwant nil", err)
	}
	if b.NumChildren() != 0 || a.NumChildren() != 2 || c.Parent() != a {
		t.Fatal("Object.AddChild: re-parent did not move the child")
	}
	if a.ChildAt(1) != c {
		t.Fatal("Object.ChildAt: wrong order")
	}
	if !a.RemoveChild(c) || c.Parent() != nil {
		t.Fatal("Object.RemoveChild: child not removed")
	}
	if a.RemoveChild(c) {
		t.Fatal("Object.RemoveChild: removed twice")
	}
}

func TestObjectClone(t *testing.T) {
	g := NewCube(1)
	m := NewBasicMaterial(MaterialOptions{})
	a := NewMesh("a", g, m)
	a.SetPosition(1, 2, 3)
	b := NewMesh("b", g, m)
	a.AddChild(b)

	x := a.Clone(false)
	if x == a || x.Geometry() != g || x.Material() != nil {
		t.Fatal("Object.Clone(false): should share geometry but not material")
	}
	if x.Position() != a.Position() || x.Parent() != nil {
		t.Fatal("Object.Clone: transform not copied or parent kept")
	}
	if x.NumChildren() != 1 || x.ChildAt(0) == b || x.ChildAt(0).Parent() != x {
		t.Fatal("Object.Clone: children not cloned")
	}
	if y := a.Clone(true); y.Material() != m || y.ChildAt(0).Material() != m {
		t.Fatal("Object.Clone(true): material not shared")
	}
	// The original is untouched.
	if a.NumChildren() != 1 || a.ChildAt(0) != b || b.Parent() != a {
		t.Fatal("Object.Clone: original changed")
	}
}

func TestCompare(t *testing.T) {
	near, far, forced := NewObject("near"), NewObject("far"), NewObject("forced")
	near.SetPosition(0, 0, 5)
	far.SetPosition(0, 0, -5)
	forced.SetPosition(0, 0, -50)
	forced.SetForcedDepth(true)
	objs := []*Object{far, near, forced}
	slices.SortStableFunc(objs, Compare)
	if want := []*Object{forced, near, far}; !slices.Equal(objs, want) {
		t.Fatalf("Compare: order\nhave %v, %v, %v\nwant forced, near, far", objs[0].Name(), objs[1].Name(), objs[2].Name())
	}
	if Compare(near, near) != 0 {
		t.Fatal("Compare: should be 0 for equal objects")
	}
}

func TestRenderTwoLevels(t *testing.T) {
	gpu := useGPU(t)
	m := NewBasicMaterial(MaterialOptions{})
	parent := NewObject("parent")
	parent.SetPosition(1, 2, 3)
	parent.SetScale(2, 2, 2)
	parent.SetRotation(0, 90, 0)
	child := NewMesh("child", NewCube(1), m)
	child.SetPosition(1, 0, 0)
	parent.AddChild(child)
	s := newTestScene(t, parent)

	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	if n := s.Draws(); n != 1 {
		t.Fatalf("Scene.Draws:\nhave %d\nwant 1", n)
	}

	pm := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2)).Mul4(mgl32.HomogRotate3DY(deg(90)))
	want := pm.Mul4(mgl32.Translate3D(1, 0, 0))
	model := child.ModelMatrix()
	if !nearM4(&model, want) {
		t.Fatalf("Object.ModelMatrix: child\nhave %v\nwant %v", model, want)
	}
	// The child's origin lands at parent + R⋅S⋅(1, 0, 0).
	if p := model.Translation(); !nearV3(&p, &linear.V3{1, 2, 1}) {
		t.Fatalf("Object.ModelMatrix: child origin\nhave %v\nwant [1 2 1]", p)
	}

	mvp := mgl32.Perspective(deg(45), 1, 1, 120).Mul4(mgl32.Translate3D(0, 0, -10)).Mul4(want)
	v, ok := gpu.Uniform(m.Program(), shader.UMVPMatrix)
	if !ok {
		t.Fatal("Scene.Render: MVP matrix not set")
	}
	var have linear.M4
	for i := range 16 {
		have[i/4][i%4] = v[i]
	}
	if !nearM4(&have, mvp) {
		t.Fatalf("Scene.Render: MVP matrix\nhave %v\nwant %v", have, mvp)
	}
	if gpu.Count(drawElements(36)) != 1 {
		t.Fatalf("Scene.Render: DrawElements not recorded\n%v", gpu.Calls())
	}
}

func TestRenderFrustumTest(t *testing.T) {
	useGPU(t)
	cube := NewMesh("cube", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	cube.SetFrustumTest(true)
	s := newTestScene(t, cube)

	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	if !cube.InFrustum() || s.Draws() != 1 {
		t.Fatalf("Scene.Render: cube at origin\nhave in=%t, draws=%d\nwant in=true, draws=1", cube.InFrustum(), s.Draws())
	}

	cube.SetPosition(0, 0, 20)
	s.Render(nil)
	if cube.InFrustum() || s.Draws() != 0 {
		t.Fatalf("Scene.Render: cube behind camera\nhave in=%t, draws=%d\nwant in=false, draws=0", cube.InFrustum(), s.Draws())
	}

	// Without the test, it is drawn anyway.
	cube.SetFrustumTest(false)
	s.Render(nil)
	if s.Draws() != 1 {
		t.Fatalf("Scene.Render: frustum test off\nhave draws=%d\nwant 1", s.Draws())
	}
}

func TestRenderInvisible(t *testing.T) {
	useGPU(t)
	m := NewBasicMaterial(MaterialOptions{})
	parent := NewMesh("parent", NewCube(1), m)
	parent.AddChild(NewMesh("child", NewCube(1), m))
	s := newTestScene(t, parent)

	s.Render(nil)
	if n := s.Draws(); n != 2 {
		t.Fatalf("Scene.Render: visible\nhave %d draws\nwant 2", n)
	}
	parent.SetVisible(false)
	s.Render(nil)
	if n := s.Draws(); n != 0 {
		t.Fatalf("Scene.Render: invisible parent\nhave %d draws\nwant 0", n)
	}
}

func TestRenderNoMaterial(t *testing.T) {
	useGPU(t)
	bad := NewMesh("bad", NewCube(1), nil)
	good := NewMesh("good", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	s := newTestScene(t, bad, good)

	err := s.Render(nil)
	if !errors.Is(err, ErrNoMaterial) {
		t.Fatalf("Scene.Render:\nhave %v\nwant %v", err, ErrNoMaterial)
	}
	if n := s.Draws(); n != 1 {
		t.Fatalf("Scene.Render: sibling of failed object\nhave %d draws\nwant 1", n)
	}
}

func TestRenderBatch(t *testing.T) {
	gpu := useGPU(t)
	m := NewBasicMaterial(MaterialOptions{})
	g, err := NewBatchGroup("batch", m)
	if err != nil {
		t.Fatalf("NewBatchGroup:\nhave %v\nwant nil", err)
	}
	cube := NewCube(1)
	for i := range 5 {
		o := NewMesh(fmt.Sprint(i), cube, nil)
		o.SetPosition(float32(i)-2, 0, 0)
		if err := g.Add(o); err != nil {
			t.Fatalf("BatchGroup.Add:\nhave %v\nwant nil", err)
		}
		if o.Material() != m {
			t.Fatal("BatchGroup.Add: batch material not assigned")
		}
	}
	if g.Len() != 5 || g.Object().Visible() {
		t.Fatal("NewBatchGroup: root should be invisible with 5 children")
	}
	other := NewMesh("other", cube, NewBasicMaterial(MaterialOptions{}))
	if err := g.Add(other); err == nil {
		t.Fatal("BatchGroup.Add: different material should fail")
	}
	if err := g.Object().ChildAt(0).SetMaterial(other.Material()); err == nil {
		t.Fatal("Object.SetMaterial: different material in batch should fail")
	}

	s := newTestScene(t, g.Object())
	gpu.Reset()
	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	if n := s.Draws(); n != 5 {
		t.Fatalf("Scene.Render: batch draws\nhave %d\nwant 5", n)
	}
	if n := gpu.Count("UseProgram("); n != 1 {
		t.Fatalf("Scene.Render: batch program switches\nhave %d\nwant 1", n)
	}
	if n := gpu.Count(drawElements(36)); n != 5 {
		t.Fatalf("Scene.Render: batch DrawElements\nhave %d\nwant 5", n)
	}
}

func TestBatchDescendants(t *testing.T) {
	gpu := useGPU(t)
	m := NewBasicMaterial(MaterialOptions{})
	other := NewBasicMaterial(MaterialOptions{})
	g, _ := NewBatchGroup("batch", m)
	cube := NewCube(1)
	child := NewMesh("child", cube, nil)
	if err := g.Add(child); err != nil {
		t.Fatalf("BatchGroup.Add:\nhave %v\nwant nil", err)
	}

	if err := child.AddChild(NewMesh("foreign", cube, other)); err == nil {
		t.Fatal("Object.AddChild: grandchild with a different material should fail")
	}
	sub := NewObject("sub")
	sub.AddChild(NewMesh("deep", cube, other))
	if err := child.AddChild(sub); err == nil {
		t.Fatal("Object.AddChild: subtree with a different material should fail")
	}
	if err := g.Add(sub); err == nil {
		t.Fatal("BatchGroup.Add: subtree with a different material should fail")
	}

	grand := NewMesh("grand", cube, nil)
	great := NewMesh("great", cube, nil)
	grand.AddChild(great)
	if err := child.AddChild(grand); err != nil {
		t.Fatalf("Object.AddChild: grandchild\nhave %v\nwant nil", err)
	}
	if grand.Material() != m || great.Material() != m {
		t.Fatal("Object.AddChild: batch material not assigned to the subtree")
	}
	if err := great.SetMaterial(other); err == nil {
		t.Fatal("Object.SetMaterial: different material deep in batch should fail")
	}
	if err := g.Object().SetMaterial(other); err == nil {
		t.Fatal("Object.SetMaterial: different material on batch root should fail")
	}

	s := newTestScene(t, g.Object())
	gpu.Reset()
	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	if n := s.Draws(); n != 3 {
		t.Fatalf("Scene.Render: batch draws\nhave %d\nwant 3", n)
	}
	if n := gpu.Count("UseProgram("); n != 1 {
		t.Fatalf("Scene.Render: batch program switches\nhave %d\nwant 1", n)
	}
	if other.Compiled() {
		t.Fatal("Scene.Render: foreign material should not be used")
	}
}

func TestRenderState(t *testing.T) {
	gpu := useGPU(t)
	o := NewMesh("o", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	o.SetTransparent(true)
	o.SetDoubleSided(true)
	s := newTestScene(t, o)

	gpu.Reset()
	s.Render(nil)
	for _, x := range [...]string{
		fmt.Sprintf("Disable(%v)", driver.CapCullFace),
		fmt.Sprintf("Enable(%v)", driver.CapBlend),
		fmt.Sprintf("BlendFunc(%v, %v)", driver.BSrcAlpha, driver.BInvSrcAlpha),
		"DepthMask(false)",
	} {
		if gpu.Index(x, 0) < 0 {
			t.Fatalf("Object.draw: %s not recorded\n%v", x, gpu.Calls())
		}
	}
	// State is restored after the draw.
	i := gpu.Index(drawElements(36), 0)
	if gpu.Index(fmt.Sprintf("Disable(%v)", driver.CapBlend), i) < 0 || gpu.Index("DepthMask(true)", i) < 0 {
		t.Fatalf("Object.draw: state not restored\n%v", gpu.Calls())
	}
	if !gpu.Enabled(driver.CapCullFace) || gpu.Enabled(driver.CapBlend) || !gpu.DepthWrite() {
		t.Fatal("Object.draw: GPU state not restored")
	}
}

func TestRenderDepthSort(t *testing.T) {
	gpu := useGPU(t)
	a := NewMesh("a", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	b := NewMesh("b", NewCube(2), NewBasicMaterial(MaterialOptions{}))
	a.SetPosition(0, 0, -5)
	b.SetPosition(0, 0, 2)
	s := newTestScene(t, a, b)
	s.SetDepthSort(true)
	// Create the programs so the order of UseProgram is
	// the order of drawing.
	s.Render(nil)
	gpu.Reset()
	s.Render(nil)
	ia := gpu.Index(fmt.Sprintf("UseProgram(%d)", a.Material().Program()), 0)
	ib := gpu.Index(fmt.Sprintf("UseProgram(%d)", b.Material().Program()), 0)
	if ia < 0 || ib < 0 || ib > ia {
		t.Fatalf("Scene.Render: depth sort\nhave a at %d, b at %d\nwant b first", ia, ib)
	}
	if c := s.Children(); c[0] != a {
		t.Fatal("Scene.Render: depth sort changed the children")
	}
}

func TestRenderShowBounds(t *testing.T) {
	gpu := useGPU(t)
	o := NewMesh("o", NewCube(1), NewBasicMaterial(MaterialOptions{}))
	o.SetShowBounds(true)
	s := newTestScene(t, o)
	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render:\nhave %v\nwant nil", err)
	}
	if n := gpu.Count(fmt.Sprintf("DrawElements(%v, 24)", driver.TLine)); n != 1 {
		t.Fatalf("Scene.Render: bounds\nhave %d line draws\nwant 1", n)
	}

	// Culled objects still show their bounds.
	o.SetFrustumTest(true)
	o.SetPosition(0, 0, 20)
	gpu.Reset()
	if err := s.Render(nil); err != nil {
		t.Fatalf("Scene.Render: culled\nhave %v\nwant nil", err)
	}
	if o.InFrustum() || s.Draws() != 0 {
		t.Fatalf("Scene.Render: culled\nhave in=%t, draws=%d\nwant in=false, draws=0", o.InFrustum(), s.Draws())
	}
	if n := gpu.Count(fmt.Sprintf("DrawElements(%v, 24)", driver.TLine)); n != 1 {
		t.Fatalf("Scene.Render: culled bounds\nhave %d line draws\nwant 1", n)
	}
}

func TestObjectColor(t *testing.T) {
	gpu := useGPU(t)
	m := NewBasicMaterial(MaterialOptions{})
	o := NewMesh("o", NewCube(1), m)
	o.SetColor(&linear.V4{1, 0, 0, 1})
	s := newTestScene(t, o)
	s.Render(nil)
	v, ok := gpu.Uniform(m.Program(), shader.UColor)
	if !ok || !slices.Equal(v, []float32{1, 0, 0, 1}) {
		t.Fatalf("Object.SetColor:\nhave %v\nwant [1 0 0 1]", v)
	}
}
