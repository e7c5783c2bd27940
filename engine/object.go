// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"slices"
	"weak"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/linear"
)

const objPrefix = "object: "

func newObjErr(reason string) error { return errors.New(objPrefix + reason) }

// ErrNoMaterial is returned when an object with
// geometry is rendered without a material.
var ErrNoMaterial = errors.New(objPrefix + "no material")

// Object is a node of the scene graph.
// It may have a geometry and a material, in which case
// it is drawn, and any number of children, which are
// drawn relative to it.
// An Object has at most one parent.
type Object struct {
	Transform
	name     string
	geom     *Geometry
	mat      *Material
	parent   weak.Pointer[Object]
	children []*Object
	// Set on the root of a BatchGroup.
	group *BatchGroup

	visible     bool
	doubleSided bool
	backSided   bool
	transparent bool
	blendSrc    driver.BlendFac
	blendDst    driver.BlendFac
	forcedDepth bool
	frustumTest bool
	depthTest   bool
	depthMask   bool
	mode        driver.Topology
	showBounds  bool
	color       linear.V4
	ownColor    bool

	// Computed during rendering.
	model     linear.M4
	modelView linear.M4
	mvp       linear.M4
	inFrustum bool
}

// NewObject creates a visible object with no geometry
// and no material.
// It is depth tested and drawn as triangles.
func NewObject(name string) *Object {
	o := &Object{
		name:      name,
		visible:   true,
		blendSrc:  driver.BSrcAlpha,
		blendDst:  driver.BInvSrcAlpha,
		depthTest: true,
		depthMask: true,
		mode:      driver.TTriangle,
		inFrustum: true,
	}
	o.init()
	return o
}

// NewMesh creates an object that draws g with m.
func NewMesh(name string, g *Geometry, m *Material) *Object {
	o := NewObject(name)
	o.geom = g
	o.mat = m
	return o
}

// SetName sets the name of o.
func (o *Object) SetName(name string) { o.name = name }

// Name returns the name of o.
func (o *Object) Name() string { return o.name }

// SetGeometry sets the geometry of o.
func (o *Object) SetGeometry(g *Geometry) { o.geom = g }

// Geometry returns the geometry of o.
func (o *Object) Geometry() *Geometry { return o.geom }

// SetData replaces the vertex data of o, creating its
// geometry if needed. See Geometry.SetData.
func (o *Object) SetData(vertices, normals, texcoords, colors []float32, indices []uint32) error {
	if o.geom == nil {
		o.geom = NewGeometry()
	}
	return o.geom.SetData(vertices, normals, texcoords, colors, indices)
}

// SetMaterial sets the material of o.
// It fails if o or any of its ancestors is the root of
// a BatchGroup whose material is not m.
func (o *Object) SetMaterial(m *Material) error {
	if g := o.batchGroup(); g != nil && m != g.mat {
		return newObjErr("material differs from batch material")
	}
	o.mat = m
	return nil
}

// Material returns the material of o.
func (o *Object) Material() *Material { return o.mat }

// SetVisible sets whether o is drawn.
// Children of an invisible object are not drawn
// either, unless it is the root of a batch.
func (o *Object) SetVisible(b bool) { o.visible = b }

// Visible returns whether o is drawn.
func (o *Object) Visible() bool { return o.visible }

// SetDoubleSided sets whether face culling is disabled.
func (o *Object) SetDoubleSided(b bool) { o.doubleSided = b }

// DoubleSided returns whether face culling is disabled.
func (o *Object) DoubleSided() bool { return o.doubleSided }

// SetBackSided sets whether front faces are culled
// instead of back faces.
func (o *Object) SetBackSided(b bool) { o.backSided = b }

// BackSided returns whether front faces are culled.
func (o *Object) BackSided() bool { return o.backSided }

// SetTransparent sets whether o is blended.
// Transparent objects do not write depth.
func (o *Object) SetTransparent(b bool) { o.transparent = b }

// Transparent returns whether o is blended.
func (o *Object) Transparent() bool { return o.transparent }

// SetBlendFunc sets the blend factors used when o is
// transparent.
func (o *Object) SetBlendFunc(src, dst driver.BlendFac) { o.blendSrc, o.blendDst = src, dst }

// SetForcedDepth sets whether o is ordered first by
// Compare regardless of its depth.
func (o *Object) SetForcedDepth(b bool) { o.forcedDepth = b }

// SetFrustumTest sets whether o is culled against the
// camera's frustum.
func (o *Object) SetFrustumTest(b bool) { o.frustumTest = b }

// FrustumTest returns whether o is culled against the
// camera's frustum.
func (o *Object) FrustumTest() bool { return o.frustumTest }

// InFrustum returns whether o passed the frustum test
// when last rendered.
func (o *Object) InFrustum() bool { return o.inFrustum }

// SetDepthTest sets whether o is depth tested.
func (o *Object) SetDepthTest(b bool) { o.depthTest = b }

// SetDepthMask sets whether o writes depth.
func (o *Object) SetDepthMask(b bool) { o.depthMask = b }

// SetDrawMode sets the primitive topology of o.
func (o *Object) SetDrawMode(t driver.Topology) { o.mode = t }

// DrawMode returns the primitive topology of o.
func (o *Object) DrawMode() driver.Topology { return o.mode }

// SetShowBounds sets whether the bounding box of o is
// drawn.
func (o *Object) SetShowBounds(b bool) { o.showBounds = b }

// SetColor sets a color that overrides the color of
// the material when o is drawn.
func (o *Object) SetColor(c *linear.V4) {
	o.color = *c
	o.ownColor = true
}

// ClearColor stops overriding the material's color.
func (o *Object) ClearColor() { o.ownColor = false }

// ModelMatrix returns the world transform of o
// computed when o was last rendered.
func (o *Object) ModelMatrix() linear.M4 { return o.model }

// Parent returns the parent of o, or nil if o has no
// parent or the parent was collected.
func (o *Object) Parent() *Object { return o.parent.Value() }

// AddChild adds c as the last child of o.
// If c has a parent, it is removed from it first.
func (o *Object) AddChild(c *Object) error {
	var reason string
	switch {
	case c == nil:
		reason = "nil child"
	case c == o:
		reason = "cannot add object to itself"
	case o.hasAncestor(c):
		reason = "cannot add ancestor as child"
	case o.batchGroup() != nil && c.foreignMaterial(o.batchGroup().mat):
		reason = "material differs from batch material"
	default:
		goto valid
	}
	return newObjErr(reason)
valid:
	if p := c.Parent(); p != nil {
		p.RemoveChild(c)
	}
	if g := o.batchGroup(); g != nil {
		c.fillMaterial(g.mat)
	}
	c.parent = weak.Make(o)
	o.children = append(o.children, c)
	return nil
}

func (o *Object) hasAncestor(a *Object) bool {
	for p := o.Parent(); p != nil; p = p.Parent() {
		if p == a {
			return true
		}
	}
	return false
}

// batchGroup returns the outermost BatchGroup whose
// root is o or an ancestor of o, if any.
// Its material is the one every descendant is drawn
// with.
func (o *Object) batchGroup() (g *BatchGroup) {
	for p := o; p != nil; p = p.Parent() {
		if p.group != nil {
			g = p.group
		}
	}
	return
}

// foreignMaterial returns whether o or a descendant of
// o has a material other than m.
func (o *Object) foreignMaterial(m *Material) bool {
	if o.mat != nil && o.mat != m {
		return true
	}
	return slices.ContainsFunc(o.children, func(c *Object) bool { return c.foreignMaterial(m) })
}

// fillMaterial sets m on o and on its descendants that
// have no material.
func (o *Object) fillMaterial(m *Material) {
	if o.mat == nil {
		o.mat = m
	}
	for _, c := range o.children {
		c.fillMaterial(m)
	}
}

// RemoveChild removes c from the children of o.
// It returns false if c is not a child of o.
func (o *Object) RemoveChild(c *Object) bool {
	i := slices.Index(o.children, c)
	if i < 0 {
		return false
	}
	o.children = slices.Delete(o.children, i, i+1)
	c.parent = weak.Pointer[Object]{}
	return true
}

// ChildAt returns the i-th child of o.
func (o *Object) ChildAt(i int) *Object { return o.children[i] }

// ChildByName returns the first child of o with the
// given name, or nil if there is none.
func (o *Object) ChildByName(name string) *Object {
	for _, c := range o.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Children returns a copy of the children of o.
func (o *Object) Children() []*Object { return slices.Clone(o.children) }

// NumChildren returns the number of children of o.
func (o *Object) NumChildren() int { return len(o.children) }

// NumObjects returns the number of descendants of o.
func (o *Object) NumObjects() (n int) {
	for _, c := range o.children {
		n += 1 + c.NumObjects()
	}
	return
}

// Clone creates a copy of o and of its descendants.
// The copies share geometry with the originals.
// If copyMaterial is true, they also share material;
// otherwise they have none.
// The copy has no parent.
func (o *Object) Clone(copyMaterial bool) *Object {
	x := *o
	x.parent = weak.Pointer[Object]{}
	x.group = nil
	x.children = nil
	if !copyMaterial {
		x.mat = nil
	}
	for _, c := range o.children {
		cc := c.Clone(copyMaterial)
		cc.parent = weak.Make(&x)
		x.children = append(x.children, cc)
	}
	return &x
}

// Destroy releases the geometry of o and of its
// descendants and unregisters their materials.
// It must be called on the GPU goroutine.
func (o *Object) Destroy() {
	for _, c := range o.children {
		c.Destroy()
	}
	if o.geom != nil {
		o.geom.Destroy()
	}
	if o.mat != nil {
		Materials().Unregister(o.mat)
	}
}

// Reload recreates the buffers of o and of its
// descendants. Geometry shared by several of them is
// recreated once. Failures are joined.
func (o *Object) Reload() error { return o.reload(make(geomSet)) }

// geomSet holds the geometry already reloaded during
// one recovery.
type geomSet map[*Geometry]struct{}

// reload reloads g unless it is in set.
func (set geomSet) reload(g *Geometry) error {
	if _, ok := set[g]; ok || !g.Created() {
		return nil
	}
	set[g] = struct{}{}
	return g.Reload()
}

func (o *Object) reload(set geomSet) error {
	var errs []error
	if o.geom != nil {
		if err := set.reload(o.geom); err != nil {
			errs = append(errs, fmt.Errorf("%s%q: %w", objPrefix, o.name, err))
		}
	}
	for _, c := range o.children {
		if err := c.reload(set); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compare orders objects for drawing.
// Objects with forced depth come first; the others
// are ordered by decreasing Z position.
func Compare(a, b *Object) int {
	switch {
	case a.forcedDepth && !b.forcedDepth:
		return -1
	case !a.forcedDepth && b.forcedDepth:
		return 1
	}
	az, bz := a.pos[2], b.pos[2]
	switch {
	case az > bz:
		return -1
	case az < bz:
		return 1
	}
	return 0
}

// renderState is the state of one scene traversal.
type renderState struct {
	cam      *Camera
	view     linear.M4
	vp       linear.M4
	camPos   linear.V3
	sceneMat *Material
	lights   []*Light
	fog      *Fog
	bounds   *boundsDrawer
	// Geometry whose buffers source the attributes of
	// the current program.
	geom  *Geometry
	draws int
	errs  []error
}

func (o *Object) render(rs *renderState, parent *linear.M4, partOfBatch bool) {
	batchRoot := o.group != nil
	if !o.visible && !batchRoot {
		return
	}
	local := o.LocalMatrix()
	if parent != nil {
		o.model.Mul(parent, &local)
	} else {
		o.model = local
	}
	o.modelView.Mul(&rs.view, &o.model)
	o.mvp.Mul(&rs.vp, &o.model)

	o.inFrustum = true
	if o.frustumTest && o.geom != nil && o.geom.NumVertices() > 0 {
		c := o.geom.BoundingBox().Transform(&o.model)
		o.inFrustum = rs.cam.Frustum().BoxIn(&c)
	}

	mat := o.mat
	if rs.sceneMat != nil {
		mat = rs.sceneMat
	}
	if batchRoot && !partOfBatch && mat != nil {
		if err := prepare(mat); err != nil {
			rs.errs = append(rs.errs, err)
			return
		}
		mat.Use()
		mat.BindTextures()
		rs.geom = nil
	}

	if o.visible && o.inFrustum && o.geom != nil {
		if err := o.draw(rs, mat, partOfBatch); err != nil {
			rs.errs = append(rs.errs, err)
		}
	}
	// Bounds are drawn even when culled.
	if o.showBounds && o.geom != nil && o.geom.NumVertices() > 0 && rs.bounds != nil {
		if err := rs.bounds.draw(rs, o, mat, partOfBatch); err != nil {
			rs.errs = append(rs.errs, err)
		}
	}

	for _, c := range o.children {
		c.render(rs, &o.model, partOfBatch || batchRoot)
	}

	if batchRoot && !partOfBatch && mat != nil {
		mat.UnbindTextures()
	}
}

// prepare compiles and registers m if needed.
func prepare(m *Material) error {
	if m.compiled {
		return nil
	}
	if err := m.Compile(); err != nil {
		return err
	}
	Materials().Register(m)
	return nil
}

func (o *Object) draw(rs *renderState, mat *Material, partOfBatch bool) error {
	if mat == nil {
		return fmt.Errorf("%w: %q", ErrNoMaterial, o.name)
	}
	if err := prepare(mat); err != nil {
		return err
	}
	if err := o.geom.CreateBuffers(); err != nil {
		return fmt.Errorf("%s%q: %w", objPrefix, o.name, err)
	}
	gpu := ctxt.GPU()

	switch {
	case o.doubleSided:
		gpu.Disable(driver.CapCullFace)
	case o.backSided:
		gpu.CullFace(driver.CFront)
	default:
		gpu.CullFace(driver.CBack)
		gpu.FrontFace(false)
	}
	if o.transparent {
		gpu.Enable(driver.CapBlend)
		gpu.BlendFunc(o.blendSrc, o.blendDst)
		gpu.DepthMask(false)
	} else {
		gpu.DepthMask(o.depthMask)
	}
	if !o.depthTest {
		gpu.Disable(driver.CapDepthTest)
	}

	if !partOfBatch {
		mat.Use()
		mat.BindTextures()
		mat.bindGeometry(o.geom)
		rs.geom = o.geom
	} else if rs.geom != o.geom {
		mat.bindGeometry(o.geom)
		rs.geom = o.geom
	}

	mat.SetMVPMatrix(&o.mvp)
	mat.SetModelMatrix(&o.model)
	mat.SetModelViewMatrix(&o.modelView)
	if mat.normal != nil {
		var n linear.M3
		n.Normal(&o.model)
		mat.SetNormalMatrix(&n)
	}
	if o.ownColor {
		mat.SetColor(&o.color)
	}
	mat.setLights(rs.lights, &rs.camPos)
	mat.setFog(rs.fog)
	mat.ApplyParams()

	if n := o.geom.NumIndices(); n > 0 {
		gpu.BindBuffer(driver.ElementBuffer, o.geom.bufs[IndexBuffer].Buf)
		gpu.DrawElements(o.mode, n, o.geom.IndexFmt(), 0)
		gpu.BindBuffer(driver.ElementBuffer, 0)
	} else {
		gpu.DrawArrays(o.mode, 0, o.geom.NumVertices())
	}
	rs.draws++

	if !partOfBatch {
		mat.UnbindTextures()
	}

	switch {
	case o.doubleSided:
		gpu.Enable(driver.CapCullFace)
	case o.backSided:
		gpu.CullFace(driver.CBack)
	}
	if o.transparent {
		gpu.Disable(driver.CapBlend)
	}
	if o.transparent || !o.depthMask {
		gpu.DepthMask(true)
	}
	if !o.depthTest {
		gpu.Enable(driver.CapDepthTest)
	}
	return nil
}

// boundsDrawer draws bounding boxes as lines.
type boundsDrawer struct {
	geom *Geometry
	mat  *Material
}

var boxLines = []uint32{
	0, 1, 1, 2, 2, 3, 3, 0,
	4, 5, 5, 6, 6, 7, 7, 4,
	0, 4, 1, 5, 2, 6, 3, 7,
}

// draw draws the bounding box of o, then restores the
// program of the enclosing batch, if any.
func (b *boundsDrawer) draw(rs *renderState, o *Object, prev *Material, partOfBatch bool) error {
	if b.mat == nil {
		b.mat = NewBasicMaterial(MaterialOptions{})
		b.mat.SetName("bounds")
		b.mat.SetColor(&linear.V4{1, 1, 0, 1})
		b.geom = NewGeometry()
		b.geom.SetUsage(driver.DynamicDraw)
	}
	c := o.geom.BoundingBox().Corners()
	v := make([]float32, 0, 24)
	for i := range c {
		v = append(v, c[i][:]...)
	}
	var err error
	if b.geom.NumVertices() == 0 {
		err = b.geom.SetData(v, nil, nil, nil, boxLines)
	} else {
		err = b.geom.ChangeBufferData(VertexBuffer, v, 0)
	}
	if err != nil {
		return err
	}
	if err := prepare(b.mat); err != nil {
		return err
	}
	if err := b.geom.CreateBuffers(); err != nil {
		return err
	}
	gpu := ctxt.GPU()
	b.mat.Use()
	b.mat.bindGeometry(b.geom)
	b.mat.SetMVPMatrix(&o.mvp)
	b.mat.ApplyParams()
	gpu.BindBuffer(driver.ElementBuffer, b.geom.bufs[IndexBuffer].Buf)
	gpu.DrawElements(driver.TLine, len(boxLines), driver.Index16, 0)
	gpu.BindBuffer(driver.ElementBuffer, 0)
	rs.geom = nil
	if partOfBatch && prev != nil {
		prev.Use()
		prev.BindTextures()
	}
	return nil
}
