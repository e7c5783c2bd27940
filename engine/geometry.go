// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"slices"
	"unsafe"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

const geomPrefix = "geometry: "

func newGeomErr(reason string) error { return errors.New(geomPrefix + reason) }

// BufferKey identifies one of the buffers of a Geometry.
type BufferKey int

// Buffer keys.
const (
	VertexBuffer BufferKey = iota
	NormalBuffer
	TexCoordBuffer
	ColorBuffer
	IndexBuffer
	nBufferKey
)

// components returns the number of float components
// per vertex of the buffer identified by k.
func (k BufferKey) components() int {
	switch k {
	case VertexBuffer, NormalBuffer:
		return 3
	case TexCoordBuffer:
		return 2
	case ColorBuffer:
		return 4
	default:
		return 1
	}
}

// BufferInfo describes a GPU buffer of a Geometry.
type BufferInfo struct {
	Buf    driver.Buffer
	Target driver.BufTarget
	Usage  driver.BufUsage
	// Size of the buffer in bytes.
	Size int
	// Number of float components per vertex.
	// Zero for the index buffer.
	Components int
}

// Geometry stores vertex data on the GPU.
// It keeps a CPU copy of every array so its buffers can
// be recreated after the context is lost.
// Buffers are created lazily, the first time the
// geometry is drawn.
type Geometry struct {
	data    [nBufferKey - 1][]float32
	indices []uint32
	idxFmt  driver.IndexFmt
	bufs    [nBufferKey]BufferInfo
	created bool
	usage   driver.BufUsage

	box    *BoundingBox
	sphere *BoundingSphere
}

// NewGeometry creates an empty geometry.
func NewGeometry() *Geometry { return &Geometry{idxFmt: driver.Index16} }

// SetData replaces the vertex data of g.
// vertices holds xyz positions. normals (xyz),
// texcoords (uv) and colors (rgba) may be empty, or
// else must describe as many vertices. indices may be
// empty, in which case vertices are drawn in order.
// The slices are copied.
// If the buffers already exist, they are recreated.
func (g *Geometry) SetData(vertices, normals, texcoords, colors []float32, indices []uint32) error {
	nv := len(vertices) / 3
	var reason string
	switch {
	case nv == 0 || len(vertices)%3 != 0:
		reason = "invalid vertex count"
	case len(normals) != 0 && len(normals) != 3*nv:
		reason = "normal count mismatch"
	case len(texcoords) != 0 && len(texcoords) != 2*nv:
		reason = "texture coordinate count mismatch"
	case len(colors) != 0 && len(colors) != 4*nv:
		reason = "color count mismatch"
	default:
		for _, i := range indices {
			if int(i) >= nv {
				reason = "index out of bounds"
				break
			}
		}
		if reason == "" {
			goto valid
		}
	}
	return newGeomErr(reason)
valid:
	g.data[VertexBuffer] = slices.Clone(vertices)
	g.data[NormalBuffer] = slices.Clone(normals)
	g.data[TexCoordBuffer] = slices.Clone(texcoords)
	g.data[ColorBuffer] = slices.Clone(colors)
	g.indices = slices.Clone(indices)
	g.idxFmt = indexFmt(indices)
	g.box, g.sphere = nil, nil
	if g.created {
		g.destroyBuffers()
		return g.CreateBuffers()
	}
	return nil
}

// indexFmt returns the smallest format that can hold
// every index.
func indexFmt(indices []uint32) driver.IndexFmt {
	for _, i := range indices {
		if i > 0xffff {
			return driver.Index32
		}
	}
	return driver.Index16
}

// SetUsage sets the usage hint of buffers created
// afterwards. Geometry whose data changes frequently
// should use driver.DynamicDraw.
func (g *Geometry) SetUsage(u driver.BufUsage) { g.usage = u }

// NumVertices returns the number of vertices.
func (g *Geometry) NumVertices() int { return len(g.data[VertexBuffer]) / 3 }

// NumIndices returns the number of indices.
func (g *Geometry) NumIndices() int { return len(g.indices) }

// HasNormals returns whether g has normals.
func (g *Geometry) HasNormals() bool { return len(g.data[NormalBuffer]) != 0 }

// HasTexCoords returns whether g has texture
// coordinates.
func (g *Geometry) HasTexCoords() bool { return len(g.data[TexCoordBuffer]) != 0 }

// HasColors returns whether g has vertex colors.
func (g *Geometry) HasColors() bool { return len(g.data[ColorBuffer]) != 0 }

// Vertices returns the CPU copy of the positions.
// It must not be modified.
func (g *Geometry) Vertices() []float32 { return g.data[VertexBuffer] }

// Normals returns the CPU copy of the normals.
// It must not be modified.
func (g *Geometry) Normals() []float32 { return g.data[NormalBuffer] }

// TexCoords returns the CPU copy of the texture
// coordinates. It must not be modified.
func (g *Geometry) TexCoords() []float32 { return g.data[TexCoordBuffer] }

// Colors returns the CPU copy of the vertex colors.
// It must not be modified.
func (g *Geometry) Colors() []float32 { return g.data[ColorBuffer] }

// Indices returns the CPU copy of the indices.
// It must not be modified.
func (g *Geometry) Indices() []uint32 { return g.indices }

// IndexFmt returns the format of the index buffer.
func (g *Geometry) IndexFmt() driver.IndexFmt { return g.idxFmt }

// Buffer returns the description of the buffer
// identified by key.
func (g *Geometry) Buffer(key BufferKey) BufferInfo { return g.bufs[key] }

// Created returns whether the buffers of g exist.
func (g *Geometry) Created() bool { return g.created }

// CreateBuffers creates the GPU buffers of g.
// It does nothing if they already exist.
func (g *Geometry) CreateBuffers() error {
	if g.created {
		return nil
	}
	if g.NumVertices() == 0 {
		return newGeomErr("no vertex data")
	}
	gpu := ctxt.GPU()
	if g.idxFmt == driver.Index32 && !ctxt.Limits().Index32 {
		return newGeomErr("32-bit indices not supported")
	}
	for k := VertexBuffer; k < IndexBuffer; k++ {
		if len(g.data[k]) == 0 {
			continue
		}
		b := floatBytes(g.data[k])
		buf, err := gpu.NewBuffer(driver.ArrayBuffer, b, g.usage)
		if err != nil {
			g.destroyBuffers()
			return err
		}
		g.bufs[k] = BufferInfo{buf, driver.ArrayBuffer, g.usage, len(b), k.components()}
	}
	gpu.BindBuffer(driver.ArrayBuffer, 0)
	if len(g.indices) != 0 {
		b := g.indexBytes()
		buf, err := gpu.NewBuffer(driver.ElementBuffer, b, g.usage)
		if err != nil {
			g.destroyBuffers()
			return err
		}
		g.bufs[IndexBuffer] = BufferInfo{buf, driver.ElementBuffer, g.usage, len(b), 0}
		gpu.BindBuffer(driver.ElementBuffer, 0)
	}
	g.created = true
	return nil
}

// Reload recreates the buffers of g from the CPU copies.
// The previous handles are assumed to be invalid, as is
// the case after the context is lost.
func (g *Geometry) Reload() error {
	g.bufs = [nBufferKey]BufferInfo{}
	g.created = false
	return g.CreateBuffers()
}

// ChangeBufferData replaces the elements of the float
// buffer identified by key starting at element offset
// off (in floats). The buffer grows if needed.
// The GPU buffer is updated in place when data fits,
// and reallocated otherwise.
func (g *Geometry) ChangeBufferData(key BufferKey, data []float32, off int) error {
	var reason string
	switch {
	case key < VertexBuffer || key >= IndexBuffer:
		reason = "invalid buffer key for float data"
	case off < 0 || off > len(g.data[key]):
		reason = "offset out of bounds"
	case (off+len(data))%key.components() != 0 && off+len(data) > len(g.data[key]):
		reason = "partial vertex"
	default:
		goto valid
	}
	return newGeomErr(reason)
valid:
	grow := off+len(data) > len(g.data[key])
	if grow {
		g.data[key] = append(g.data[key][:off], data...)
	} else {
		copy(g.data[key][off:], data)
	}
	if key == VertexBuffer {
		g.box, g.sphere = nil, nil
	}
	if !g.created {
		return nil
	}
	gpu := ctxt.GPU()
	info := &g.bufs[key]
	switch {
	case info.Buf == 0:
		b := floatBytes(g.data[key])
		buf, err := gpu.NewBuffer(driver.ArrayBuffer, b, g.usage)
		if err != nil {
			return err
		}
		*info = BufferInfo{buf, driver.ArrayBuffer, g.usage, len(b), key.components()}
	case grow:
		b := floatBytes(g.data[key])
		gpu.BindBuffer(driver.ArrayBuffer, info.Buf)
		gpu.BufferData(driver.ArrayBuffer, info.Buf, b, info.Usage)
		info.Size = len(b)
	default:
		gpu.BindBuffer(driver.ArrayBuffer, info.Buf)
		gpu.BufferSubData(driver.ArrayBuffer, info.Buf, off*4, floatBytes(data))
	}
	gpu.BindBuffer(driver.ArrayBuffer, 0)
	return nil
}

// ChangeIndexData replaces the indices starting at off.
// The index buffer grows if needed.
func (g *Geometry) ChangeIndexData(data []uint32, off int) error {
	if off < 0 || off > len(g.indices) {
		return newGeomErr("offset out of bounds")
	}
	nv := g.NumVertices()
	for _, i := range data {
		if int(i) >= nv {
			return newGeomErr("index out of bounds")
		}
	}
	grow := off+len(data) > len(g.indices)
	if grow {
		g.indices = append(g.indices[:off], data...)
	} else {
		copy(g.indices[off:], data)
	}
	fmt := indexFmt(g.indices)
	if !g.created {
		g.idxFmt = fmt
		return nil
	}
	gpu := ctxt.GPU()
	info := &g.bufs[IndexBuffer]
	switch {
	case info.Buf == 0:
		g.idxFmt = fmt
		b := g.indexBytes()
		buf, err := gpu.NewBuffer(driver.ElementBuffer, b, g.usage)
		if err != nil {
			return err
		}
		*info = BufferInfo{buf, driver.ElementBuffer, g.usage, len(b), 0}
	case grow || fmt != g.idxFmt:
		g.idxFmt = fmt
		b := g.indexBytes()
		gpu.BindBuffer(driver.ElementBuffer, info.Buf)
		gpu.BufferData(driver.ElementBuffer, info.Buf, b, info.Usage)
		info.Size = len(b)
	default:
		n := int(g.idxFmt)
		b := g.indexBytes()[off*n : (off+len(data))*n]
		gpu.BindBuffer(driver.ElementBuffer, info.Buf)
		gpu.BufferSubData(driver.ElementBuffer, info.Buf, off*n, b)
	}
	gpu.BindBuffer(driver.ElementBuffer, 0)
	return nil
}

// BoundingBox returns the bounding box of the
// positions. It is computed on first use.
func (g *Geometry) BoundingBox() *BoundingBox {
	if g.box == nil && g.NumVertices() > 0 {
		b := boxOf(g.data[VertexBuffer])
		g.box = &b
	}
	return g.box
}

// BoundingSphere returns the bounding sphere of the
// positions. It is computed on first use.
func (g *Geometry) BoundingSphere() *BoundingSphere {
	if g.sphere == nil && g.NumVertices() > 0 {
		s := sphereOf(g.data[VertexBuffer])
		g.sphere = &s
	}
	return g.sphere
}

func (g *Geometry) destroyBuffers() {
	gpu := ctxt.GPU()
	for i := range g.bufs {
		if g.bufs[i].Buf != 0 && gpu != nil {
			gpu.DeleteBuffer(g.bufs[i].Buf)
		}
		g.bufs[i] = BufferInfo{}
	}
	g.created = false
}

// Destroy releases the buffers of g.
// The CPU copies are kept, so g can be drawn again.
func (g *Geometry) Destroy() { g.destroyBuffers() }

// indexBytes encodes the indices in the format of g.
func (g *Geometry) indexBytes() []byte {
	if g.idxFmt == driver.Index32 {
		if len(g.indices) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&g.indices[0])), 4*len(g.indices))
	}
	s := make([]uint16, len(g.indices))
	for i, x := range g.indices {
		s[i] = uint16(x)
	}
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), 2*len(s))
}

// floatBytes reinterprets f as bytes in host order.
func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), 4*len(f))
}
