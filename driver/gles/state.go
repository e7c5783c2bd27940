// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gles

import (
	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

func convCap(c driver.Cap) uint32 {
	switch c {
	case driver.CapBlend:
		return gles2.BLEND
	case driver.CapCullFace:
		return gles2.CULL_FACE
	case driver.CapDepthTest:
		return gles2.DEPTH_TEST
	case driver.CapStencilTest:
		return gles2.STENCIL_TEST
	case driver.CapScissorTest:
		return gles2.SCISSOR_TEST
	default:
		panic("gles: undefined Cap constant")
	}
}

func convCmpFunc(f driver.CmpFunc) uint32 {
	switch f {
	case driver.CNever:
		return gles2.NEVER
	case driver.CLess:
		return gles2.LESS
	case driver.CEqual:
		return gles2.EQUAL
	case driver.CLessEqual:
		return gles2.LEQUAL
	case driver.CGreater:
		return gles2.GREATER
	case driver.CNotEqual:
		return gles2.NOTEQUAL
	case driver.CGreaterEqual:
		return gles2.GEQUAL
	case driver.CAlways:
		return gles2.ALWAYS
	default:
		panic("gles: undefined CmpFunc constant")
	}
}

func convStencilOp(o driver.StencilOp) uint32 {
	switch o {
	case driver.SKeep:
		return gles2.KEEP
	case driver.SZero:
		return gles2.ZERO
	case driver.SReplace:
		return gles2.REPLACE
	case driver.SIncClamp:
		return gles2.INCR
	case driver.SDecClamp:
		return gles2.DECR
	case driver.SInvert:
		return gles2.INVERT
	case driver.SIncWrap:
		return gles2.INCR_WRAP
	case driver.SDecWrap:
		return gles2.DECR_WRAP
	default:
		panic("gles: undefined StencilOp constant")
	}
}

func convBlendFac(f driver.BlendFac) uint32 {
	switch f {
	case driver.BZero:
		return gles2.ZERO
	case driver.BOne:
		return gles2.ONE
	case driver.BSrcColor:
		return gles2.SRC_COLOR
	case driver.BInvSrcColor:
		return gles2.ONE_MINUS_SRC_COLOR
	case driver.BSrcAlpha:
		return gles2.SRC_ALPHA
	case driver.BInvSrcAlpha:
		return gles2.ONE_MINUS_SRC_ALPHA
	case driver.BDstColor:
		return gles2.DST_COLOR
	case driver.BInvDstColor:
		return gles2.ONE_MINUS_DST_COLOR
	case driver.BDstAlpha:
		return gles2.DST_ALPHA
	case driver.BInvDstAlpha:
		return gles2.ONE_MINUS_DST_ALPHA
	default:
		panic("gles: undefined BlendFac constant")
	}
}

func convTopology(t driver.Topology) uint32 {
	switch t {
	case driver.TTriangle:
		return gles2.TRIANGLES
	case driver.TTriStrip:
		return gles2.TRIANGLE_STRIP
	case driver.TTriFan:
		return gles2.TRIANGLE_FAN
	case driver.TLine:
		return gles2.LINES
	case driver.TLnStrip:
		return gles2.LINE_STRIP
	case driver.TLnLoop:
		return gles2.LINE_LOOP
	case driver.TPoint:
		return gles2.POINTS
	default:
		panic("gles: undefined Topology constant")
	}
}

// Enable implements driver.GPU.
func (d *Driver) Enable(c driver.Cap) { gles2.Enable(convCap(c)) }

// Disable implements driver.GPU.
func (d *Driver) Disable(c driver.Cap) { gles2.Disable(convCap(c)) }

// BlendFunc implements driver.GPU.
func (d *Driver) BlendFunc(src, dst driver.BlendFac) {
	gles2.BlendFunc(convBlendFac(src), convBlendFac(dst))
}

// DepthFunc implements driver.GPU.
func (d *Driver) DepthFunc(f driver.CmpFunc) { gles2.DepthFunc(convCmpFunc(f)) }

// DepthMask implements driver.GPU.
func (d *Driver) DepthMask(write bool) { gles2.DepthMask(write) }

// CullFace implements driver.GPU.
func (d *Driver) CullFace(c driver.CullMode) {
	switch c {
	case driver.CBack:
		gles2.CullFace(gles2.BACK)
	case driver.CFront:
		gles2.CullFace(gles2.FRONT)
	case driver.CFrontAndBack:
		gles2.CullFace(gles2.FRONT_AND_BACK)
	}
}

// FrontFace implements driver.GPU.
func (d *Driver) FrontFace(clockwise bool) {
	if clockwise {
		gles2.FrontFace(gles2.CW)
	} else {
		gles2.FrontFace(gles2.CCW)
	}
}

// ColorMask implements driver.GPU.
func (d *Driver) ColorMask(r, g, b, a bool) { gles2.ColorMask(r, g, b, a) }

// StencilFunc implements driver.GPU.
func (d *Driver) StencilFunc(f driver.CmpFunc, ref int, mask uint32) {
	gles2.StencilFunc(convCmpFunc(f), int32(ref), mask)
}

// StencilOp implements driver.GPU.
func (d *Driver) StencilOp(sfail, dpfail, dppass driver.StencilOp) {
	gles2.StencilOp(convStencilOp(sfail), convStencilOp(dpfail), convStencilOp(dppass))
}

// StencilMask implements driver.GPU.
func (d *Driver) StencilMask(mask uint32) { gles2.StencilMask(mask) }

// LineWidth implements driver.GPU.
func (d *Driver) LineWidth(w float32) { gles2.LineWidth(w) }

// Viewport implements driver.GPU.
func (d *Driver) Viewport(x, y, width, height int) {
	gles2.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ClearColor implements driver.GPU.
func (d *Driver) ClearColor(r, g, b, a float32) { gles2.ClearColor(r, g, b, a) }

// ClearStencil implements driver.GPU.
func (d *Driver) ClearStencil(s int) { gles2.ClearStencil(int32(s)) }

// Clear implements driver.GPU.
func (d *Driver) Clear(mask driver.ClearMask) {
	var m uint32
	if mask&driver.ColorBit != 0 {
		m |= gles2.COLOR_BUFFER_BIT
	}
	if mask&driver.DepthBit != 0 {
		m |= gles2.DEPTH_BUFFER_BIT
	}
	if mask&driver.StencilBit != 0 {
		m |= gles2.STENCIL_BUFFER_BIT
	}
	gles2.Clear(m)
}

// DrawElements implements driver.GPU.
func (d *Driver) DrawElements(t driver.Topology, count int, f driver.IndexFmt, off int) {
	typ := uint32(gles2.UNSIGNED_SHORT)
	if f == driver.Index32 {
		typ = gles2.UNSIGNED_INT
	}
	gles2.DrawElements(convTopology(t), int32(count), typ, gles2.PtrOffset(off))
}

// DrawArrays implements driver.GPU.
func (d *Driver) DrawArrays(t driver.Topology, first, count int) {
	gles2.DrawArrays(convTopology(t), int32(first), int32(count))
}
