// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gles

import (
	"fmt"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

// GL_OES_EGL_image_external.
const textureExternalOES = 0x8D65

func convTexTarget(t driver.TexTarget) uint32 {
	switch t {
	case driver.Tex2D:
		return gles2.TEXTURE_2D
	case driver.TexCube:
		return gles2.TEXTURE_CUBE_MAP
	case driver.TexExternal:
		return textureExternalOES
	case driver.TexCubePosX:
		return gles2.TEXTURE_CUBE_MAP_POSITIVE_X
	case driver.TexCubeNegX:
		return gles2.TEXTURE_CUBE_MAP_NEGATIVE_X
	case driver.TexCubePosY:
		return gles2.TEXTURE_CUBE_MAP_POSITIVE_Y
	case driver.TexCubeNegY:
		return gles2.TEXTURE_CUBE_MAP_NEGATIVE_Y
	case driver.TexCubePosZ:
		return gles2.TEXTURE_CUBE_MAP_POSITIVE_Z
	case driver.TexCubeNegZ:
		return gles2.TEXTURE_CUBE_MAP_NEGATIVE_Z
	default:
		panic("gles: undefined TexTarget constant")
	}
}

// convPixelFmt returns the format and type of pf.
func convPixelFmt(pf driver.PixelFmt) (format, typ uint32) {
	switch pf {
	case driver.RGBA8:
		return gles2.RGBA, gles2.UNSIGNED_BYTE
	case driver.RGB8:
		return gles2.RGB, gles2.UNSIGNED_BYTE
	case driver.RGB565:
		return gles2.RGB, gles2.UNSIGNED_SHORT_5_6_5
	case driver.RGBA4:
		return gles2.RGBA, gles2.UNSIGNED_SHORT_4_4_4_4
	case driver.Alpha8:
		return gles2.ALPHA, gles2.UNSIGNED_BYTE
	case driver.Lum8:
		return gles2.LUMINANCE, gles2.UNSIGNED_BYTE
	case driver.LumAlpha8:
		return gles2.LUMINANCE_ALPHA, gles2.UNSIGNED_BYTE
	default:
		panic("gles: undefined PixelFmt constant")
	}
}

func convFilter(f driver.Filter) int32 {
	switch f {
	case driver.FNearest:
		return gles2.NEAREST
	case driver.FLinear:
		return gles2.LINEAR
	case driver.FNearestMipmap:
		return gles2.NEAREST_MIPMAP_NEAREST
	case driver.FLinearMipmap:
		return gles2.LINEAR_MIPMAP_LINEAR
	default:
		panic("gles: undefined Filter constant")
	}
}

func convAddrMode(a driver.AddrMode) int32 {
	switch a {
	case driver.AWrap:
		return gles2.REPEAT
	case driver.AMirror:
		return gles2.MIRRORED_REPEAT
	case driver.AClamp:
		return gles2.CLAMP_TO_EDGE
	default:
		panic("gles: undefined AddrMode constant")
	}
}

// NewTexture implements driver.GPU.
func (d *Driver) NewTexture() (driver.Texture, error) {
	var tex uint32
	gles2.GenTextures(1, &tex)
	if tex == 0 {
		return 0, driver.ErrNoDeviceMemory
	}
	return driver.Texture(tex), nil
}

// BindTexture implements driver.GPU.
func (d *Driver) BindTexture(unit int, target driver.TexTarget, tex driver.Texture) {
	gles2.ActiveTexture(gles2.TEXTURE0 + uint32(unit))
	gles2.BindTexture(convTexTarget(target), uint32(tex))
}

// TexImage implements driver.GPU.
func (d *Driver) TexImage(target driver.TexTarget, level int, pf driver.PixelFmt, width, height int, pixels []byte) {
	format, typ := convPixelFmt(pf)
	gles2.PixelStorei(gles2.UNPACK_ALIGNMENT, 1)
	gles2.TexImage2D(convTexTarget(target), int32(level), int32(format), int32(width), int32(height), 0, format, typ, ptr(pixels))
}

// TexSampling implements driver.GPU.
func (d *Driver) TexSampling(target driver.TexTarget, s *driver.Sampling) {
	t := convTexTarget(target)
	gles2.TexParameteri(t, gles2.TEXTURE_MIN_FILTER, convFilter(s.Min))
	gles2.TexParameteri(t, gles2.TEXTURE_MAG_FILTER, convFilter(s.Mag))
	gles2.TexParameteri(t, gles2.TEXTURE_WRAP_S, convAddrMode(s.AddrU))
	gles2.TexParameteri(t, gles2.TEXTURE_WRAP_T, convAddrMode(s.AddrV))
}

// GenerateMipmap implements driver.GPU.
func (d *Driver) GenerateMipmap(target driver.TexTarget) {
	gles2.GenerateMipmap(convTexTarget(target))
}

// DeleteTexture implements driver.GPU.
func (d *Driver) DeleteTexture(tex driver.Texture) {
	t := uint32(tex)
	gles2.DeleteTextures(1, &t)
}

// NewFramebuf implements driver.GPU.
func (d *Driver) NewFramebuf(tex driver.Texture, width, height int, depth, stencil bool) (driver.Framebuf, error) {
	var fb uint32
	gles2.GenFramebuffers(1, &fb)
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, fb)
	gles2.FramebufferTexture2D(gles2.FRAMEBUFFER, gles2.COLOR_ATTACHMENT0, gles2.TEXTURE_2D, uint32(tex), 0)

	var rb [2]uint32
	if depth {
		gles2.GenRenderbuffers(1, &rb[0])
		gles2.BindRenderbuffer(gles2.RENDERBUFFER, rb[0])
		gles2.RenderbufferStorage(gles2.RENDERBUFFER, gles2.DEPTH_COMPONENT16, int32(width), int32(height))
		gles2.FramebufferRenderbuffer(gles2.FRAMEBUFFER, gles2.DEPTH_ATTACHMENT, gles2.RENDERBUFFER, rb[0])
	}
	if stencil {
		gles2.GenRenderbuffers(1, &rb[1])
		gles2.BindRenderbuffer(gles2.RENDERBUFFER, rb[1])
		gles2.RenderbufferStorage(gles2.RENDERBUFFER, gles2.STENCIL_INDEX8, int32(width), int32(height))
		gles2.FramebufferRenderbuffer(gles2.FRAMEBUFFER, gles2.STENCIL_ATTACHMENT, gles2.RENDERBUFFER, rb[1])
	}
	gles2.BindRenderbuffer(gles2.RENDERBUFFER, 0)

	status := gles2.CheckFramebufferStatus(gles2.FRAMEBUFFER)
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, 0)
	if status != gles2.FRAMEBUFFER_COMPLETE {
		d.deleteFramebuf(fb, rb)
		return 0, fmt.Errorf("%w: status 0x%x", driver.ErrFramebuf, status)
	}
	d.rbufs[driver.Framebuf(fb)] = rb
	return driver.Framebuf(fb), nil
}

func (d *Driver) deleteFramebuf(fb uint32, rb [2]uint32) {
	for i := range rb {
		if rb[i] != 0 {
			gles2.DeleteRenderbuffers(1, &rb[i])
		}
	}
	gles2.DeleteFramebuffers(1, &fb)
}

// BindFramebuf implements driver.GPU.
func (d *Driver) BindFramebuf(fb driver.Framebuf) {
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, uint32(fb))
}

// DeleteFramebuf implements driver.GPU.
func (d *Driver) DeleteFramebuf(fb driver.Framebuf) {
	d.deleteFramebuf(uint32(fb), d.rbufs[fb])
	delete(d.rbufs, fb)
}
