// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gles implements driver interfaces using the
// OpenGL ES 2.0 API.
package gles

import (
	"errors"
	"strings"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

const driverName = "gles2"

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	open bool
	lim  driver.Limits
	// Renderbuffers attached to each framebuffer.
	rbufs map[driver.Framebuf][2]uint32
}

var _ driver.GPU = (*Driver)(nil)

func init() {
	driver.Register(&Driver{})
}

// Open implements driver.Driver.
// The caller must have made a GL ES 2 context current.
func (d *Driver) Open() (driver.GPU, error) {
	if d.open {
		return d, nil
	}
	if err := gles2.Init(); err != nil {
		return nil, errors.Join(driver.ErrNotInstalled, err)
	}
	if gles2.GetString(gles2.VERSION) == nil {
		return nil, driver.ErrNoContext
	}
	d.lim = driver.Limits{
		MaxTexture2D:     getInt(gles2.MAX_TEXTURE_SIZE),
		MaxTextureCube:   getInt(gles2.MAX_CUBE_MAP_TEXTURE_SIZE),
		MaxTextureUnits:  getInt(gles2.MAX_TEXTURE_IMAGE_UNITS),
		MaxVertexAttribs: getInt(gles2.MAX_VERTEX_ATTRIBS),
		MaxRenderbuf:     getInt(gles2.MAX_RENDERBUFFER_SIZE),
		Index32:          hasExtension("GL_OES_element_index_uint"),
	}
	d.rbufs = make(map[driver.Framebuf][2]uint32)
	d.open = true
	return d, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
// Objects created through the GPU are not deleted; they
// belong to the context.
func (d *Driver) Close() {
	*d = Driver{}
}

// Driver implements driver.GPU.
func (d *Driver) Driver() driver.Driver { return d }

// Limits implements driver.GPU.
func (d *Driver) Limits() driver.Limits { return d.lim }

func getInt(pname uint32) int {
	var v int32
	gles2.GetIntegerv(pname, &v)
	return int(v)
}

func hasExtension(name string) bool {
	s := gles2.GetString(gles2.EXTENSIONS)
	if s == nil {
		return false
	}
	for _, ext := range strings.Fields(gles2.GoStr(s)) {
		if ext == name {
			return true
		}
	}
	return false
}
