// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gles

import (
	"unsafe"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

func convBufTarget(t driver.BufTarget) uint32 {
	switch t {
	case driver.ArrayBuffer:
		return gles2.ARRAY_BUFFER
	case driver.ElementBuffer:
		return gles2.ELEMENT_ARRAY_BUFFER
	default:
		panic("gles: undefined BufTarget constant")
	}
}

func convUsage(u driver.BufUsage) uint32 {
	switch u {
	case driver.StaticDraw:
		return gles2.STATIC_DRAW
	case driver.DynamicDraw:
		return gles2.DYNAMIC_DRAW
	case driver.StreamDraw:
		return gles2.STREAM_DRAW
	default:
		panic("gles: undefined BufUsage constant")
	}
}

// ptr returns a pointer to the first byte of data, or
// nil if data is empty.
func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

// NewBuffer implements driver.GPU.
func (d *Driver) NewBuffer(target driver.BufTarget, data []byte, usage driver.BufUsage) (driver.Buffer, error) {
	var buf uint32
	gles2.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, driver.ErrNoDeviceMemory
	}
	t := convBufTarget(target)
	gles2.BindBuffer(t, buf)
	gles2.BufferData(t, len(data), ptr(data), convUsage(usage))
	if gles2.GetError() == gles2.OUT_OF_MEMORY {
		gles2.DeleteBuffers(1, &buf)
		return 0, driver.ErrNoDeviceMemory
	}
	return driver.Buffer(buf), nil
}

// BufferData implements driver.GPU.
func (d *Driver) BufferData(target driver.BufTarget, buf driver.Buffer, data []byte, usage driver.BufUsage) {
	t := convBufTarget(target)
	gles2.BindBuffer(t, uint32(buf))
	gles2.BufferData(t, len(data), ptr(data), convUsage(usage))
}

// BufferSubData implements driver.GPU.
func (d *Driver) BufferSubData(target driver.BufTarget, buf driver.Buffer, off int, data []byte) {
	if len(data) == 0 {
		return
	}
	t := convBufTarget(target)
	gles2.BindBuffer(t, uint32(buf))
	gles2.BufferSubData(t, off, len(data), ptr(data))
}

// BindBuffer implements driver.GPU.
func (d *Driver) BindBuffer(target driver.BufTarget, buf driver.Buffer) {
	gles2.BindBuffer(convBufTarget(target), uint32(buf))
}

// DeleteBuffer implements driver.GPU.
func (d *Driver) DeleteBuffer(buf driver.Buffer) {
	b := uint32(buf)
	gles2.DeleteBuffers(1, &b)
}

// VertexAttrib implements driver.GPU.
func (d *Driver) VertexAttrib(loc int, buf driver.Buffer, size, stride, off int) {
	gles2.BindBuffer(gles2.ARRAY_BUFFER, uint32(buf))
	gles2.EnableVertexAttribArray(uint32(loc))
	gles2.VertexAttribPointer(uint32(loc), int32(size), gles2.FLOAT, false, int32(stride), gles2.PtrOffset(off))
}

// DisableVertexAttrib implements driver.GPU.
func (d *Driver) DisableVertexAttrib(loc int) {
	gles2.DisableVertexAttribArray(uint32(loc))
}
