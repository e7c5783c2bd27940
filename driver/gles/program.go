// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gles

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

// compileShader compiles src as a shader of the given type.
func compileShader(src string, typ uint32) (uint32, error) {
	shader := gles2.CreateShader(typ)
	csrc, free := gles2.Strs(src + "\x00")
	gles2.ShaderSource(shader, 1, csrc, nil)
	free()
	gles2.CompileShader(shader)

	var status int32
	gles2.GetShaderiv(shader, gles2.COMPILE_STATUS, &status)
	if status == gles2.FALSE {
		var n int32
		gles2.GetShaderiv(shader, gles2.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gles2.GetShaderInfoLog(shader, n, nil, gles2.Str(log))
		gles2.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %v", driver.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// NewProgram implements driver.GPU.
func (d *Driver) NewProgram(vertex, fragment string) (driver.Program, error) {
	vs, err := compileShader(vertex, gles2.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gles2.DeleteShader(vs)
	fs, err := compileShader(fragment, gles2.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gles2.DeleteShader(fs)

	prog := gles2.CreateProgram()
	gles2.AttachShader(prog, vs)
	gles2.AttachShader(prog, fs)
	gles2.LinkProgram(prog)

	var status int32
	gles2.GetProgramiv(prog, gles2.LINK_STATUS, &status)
	if status == gles2.FALSE {
		var n int32
		gles2.GetProgramiv(prog, gles2.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gles2.GetProgramInfoLog(prog, n, nil, gles2.Str(log))
		gles2.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: failed to link program: %v", driver.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return driver.Program(prog), nil
}

// UseProgram implements driver.GPU.
func (d *Driver) UseProgram(p driver.Program) { gles2.UseProgram(uint32(p)) }

// DeleteProgram implements driver.GPU.
func (d *Driver) DeleteProgram(p driver.Program) { gles2.DeleteProgram(uint32(p)) }

// UniformLocation implements driver.GPU.
func (d *Driver) UniformLocation(p driver.Program, name string) int {
	return int(gles2.GetUniformLocation(uint32(p), gles2.Str(name+"\x00")))
}

// AttribLocation implements driver.GPU.
func (d *Driver) AttribLocation(p driver.Program, name string) int {
	return int(gles2.GetAttribLocation(uint32(p), gles2.Str(name+"\x00")))
}

// Uniformf implements driver.GPU.
func (d *Driver) Uniformf(loc int, v ...float32) {
	switch len(v) {
	case 1:
		gles2.Uniform1f(int32(loc), v[0])
	case 2:
		gles2.Uniform2f(int32(loc), v[0], v[1])
	case 3:
		gles2.Uniform3f(int32(loc), v[0], v[1], v[2])
	case 4:
		gles2.Uniform4f(int32(loc), v[0], v[1], v[2], v[3])
	default:
		panic("gles: invalid Uniformf length")
	}
}

// Uniformi implements driver.GPU.
func (d *Driver) Uniformi(loc int, v ...int32) {
	switch len(v) {
	case 1:
		gles2.Uniform1i(int32(loc), v[0])
	case 2:
		gles2.Uniform2i(int32(loc), v[0], v[1])
	case 3:
		gles2.Uniform3i(int32(loc), v[0], v[1], v[2])
	case 4:
		gles2.Uniform4i(int32(loc), v[0], v[1], v[2], v[3])
	default:
		panic("gles: invalid Uniformi length")
	}
}

// UniformMatrix implements driver.GPU.
func (d *Driver) UniformMatrix(loc int, m []float32) {
	switch len(m) {
	case 4:
		gles2.UniformMatrix2fv(int32(loc), 1, false, &m[0])
	case 9:
		gles2.UniformMatrix3fv(int32(loc), 1, false, &m[0])
	case 16:
		gles2.UniformMatrix4fv(int32(loc), 1, false, &m[0])
	default:
		panic("gles: invalid UniformMatrix length")
	}
}
