// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package drivertest provides a driver.GPU that records
// calls instead of rendering.
// It is meant for tests that need to observe the exact
// sequence of state changes and draw calls.
package drivertest

import (
	"bufio"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gviegas/scenegl/driver"
)

// Name is the name of the recording driver.
const Name = "drivertest"

// Driver is a driver.Driver that opens a GPU.
type Driver struct {
	gpu *GPU
}

// NewDriver creates a new Driver.
func NewDriver() *Driver { return &Driver{} }

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = New()
		d.gpu.drv = d
	}
	return d.gpu, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return Name }

// Close implements driver.Driver.
func (d *Driver) Close() { d.gpu = nil }

// GPU is a recording driver.GPU.
// Handles are allocated from a single counter that is
// never reset, so stale handles can be detected after a
// call to Lose.
type GPU struct {
	drv    *Driver
	limits driver.Limits
	next   uint32
	calls  []string

	// FailLink causes NewProgram to fail.
	FailLink bool

	programs map[driver.Program]*Program
	buffers  map[driver.Buffer][]byte
	textures map[driver.Texture]*Texture
	fbs      map[driver.Framebuf]*Framebuf

	prog  driver.Program
	fb    driver.Framebuf
	caps  map[driver.Cap]bool
	bound map[driver.BufTarget]driver.Buffer
	units map[int]driver.Texture
	depth bool
}

// Program is the state of a recorded program.
type Program struct {
	Vertex   string
	Fragment string
	Uniforms map[string]int
	Attribs  map[string]int
	// Values holds the last values set to each
	// uniform location.
	Values map[int][]float32
}

// Texture is the state of a recorded texture.
type Texture struct {
	Target   driver.TexTarget
	Images   map[driver.TexTarget]int
	Width    int
	Height   int
	Sampling driver.Sampling
	Mipmaps  bool
}

// Framebuf is the state of a recorded framebuffer.
type Framebuf struct {
	Texture driver.Texture
	Width   int
	Height  int
	Depth   bool
	Stencil bool
}

// New creates a new GPU.
func New() *GPU {
	g := &GPU{
		limits: driver.Limits{
			MaxTexture2D:     4096,
			MaxTextureCube:   4096,
			MaxTextureUnits:  8,
			MaxVertexAttribs: 16,
			MaxRenderbuf:     4096,
			Index32:          true,
		},
	}
	g.clear()
	return g
}

func (g *GPU) clear() {
	g.programs = make(map[driver.Program]*Program)
	g.buffers = make(map[driver.Buffer][]byte)
	g.textures = make(map[driver.Texture]*Texture)
	g.fbs = make(map[driver.Framebuf]*Framebuf)
	g.caps = make(map[driver.Cap]bool)
	g.bound = make(map[driver.BufTarget]driver.Buffer)
	g.units = make(map[int]driver.Texture)
	g.prog = 0
	g.fb = 0
	g.depth = true
}

func (g *GPU) record(format string, args ...any) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *GPU) handle() uint32 {
	g.next++
	return g.next
}

// Calls returns the recorded calls.
// The slice aliases the log and must not be modified.
func (g *GPU) Calls() []string { return g.calls }

// Reset discards the recorded calls.
// It does not change any GPU state.
func (g *GPU) Reset() { g.calls = g.calls[:0] }

// Count returns the number of recorded calls that start
// with prefix.
func (g *GPU) Count(prefix string) (n int) {
	for _, c := range g.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return
}

// Index returns the index of the first recorded call
// equal to call at or after start, or -1.
func (g *GPU) Index(call string, start int) int {
	if start < 0 || start >= len(g.calls) {
		return -1
	}
	if i := slices.Index(g.calls[start:], call); i >= 0 {
		return start + i
	}
	return -1
}

// Lose simulates the loss of the context: every object
// is destroyed and the state is reset to defaults.
func (g *GPU) Lose() {
	g.clear()
	g.record("Lose()")
}

// Enabled returns whether c is enabled.
func (g *GPU) Enabled(c driver.Cap) bool { return g.caps[c] }

// DepthWrite returns the current depth mask.
func (g *GPU) DepthWrite() bool { return g.depth }

// CurrentProgram returns the program in use.
func (g *GPU) CurrentProgram() driver.Program { return g.prog }

// CurrentFramebuf returns the bound framebuffer.
func (g *GPU) CurrentFramebuf() driver.Framebuf { return g.fb }

// Program returns the state of p, or nil if p is not a
// live program.
func (g *GPU) Program(p driver.Program) *Program { return g.programs[p] }

// Buffer returns the contents of buf, or nil if buf is
// not a live buffer.
func (g *GPU) Buffer(buf driver.Buffer) []byte { return g.buffers[buf] }

// Texture returns the state of tex, or nil if tex is
// not a live texture.
func (g *GPU) Texture(tex driver.Texture) *Texture { return g.textures[tex] }

// Framebuf returns the state of fb, or nil if fb is not
// a live framebuffer.
func (g *GPU) Framebuf(fb driver.Framebuf) *Framebuf { return g.fbs[fb] }

// Live returns the number of live programs, buffers,
// textures and framebuffers.
func (g *GPU) Live() (programs, buffers, textures, fbs int) {
	return len(g.programs), len(g.buffers), len(g.textures), len(g.fbs)
}

// Uniform returns the last value set to the named
// uniform of p.
func (g *GPU) Uniform(p driver.Program, name string) ([]float32, bool) {
	prog := g.programs[p]
	if prog == nil {
		return nil, false
	}
	loc, ok := prog.Uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.Values[loc]
	return v, ok
}

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits implements driver.GPU.
func (g *GPU) Limits() driver.Limits { return g.limits }

// declared scans src for declarations introduced by
// qualifier and assigns them consecutive locations.
// Arrays take one location per element.
func declared(src, qualifier string, m map[string]int, next int) int {
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 3 || f[0] != qualifier {
			continue
		}
		name := strings.TrimSuffix(f[len(f)-1], ";")
		n := 1
		if i := strings.IndexByte(name, '['); i >= 0 {
			if sz, err := strconv.Atoi(strings.TrimSuffix(name[i+1:], "]")); err == nil && sz > 0 {
				n = sz
			}
			name = name[:i]
		}
		if _, ok := m[name]; !ok {
			m[name] = next
			next += n
		}
	}
	return next
}

// NewProgram implements driver.GPU.
func (g *GPU) NewProgram(vertex, fragment string) (driver.Program, error) {
	if g.FailLink {
		g.record("NewProgram() failed")
		return 0, fmt.Errorf("%w: link failed", driver.ErrCompile)
	}
	p := driver.Program(g.handle())
	prog := &Program{
		Vertex:   vertex,
		Fragment: fragment,
		Uniforms: make(map[string]int),
		Attribs:  make(map[string]int),
		Values:   make(map[int][]float32),
	}
	n := declared(vertex, "uniform", prog.Uniforms, 0)
	declared(fragment, "uniform", prog.Uniforms, n)
	declared(vertex, "attribute", prog.Attribs, 0)
	g.programs[p] = prog
	g.record("NewProgram() = %d", p)
	return p, nil
}

// UseProgram implements driver.GPU.
func (g *GPU) UseProgram(p driver.Program) {
	g.prog = p
	g.record("UseProgram(%d)", p)
}

// DeleteProgram implements driver.GPU.
func (g *GPU) DeleteProgram(p driver.Program) {
	delete(g.programs, p)
	g.record("DeleteProgram(%d)", p)
}

// UniformLocation implements driver.GPU.
// Elements of arrays can be queried as name[i].
func (g *GPU) UniformLocation(p driver.Program, name string) int {
	prog := g.programs[p]
	if prog == nil {
		return -1
	}
	elem := 0
	if i := strings.IndexByte(name, '['); i >= 0 {
		n, err := strconv.Atoi(strings.TrimSuffix(name[i+1:], "]"))
		if err != nil || n < 0 {
			return -1
		}
		name, elem = name[:i], n
	}
	if loc, ok := prog.Uniforms[name]; ok {
		return loc + elem
	}
	return -1
}

// AttribLocation implements driver.GPU.
func (g *GPU) AttribLocation(p driver.Program, name string) int {
	if prog := g.programs[p]; prog != nil {
		if loc, ok := prog.Attribs[name]; ok {
			return loc
		}
	}
	return -1
}

func (g *GPU) setUniform(loc int, v []float32) {
	if prog := g.programs[g.prog]; prog != nil && loc >= 0 {
		prog.Values[loc] = slices.Clone(v)
	}
}

// Uniformf implements driver.GPU.
func (g *GPU) Uniformf(loc int, v ...float32) {
	g.setUniform(loc, v)
	g.record("Uniformf(%d, %v)", loc, v)
}

// Uniformi implements driver.GPU.
func (g *GPU) Uniformi(loc int, v ...int32) {
	f := make([]float32, len(v))
	for i := range v {
		f[i] = float32(v[i])
	}
	g.setUniform(loc, f)
	g.record("Uniformi(%d, %v)", loc, v)
}

// UniformMatrix implements driver.GPU.
func (g *GPU) UniformMatrix(loc int, m []float32) {
	g.setUniform(loc, m)
	g.record("UniformMatrix(%d)", loc)
}

// NewBuffer implements driver.GPU.
func (g *GPU) NewBuffer(target driver.BufTarget, data []byte, usage driver.BufUsage) (driver.Buffer, error) {
	buf := driver.Buffer(g.handle())
	g.buffers[buf] = slices.Clone(data)
	g.bound[target] = buf
	g.record("NewBuffer(%d, %d) = %d", target, len(data), buf)
	return buf, nil
}

// BufferData implements driver.GPU.
func (g *GPU) BufferData(target driver.BufTarget, buf driver.Buffer, data []byte, usage driver.BufUsage) {
	if _, ok := g.buffers[buf]; ok {
		g.buffers[buf] = slices.Clone(data)
	}
	g.record("BufferData(%d, %d, %d)", target, buf, len(data))
}

// BufferSubData implements driver.GPU.
func (g *GPU) BufferSubData(target driver.BufTarget, buf driver.Buffer, off int, data []byte) {
	if b, ok := g.buffers[buf]; ok && off+len(data) <= len(b) {
		copy(b[off:], data)
	}
	g.record("BufferSubData(%d, %d, %d, %d)", target, buf, off, len(data))
}

// BindBuffer implements driver.GPU.
func (g *GPU) BindBuffer(target driver.BufTarget, buf driver.Buffer) {
	g.bound[target] = buf
	g.record("BindBuffer(%d, %d)", target, buf)
}

// DeleteBuffer implements driver.GPU.
func (g *GPU) DeleteBuffer(buf driver.Buffer) {
	delete(g.buffers, buf)
	g.record("DeleteBuffer(%d)", buf)
}

// VertexAttrib implements driver.GPU.
func (g *GPU) VertexAttrib(loc int, buf driver.Buffer, size, stride, off int) {
	g.record("VertexAttrib(%d, %d, %d)", loc, buf, size)
}

// DisableVertexAttrib implements driver.GPU.
func (g *GPU) DisableVertexAttrib(loc int) {
	g.record("DisableVertexAttrib(%d)", loc)
}

// NewTexture implements driver.GPU.
func (g *GPU) NewTexture() (driver.Texture, error) {
	tex := driver.Texture(g.handle())
	g.textures[tex] = &Texture{Images: make(map[driver.TexTarget]int)}
	g.record("NewTexture() = %d", tex)
	return tex, nil
}

// BindTexture implements driver.GPU.
func (g *GPU) BindTexture(unit int, target driver.TexTarget, tex driver.Texture) {
	g.units[unit] = tex
	if t := g.textures[tex]; t != nil {
		t.Target = target
	}
	g.record("BindTexture(%d, %v, %d)", unit, target, tex)
}

func (g *GPU) boundTexture() *Texture {
	// Textures are always specified through unit 0.
	return g.textures[g.units[0]]
}

// TexImage implements driver.GPU.
func (g *GPU) TexImage(target driver.TexTarget, level int, pf driver.PixelFmt, width, height int, pixels []byte) {
	if t := g.boundTexture(); t != nil {
		t.Images[target]++
		if level == 0 {
			t.Width, t.Height = width, height
		}
	}
	g.record("TexImage(%v, %d, %dx%d)", target, level, width, height)
}

// TexSampling implements driver.GPU.
func (g *GPU) TexSampling(target driver.TexTarget, s *driver.Sampling) {
	if t := g.boundTexture(); t != nil {
		t.Sampling = *s
	}
	g.record("TexSampling(%v)", target)
}

// GenerateMipmap implements driver.GPU.
func (g *GPU) GenerateMipmap(target driver.TexTarget) {
	if t := g.boundTexture(); t != nil {
		t.Mipmaps = true
	}
	g.record("GenerateMipmap(%v)", target)
}

// DeleteTexture implements driver.GPU.
func (g *GPU) DeleteTexture(tex driver.Texture) {
	delete(g.textures, tex)
	g.record("DeleteTexture(%d)", tex)
}

// NewFramebuf implements driver.GPU.
func (g *GPU) NewFramebuf(tex driver.Texture, width, height int, depth, stencil bool) (driver.Framebuf, error) {
	if _, ok := g.textures[tex]; !ok {
		g.record("NewFramebuf(%d) failed", tex)
		return 0, fmt.Errorf("%w: invalid color texture", driver.ErrFramebuf)
	}
	fb := driver.Framebuf(g.handle())
	g.fbs[fb] = &Framebuf{tex, width, height, depth, stencil}
	g.record("NewFramebuf(%d, %dx%d) = %d", tex, width, height, fb)
	return fb, nil
}

// BindFramebuf implements driver.GPU.
func (g *GPU) BindFramebuf(fb driver.Framebuf) {
	g.fb = fb
	g.record("BindFramebuf(%d)", fb)
}

// DeleteFramebuf implements driver.GPU.
func (g *GPU) DeleteFramebuf(fb driver.Framebuf) {
	delete(g.fbs, fb)
	g.record("DeleteFramebuf(%d)", fb)
}

// Enable implements driver.GPU.
func (g *GPU) Enable(c driver.Cap) {
	g.caps[c] = true
	g.record("Enable(%v)", c)
}

// Disable implements driver.GPU.
func (g *GPU) Disable(c driver.Cap) {
	g.caps[c] = false
	g.record("Disable(%v)", c)
}

// BlendFunc implements driver.GPU.
func (g *GPU) BlendFunc(src, dst driver.BlendFac) {
	g.record("BlendFunc(%v, %v)", src, dst)
}

// DepthFunc implements driver.GPU.
func (g *GPU) DepthFunc(f driver.CmpFunc) { g.record("DepthFunc(%v)", f) }

// DepthMask implements driver.GPU.
func (g *GPU) DepthMask(write bool) {
	g.depth = write
	g.record("DepthMask(%t)", write)
}

// CullFace implements driver.GPU.
func (g *GPU) CullFace(c driver.CullMode) { g.record("CullFace(%v)", c) }

// FrontFace implements driver.GPU.
func (g *GPU) FrontFace(clockwise bool) { g.record("FrontFace(%t)", clockwise) }

// ColorMask implements driver.GPU.
func (g *GPU) ColorMask(r, gr, b, a bool) {
	g.record("ColorMask(%t, %t, %t, %t)", r, gr, b, a)
}

// StencilFunc implements driver.GPU.
func (g *GPU) StencilFunc(f driver.CmpFunc, ref int, mask uint32) {
	g.record("StencilFunc(%v, %d, %#x)", f, ref, mask)
}

// StencilOp implements driver.GPU.
func (g *GPU) StencilOp(sfail, dpfail, dppass driver.StencilOp) {
	g.record("StencilOp(%v, %v, %v)", sfail, dpfail, dppass)
}

// StencilMask implements driver.GPU.
func (g *GPU) StencilMask(mask uint32) { g.record("StencilMask(%#x)", mask) }

// LineWidth implements driver.GPU.
func (g *GPU) LineWidth(w float32) { g.record("LineWidth(%v)", w) }

// Viewport implements driver.GPU.
func (g *GPU) Viewport(x, y, width, height int) {
	g.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

// ClearColor implements driver.GPU.
func (g *GPU) ClearColor(r, gr, b, a float32) {
	g.record("ClearColor(%v, %v, %v, %v)", r, gr, b, a)
}

// ClearStencil implements driver.GPU.
func (g *GPU) ClearStencil(s int) { g.record("ClearStencil(%d)", s) }

// Clear implements driver.GPU.
func (g *GPU) Clear(mask driver.ClearMask) { g.record("Clear(%d)", mask) }

// DrawElements implements driver.GPU.
func (g *GPU) DrawElements(t driver.Topology, count int, f driver.IndexFmt, off int) {
	g.checkFeedback()
	g.record("DrawElements(%v, %d)", t, count)
}

// DrawArrays implements driver.GPU.
func (g *GPU) DrawArrays(t driver.Topology, first, count int) {
	g.checkFeedback()
	g.record("DrawArrays(%v, %d, %d)", t, first, count)
}

// checkFeedback records a Feedback call if the color
// texture of the bound framebuffer is bound to a unit,
// which makes the draw undefined.
func (g *GPU) checkFeedback() {
	f := g.fbs[g.fb]
	if f == nil {
		return
	}
	for u, tex := range g.units {
		if tex == f.Texture {
			g.record("Feedback(%d, %d)", u, tex)
			return
		}
	}
}
