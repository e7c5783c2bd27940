// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create GPU resources, to change the
// rendering state and to issue draw calls.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits

	// NewProgram compiles the vertex and fragment
	// sources and links them into a program.
	// On failure, the returned error wraps ErrCompile.
	NewProgram(vertex, fragment string) (Program, error)

	// UseProgram makes p the current program.
	UseProgram(p Program)

	// DeleteProgram deletes p.
	DeleteProgram(p Program)

	// UniformLocation returns the location of the named
	// uniform in p, or -1 if p has no such uniform.
	UniformLocation(p Program, name string) int

	// AttribLocation returns the location of the named
	// attribute in p, or -1 if p has no such attribute.
	AttribLocation(p Program, name string) int

	// Uniformf sets a float uniform of the current
	// program. len(v) must be in the range [1, 4].
	Uniformf(loc int, v ...float32)

	// Uniformi sets an int, bool or sampler uniform of
	// the current program. len(v) must be in the range
	// [1, 4].
	Uniformi(loc int, v ...int32)

	// UniformMatrix sets a matrix uniform of the current
	// program. m is column-major and len(m) must be 4, 9
	// or 16.
	UniformMatrix(loc int, m []float32)

	// NewBuffer creates a new buffer object bound to
	// target and initialized with data.
	NewBuffer(target BufTarget, data []byte, usage BufUsage) (Buffer, error)

	// BufferData replaces the storage of buf.
	BufferData(target BufTarget, buf Buffer, data []byte, usage BufUsage)

	// BufferSubData updates a range of buf starting
	// at byte offset off.
	BufferSubData(target BufTarget, buf Buffer, off int, data []byte)

	// BindBuffer binds buf to target.
	// Buffer 0 unbinds the target.
	BindBuffer(target BufTarget, buf Buffer)

	// DeleteBuffer deletes buf.
	DeleteBuffer(buf Buffer)

	// VertexAttrib enables the attribute at loc and
	// sources it from buf as size float components per
	// vertex, stride bytes apart, starting at byte off.
	VertexAttrib(loc int, buf Buffer, size, stride, off int)

	// DisableVertexAttrib disables the attribute at loc.
	DisableVertexAttrib(loc int)

	// NewTexture creates a new texture object.
	NewTexture() (Texture, error)

	// BindTexture binds tex to target in texture unit
	// unit. Texture 0 unbinds the target.
	BindTexture(unit int, target TexTarget, tex Texture)

	// TexImage defines the image of a mip level of the
	// texture bound to target. pixels may be nil, in which
	// case the storage is left uninitialized.
	TexImage(target TexTarget, level int, pf PixelFmt, width, height int, pixels []byte)

	// TexSampling sets the sampling state of the
	// texture bound to target.
	TexSampling(target TexTarget, s *Sampling)

	// GenerateMipmap generates the mip chain of the
	// texture bound to target.
	GenerateMipmap(target TexTarget)

	// DeleteTexture deletes tex.
	DeleteTexture(tex Texture)

	// NewFramebuf creates a framebuffer whose color
	// attachment is tex, with optional depth and stencil
	// renderbuffers of the given size.
	// On failure, the returned error wraps ErrFramebuf.
	NewFramebuf(tex Texture, width, height int, depth, stencil bool) (Framebuf, error)

	// BindFramebuf binds fb for rendering.
	// Framebuf 0 is the default framebuffer.
	BindFramebuf(fb Framebuf)

	// DeleteFramebuf deletes fb and its renderbuffers.
	DeleteFramebuf(fb Framebuf)

	// Enable enables a capability.
	Enable(c Cap)

	// Disable disables a capability.
	Disable(c Cap)

	// BlendFunc sets the blend factors.
	BlendFunc(src, dst BlendFac)

	// DepthFunc sets the depth comparison function.
	DepthFunc(f CmpFunc)

	// DepthMask enables or disables depth writes.
	DepthMask(write bool)

	// CullFace sets the faces to cull.
	CullFace(c CullMode)

	// FrontFace sets the winding order of front faces.
	FrontFace(clockwise bool)

	// ColorMask enables or disables color writes per
	// channel.
	ColorMask(r, g, b, a bool)

	// StencilFunc sets the stencil test.
	StencilFunc(f CmpFunc, ref int, mask uint32)

	// StencilOp sets the stencil operations.
	StencilOp(sfail, dpfail, dppass StencilOp)

	// StencilMask sets the stencil write mask.
	StencilMask(mask uint32)

	// LineWidth sets the width of line primitives.
	LineWidth(w float32)

	// Viewport sets the viewport.
	Viewport(x, y, width, height int)

	// ClearColor sets the color used to clear the color
	// buffer.
	ClearColor(r, g, b, a float32)

	// ClearStencil sets the value used to clear the
	// stencil buffer.
	ClearStencil(s int)

	// Clear clears the buffers selected by mask.
	Clear(mask ClearMask)

	// DrawElements draws count indices of format f
	// from the bound index buffer, starting at byte
	// offset off.
	DrawElements(t Topology, count int, f IndexFmt, off int)

	// DrawArrays draws count vertices starting at
	// first.
	DrawArrays(t Topology, first, count int)
}

// Program is a linked shader program.
// Zero is never a valid program.
type Program uint32

// Buffer is a buffer object.
// Zero is never a valid buffer.
type Buffer uint32

// Texture is a texture object.
// Zero is never a valid texture.
type Texture uint32

// Framebuf is a framebuffer object.
// Zero refers to the default framebuffer.
type Framebuf uint32

// BufTarget is the type of buffer binding points.
type BufTarget int

// Buffer targets.
const (
	ArrayBuffer BufTarget = iota
	ElementBuffer
)

// BufUsage is the type of buffer usage hints.
type BufUsage int

// Buffer usages.
const (
	StaticDraw BufUsage = iota
	DynamicDraw
	StreamDraw
)

// TexTarget is the type of texture targets.
type TexTarget int

// Texture targets.
// The cube face targets are only valid in calls to
// TexImage.
const (
	Tex2D TexTarget = iota
	TexCube
	TexExternal
	TexCubePosX
	TexCubeNegX
	TexCubePosY
	TexCubeNegY
	TexCubePosZ
	TexCubeNegZ
)

// CubeFace returns the target of the i-th cube face.
func CubeFace(i int) TexTarget { return TexCubePosX + TexTarget(i) }

// PixelFmt describes the format of pixel data.
type PixelFmt int

// Pixel formats.
const (
	RGBA8 PixelFmt = iota
	RGB8
	RGB565
	RGBA4
	Alpha8
	Lum8
	LumAlpha8
)

// Size returns the number of bytes of a single pixel.
func (f PixelFmt) Size() int {
	switch f {
	case RGBA8:
		return 4
	case RGB8:
		return 3
	case RGB565, RGBA4, LumAlpha8:
		return 2
	case Alpha8, Lum8:
		return 1
	default:
		return 0
	}
}

// Filter is the type of texture filters.
type Filter int

// Filters.
// The mipmap filters are only valid as minification
// filters.
const (
	FNearest Filter = iota
	FLinear
	FNearestMipmap
	FLinearMipmap
)

// AddrMode is the type of texture address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampling describes texture sampling state.
type Sampling struct {
	Min   Filter
	Mag   Filter
	AddrU AddrMode
	AddrV AddrMode
}

// Cap is the type of capabilities toggled by
// GPU.Enable and GPU.Disable.
type Cap int

// Capabilities.
const (
	CapBlend Cap = iota
	CapCullFace
	CapDepthTest
	CapStencilTest
	CapScissorTest
)

// CullMode is the type of cull modes, which
// determines primitive culling based on triangle
// facing direction.
type CullMode int

// Cull modes.
const (
	CBack CullMode = iota
	CFront
	CFrontAndBack
)

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CNotEqual
	CGreaterEqual
	CAlways
)

// StencilOp is the type of stencil operations.
type StencilOp int

// Stencil operations.
const (
	SKeep StencilOp = iota
	SZero
	SReplace
	SIncClamp
	SDecClamp
	SInvert
	SIncWrap
	SDecWrap
)

// BlendFac is the type of blend factors.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcColor
	BInvSrcColor
	BSrcAlpha
	BInvSrcAlpha
	BDstColor
	BInvDstColor
	BDstAlpha
	BInvDstAlpha
)

// ClearMask selects the buffers cleared by GPU.Clear.
type ClearMask int

// Clear mask bits.
const (
	ColorBit ClearMask = 1 << iota
	DepthBit
	StencilBit
)

// Topology is the type of primitive topologies,
// which determines how vertex data is assembled.
type Topology int

// Primitive topologies.
const (
	TTriangle Topology = iota
	TTriStrip
	TTriFan
	TLine
	TLnStrip
	TLnLoop
	TPoint
)

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2D textures.
	MaxTexture2D int
	// Maximum width and height of cube textures.
	MaxTextureCube int
	// Maximum number of texture units usable from
	// a fragment shader.
	MaxTextureUnits int
	// Maximum number of vertex attributes.
	MaxVertexAttribs int
	// Maximum width/height of a renderbuffer.
	MaxRenderbuf int
	// Whether 32-bit indices are supported.
	Index32 bool
}
