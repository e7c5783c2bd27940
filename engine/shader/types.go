// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package shader implements a typed builder for GLSL ES
// shader source.
// Shader code is assembled by operating on Var values,
// each of which emits the corresponding statements into
// the Shader that owns it. Fragments are partial shaders
// whose declarations and statements are merged into a
// host shader when it is built.
package shader

// DataType is the type of shader variables.
type DataType int

// Data types.
const (
	Void DataType = iota
	Float
	Vec2
	Vec3
	Vec4
	Int
	IVec2
	IVec3
	IVec4
	Bool
	BVec2
	BVec3
	BVec4
	Mat2
	Mat3
	Mat4
	Sampler2D
	SamplerCube
	SamplerExternalOES
)

// String returns the GLSL keyword of t.
func (t DataType) String() string {
	switch t {
	case Void:
		return "void"
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Int:
		return "int"
	case IVec2:
		return "ivec2"
	case IVec3:
		return "ivec3"
	case IVec4:
		return "ivec4"
	case Bool:
		return "bool"
	case BVec2:
		return "bvec2"
	case BVec3:
		return "bvec3"
	case BVec4:
		return "bvec4"
	case Mat2:
		return "mat2"
	case Mat3:
		return "mat3"
	case Mat4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	case SamplerCube:
		return "samplerCube"
	case SamplerExternalOES:
		return "samplerExternalOES"
	default:
		return "!shader.DataType"
	}
}

// Components returns the number of scalar components
// of t. Samplers count as one integer component.
func (t DataType) Components() int {
	switch t {
	case Float, Int, Bool, Sampler2D, SamplerCube, SamplerExternalOES:
		return 1
	case Vec2, IVec2, BVec2:
		return 2
	case Vec3, IVec3, BVec3:
		return 3
	case Vec4, IVec4, BVec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// IsSampler returns whether t is a sampler type.
func (t DataType) IsSampler() bool {
	return t == Sampler2D || t == SamplerCube || t == SamplerExternalOES
}

// IsMatrix returns whether t is a matrix type.
func (t DataType) IsMatrix() bool { return t == Mat2 || t == Mat3 || t == Mat4 }

// isInteger returns whether uniforms of type t are set
// with integer values.
func (t DataType) isInteger() bool {
	switch t {
	case Int, IVec2, IVec3, IVec4, Bool, BVec2, BVec3, BVec4:
		return true
	default:
		return t.IsSampler()
	}
}

// vector returns the vector type of n components whose
// scalar type is that of t. n == 1 yields a scalar.
func (t DataType) vector(n int) DataType {
	var base DataType
	switch t {
	case Int, IVec2, IVec3, IVec4:
		base = Int
	case Bool, BVec2, BVec3, BVec4:
		base = Bool
	default:
		base = Float
	}
	if n < 1 || n > 4 {
		return Void
	}
	if n == 1 {
		return base
	}
	// Vector types follow their scalar type.
	return base + DataType(n-1)
}

// element returns the type of indexing into a value of
// type t.
func (t DataType) element() DataType {
	switch t {
	case Mat2:
		return Vec2
	case Mat3:
		return Vec3
	case Mat4:
		return Vec4
	case Vec2, Vec3, Vec4, IVec2, IVec3, IVec4, BVec2, BVec3, BVec4:
		return t.vector(1)
	default:
		return t
	}
}

// rank orders types for arithmetic promotion.
// Types not listed have rank 0.
var rank = map[DataType]int{
	IVec4: 11,
	IVec3: 10,
	IVec2: 9,
	Vec4:  8,
	Vec3:  7,
	Vec2:  6,
	Mat4:  5,
	Mat3:  4,
	Mat2:  3,
	Float: 2,
	Int:   1,
}

// Promote returns the type of an arithmetic operation
// whose operands have types l and r.
// A matrix applied to a vector yields the vector type.
// Otherwise, the operand of highest rank wins, with the
// rank order being ivec4, ivec3, ivec2, vec4, vec3, vec2,
// mat4, mat3, mat2, float and int. Operands whose types
// have no rank yield l.
// Promote never fails; invalid combinations surface only
// when the shader is compiled.
func Promote(l, r DataType) DataType {
	switch {
	case l == r:
		return l
	case l.IsMatrix() && !r.IsMatrix() && r.Components() > 1:
		return r
	case r.IsMatrix() && !l.IsMatrix() && l.Components() > 1:
		return l
	}
	rl, rr := rank[l], rank[r]
	if rr > rl {
		return r
	}
	return l
}

// Kind is the kind of a Shader.
type Kind int

// Shader kinds.
const (
	Vertex Kind = iota
	Fragment
	// Partial vertex shader, attached to a Vertex shader.
	VertexFragment
	// Partial fragment shader, attached to a Fragment
	// shader.
	FragmentFragment
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Vertex:
		return "Vertex"
	case Fragment:
		return "Fragment"
	case VertexFragment:
		return "VertexFragment"
	case FragmentFragment:
		return "FragmentFragment"
	default:
		return "!shader.Kind"
	}
}

// host returns the kind of shader to which a fragment
// of kind k can be attached.
func (k Kind) host() Kind {
	switch k {
	case VertexFragment:
		return Vertex
	case FragmentFragment:
		return Fragment
	default:
		return -1
	}
}

// Precision is the type of precision qualifiers.
type Precision int

// Precision qualifiers.
const (
	Lowp Precision = iota
	Mediump
	Highp
)

// String implements fmt.Stringer.
func (p Precision) String() string {
	switch p {
	case Lowp:
		return "lowp"
	case Mediump:
		return "mediump"
	case Highp:
		return "highp"
	default:
		return "!shader.Precision"
	}
}
