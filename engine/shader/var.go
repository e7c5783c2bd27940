// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gviegas/scenegl/linear"
)

// qualifier identifies where a Var is declared.
type qualifier int

const (
	qLocal qualifier = iota
	qExpr
	qUniform
	qAttribute
	qVarying
	qGlobal
	qConst
	qBuiltin
)

// Var is a typed shader variable.
// A Var is either a named variable (uniform, attribute,
// varying, global, constant or local) or an expression
// whose name is the expression text itself.
// Operations on a Var emit statements into the Shader
// that created it.
type Var struct {
	sh    *Shader
	name  string
	typ   DataType
	value string
	qual  qualifier
	init  bool
	size  int

	// Resolved locations, one per array element.
	// nil until SetLocations is called.
	locs []int
	// Uniform value, flattened.
	fval []float32
	ival []int32
	set  bool
}

// Name returns the name of v.
// For expressions, it is the expression text.
func (v *Var) Name() string { return v.name }

// Type returns the data type of v.
func (v *Var) Type() DataType { return v.typ }

// Value returns the text of the last value assigned to v.
func (v *Var) Value() string { return v.value }

// IsGlobal returns whether v is declared outside main.
func (v *Var) IsGlobal() bool {
	switch v.qual {
	case qLocal, qExpr:
		return false
	default:
		return true
	}
}

// Initialized returns whether v has been declared.
func (v *Var) Initialized() bool { return v.init }

// IsArray returns whether v is an array.
func (v *Var) IsArray() bool { return v.size > 0 }

// Len returns the array size of v, or 0 if v is not an
// array.
func (v *Var) Len() int { return v.size }

// Rename changes the name of v.
func (v *Var) Rename(name string) { v.name = name }

// Loc returns the location of v (the first element in
// case of arrays), or -1 if v has not been located.
func (v *Var) Loc() int {
	if len(v.locs) == 0 {
		return -1
	}
	return v.locs[0]
}

// expr creates an expression Var of type t.
func (v *Var) expr(t DataType, text string) *Var {
	return &Var{sh: v.sh, name: text, typ: t, value: text, qual: qExpr, init: true}
}

// op returns the expression v <op> w.
func (v *Var) op(op string, w *Var) *Var {
	return v.expr(Promote(v.typ, w.typ), v.name+" "+op+" "+w.name)
}

// opf returns the expression v <op> f.
func (v *Var) opf(op string, f float32) *Var {
	return v.expr(Promote(v.typ, Float), v.name+" "+op+" "+Literal(f))
}

// Add returns the expression v + w.
func (v *Var) Add(w *Var) *Var { return v.op("+", w) }

// Sub returns the expression v - w.
func (v *Var) Sub(w *Var) *Var { return v.op("-", w) }

// Mul returns the expression v * w.
func (v *Var) Mul(w *Var) *Var { return v.op("*", w) }

// Div returns the expression v / w.
func (v *Var) Div(w *Var) *Var { return v.op("/", w) }

// Mod returns the expression v % w.
func (v *Var) Mod(w *Var) *Var { return v.op("%", w) }

// AddF returns the expression v + f.
func (v *Var) AddF(f float32) *Var { return v.opf("+", f) }

// SubF returns the expression v - f.
func (v *Var) SubF(f float32) *Var { return v.opf("-", f) }

// MulF returns the expression v * f.
func (v *Var) MulF(f float32) *Var { return v.opf("*", f) }

// DivF returns the expression v / f.
func (v *Var) DivF(f float32) *Var { return v.opf("/", f) }

// Negate returns the expression -v.
func (v *Var) Negate() *Var { return v.expr(v.typ, "-"+v.name) }

// Enclose returns the expression (v).
func (v *Var) Enclose() *Var { return v.expr(v.typ, "("+v.name+")") }

// ElementAt returns the expression v[i].
func (v *Var) ElementAt(i int) *Var {
	t := v.typ
	if !v.IsArray() {
		t = t.element()
	}
	return v.expr(t, v.name+"["+strconv.Itoa(i)+"]")
}

// ElementAtVar returns the expression v[i].
func (v *Var) ElementAtVar(i *Var) *Var {
	t := v.typ
	if !v.IsArray() {
		t = t.element()
	}
	return v.expr(t, v.name+"["+i.name+"]")
}

// Swizzle returns the component selection v.comp.
// The result is never declared.
func (v *Var) Swizzle(comp string) *Var {
	return v.expr(v.typ.vector(len(comp)), v.name+"."+comp)
}

// X returns v.x.
func (v *Var) X() *Var { return v.Swizzle("x") }

// Y returns v.y.
func (v *Var) Y() *Var { return v.Swizzle("y") }

// Z returns v.z.
func (v *Var) Z() *Var { return v.Swizzle("z") }

// W returns v.w.
func (v *Var) W() *Var { return v.Swizzle("w") }

// R returns v.r.
func (v *Var) R() *Var { return v.Swizzle("r") }

// G returns v.g.
func (v *Var) G() *Var { return v.Swizzle("g") }

// B returns v.b.
func (v *Var) B() *Var { return v.Swizzle("b") }

// A returns v.a.
func (v *Var) A() *Var { return v.Swizzle("a") }

// XY returns v.xy.
func (v *Var) XY() *Var { return v.Swizzle("xy") }

// XYZ returns v.xyz.
func (v *Var) XYZ() *Var { return v.Swizzle("xyz") }

// RGB returns v.rgb.
func (v *Var) RGB() *Var { return v.Swizzle("rgb") }

// RGBA returns v.rgba.
func (v *Var) RGBA() *Var { return v.Swizzle("rgba") }

// S returns v.s.
func (v *Var) S() *Var { return v.Swizzle("s") }

// T returns v.t.
func (v *Var) T() *Var { return v.Swizzle("t") }

// ST returns v.st.
func (v *Var) ST() *Var { return v.Swizzle("st") }

// Assign assigns w to v.
// The first assignment to a local that was never
// declared emits a declaration; any other assignment
// emits a plain one.
func (v *Var) Assign(w *Var) { v.AssignS(w.name) }

// AssignF assigns f to v.
func (v *Var) AssignF(f float32) { v.AssignS(Literal(f)) }

// AssignS assigns the expression text to v.
func (v *Var) AssignS(expr string) {
	v.value = expr
	b := v.sh.out
	if !v.IsGlobal() && !v.init {
		b.WriteString(v.typ.String())
		b.WriteByte(' ')
		v.init = true
	}
	b.WriteString(v.name)
	b.WriteString(" = ")
	b.WriteString(expr)
	b.WriteString(";\n")
}

func (v *Var) assignOp(op, expr string) {
	b := v.sh.out
	b.WriteString(v.name)
	b.WriteString(" " + op + "= ")
	b.WriteString(expr)
	b.WriteString(";\n")
}

// AssignAdd emits v += w.
func (v *Var) AssignAdd(w *Var) { v.assignOp("+", w.name) }

// AssignSub emits v -= w.
func (v *Var) AssignSub(w *Var) { v.assignOp("-", w.name) }

// AssignMul emits v *= w.
func (v *Var) AssignMul(w *Var) { v.assignOp("*", w.name) }

// AssignDiv emits v /= w.
func (v *Var) AssignDiv(w *Var) { v.assignOp("/", w.name) }

// AssignAddF emits v += f.
func (v *Var) AssignAddF(f float32) { v.assignOp("+", Literal(f)) }

// AssignMulF emits v *= f.
func (v *Var) AssignMulF(f float32) { v.assignOp("*", Literal(f)) }

// Literal formats f as a GLSL float literal.
// GLSL has no literal for NaN or infinity: NaN is
// formatted as zero and an infinity as the largest
// finite value of its sign.
func Literal(f float32) string {
	switch {
	case math32.IsNaN(f):
		log().Warn("NaN literal replaced with zero")
		f = 0
	case math32.IsInf(f, 0):
		log().Warn("infinite literal clamped", "value", f)
		f = math32.Copysign(math32.MaxFloat32, f)
	}
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SetFloat sets the value of a float uniform.
func (v *Var) SetFloat(f float32) { v.SetFloats(f) }

// SetFloats sets the value of a float, vector or matrix
// uniform. Arrays take the values of every element in
// sequence.
func (v *Var) SetFloats(f ...float32) {
	v.fval = append(v.fval[:0], f...)
	v.set = true
}

// SetVec3 sets the value of a vec3 uniform.
func (v *Var) SetVec3(u *linear.V3) { v.SetFloats(u[0], u[1], u[2]) }

// SetVec4 sets the value of a vec4 uniform.
func (v *Var) SetVec4(u *linear.V4) { v.SetFloats(u[0], u[1], u[2], u[3]) }

// SetM3 sets the value of a mat3 uniform.
func (v *Var) SetM3(m *linear.M3) { v.SetFloats(m.Floats()...) }

// SetM4 sets the value of a mat4 uniform.
func (v *Var) SetM4(m *linear.M4) { v.SetFloats(m.Floats()...) }

// SetInts sets the value of an integer or boolean
// uniform.
func (v *Var) SetInts(i ...int32) {
	v.ival = append(v.ival[:0], i...)
	v.set = true
}

// SetInt sets the value of an int uniform.
func (v *Var) SetInt(i int32) { v.SetInts(i) }

// SetBool sets the value of a bool uniform.
func (v *Var) SetBool(b bool) {
	if b {
		v.SetInts(1)
	} else {
		v.SetInts(0)
	}
}

// SetUnit sets the texture unit of a sampler uniform.
func (v *Var) SetUnit(unit int) { v.SetInts(int32(unit)) }

// Unset clears the uniform value of v, so it is no
// longer uploaded.
func (v *Var) Unset() {
	v.fval = v.fval[:0]
	v.ival = v.ival[:0]
	v.set = false
}

// IsSet returns whether v has a uniform value.
func (v *Var) IsSet() bool { return v.set }
