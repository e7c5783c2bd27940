// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gviegas/scenegl/driver"
)

// Shader builds the source of a vertex or fragment
// shader.
// Declarations are registered with the Add* methods,
// which return the Var used to refer to them from the
// main body. The main body is produced by the function
// given to SetMain, which runs anew on every call to
// Build.
type Shader struct {
	kind    Kind
	src     string
	literal bool

	// Counter for auto-generated names.
	// Fragments share the counter of the shader they
	// are being built into.
	cnt  *int
	own  int
	out  *strings.Builder
	main func()
	end  func()

	dirs     []string
	prec     Precision
	hasPrec  bool
	consts   table[*Var]
	uniforms table[*Var]
	attribs  table[*Var]
	varyings table[*Var]
	globals  table[*Var]
	funcs    table[string]
	frags    []*Shader
	parent   *Shader

	gpu     driver.GPU
	prog    driver.Program
	located bool
}

// New creates a new Shader of the given kind.
// Fragment shaders default to mediump float precision.
func New(kind Kind) *Shader {
	s := &Shader{kind: kind, out: new(strings.Builder)}
	s.cnt = &s.own
	if kind == Fragment {
		s.SetPrecision(Mediump)
	}
	return s
}

// NewLiteral creates a new Shader from source text.
// Build returns src unchanged, and declarations
// registered afterwards only serve for location
// resolution and uniform uploads.
func NewLiteral(kind Kind, src string) *Shader {
	s := New(kind)
	s.src = src
	s.literal = true
	return s
}

// Kind returns the kind of s.
func (s *Shader) Kind() Kind { return s.kind }

// NeedsBuild returns whether the source of s is
// generated.
func (s *Shader) NeedsBuild() bool { return !s.literal }

// Source returns the source produced by the last call to
// Build.
func (s *Shader) Source() string { return s.src }

// SetMain sets the function that produces the main body.
func (s *Shader) SetMain(fn func()) { s.main = fn }

// SetEnd sets the function that produces the statements
// that follow the main bodies of the fragments, such as
// the final output assignment.
func (s *Shader) SetEnd(fn func()) { s.end = fn }

// AddDirective adds a preprocessor directive, such as
// "#extension GL_OES_EGL_image_external : require".
func (s *Shader) AddDirective(dir string) {
	if !slices.Contains(s.dirs, dir) {
		s.dirs = append(s.dirs, dir)
	}
}

// SetPrecision sets the default float precision.
func (s *Shader) SetPrecision(p Precision) {
	s.prec = p
	s.hasPrec = true
}

func (s *Shader) declare(t *table[*Var], name string, typ DataType, q qualifier, size int) *Var {
	v := &Var{sh: s, name: name, typ: typ, qual: q, init: true, size: size}
	if t.put(name, v) {
		log().Warn("shader: declaration replaced", "name", name, "kind", s.kind)
	}
	if typ == SamplerExternalOES {
		s.AddDirective("#extension GL_OES_EGL_image_external : require")
	}
	return v
}

// AddUniform declares a uniform.
func (s *Shader) AddUniform(name string, typ DataType) *Var {
	return s.declare(&s.uniforms, name, typ, qUniform, 0)
}

// AddUniformArray declares a uniform array of size n.
func (s *Shader) AddUniformArray(name string, typ DataType, n int) *Var {
	if n < 1 {
		panic("shader: array size must be positive")
	}
	return s.declare(&s.uniforms, name, typ, qUniform, n)
}

// AddAttribute declares a vertex attribute.
func (s *Shader) AddAttribute(name string, typ DataType) *Var {
	return s.declare(&s.attribs, name, typ, qAttribute, 0)
}

// AddVarying declares a varying.
func (s *Shader) AddVarying(name string, typ DataType) *Var {
	return s.declare(&s.varyings, name, typ, qVarying, 0)
}

// AddGlobal declares a global variable.
func (s *Shader) AddGlobal(name string, typ DataType) *Var {
	return s.declare(&s.globals, name, typ, qGlobal, 0)
}

// AddGlobalArray declares a global array of size n.
func (s *Shader) AddGlobalArray(name string, typ DataType, n int) *Var {
	if n < 1 {
		panic("shader: array size must be positive")
	}
	return s.declare(&s.globals, name, typ, qGlobal, n)
}

// AddConst declares a constant with the given value
// text.
func (s *Shader) AddConst(name string, typ DataType, value string) *Var {
	v := s.declare(&s.consts, name, typ, qConst, 0)
	v.value = value
	return v
}

// AddFunction adds the full definition of a function.
func (s *Shader) AddFunction(name, src string) {
	if s.funcs.put(name, src) {
		log().Warn("shader: function replaced", "name", name, "kind", s.kind)
	}
}

// Global returns a Var referring to a global declared
// elsewhere (usually in the shader a fragment is
// attached to). Nothing is declared.
func (s *Shader) Global(name string, typ DataType) *Var {
	return &Var{sh: s, name: name, typ: typ, qual: qGlobal, init: true}
}

// Uniform returns the uniform of s (or of one of its
// fragments) named name, or nil.
func (s *Shader) Uniform(name string) *Var {
	if v, ok := s.uniforms.get(name); ok {
		return v
	}
	for _, f := range s.frags {
		if v := f.Uniform(name); v != nil {
			return v
		}
	}
	return nil
}

// Attribute returns the attribute of s (or of one of
// its fragments) named name, or nil.
func (s *Shader) Attribute(name string) *Var {
	if v, ok := s.attribs.get(name); ok {
		return v
	}
	for _, f := range s.frags {
		if v := f.Attribute(name); v != nil {
			return v
		}
	}
	return nil
}

// Var creates a local variable with an auto-generated
// name. It is declared by its first assignment.
func (s *Shader) Var(typ DataType) *Var {
	name := fmt.Sprintf("v_%s_%d", typ, *s.cnt)
	*s.cnt++
	return &Var{sh: s, name: name, typ: typ, qual: qLocal}
}

// NamedVar creates a local variable named name.
// It is declared by its first assignment.
func (s *Shader) NamedVar(name string, typ DataType) *Var {
	return &Var{sh: s, name: name, typ: typ, qual: qLocal}
}

// Expr creates an expression of type typ.
func (s *Shader) Expr(typ DataType, text string) *Var {
	return &Var{sh: s, name: text, typ: typ, value: text, qual: qExpr, init: true}
}

// Float creates a float literal.
func (s *Shader) Float(f float32) *Var { return s.Expr(Float, Literal(f)) }

// Int creates an int literal.
func (s *Shader) Int(i int) *Var { return s.Expr(Int, strconv.Itoa(i)) }

// Bool creates a bool literal.
func (s *Shader) Bool(b bool) *Var { return s.Expr(Bool, strconv.FormatBool(b)) }

func (s *Shader) vec(typ DataType, f []float32) *Var {
	lits := make([]string, len(f))
	for i := range f {
		lits[i] = Literal(f[i])
	}
	return s.Expr(typ, typ.String()+"("+strings.Join(lits, ", ")+")")
}

// Vec2 creates a vec2 literal.
func (s *Shader) Vec2(x, y float32) *Var { return s.vec(Vec2, []float32{x, y}) }

// Vec3 creates a vec3 literal.
func (s *Shader) Vec3(x, y, z float32) *Var { return s.vec(Vec3, []float32{x, y, z}) }

// Vec4 creates a vec4 literal.
func (s *Shader) Vec4(x, y, z, w float32) *Var { return s.vec(Vec4, []float32{x, y, z, w}) }

func (s *Shader) builtin(name string, typ DataType) *Var {
	return &Var{sh: s, name: name, typ: typ, qual: qBuiltin, init: true}
}

// GLPosition returns gl_Position.
func (s *Shader) GLPosition() *Var { return s.builtin("gl_Position", Vec4) }

// GLPointSize returns gl_PointSize.
func (s *Shader) GLPointSize() *Var { return s.builtin("gl_PointSize", Float) }

// GLFragColor returns gl_FragColor.
func (s *Shader) GLFragColor() *Var { return s.builtin("gl_FragColor", Vec4) }

// GLFragCoord returns gl_FragCoord.
func (s *Shader) GLFragCoord() *Var { return s.builtin("gl_FragCoord", Vec4) }

// GLPointCoord returns gl_PointCoord.
func (s *Shader) GLPointCoord() *Var { return s.builtin("gl_PointCoord", Vec2) }

// If starts a conditional block.
func (s *Shader) If(c Cond) { s.out.WriteString("if (" + c.text + ") {\n") }

// ElseIf continues a conditional block.
func (s *Shader) ElseIf(c Cond) { s.out.WriteString("} else if (" + c.text + ") {\n") }

// Else continues a conditional block.
func (s *Shader) Else() { s.out.WriteString("} else {\n") }

// EndIf ends a conditional block.
func (s *Shader) EndIf() { s.out.WriteString("}\n") }

// For starts a loop that counts from from up to, but
// not including, to. It returns the loop index, an int
// named name. The bounds are constant, as GLSL ES
// requires.
func (s *Shader) For(name string, from, to int) *Var {
	s.out.WriteString("for (int " + name + " = " + strconv.Itoa(from) + "; " +
		name + " < " + strconv.Itoa(to) + "; " + name + "++) {\n")
	return &Var{sh: s, name: name, typ: Int, qual: qLocal, init: true}
}

// EndFor ends a loop.
func (s *Shader) EndFor() { s.out.WriteString("}\n") }

// Discard emits a discard statement.
func (s *Shader) Discard() { s.out.WriteString("discard;\n") }

// Statement emits stmt as is, followed by a semicolon.
func (s *Shader) Statement(stmt string) { s.out.WriteString(stmt + ";\n") }

// Attach attaches a fragment to s.
// Declarations of frag take precedence over those of s
// with the same name. Fragments run after the main body
// of s, in attach order.
// It panics if frag is not a fragment of the kind of s,
// or if frag is already attached.
func (s *Shader) Attach(frag *Shader) {
	if frag.kind.host() != s.kind {
		panic("shader: cannot attach " + frag.kind.String() + " to " + s.kind.String())
	}
	if frag.parent != nil {
		panic("shader: fragment already attached")
	}
	frag.parent = s
	s.frags = append(s.frags, frag)
}

// Detach detaches frag from s.
// It returns whether frag was attached to s.
func (s *Shader) Detach(frag *Shader) bool {
	i := slices.Index(s.frags, frag)
	if i < 0 {
		return false
	}
	s.frags = slices.Delete(s.frags, i, i+1)
	frag.parent = nil
	frag.cnt = &frag.own
	return true
}

// Fragments returns the attached fragments.
func (s *Shader) Fragments() []*Shader { return slices.Clone(s.frags) }

// body runs the main function of s and returns the
// statements it emitted.
func (s *Shader) body(cnt *int) string {
	s.cnt = cnt
	s.out = new(strings.Builder)
	if s.main != nil {
		s.main()
	}
	return s.out.String()
}

func merge(dst *table[*Var], src *table[*Var], what string) {
	src.each(func(name string, v *Var) {
		if dst.put(name, v) {
			log().Warn("shader: fragment overrides declaration", "what", what, "name", name)
		}
	})
}

// Build generates the source of s.
// The output is made of the directives, the precision
// statement, constants, uniforms, attributes, varyings,
// globals, functions and the main function, in this
// order. The main function runs the main body of s, then
// those of the fragments in attach order, then the end
// function of s. Each section merges the declarations of s with
// those of its fragments.
// Build regenerates the whole source on every call; the
// counter of auto-generated names restarts at zero.
// Shaders created with NewLiteral are returned as is.
func (s *Shader) Build() string {
	if s.literal {
		return s.src
	}
	if s.kind == VertexFragment || s.kind == FragmentFragment {
		panic("shader: cannot build a fragment on its own")
	}

	var n int
	main := s.body(&n)
	var frags strings.Builder
	for _, f := range s.frags {
		frags.WriteString(f.body(&n))
		f.cnt = &f.own
	}
	var end string
	if s.end != nil {
		s.cnt = &n
		s.out = new(strings.Builder)
		s.end()
		end = s.out.String()
	}
	s.cnt = &s.own

	dirs := slices.Clone(s.dirs)
	consts := s.consts.clone()
	uniforms := s.uniforms.clone()
	attribs := s.attribs.clone()
	varyings := s.varyings.clone()
	globals := s.globals.clone()
	funcs := s.funcs.clone()
	prec, hasPrec := s.prec, s.hasPrec
	for _, f := range s.frags {
		for _, d := range f.dirs {
			if !slices.Contains(dirs, d) {
				dirs = append(dirs, d)
			}
		}
		if !hasPrec && f.hasPrec {
			prec, hasPrec = f.prec, true
		}
		merge(&consts, &f.consts, "const")
		merge(&uniforms, &f.uniforms, "uniform")
		merge(&attribs, &f.attribs, "attribute")
		merge(&varyings, &f.varyings, "varying")
		merge(&globals, &f.globals, "global")
		f.funcs.each(func(name, src string) {
			if funcs.put(name, src) {
				log().Warn("shader: fragment overrides declaration", "what", "function", "name", name)
			}
		})
	}

	var b strings.Builder
	for _, d := range dirs {
		b.WriteString(d + "\n")
	}
	if hasPrec {
		b.WriteString("precision " + prec.String() + " float;\n")
	}
	consts.each(func(_ string, v *Var) {
		b.WriteString("const " + v.typ.String() + " " + v.name + " = " + v.value + ";\n")
	})
	decl := func(qual string) func(string, *Var) {
		return func(_ string, v *Var) {
			if qual != "" {
				b.WriteString(qual + " ")
			}
			b.WriteString(v.typ.String() + " " + v.name)
			if v.size > 0 {
				b.WriteString("[" + strconv.Itoa(v.size) + "]")
			}
			b.WriteString(";\n")
		}
	}
	uniforms.each(decl("uniform"))
	attribs.each(decl("attribute"))
	varyings.each(decl("varying"))
	globals.each(decl(""))
	funcs.each(func(_, src string) {
		b.WriteString(src)
		if !strings.HasSuffix(src, "\n") {
			b.WriteByte('\n')
		}
	})
	b.WriteString("void main() {\n")
	b.WriteString(main)
	b.WriteString(frags.String())
	b.WriteString(end)
	b.WriteString("}\n")
	s.src = b.String()
	return s.src
}

func (s *Shader) locate(gpu driver.GPU, prog driver.Program) {
	s.gpu, s.prog, s.located = gpu, prog, true
	s.uniforms.each(func(name string, v *Var) {
		n := max(v.size, 1)
		v.locs = make([]int, n)
		for i := range n {
			q := name
			if v.size > 0 {
				q = name + "[" + strconv.Itoa(i) + "]"
			}
			v.locs[i] = gpu.UniformLocation(prog, q)
			if v.locs[i] < 0 {
				log().Warn("shader: uniform not found", "name", q, "program", prog)
			}
		}
	})
	s.attribs.each(func(name string, v *Var) {
		v.locs = []int{gpu.AttribLocation(prog, name)}
		if v.locs[0] < 0 {
			log().Warn("shader: attribute not found", "name", name, "program", prog)
		}
	})
	for _, f := range s.frags {
		f.locate(gpu, prog)
	}
}

// SetLocations resolves the location of every uniform
// and attribute of s and of its fragments in prog.
// It must be called after prog is linked and before
// ApplyParams. Symbols that prog does not have are
// logged and their uploads skipped.
func (s *Shader) SetLocations(gpu driver.GPU, prog driver.Program) { s.locate(gpu, prog) }

// Located returns whether SetLocations has been called.
func (s *Shader) Located() bool { return s.located }

// Program returns the program passed to SetLocations.
func (s *Shader) Program() driver.Program { return s.prog }

// Invalidate discards the resolved locations, as
// required after the program is lost.
func (s *Shader) Invalidate() {
	s.located = false
	s.gpu = nil
	s.prog = 0
	for _, f := range s.frags {
		f.Invalidate()
	}
}

// ApplyParams uploads the value of every uniform of s
// and of its fragments that has a value set.
// The program must be current.
// It panics if SetLocations was not called.
func (s *Shader) ApplyParams() {
	if !s.located {
		panic("shader: ApplyParams called before SetLocations")
	}
	s.uniforms.each(func(_ string, v *Var) {
		if v.set {
			v.upload(s.gpu)
		}
	})
	for _, f := range s.frags {
		f.ApplyParams()
	}
}

// upload sends the value of v to gpu, one array element
// at a time.
func (v *Var) upload(gpu driver.GPU) {
	n := v.typ.Components()
	for i, loc := range v.locs {
		if loc < 0 {
			continue
		}
		lo, hi := i*n, (i+1)*n
		switch {
		case v.typ.isInteger():
			if hi > len(v.ival) {
				return
			}
			gpu.Uniformi(loc, v.ival[lo:hi]...)
		case v.typ.IsMatrix():
			if hi > len(v.fval) {
				return
			}
			gpu.UniformMatrix(loc, v.fval[lo:hi])
		default:
			if hi > len(v.fval) {
				return
			}
			gpu.Uniformf(loc, v.fval[lo:hi]...)
		}
	}
}
