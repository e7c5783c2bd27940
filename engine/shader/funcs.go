// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import "strings"

func call(t DataType, fn string, args ...*Var) *Var {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.name
	}
	return args[0].expr(t, fn+"("+strings.Join(names, ", ")+")")
}

func callF(t DataType, fn string, v *Var, f ...float32) *Var {
	var b strings.Builder
	b.WriteString(fn + "(" + v.name)
	for _, x := range f {
		b.WriteString(", " + Literal(x))
	}
	b.WriteByte(')')
	return v.expr(t, b.String())
}

// Sin returns sin(v).
func Sin(v *Var) *Var { return call(v.typ, "sin", v) }

// Cos returns cos(v).
func Cos(v *Var) *Var { return call(v.typ, "cos", v) }

// Tan returns tan(v).
func Tan(v *Var) *Var { return call(v.typ, "tan", v) }

// Atan returns atan(y, x).
func Atan(y, x *Var) *Var { return call(y.typ, "atan", y, x) }

// Abs returns abs(v).
func Abs(v *Var) *Var { return call(v.typ, "abs", v) }

// Floor returns floor(v).
func Floor(v *Var) *Var { return call(v.typ, "floor", v) }

// Fract returns fract(v).
func Fract(v *Var) *Var { return call(v.typ, "fract", v) }

// Sqrt returns sqrt(v).
func Sqrt(v *Var) *Var { return call(v.typ, "sqrt", v) }

// Normalize returns normalize(v).
func Normalize(v *Var) *Var { return call(v.typ, "normalize", v) }

// Length returns length(v).
func Length(v *Var) *Var { return call(Float, "length", v) }

// Distance returns distance(a, b).
func Distance(a, b *Var) *Var { return call(Float, "distance", a, b) }

// Dot returns dot(a, b).
func Dot(a, b *Var) *Var { return call(Float, "dot", a, b) }

// Cross returns cross(a, b).
func Cross(a, b *Var) *Var { return call(Vec3, "cross", a, b) }

// Reflect returns reflect(i, n).
func Reflect(i, n *Var) *Var { return call(i.typ, "reflect", i, n) }

// Pow returns pow(a, b).
func Pow(a, b *Var) *Var { return call(a.typ, "pow", a, b) }

// PowF returns pow(a, f).
func PowF(a *Var, f float32) *Var { return callF(a.typ, "pow", a, f) }

// Mod returns mod(a, b).
func Mod(a, b *Var) *Var { return call(a.typ, "mod", a, b) }

// ModF returns mod(a, f).
func ModF(a *Var, f float32) *Var { return callF(a.typ, "mod", a, f) }

// Max returns max(a, b).
func Max(a, b *Var) *Var { return call(Promote(a.typ, b.typ), "max", a, b) }

// MaxF returns max(a, f).
func MaxF(a *Var, f float32) *Var { return callF(a.typ, "max", a, f) }

// Min returns min(a, b).
func Min(a, b *Var) *Var { return call(Promote(a.typ, b.typ), "min", a, b) }

// MinF returns min(a, f).
func MinF(a *Var, f float32) *Var { return callF(a.typ, "min", a, f) }

// Mix returns mix(a, b, t).
func Mix(a, b, t *Var) *Var { return call(a.typ, "mix", a, b, t) }

// MixF returns mix(a, b, t).
func MixF(a, b *Var, t float32) *Var {
	return a.expr(a.typ, "mix("+a.name+", "+b.name+", "+Literal(t)+")")
}

// Clamp returns clamp(v, lo, hi).
func Clamp(v *Var, lo, hi float32) *Var { return callF(v.typ, "clamp", v, lo, hi) }

// ClampV returns clamp(v, lo, hi).
func ClampV(v, lo, hi *Var) *Var { return call(v.typ, "clamp", v, lo, hi) }

// Step returns step(edge, x).
func Step(edge, x *Var) *Var { return call(x.typ, "step", edge, x) }

// Smoothstep returns smoothstep(e0, e1, x).
func Smoothstep(e0, e1, x *Var) *Var { return call(x.typ, "smoothstep", e0, e1, x) }

// Texture2D returns texture2D(sampler, coord).
// It also serves external samplers.
func Texture2D(sampler, coord *Var) *Var { return call(Vec4, "texture2D", sampler, coord) }

// TextureCube returns textureCube(sampler, coord).
func TextureCube(sampler, coord *Var) *Var { return call(Vec4, "textureCube", sampler, coord) }

// CastFloat returns float(v).
func CastFloat(v *Var) *Var { return call(Float, "float", v) }

// CastInt returns int(v).
func CastInt(v *Var) *Var { return call(Int, "int", v) }

// CastVec2 returns vec2(args...).
func CastVec2(args ...*Var) *Var { return call(Vec2, "vec2", args...) }

// CastVec3 returns vec3(args...).
func CastVec3(args ...*Var) *Var { return call(Vec3, "vec3", args...) }

// CastVec4 returns vec4(args...).
func CastVec4(args ...*Var) *Var { return call(Vec4, "vec4", args...) }

// CastMat3 returns mat3(args...).
func CastMat3(args ...*Var) *Var { return call(Mat3, "mat3", args...) }
