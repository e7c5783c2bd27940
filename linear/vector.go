// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
package linear

import (
	"github.com/chewxy/math32"
)

// V3 is a 3-component vector of float32.
type V3 [3]float32

// Add sets v to contain l + r.
func (v *V3) Add(l, r *V3) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V3) Sub(l, r *V3) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V3) Scale(s float32, w *V3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V3) Dot(w *V3) float32 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Len returns the length of v.
func (v *V3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
// If w has zero length, v is set to the zero vector.
func (v *V3) Norm(w *V3) {
	l := w.Len()
	if l == 0 {
		*v = V3{}
		return
	}
	v.Scale(1/l, w)
}

// Cross sets v to contain l × r.
func (v *V3) Cross(l, r *V3) {
	*v = V3{
		l[1]*r[2] - l[2]*r[1],
		l[2]*r[0] - l[0]*r[2],
		l[0]*r[1] - l[1]*r[0],
	}
}

// Mul sets v to contain m ⋅ w.
func (v *V3) Mul(m *M3, w *V3) {
	x := *w
	for i := range v {
		v[i] = m[0][i]*x[0] + m[1][i]*x[1] + m[2][i]*x[2]
	}
}

// Transform sets v to contain m ⋅ [w 1], divided by
// the resulting w component when it is not zero.
func (v *V3) Transform(m *M4, w *V3) {
	u := V4{w[0], w[1], w[2], 1}
	u.Mul(m, &u)
	if u[3] != 0 && u[3] != 1 {
		u.Scale(1/u[3], &u)
	}
	*v = V3{u[0], u[1], u[2]}
}

// Dist returns the distance between v and w.
func (v *V3) Dist(w *V3) float32 {
	var d V3
	d.Sub(v, w)
	return d.Len()
}

// IsZero returns whether every component of v is zero.
func (v *V3) IsZero() bool { return v[0] == 0 && v[1] == 0 && v[2] == 0 }

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Add sets v to contain l + r.
func (v *V4) Add(l, r *V4) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V4) Sub(l, r *V4) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V4) Scale(s float32, w *V4) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V4) Dot(w *V4) float32 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] + v[3]*w[3]
}

// Len returns the length of v.
func (v *V4) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
func (v *V4) Norm(w *V4) {
	l := w.Len()
	if l == 0 {
		*v = V4{}
		return
	}
	v.Scale(1/l, w)
}

// Mul sets v to contain m ⋅ w.
func (v *V4) Mul(m *M4, w *V4) {
	x := *w
	for i := range v {
		v[i] = m[0][i]*x[0] + m[1][i]*x[1] + m[2][i]*x[2] + m[3][i]*x[3]
	}
}
