// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if u.Scale(2, &w); u != (V3{0, -2, 4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [0 -2 4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if d := v.Dot(&v); d != 21 {
		t.Fatalf("V3.Dot\nhave %v\nwant 21\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}
	if l := w.Len(); l != float32(math.Sqrt(5)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(5))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if u.Cross(&w, &v); u != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", u)
	}

	m := M3{
		{2, 0, 1},
		{1, 3, 2},
		{4, 2, 3},
	}
	v = V3{-1, 0, 1}

	if u.Mul(&m, &v); u != (V3{2, 2, 2}) {
		t.Fatalf("V3.Mul\nhave %v\nwant [2 2 2]", u)
	}
	m.I()
	if u.Mul(&m, &v); u != v {
		t.Fatalf("V3.Mul\nhave %v\nwant %v", u, v)
	}
}

func TestM(t *testing.T) {
	var l M3
	m := M3{
		{1, 4, 7},
		{2, 5, 8},
		{3, 6, 9},
	}
	n := M3{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}

	if l.I(); l != (M3{{1}, {0, 1}, {0, 0, 1}}) {
		t.Fatalf("M3.I\nhave %v\nwant [%v %v %v]", l, V3{1}, V3{0, 1}, V3{0, 0, 1})
	}
	if l.Mul(&m, &n); l != (M3{m[1], m[2], m[0]}) {
		t.Fatalf("M3.Mul\nhave %v\nwant [%v %v %v]", l, m[1], m[2], m[0])
	}
	if l.Mul(&n, &m); l != (M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}}) {
		t.Fatalf("M3.Mul\nhave %v\nwant %v", l, M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}})
	}
	if l.Transpose(&m); l != (M3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}) {
		t.Fatalf("M3.Transpose\nhave %v\nwant %v", l, M3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	}
	if l.Invert(&n); l != (M3{n[1], n[2], n[0]}) {
		t.Fatalf("M3.Invert\nhave %v\nwant %v", l, M3{n[1], n[2], n[0]})
	}
}

func TestQ(t *testing.T) {
	var r Q
	q := Q{V: V3{1, 0, 0}, R: 3}
	p := Q{V: V3{0, 1, 0}, R: 3}

	if r.Mul(&q, &p); r.V != (V3{3, 3, 1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 1] 9}", r)
	}
	if r.Mul(&p, &q); r.V != (V3{3, 3, -1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 -1] 9}", r)
	}
	if q.Mul(&q, &q); q.V != (V3{6}) || q.R != 8 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[6 0 0] 8}", q)
	}
}

func TestTRS(t *testing.T) {
	var x, r, s M4
	var q Q

	x.Translate(-1, -2, -3)
	q.Rotate(0, &V3{1})
	r.RotateQ(&q)
	s.Scale(5, 5, 5)
	x.Mul(&x, &r)
	x.Mul(&x, &s)
	if x != (M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}}) {
		t.Fatalf("T*R*S\nhave %v\nwant %v", x, M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}})
	}
	v := V4{1, 1, 1, 1}
	v.Mul(&x, &v)
	if v != (V4{4, 3, 2, 1}) {
		t.Fatalf("TRS*v\nhave %v\nwant %v", v, V4{4, 3, 2, 1})
	}
}

// near reports whether m and the mgl32 matrix n are
// equal within a tolerance.
func near(m *M4, n mgl32.Mat4) bool {
	for i := range m {
		for j := range m[i] {
			if math.Abs(float64(m[i][j]-n[i*4+j])) > 1e-5 {
				return false
			}
		}
	}
	return true
}

func TestProjection(t *testing.T) {
	var m M4
	for _, x := range [...][4]float32{
		{math.Pi / 4, 1, 0.1, 100},
		{math.Pi / 3, 16.0 / 9.0, 1, 1000},
		{1, 0.75, 0.5, 20},
	} {
		m.Perspective(x[0], x[1], x[2], x[3])
		if n := mgl32.Perspective(x[0], x[1], x[2], x[3]); !near(&m, n) {
			t.Fatalf("M4.Perspective\nhave %v\nwant %v", m, n)
		}
	}
	m.Ortho(-2, 2, -1, 1, 0.1, 10)
	if n := mgl32.Ortho(-2, 2, -1, 1, 0.1, 10); !near(&m, n) {
		t.Fatalf("M4.Ortho\nhave %v\nwant %v", m, n)
	}
}

func TestLookAt(t *testing.T) {
	var m M4
	for _, x := range [...][3]V3{
		{{0, 0, 10}, {}, {0, 1, 0}},
		{{3, 4, -5}, {1, 0, 1}, {0, 1, 0}},
		{{-7, 2, 2}, {0, 1, 0}, {0, 0, 1}},
	} {
		m.LookAt(&x[0], &x[1], &x[2])
		n := mgl32.LookAtV(mgl32.Vec3(x[0]), mgl32.Vec3(x[1]), mgl32.Vec3(x[2]))
		if !near(&m, n) {
			t.Fatalf("M4.LookAt\nhave %v\nwant %v", m, n)
		}
	}
}

func TestInvert(t *testing.T) {
	var m, n, p M4
	var q Q
	q.Rotate(0.7, &V3{1, 2, 3})
	m.RotateQ(&q)
	n.Translate(4, -2, 9)
	m.Mul(&n, &m)
	n.Scale(2, 3, 0.5)
	m.Mul(&m, &n)
	n.Invert(&m)
	p.Mul(&m, &n)
	var i M4
	i.I()
	if !near(&p, mgl32.Ident4()) {
		t.Fatalf("M4.Invert\nhave %v\nwant %v", p, i)
	}
	r := mgl32.QuatRotate(0.7, mgl32.Vec3{1, 2, 3}.Normalize()).Mat4()
	m.RotateQ(&q)
	if !near(&m, r) {
		t.Fatalf("M4.RotateQ\nhave %v\nwant %v", m, r)
	}
}

func TestTransform(t *testing.T) {
	var m M4
	m.Translate(1, 2, 3)
	var v V3
	if v.Transform(&m, &V3{1, 1, 1}); v != (V3{2, 3, 4}) {
		t.Fatalf("V3.Transform\nhave %v\nwant [2 3 4]", v)
	}
	m = M4{{2}, {1: 2}, {2: 2}, {3: 2}}
	if v.Transform(&m, &V3{1, 2, 3}); v != (V3{1, 2, 3}) {
		t.Fatalf("V3.Transform\nhave %v\nwant [1 2 3]", v)
	}
}

func TestPlane(t *testing.T) {
	var p Plane
	p.Set(&V3{0, 0, 1}, &V3{1, 0, 1}, &V3{0, 1, 1})
	if p.N != (V3{0, 0, 1}) || p.D != -1 {
		t.Fatalf("Plane.Set\nhave %v\nwant {[0 0 1] -1}", p)
	}
	if d := p.Dist(&V3{5, 5, 3}); d != 2 {
		t.Fatalf("Plane.Dist\nhave %v\nwant 2", d)
	}
	p.Flip()
	if d := p.Dist(&V3{5, 5, 3}); d != -2 {
		t.Fatalf("Plane.Dist\nhave %v\nwant -2", d)
	}
}

func TestQFromM4(t *testing.T) {
	for _, x := range [...]struct {
		angle float32
		axis  V3
	}{
		{0, V3{0, 1, 0}},
		{0.7, V3{1, 2, 3}},
		{3, V3{1, 0, 0}},
		{-2.5, V3{0, 1, 0}},
		{3.1, V3{0, 0, 1}},
	} {
		var q, p Q
		var m, n M4
		q.Rotate(x.angle, &x.axis)
		m.RotateQ(&q)
		p.FromM4(&m)
		n.RotateQ(&p)
		axis := mgl32.Vec3(x.axis).Normalize()
		if !near(&n, mgl32.QuatRotate(x.angle, axis).Mat4()) {
			t.Fatalf("Q.FromM4\nhave %v\nwant %v", p, q)
		}
	}
}
