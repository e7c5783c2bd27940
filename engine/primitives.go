// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/chewxy/math32"
)

// NewCube creates a cube geometry centered at the
// origin, with normals and texture coordinates.
// Each face has its own four vertices.
func NewCube(size float32) *Geometry {
	h := size / 2
	// Normal, then the two axes spanning the face.
	faces := [6][3][3]float32{
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	}
	quad := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var (
		pos = make([]float32, 0, 72)
		nrm = make([]float32, 0, 72)
		tc  = make([]float32, 0, 48)
		idx = make([]uint32, 0, 36)
	)
	for i, f := range faces {
		n, u, v := f[0], f[1], f[2]
		for _, q := range quad {
			for k := range 3 {
				pos = append(pos, h*(n[k]+q[0]*u[k]+q[1]*v[k]))
			}
			nrm = append(nrm, n[:]...)
			tc = append(tc, (q[0]+1)/2, (1-q[1])/2)
		}
		b := uint32(4 * i)
		idx = append(idx, b, b+1, b+2, b, b+2, b+3)
	}
	g := NewGeometry()
	if err := g.SetData(pos, nrm, tc, nil, idx); err != nil {
		panic("unexpected error in NewCube: " + err.Error())
	}
	return g
}

// NewPlane creates a plane geometry on the XY plane,
// facing +Z, divided into segW by segH quads.
func NewPlane(width, height float32, segW, segH int) *Geometry {
	segW, segH = max(segW, 1), max(segH, 1)
	nv := (segW + 1) * (segH + 1)
	var (
		pos = make([]float32, 0, 3*nv)
		nrm = make([]float32, 0, 3*nv)
		tc  = make([]float32, 0, 2*nv)
		idx = make([]uint32, 0, 6*segW*segH)
	)
	for j := 0; j <= segH; j++ {
		v := float32(j) / float32(segH)
		for i := 0; i <= segW; i++ {
			u := float32(i) / float32(segW)
			pos = append(pos, (u-0.5)*width, (v-0.5)*height, 0)
			nrm = append(nrm, 0, 0, 1)
			tc = append(tc, u, 1-v)
		}
	}
	row := uint32(segW + 1)
	for j := range uint32(segH) {
		for i := range uint32(segW) {
			a := j*row + i
			idx = append(idx, a, a+1, a+row+1, a, a+row+1, a+row)
		}
	}
	g := NewGeometry()
	if err := g.SetData(pos, nrm, tc, nil, idx); err != nil {
		panic("unexpected error in NewPlane: " + err.Error())
	}
	return g
}

// NewSphere creates a UV sphere geometry centered at
// the origin, with segW segments around the Y axis and
// segH rings.
func NewSphere(radius float32, segW, segH int) *Geometry {
	segW, segH = max(segW, 3), max(segH, 2)
	nv := (segW + 1) * (segH + 1)
	var (
		pos = make([]float32, 0, 3*nv)
		nrm = make([]float32, 0, 3*nv)
		tc  = make([]float32, 0, 2*nv)
		idx []uint32
	)
	for j := 0; j <= segH; j++ {
		sj, cj := math32.Sincos(math32.Pi * float32(j) / float32(segH))
		for i := 0; i <= segW; i++ {
			si, ci := math32.Sincos(2 * math32.Pi * float32(i) / float32(segW))
			n := [3]float32{sj * ci, cj, sj * si}
			pos = append(pos, radius*n[0], radius*n[1], radius*n[2])
			nrm = append(nrm, n[:]...)
			tc = append(tc, 1-float32(i)/float32(segW), float32(j)/float32(segH))
		}
	}
	row := uint32(segW + 1)
	for j := uint32(1); j <= uint32(segH); j++ {
		for i := uint32(1); i <= uint32(segW); i++ {
			a := row*j + i
			b := row*j + i - 1
			c := row*(j-1) + i - 1
			d := row*(j-1) + i
			switch j {
			case uint32(segH):
				idx = append(idx, a, c, d)
			case 1:
				idx = append(idx, a, b, c)
			default:
				idx = append(idx, a, b, c, a, c, d)
			}
		}
	}
	g := NewGeometry()
	if err := g.SetData(pos, nrm, tc, nil, idx); err != nil {
		panic("unexpected error in NewSphere: " + err.Error())
	}
	return g
}

// NewScreenQuad creates a quad that covers clip space
// when drawn with an identity transform.
func NewScreenQuad() *Geometry {
	g := NewGeometry()
	err := g.SetData(
		[]float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		nil,
		[]float32{0, 0, 1, 0, 1, 1, 0, 1},
		nil,
		[]uint32{0, 1, 2, 0, 2, 3},
	)
	if err != nil {
		panic("unexpected error in NewScreenQuad: " + err.Error())
	}
	return g
}
