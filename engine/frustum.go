// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/scenegl/linear"
)

// Frustum is a view volume bounded by six planes whose
// normals point inwards.
type Frustum struct {
	planes  [6]linear.Plane
	corners [8]linear.V3
	box     BoundingBox
}

// Corner i of the NDC cube has x = bit 0, y = bit 1
// and z = bit 2 set to 1, and -1 otherwise.
var frustumPlanes = [6][3]int{
	{0, 4, 2}, // left
	{1, 3, 5}, // right
	{0, 1, 4}, // bottom
	{2, 6, 3}, // top
	{0, 2, 1}, // near
	{4, 5, 6}, // far
}

// Update recomputes f from the inverse of a
// view-projection matrix.
func (f *Frustum) Update(invVP *linear.M4) {
	var center linear.V3
	for i := range f.corners {
		v := linear.V4{-1, -1, -1, 1}
		if i&1 != 0 {
			v[0] = 1
		}
		if i&2 != 0 {
			v[1] = 1
		}
		if i&4 != 0 {
			v[2] = 1
		}
		v.Mul(invVP, &v)
		f.corners[i] = linear.V3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
		center.Add(&center, &f.corners[i])
	}
	center.Scale(1.0/8, &center)
	for i, p := range frustumPlanes {
		f.planes[i].Set(&f.corners[p[0]], &f.corners[p[1]], &f.corners[p[2]])
		if f.planes[i].Dist(&center) < 0 {
			f.planes[i].Flip()
		}
	}
	pos := make([]float32, 0, 3*len(f.corners))
	for i := range f.corners {
		pos = append(pos, f.corners[i][:]...)
	}
	f.box = boxOf(pos)
}

// Planes returns the six planes of f.
func (f *Frustum) Planes() [6]linear.Plane { return f.planes }

// Corners returns the eight corners of f.
func (f *Frustum) Corners() [8]linear.V3 { return f.corners }

// Box returns the bounding box of f.
func (f *Frustum) Box() BoundingBox { return f.box }

// BoxIn returns whether the box given by its eight
// corners intersects f.
// The box is out only if all of its corners are behind
// the same plane.
func (f *Frustum) BoxIn(corners *[8]linear.V3) bool {
	for i := range f.planes {
		out := 0
		for j := range corners {
			if f.planes[i].Dist(&corners[j]) < 0 {
				out++
			}
		}
		if out == len(corners) {
			return false
		}
	}
	return true
}

// SphereIn returns whether the sphere intersects f.
func (f *Frustum) SphereIn(s *BoundingSphere) bool {
	for i := range f.planes {
		if f.planes[i].Dist(&s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// PointIn returns whether p is inside f.
func (f *Frustum) PointIn(p *linear.V3) bool {
	for i := range f.planes {
		if f.planes[i].Dist(p) < 0 {
			return false
		}
	}
	return true
}
