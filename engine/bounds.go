// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/scenegl/linear"
)

// BoundingBox is an axis-aligned bounding box.
type BoundingBox struct {
	Min, Max linear.V3
}

// boxOf computes the bounding box of packed xyz
// positions.
func boxOf(pos []float32) (b BoundingBox) {
	if len(pos) < 3 {
		return
	}
	b.Min = linear.V3{pos[0], pos[1], pos[2]}
	b.Max = b.Min
	for i := 3; i+2 < len(pos); i += 3 {
		for j := range 3 {
			b.Min[j] = min(b.Min[j], pos[i+j])
			b.Max[j] = max(b.Max[j], pos[i+j])
		}
	}
	return
}

// Corners returns the eight corners of b.
// The first four have z = Min[2] and the last four
// z = Max[2].
func (b *BoundingBox) Corners() [8]linear.V3 {
	n, x := &b.Min, &b.Max
	return [8]linear.V3{
		{n[0], n[1], n[2]},
		{x[0], n[1], n[2]},
		{x[0], x[1], n[2]},
		{n[0], x[1], n[2]},
		{n[0], n[1], x[2]},
		{x[0], n[1], x[2]},
		{x[0], x[1], x[2]},
		{n[0], x[1], x[2]},
	}
}

// Transform returns the corners of b transformed by m.
func (b *BoundingBox) Transform(m *linear.M4) [8]linear.V3 {
	c := b.Corners()
	for i := range c {
		c[i].Transform(m, &c[i])
	}
	return c
}

// Center returns the center of b.
func (b *BoundingBox) Center() (c linear.V3) {
	c.Add(&b.Min, &b.Max)
	c.Scale(0.5, &c)
	return
}

// BoundingSphere is a bounding sphere.
type BoundingSphere struct {
	Center linear.V3
	Radius float32
}

// sphereOf computes the bounding sphere of packed xyz
// positions, centered at the center of their box.
func sphereOf(pos []float32) (s BoundingSphere) {
	b := boxOf(pos)
	s.Center = b.Center()
	for i := 0; i+2 < len(pos); i += 3 {
		p := linear.V3{pos[i], pos[i+1], pos[i+2]}
		s.Radius = max(s.Radius, p.Dist(&s.Center))
	}
	return
}

// Transform returns s transformed by m.
// The radius is scaled by the largest scale factor of m.
func (s *BoundingSphere) Transform(m *linear.M4) (t BoundingSphere) {
	t.Center.Transform(m, &s.Center)
	var sc float32
	for i := range 3 {
		col := linear.V3{m[i][0], m[i][1], m[i][2]}
		sc = max(sc, col.Len())
	}
	t.Radius = s.Radius * sc
	return
}
