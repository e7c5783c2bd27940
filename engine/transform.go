// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/scenegl/linear"
)

// Transform is the local transform of a scene node.
// Rotation is either given as Euler angles or as an
// explicit orientation; the last setter called wins.
// A look-at target, if set, takes precedence over both.
// The zero value is not valid; use the constructors of
// the types that embed it.
type Transform struct {
	pos    linear.V3
	rot    linear.V3
	scale  linear.V3
	orient linear.Q
	up     linear.V3
	target linear.V3
	// Whether target is set.
	lookAt bool
	// Whether orient must be recomputed from rot.
	dirty bool
}

func (t *Transform) init() {
	*t = Transform{scale: linear.V3{1, 1, 1}, up: linear.V3{1: 1}}
	t.orient.I()
}

// SetPosition sets the position.
func (t *Transform) SetPosition(x, y, z float32) { t.pos = linear.V3{x, y, z} }

// Move adds (dx, dy, dz) to the position.
func (t *Transform) Move(dx, dy, dz float32) {
	t.pos.Add(&t.pos, &linear.V3{dx, dy, dz})
}

// Position returns the position.
func (t *Transform) Position() linear.V3 { return t.pos }

// SetRotation sets the Euler angles, in degrees.
// The orientation is recomputed from them when next
// needed.
func (t *Transform) SetRotation(x, y, z float32) {
	t.rot = linear.V3{x, y, z}
	t.dirty = true
}

// Rotate adds to the Euler angles, in degrees.
func (t *Transform) Rotate(dx, dy, dz float32) {
	t.SetRotation(t.rot[0]+dx, t.rot[1]+dy, t.rot[2]+dz)
}

// Rotation returns the Euler angles, in degrees.
func (t *Transform) Rotation() linear.V3 { return t.rot }

// SetScale sets the scale.
func (t *Transform) SetScale(x, y, z float32) { t.scale = linear.V3{x, y, z} }

// Scale returns the scale.
func (t *Transform) Scale() linear.V3 { return t.scale }

// SetOrientation sets the orientation explicitly.
// It supersedes any Euler angles set previously.
func (t *Transform) SetOrientation(q *linear.Q) {
	t.orient.Norm(q)
	t.dirty = false
}

// Orientation returns the orientation.
// It is recomputed only if the Euler angles changed
// since the last call, or if a look-at target is set.
func (t *Transform) Orientation() linear.Q {
	switch {
	case t.lookAt:
		m := t.lookAtBasis()
		t.orient.FromM4(&m)
	case t.dirty:
		t.orient = euler(&t.rot)
		t.dirty = false
	}
	return t.orient
}

// SetLookAt sets the point that the node faces.
func (t *Transform) SetLookAt(x, y, z float32) {
	t.target = linear.V3{x, y, z}
	t.lookAt = true
}

// ClearLookAt unsets the look-at target.
// The orientation is recomputed from the Euler angles.
func (t *Transform) ClearLookAt() {
	t.lookAt = false
	t.dirty = true
}

// LookAt returns the look-at target and whether it is
// set.
func (t *Transform) LookAt() (linear.V3, bool) { return t.target, t.lookAt }

// SetUp sets the up vector used to compute the look-at
// basis. Default is (0, 1, 0).
func (t *Transform) SetUp(x, y, z float32) { t.up = linear.V3{x, y, z} }

// Up returns the up vector.
func (t *Transform) Up() linear.V3 { return t.up }

// euler converts Euler angles in degrees to a
// quaternion as Qy ⋅ Qz ⋅ Qx.
func euler(deg *linear.V3) (q linear.Q) {
	var qx, qy, qz linear.Q
	qx.Rotate(deg[0]*math32.Pi/180, &linear.V3{1})
	qy.Rotate(deg[1]*math32.Pi/180, &linear.V3{1: 1})
	qz.Rotate(deg[2]*math32.Pi/180, &linear.V3{2: 1})
	q.Mul(&qy, &qz)
	q.Mul(&q, &qx)
	return
}

// lookAtBasis returns the rotation whose z axis points
// from the position to the target.
func (t *Transform) lookAtBasis() (m linear.M4) {
	var x, y, z linear.V3
	z.Sub(&t.target, &t.pos)
	if z.IsZero() {
		z = linear.V3{2: 1}
	} else {
		z.Norm(&z)
	}
	x.Cross(&t.up, &z)
	if x.IsZero() {
		// z is parallel to up.
		z[0] += 1e-4
		z.Norm(&z)
		x.Cross(&t.up, &z)
	}
	x.Norm(&x)
	y.Cross(&z, &x)
	m.Basis(&x, &y, &z)
	return
}

// RotationMatrix returns the rotation part of the local
// transform.
func (t *Transform) RotationMatrix() (m linear.M4) {
	if t.lookAt {
		return t.lookAtBasis()
	}
	q := t.Orientation()
	m.RotateQ(&q)
	return
}

// LocalMatrix returns T ⋅ S ⋅ R.
func (t *Transform) LocalMatrix() (m linear.M4) {
	var s linear.M4
	m.Translate(t.pos[0], t.pos[1], t.pos[2])
	s.Scale(t.scale[0], t.scale[1], t.scale[2])
	r := t.RotationMatrix()
	m.Mul(&m, &s)
	m.Mul(&m, &r)
	return
}
