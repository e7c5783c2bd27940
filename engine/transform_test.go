// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegl/linear"
)

func deg(f float32) float32 { return mgl32.DegToRad(f) }

func TestLocalMatrix(t *testing.T) {
	var tf Transform
	tf.init()
	m := tf.LocalMatrix()
	if !nearM4(&m, mgl32.Ident4()) {
		t.Fatalf("Transform.LocalMatrix: default\nhave %v\nwant identity", m)
	}

	tf.SetPosition(1, 2, 3)
	tf.SetScale(2, 3, 4)
	tf.SetRotation(30, 45, 60)
	m = tf.LocalMatrix()
	// Qy ⋅ Qz ⋅ Qx.
	r := mgl32.HomogRotate3DY(deg(45)).Mul4(mgl32.HomogRotate3DZ(deg(60))).Mul4(mgl32.HomogRotate3DX(deg(30)))
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 3, 4)).Mul4(r)
	if !nearM4(&m, want) {
		t.Fatalf("Transform.LocalMatrix:\nhave %v\nwant %v", m, want)
	}

	tf.Move(1, 1, 1)
	if p := tf.Position(); p != (linear.V3{2, 3, 4}) {
		t.Fatalf("Transform.Move:\nhave %v\nwant [2 3 4]", p)
	}
	tf.Rotate(0, 45, 0)
	if r := tf.Rotation(); r != (linear.V3{30, 90, 60}) {
		t.Fatalf("Transform.Rotate:\nhave %v\nwant [30 90 60]", r)
	}
}

func TestOrientation(t *testing.T) {
	var tf Transform
	tf.init()
	var q linear.Q
	q.Rotate(deg(90), &linear.V3{0, 0, 2})
	tf.SetOrientation(&q)
	m := tf.RotationMatrix()
	if want := mgl32.HomogRotate3DZ(deg(90)); !nearM4(&m, want) {
		t.Fatalf("Transform.SetOrientation:\nhave %v\nwant %v", m, want)
	}
	// Euler angles set later win.
	tf.SetRotation(90, 0, 0)
	m = tf.RotationMatrix()
	if want := mgl32.HomogRotate3DX(deg(90)); !nearM4(&m, want) {
		t.Fatalf("Transform.SetRotation after SetOrientation:\nhave %v\nwant %v", m, want)
	}
}

func TestLookAtBasis(t *testing.T) {
	var tf Transform
	tf.init()
	tf.SetPosition(0, 0, 0)
	tf.SetLookAt(0, 0, 5)
	m := tf.RotationMatrix()
	if !nearM4(&m, mgl32.Ident4()) {
		t.Fatalf("Transform.SetLookAt: +Z target\nhave %v\nwant identity", m)
	}

	tf.SetLookAt(3, 0, 0)
	m = tf.RotationMatrix()
	// Z = +X, X = up × Z = -Z, Y = Z × X = +Y.
	want := mgl32.Mat4{0, 0, -1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1}
	if !nearM4(&m, want) {
		t.Fatalf("Transform.SetLookAt: +X target\nhave %v\nwant %v", m, want)
	}

	// Parallel to up must not produce a degenerate basis.
	tf.SetLookAt(0, 10, 0)
	m = tf.RotationMatrix()
	x := linear.V3{m[0][0], m[0][1], m[0][2]}
	y := linear.V3{m[1][0], m[1][1], m[1][2]}
	z := linear.V3{m[2][0], m[2][1], m[2][2]}
	for i, v := range [3]*linear.V3{&x, &y, &z} {
		if l := v.Len(); !nearF(l, 1) {
			t.Fatalf("Transform.SetLookAt: parallel to up: axis %d length\nhave %v\nwant 1", i, l)
		}
	}

	tf.ClearLookAt()
	tf.SetRotation(0, 0, 0)
	m = tf.RotationMatrix()
	if !nearM4(&m, mgl32.Ident4()) {
		t.Fatalf("Transform.ClearLookAt:\nhave %v\nwant identity", m)
	}
}

func TestCameraView(t *testing.T) {
	c := NewCamera()
	c.SetPosition(0, 0, 10)
	c.SetProjection(800, 600)
	c.Update()
	v := c.ViewMatrix()
	if want := mgl32.Translate3D(0, 0, -10); !nearM4(&v, want) {
		t.Fatalf("Camera.ViewMatrix: no rotation\nhave %v\nwant %v", v, want)
	}
	p := c.ProjectionMatrix()
	if want := mgl32.Perspective(deg(45), 800.0/600, 1, 120); !nearM4(&p, want) {
		t.Fatalf("Camera.ProjectionMatrix:\nhave %v\nwant %v", p, want)
	}

	c.SetPosition(3, 4, 5)
	c.SetLookAt(0, 1, 0)
	c.Update()
	v = c.ViewMatrix()
	want := mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	if !nearM4(&v, want) {
		t.Fatalf("Camera.ViewMatrix: look-at\nhave %v\nwant %v", v, want)
	}
	vp := c.ViewProjection()
	if want := mgl32.Perspective(deg(45), 800.0/600, 1, 120).Mul4(want); !nearM4(&vp, want) {
		t.Fatalf("Camera.ViewProjection:\nhave %v\nwant %v", vp, want)
	}

	c.ClearLookAt()
	c.SetProjectionMode(Orthographic)
	c.SetOrthoHeight(2)
	c.SetNearPlane(0.5)
	c.SetFarPlane(50)
	c.Update()
	p = c.ProjectionMatrix()
	if want := mgl32.Ortho(-2*800.0/600, 2*800.0/600, -2, 2, 0.5, 50); !nearM4(&p, want) {
		t.Fatalf("Camera.ProjectionMatrix: orthographic\nhave %v\nwant %v", p, want)
	}
}

func TestFrustumCorners(t *testing.T) {
	c := NewCamera()
	c.SetPosition(0, 0, 10)
	c.SetProjection(1, 1)
	c.Update()
	f := c.Frustum()
	tan := math32.Tan(deg(45) / 2)
	for i, p := range f.Corners() {
		d := c.NearPlane()
		if i&4 != 0 {
			d = c.FarPlane()
		}
		want := linear.V3{-tan * d, -tan * d, 10 - d}
		if i&1 != 0 {
			want[0] = -want[0]
		}
		if i&2 != 0 {
			want[1] = -want[1]
		}
		if !nearV3(&p, &want) {
			t.Fatalf("Frustum.Corners: [%d]\nhave %v\nwant %v", i, p, want)
		}
	}

	for _, x := range [...]struct {
		p  linear.V3
		in bool
	}{
		{linear.V3{0, 0, 0}, true},
		{linear.V3{0, 0, 9.5}, false},
		{linear.V3{0, 0, -115}, false},
		{linear.V3{0, 0, -100}, true},
		{linear.V3{50, 0, 0}, false},
		{linear.V3{0, -50, 0}, false},
	} {
		if in := f.PointIn(&x.p); in != x.in {
			t.Fatalf("Frustum.PointIn(%v):\nhave %t\nwant %t", x.p, in, x.in)
		}
	}

	box := NewCube(2).BoundingBox()
	var m linear.M4
	m.I()
	if cs := box.Transform(&m); !f.BoxIn(&cs) {
		t.Fatal("Frustum.BoxIn: cube at origin should be in")
	}
	m.Translate(0, 0, 20)
	if cs := box.Transform(&m); f.BoxIn(&cs) {
		t.Fatal("Frustum.BoxIn: cube behind the camera should be out")
	}
	m.Translate(0, 0, 9)
	if cs := box.Transform(&m); !f.BoxIn(&cs) {
		t.Fatal("Frustum.BoxIn: cube crossing the near plane should be in")
	}
	s := BoundingSphere{Center: linear.V3{0, 0, 12}, Radius: 1}
	if f.SphereIn(&s) {
		t.Fatal("Frustum.SphereIn: sphere behind the camera should be out")
	}
	s.Radius = 3
	if !f.SphereIn(&s) {
		t.Fatal("Frustum.SphereIn: sphere crossing the near plane should be in")
	}
}
