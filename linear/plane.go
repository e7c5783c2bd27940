// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

// Plane is a plane in Hessian normal form.
// A point p lies on the plane when N ⋅ p + D = 0.
type Plane struct {
	N V3
	D float32
}

// Set sets p to contain the plane through a, b and c.
// The normal points towards the side from which a, b, c
// appear counter-clockwise.
func (p *Plane) Set(a, b, c *V3) {
	var u, v V3
	u.Sub(b, a)
	v.Sub(c, a)
	p.N.Cross(&u, &v)
	p.N.Norm(&p.N)
	p.D = -p.N.Dot(a)
}

// Dist returns the signed distance from v to p.
func (p *Plane) Dist(v *V3) float32 { return p.N.Dot(v) + p.D }

// Flip reverses the orientation of p.
func (p *Plane) Flip() {
	p.N.Scale(-1, &p.N)
	p.D = -p.D
}
