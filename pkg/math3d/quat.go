package math3d

import "math"

// Quat is a rotation quaternion in glTF order (x, y, z, w).
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the rotation that does nothing.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, math.Cos(angle / 2)}
}

// Dot returns the 4D dot product.
func (q Quat) Dot(p Quat) float64 {
	return q.X*p.X + q.Y*p.Y + q.Z*p.Z + q.W*p.W
}

// Normalize returns q scaled to unit length. A zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Slerp interpolates along the shortest arc from q to p.
func (q Quat) Slerp(p Quat, t float64) Quat {
	cos := q.Dot(p)
	if cos < 0 {
		p = Quat{-p.X, -p.Y, -p.Z, -p.W}
		cos = -cos
	}

	// Nearly parallel: fall back to normalized lerp.
	if cos > 0.9995 {
		return Quat{
			q.X + (p.X-q.X)*t,
			q.Y + (p.Y-q.Y)*t,
			q.Z + (p.Z-q.Z)*t,
			q.W + (p.W-q.W)*t,
		}.Normalize()
	}

	theta := math.Acos(cos)
	sin := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sin
	b := math.Sin(t*theta) / sin
	return Quat{
		q.X*a + p.X*b,
		q.Y*a + p.Y*b,
		q.Z*a + p.Z*b,
		q.W*a + p.W*b,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.Mat4().MulVec3Dir(v)
}

// Mat4 returns the rotation matrix for a unit quaternion.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y), 0,
		2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x), 0,
		2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}
