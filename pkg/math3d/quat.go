package math3d

import "math"

// Quat is a rotation quaternion w + xi + yj + zk.
// Rotations compose right to left: a.Mul(b) applies b first, then a.
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a rotation of angle radians around axis.
// A zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	if axis.LenSq() == 0 {
		return QuatIdentity()
	}
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// QuatFromEuler creates a rotation from Euler angles in radians, applied in
// Y-X-Z order: q = qY(yaw) · qX(pitch) · qZ(roll).
func QuatFromEuler(pitch, yaw, roll float64) Quat {
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, yaw)
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, pitch)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, roll)
	return qy.Mul(qx).Mul(qz)
}

// Mul returns the Hamilton product q * r.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Conjugate returns the conjugate quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Inverse returns the multiplicative inverse. For unit quaternions this is
// the conjugate.
func (q Quat) Inverse() Quat {
	ls := q.LenSq()
	if ls == 0 {
		return QuatIdentity()
	}
	c := q.Conjugate()
	return Quat{W: c.W / ls, X: c.X / ls, Y: c.Y / ls, Z: c.Z / ls}
}

// Dot returns the 4D dot product.
func (q Quat) Dot(r Quat) float64 {
	return q.W*r.W + q.X*r.X + q.Y*r.Y + q.Z*r.Z
}

// LenSq returns the squared norm.
func (q Quat) LenSq() float64 {
	return q.Dot(q)
}

// Len returns the norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.LenSq())
}

// Normalize returns the unit quaternion in the same direction.
// A degenerate quaternion normalizes to the identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < 1e-12 {
		return QuatIdentity()
	}
	return Quat{W: q.W / l, X: q.X / l, Y: q.Y / l, Z: q.Z / l}
}

// Rotate rotates v by the sandwich product q · (0, v) · q⁻¹.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{X: v.X, Y: v.Y, Z: v.Z}
	r := q.Mul(p).Mul(q.Inverse())
	return Vec3{r.X, r.Y, r.Z}
}

// Mat4 returns the equivalent rotation matrix (column-major).
func (q Quat) Mat4() Mat4 {
	x2, y2, z2 := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		1 - 2*(y2+z2), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(x2+z2), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(x2+y2), 0,
		0, 0, 0, 1,
	}
}

// EulerAngles decomposes q into pitch (X), yaw (Y) and roll (Z) in radians,
// the inverse of QuatFromEuler. Pitch is clamped to [-π/2, π/2].
func (q Quat) EulerAngles() (pitch, yaw, roll float64) {
	sp := 2 * (q.W*q.X - q.Y*q.Z)
	sp = math.Max(-1, math.Min(1, sp))
	pitch = math.Asin(sp)
	yaw = math.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	roll = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.X*q.X+q.Z*q.Z))
	return pitch, yaw, roll
}

// EulerDegrees is EulerAngles converted to degrees.
func (q Quat) EulerDegrees() (pitch, yaw, roll float64) {
	p, y, r := q.EulerAngles()
	return Degrees(p), Degrees(y), Degrees(r)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
