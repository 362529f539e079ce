package math3d

// Vec4 is a homogeneous coordinate, the output of a projection.
type Vec4 struct {
	X, Y, Z, W float64
}

// Point lifts v to a homogeneous point (W = 1).
func Point(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// PerspectiveDivide maps clip space to normalized device coordinates. W = 0
// is passed through undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
