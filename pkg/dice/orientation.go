package dice

import (
	"fmt"
	"math"

	"github.com/taigrr/d20/pkg/math3d"
)

// NormTolerance is how far a composed rotation may stray from unit length
// before it counts as a defect rather than rounding drift.
const NormTolerance = 1e-6

// Orientation is the die's rotation (local to world) and its body-frame
// angular velocity in rad/s.
type Orientation struct {
	Rotation math3d.Quat
	Velocity math3d.Vec3
}

// NewOrientation returns the identity orientation at rest.
func NewOrientation() Orientation {
	return Orientation{Rotation: math3d.QuatIdentity()}
}

// Reset returns to the identity orientation at rest.
func (o *Orientation) Reset() {
	o.Rotation = math3d.QuatIdentity()
	o.Velocity = math3d.Vec3{}
}

// Compose post-multiplies the rotation by delta and renormalizes.
func (o *Orientation) Compose(delta math3d.Quat) {
	r := o.Rotation.Mul(delta)
	if strictNorm {
		if n := r.Len(); math.Abs(n-1) > NormTolerance {
			panic(fmt.Sprintf("dice: rotation left the unit sphere: |q| = %v", n))
		}
	}
	o.Rotation = r.Normalize()
}

// Integrate applies the Euler increment omega*dt to the rotation.
func (o *Orientation) Integrate(omega math3d.Vec3, dt float64) {
	d := omega.Scale(dt)
	o.Compose(math3d.QuatFromEuler(d.X, d.Y, d.Z))
}

// Advance integrates the orientation's own velocity over dt.
func (o *Orientation) Advance(dt float64) {
	o.Integrate(o.Velocity, dt)
}

// Damp scales the angular velocity by factor.
func (o *Orientation) Damp(factor float64) {
	o.Velocity = o.Velocity.Scale(factor)
}

// Speed returns |ω|.
func (o *Orientation) Speed() float64 {
	return o.Velocity.Len()
}

// Settled reports whether the angular speed is below epsilon.
func (o *Orientation) Settled(epsilon float64) bool {
	return o.Speed() < epsilon
}
