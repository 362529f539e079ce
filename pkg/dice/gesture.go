package dice

import (
	"math"
	"time"

	"github.com/taigrr/d20/pkg/math3d"
)

// GesturePhase distinguishes the events of a drag.
type GesturePhase int

const (
	GestureStart GesturePhase = iota
	GestureMove
	GestureEnd
)

// Gesture is one drag event. DX and DY are the pixel deltas since the
// previous event and are only used for moves.
type Gesture struct {
	DX, DY float64
	Phase  GesturePhase
	At     time.Time
}

// minGestureInterval floors the time between moves so bursts of events do
// not produce unbounded velocities.
const minGestureInterval = time.Millisecond

// TouchMomentum is the drag state. Velocities are degrees per millisecond of
// rotation about local Y (VelocityX) and local X (VelocityY).
type TouchMomentum struct {
	VelocityX, VelocityY float64
	Touching             bool
	LastEvent            time.Time
}

// Moving reports whether residual velocity remains.
func (m TouchMomentum) Moving() bool {
	return m.VelocityX != 0 || m.VelocityY != 0
}

// GestureMapper turns drags into rotation and keeps spinning with decaying
// momentum after release.
type GestureMapper struct {
	params   Params
	orient   *Orientation
	momentum TouchMomentum
}

// NewGestureMapper creates a mapper acting on o.
func NewGestureMapper(o *Orientation, params Params) *GestureMapper {
	return &GestureMapper{params: params, orient: o}
}

// Momentum returns a copy of the drag state.
func (g *GestureMapper) Momentum() TouchMomentum {
	return g.momentum
}

// Clear drops residual momentum and any drag in progress.
func (g *GestureMapper) Clear() {
	g.momentum = TouchMomentum{}
}

// Apply handles one drag event.
func (g *GestureMapper) Apply(ev Gesture) {
	m := &g.momentum

	switch ev.Phase {
	case GestureStart:
		*m = TouchMomentum{Touching: true, LastEvent: ev.At}

	case GestureMove:
		m.Touching = true
		dt := ev.At.Sub(m.LastEvent)
		if dt < minGestureInterval {
			dt = minGestureInterval
		}
		ms := float64(dt) / float64(time.Millisecond)
		m.LastEvent = ev.At

		s := g.params.DragSensitivity
		m.VelocityX = ev.DX / ms * s
		m.VelocityY = ev.DY / ms * s

		qy := math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math3d.Radians(ev.DX*s))
		qx := math3d.QuatFromAxisAngle(math3d.V3(1, 0, 0), math3d.Radians(ev.DY*s))
		g.orient.Compose(qy.Mul(qx))

	case GestureEnd:
		m.Touching = false
		m.LastEvent = ev.At
	}
}

// Tick spins the die with the residual momentum and decays it. It reports
// whether the rotation changed.
func (g *GestureMapper) Tick(dt float64) bool {
	m := &g.momentum
	if m.Touching || !m.Moving() {
		return false
	}

	// deg/ms to rad/s
	omega := math3d.V3(
		math3d.Radians(m.VelocityY*1000),
		math3d.Radians(m.VelocityX*1000),
		0,
	)
	g.orient.Integrate(omega, dt)

	m.VelocityX *= g.params.MomentumDamping
	m.VelocityY *= g.params.MomentumDamping
	if eps := g.params.MomentumEpsilon; math.Abs(m.VelocityX) < eps && math.Abs(m.VelocityY) < eps {
		m.VelocityX, m.VelocityY = 0, 0
	}
	return true
}
