package dice

import (
	"math/rand/v2"

	"github.com/taigrr/d20/pkg/math3d"
	"go.uber.org/zap"
)

// RollState is the phase of the roll controller.
type RollState int

const (
	Idle RollState = iota
	Rolling
	TimedRolling
	FlickRolling
)

func (s RollState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rolling:
		return "rolling"
	case TimedRolling:
		return "timed"
	case FlickRolling:
		return "flick"
	default:
		return "unknown"
	}
}

// RollSession describes the roll in progress. It is reset to the zero value
// (Idle) when the roll ends.
type RollSession struct {
	State            RollState
	SequenceIndex    int
	MaxSequenceSteps int
	DampingFactor    float64
	SettleSpeed      float64
	Elapsed          float64
	MaxDuration      float64 // 0 means uncapped
}

// Controller drives programmatic rolls of an Orientation.
type Controller struct {
	params  Params
	rng     *rand.Rand
	log     *zap.Logger
	orient  *Orientation
	session RollSession
}

// NewController creates an idle controller acting on o.
func NewController(o *Orientation, rng *rand.Rand, params Params, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{params: params, rng: rng, log: log, orient: o}
}

// Active reports whether a roll is in progress.
func (c *Controller) Active() bool {
	return c.session.State != Idle
}

// Session returns a copy of the current session.
func (c *Controller) Session() RollSession {
	return c.session
}

// StartSequentialRoll starts a chain of up to MaxSequenceSteps random
// impulses. It does nothing and returns false if a roll is already active.
func (c *Controller) StartSequentialRoll() bool {
	if c.Active() {
		return false
	}
	c.session = RollSession{
		State:            Rolling,
		MaxSequenceSteps: c.params.MaxSequenceSteps,
		DampingFactor:    c.params.RollDamping,
		SettleSpeed:      c.params.SettleEpsilon,
	}
	c.impulse()
	c.log.Debug("roll started",
		zap.Stringer("mode", Rolling),
		zap.Float64("speed", c.orient.Speed()),
	)
	return true
}

func (c *Controller) impulse() {
	k := c.params.SequentialImpulse
	c.orient.Velocity = math3d.V3(
		(c.rng.Float64()-0.5)*k,
		(c.rng.Float64()-0.5)*k,
		(c.rng.Float64()-0.5)*k,
	)
	c.session.SequenceIndex++
}

// StartTimedRoll spins the die in a random direction at TimedSpeed with the
// damping solved so it settles after duration seconds of ticks at TickRate.
// It replaces any roll in progress.
func (c *Controller) StartTimedRoll(duration float64) error {
	damping, err := c.params.TimedDamping(duration)
	if err != nil {
		return err
	}

	c.session = RollSession{
		State:         TimedRolling,
		DampingFactor: damping,
		SettleSpeed:   c.params.SettleEpsilon,
	}
	c.orient.Velocity = c.randomDirection().Scale(c.params.TimedSpeed)
	c.log.Debug("roll started",
		zap.Stringer("mode", TimedRolling),
		zap.Float64("duration", duration),
		zap.Float64("damping", damping),
	)
	return nil
}

// randomDirection draws a uniform vector in the [-1,1] cube and normalizes
// it, redrawing degenerate draws a bounded number of times.
func (c *Controller) randomDirection() math3d.Vec3 {
	for range 8 {
		v := math3d.V3(
			(c.rng.Float64()-0.5)*2,
			(c.rng.Float64()-0.5)*2,
			(c.rng.Float64()-0.5)*2,
		)
		if v.LenSq() > 1e-12 {
			return v.Normalize()
		}
	}
	return math3d.Up()
}

// StartFlickRoll converts a fling velocity (pixels/s) into a roll with
// friction and a hard time cap. It replaces any roll in progress.
func (c *Controller) StartFlickRoll(vx, vy float64) {
	p := c.params
	c.session = RollSession{
		State:         FlickRolling,
		DampingFactor: p.FlickFriction,
		SettleSpeed:   p.FlickSettleSpeed,
		MaxDuration:   p.FlickMaxDuration,
	}
	c.orient.Velocity = math3d.V3(vx*p.FlickScale, vy*p.FlickScale, (vx+vy)*p.FlickSpinScale)
	c.log.Debug("roll started",
		zap.Stringer("mode", FlickRolling),
		zap.Float64("speed", c.orient.Speed()),
	)
}

// Cancel stops any roll in progress and zeroes the angular velocity.
// It reports whether a roll was active.
func (c *Controller) Cancel() bool {
	if !c.Active() {
		return false
	}
	c.log.Debug("roll cancelled",
		zap.Stringer("mode", c.session.State),
		zap.Float64("elapsed", c.session.Elapsed),
	)
	c.stop()
	return true
}

func (c *Controller) stop() {
	c.session = RollSession{}
	c.orient.Velocity = math3d.Vec3{}
}

// Tick advances the roll by dt seconds. It reports whether the roll ended
// during this tick.
func (c *Controller) Tick(dt float64) bool {
	if !c.Active() {
		return false
	}

	c.orient.Advance(dt)
	c.orient.Damp(c.session.DampingFactor)
	c.session.Elapsed += dt

	if c.orient.Settled(c.session.SettleSpeed) {
		if c.session.State == Rolling && c.session.SequenceIndex < c.session.MaxSequenceSteps {
			c.impulse()
			c.log.Debug("roll impulse", zap.Int("step", c.session.SequenceIndex))
			return false
		}
		c.log.Debug("roll settled",
			zap.Stringer("mode", c.session.State),
			zap.Float64("elapsed", c.session.Elapsed),
		)
		c.stop()
		return true
	}

	if c.session.MaxDuration > 0 && c.session.Elapsed >= c.session.MaxDuration {
		c.log.Debug("roll halted at time cap",
			zap.Stringer("mode", c.session.State),
			zap.Float64("speed", c.orient.Speed()),
		)
		c.stop()
		return true
	}

	return false
}
