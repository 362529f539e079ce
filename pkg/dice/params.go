// Package dice implements the orientation engine of a twenty-sided die:
// angular velocity integration under damping, programmatic rolls, drag
// gestures with momentum, and resolution of the face pointing up.
//
// An Engine is not safe for concurrent use. Wrap it in a Loop to feed it
// from several goroutines.
package dice

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDuration is returned for a non-positive or non-finite timed
	// roll duration.
	ErrInvalidDuration = errors.New("dice: roll duration must be positive and finite")

	// ErrInvalidParams is wrapped by Params.Validate failures.
	ErrInvalidParams = errors.New("dice: invalid parameters")
)

// Params holds the physical constants of the engine. Angular quantities are
// radians unless the field says otherwise.
type Params struct {
	// SettleEpsilon is the angular speed (rad/s) under which a roll settles.
	SettleEpsilon float64 `yaml:"settle_epsilon" env:"SETTLE_EPSILON"`
	// RollDamping multiplies ω every tick of a sequential roll.
	RollDamping float64 `yaml:"roll_damping" env:"ROLL_DAMPING"`
	// SequentialImpulse scales the uniform per-axis impulse (U-0.5)*k.
	SequentialImpulse float64 `yaml:"sequential_impulse" env:"SEQUENTIAL_IMPULSE"`
	// MaxSequenceSteps is the number of chained impulses per sequential roll.
	MaxSequenceSteps int `yaml:"max_sequence_steps" env:"MAX_SEQUENCE_STEPS"`

	// TimedSpeed is the initial angular speed of a timed roll.
	TimedSpeed float64 `yaml:"timed_speed" env:"TIMED_SPEED"`
	// TimedDuration is the default timed roll duration in seconds.
	TimedDuration float64 `yaml:"timed_duration" env:"TIMED_DURATION"`
	// TickRate is the tick frequency (Hz) timed roll damping is solved for.
	TickRate float64 `yaml:"tick_rate" env:"TICK_RATE"`

	// FlickScale converts fling velocity to ω on the X and Y axes.
	FlickScale float64 `yaml:"flick_scale" env:"FLICK_SCALE"`
	// FlickSpinScale converts the summed fling velocity to ω on Z.
	FlickSpinScale float64 `yaml:"flick_spin_scale" env:"FLICK_SPIN_SCALE"`
	// FlickFriction multiplies ω every tick of a flick roll.
	FlickFriction float64 `yaml:"flick_friction" env:"FLICK_FRICTION"`
	// FlickSettleSpeed is the angular speed under which a flick roll settles.
	FlickSettleSpeed float64 `yaml:"flick_settle_speed" env:"FLICK_SETTLE_SPEED"`
	// FlickMaxDuration caps a flick roll, in seconds.
	FlickMaxDuration float64 `yaml:"flick_max_duration" env:"FLICK_MAX_DURATION"`

	// DragSensitivity is degrees of rotation per pixel of drag.
	DragSensitivity float64 `yaml:"drag_sensitivity" env:"DRAG_SENSITIVITY"`
	// MomentumDamping multiplies the residual drag velocity every tick.
	MomentumDamping float64 `yaml:"momentum_damping" env:"MOMENTUM_DAMPING"`
	// MomentumEpsilon is the residual velocity (deg/ms) snapped to zero.
	MomentumEpsilon float64 `yaml:"momentum_epsilon" env:"MOMENTUM_EPSILON"`
}

// DefaultParams returns the stock constants.
func DefaultParams() Params {
	return Params{
		SettleEpsilon:     1e-4,
		RollDamping:       0.9998,
		SequentialImpulse: 5.0,
		MaxSequenceSteps:  3,

		TimedSpeed:    8.0 * 1000.0,
		TimedDuration: 5.0,
		TickRate:      60,

		FlickScale:       0.1,
		FlickSpinScale:   0.05,
		FlickFriction:    0.98,
		FlickSettleSpeed: 0.1,
		FlickMaxDuration: 3.0,

		DragSensitivity: 0.5,
		MomentumDamping: 0.9998,
		MomentumEpsilon: 1e-4,
	}
}

// Validate reports the first out-of-range constant.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"settle_epsilon", p.SettleEpsilon},
		{"sequential_impulse", p.SequentialImpulse},
		{"timed_speed", p.TimedSpeed},
		{"timed_duration", p.TimedDuration},
		{"tick_rate", p.TickRate},
		{"flick_settle_speed", p.FlickSettleSpeed},
		{"drag_sensitivity", p.DragSensitivity},
		{"momentum_epsilon", p.MomentumEpsilon},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, f.name, f.v)
		}
	}

	factors := []struct {
		name string
		v    float64
	}{
		{"roll_damping", p.RollDamping},
		{"flick_friction", p.FlickFriction},
		{"momentum_damping", p.MomentumDamping},
	}
	for _, f := range factors {
		if !(f.v > 0 && f.v < 1) {
			return fmt.Errorf("%w: %s must be in (0, 1), got %v", ErrInvalidParams, f.name, f.v)
		}
	}

	if p.MaxSequenceSteps < 1 {
		return fmt.Errorf("%w: max_sequence_steps must be at least 1, got %d", ErrInvalidParams, p.MaxSequenceSteps)
	}
	if p.FlickMaxDuration < 0 {
		return fmt.Errorf("%w: flick_max_duration must not be negative, got %v", ErrInvalidParams, p.FlickMaxDuration)
	}
	return nil
}

// TimedDamping returns the per-tick factor that takes a timed roll from
// TimedSpeed down to SettleEpsilon in duration seconds at TickRate.
func (p Params) TimedDamping(duration float64) (float64, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return 0, ErrInvalidDuration
	}
	frames := p.TickRate * duration
	return math.Pow(p.SettleEpsilon/p.TimedSpeed, 1/frames), nil
}
