package dice

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/taigrr/d20/pkg/math3d"
	"github.com/taigrr/d20/pkg/models"
	"go.uber.org/zap"
)

// Engine owns the die's orientation and routes ticks, gestures and roll
// commands to the roll controller and gesture mapper. The top face is
// resolved again after every mutation.
type Engine struct {
	geom    models.Geometry
	params  Params
	log     *zap.Logger
	orient  Orientation
	roll    *Controller
	gesture *GestureMapper
	top     TopFace
	ticks   uint64
}

// Snapshot is a consistent copy of the engine's observable state.
type Snapshot struct {
	Rotation         math3d.Quat
	Top              TopFace
	Pitch, Yaw, Roll float64 // degrees, debug only
	State            RollState
	Speed            float64
	Momentum         TouchMomentum
	Ticks            uint64
}

type engineOptions struct {
	params Params
	rng    *rand.Rand
	log    *zap.Logger
	geom   *models.Geometry
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithParams replaces the default constants.
func WithParams(p Params) Option {
	return func(o *engineOptions) { o.params = p }
}

// WithRand sets the random source used by rolls.
func WithRand(rng *rand.Rand) Option {
	return func(o *engineOptions) { o.rng = rng }
}

// WithSeed seeds a deterministic random source for rolls.
func WithSeed(seed uint64) Option {
	return func(o *engineOptions) { o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *engineOptions) { o.log = log }
}

// WithGeometry replaces the stock D20 geometry.
func WithGeometry(g models.Geometry) Option {
	return func(o *engineOptions) { o.geom = &g }
}

// New creates an engine at the identity orientation.
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{params: DefaultParams()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.params.Validate(); err != nil {
		return nil, err
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	e := &Engine{
		params: o.params,
		log:    o.log,
		orient: NewOrientation(),
	}
	if o.geom != nil {
		e.geom = *o.geom
	} else {
		e.geom = models.BuildGeometry()
	}
	e.roll = NewController(&e.orient, o.rng, o.params, o.log)
	e.gesture = NewGestureMapper(&e.orient, o.params)
	e.resolve()
	return e, nil
}

func (e *Engine) resolve() {
	e.top = ResolveTopFace(e.orient.Rotation, e.geom.FaceNormals(), e.geom.LabelSlice())
}

// Tick advances the simulation by dt seconds. An active roll takes
// precedence over touch momentum. Non-positive dt is ignored.
func (e *Engine) Tick(dt float64) {
	if !(dt > 0) {
		return
	}
	e.ticks++

	if e.roll.Active() {
		if e.roll.Tick(dt) {
			e.resolve()
			e.log.Debug("roll finished", zap.Int("face", e.top.Label))
			return
		}
	} else {
		e.gesture.Tick(dt)
	}
	e.resolve()
}

// OnGesture applies a drag event. Any roll in progress is cancelled first.
func (e *Engine) OnGesture(g Gesture) {
	e.roll.Cancel()
	e.gesture.Apply(g)
	e.resolve()
}

// Drag is OnGesture with the current wall-clock time.
func (e *Engine) Drag(dx, dy float64, phase GesturePhase) {
	e.OnGesture(Gesture{DX: dx, DY: dy, Phase: phase, At: time.Now()})
}

// StartSequentialRoll starts a chained roll unless one is already running.
func (e *Engine) StartSequentialRoll() bool {
	if !e.roll.StartSequentialRoll() {
		return false
	}
	e.gesture.Clear()
	return true
}

// StartTimedRoll starts a roll that settles after duration seconds.
func (e *Engine) StartTimedRoll(duration float64) error {
	if err := e.roll.StartTimedRoll(duration); err != nil {
		return fmt.Errorf("start timed roll: %w", err)
	}
	e.gesture.Clear()
	return nil
}

// StartDefaultTimedRoll starts a timed roll of the configured duration.
func (e *Engine) StartDefaultTimedRoll() error {
	return e.StartTimedRoll(e.params.TimedDuration)
}

// StartFlickRoll starts a roll from a fling velocity in pixels per second.
func (e *Engine) StartFlickRoll(vx, vy float64) {
	e.roll.StartFlickRoll(vx, vy)
	e.gesture.Clear()
}

// Reset cancels all motion and returns to the identity orientation.
func (e *Engine) Reset() {
	e.roll.Cancel()
	e.gesture.Clear()
	e.orient.Reset()
	e.resolve()
}

// Rotation returns the current rotation.
func (e *Engine) Rotation() math3d.Quat {
	return e.orient.Rotation
}

// TopFace returns the last resolved top face.
func (e *Engine) TopFace() TopFace {
	return e.top
}

// TopFaceLabel returns the number on the face pointing up, or 0 if none.
func (e *Engine) TopFaceLabel() int {
	return e.top.Label
}

// EulerAnglesDegrees returns the rotation as pitch, yaw, roll in degrees.
func (e *Engine) EulerAnglesDegrees() (pitch, yaw, roll float64) {
	return e.orient.Rotation.EulerDegrees()
}

// RollState returns the phase of the roll controller.
func (e *Engine) RollState() RollState {
	return e.roll.Session().State
}

// Session returns the current roll session.
func (e *Engine) Session() RollSession {
	return e.roll.Session()
}

// Speed returns the current roll angular speed.
func (e *Engine) Speed() float64 {
	return e.orient.Speed()
}

// Momentum returns the drag state.
func (e *Engine) Momentum() TouchMomentum {
	return e.gesture.Momentum()
}

// Geometry returns the die geometry.
func (e *Engine) Geometry() models.Geometry {
	return e.geom
}

// Params returns the engine constants.
func (e *Engine) Params() Params {
	return e.params
}

// Snapshot captures the observable state.
func (e *Engine) Snapshot() Snapshot {
	p, y, r := e.EulerAnglesDegrees()
	return Snapshot{
		Rotation: e.orient.Rotation,
		Top:      e.top,
		Pitch:    p,
		Yaw:      y,
		Roll:     r,
		State:    e.roll.Session().State,
		Speed:    e.orient.Speed(),
		Momentum: e.gesture.Momentum(),
		Ticks:    e.ticks,
	}
}

// RunToRest ticks at 1/TickRate until the active roll ends or maxTicks
// elapse, calling observe (if non-nil) after every tick. It returns the
// number of ticks run and whether the roll ended.
func (e *Engine) RunToRest(maxTicks int, observe func(tick int, s Snapshot)) (ticks int, settled bool) {
	dt := 1 / e.params.TickRate
	for tick := 1; tick <= maxTicks; tick++ {
		e.Tick(dt)
		if observe != nil {
			observe(tick, e.Snapshot())
		}
		if !e.roll.Active() {
			return tick, true
		}
	}
	return maxTicks, false
}
