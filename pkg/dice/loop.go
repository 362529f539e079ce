package dice

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrLoopClosed is returned by Send after Run has returned.
var ErrLoopClosed = errors.New("dice: loop closed")

// Input is a mutation applied to the engine on the simulation goroutine.
type Input func(e *Engine) error

// GestureInput forwards a drag event.
func GestureInput(g Gesture) Input {
	return func(e *Engine) error {
		e.OnGesture(g)
		return nil
	}
}

// SequentialRollInput starts a chained roll.
func SequentialRollInput() Input {
	return func(e *Engine) error {
		e.StartSequentialRoll()
		return nil
	}
}

// TimedRollInput starts a timed roll.
func TimedRollInput(duration float64) Input {
	return func(e *Engine) error {
		return e.StartTimedRoll(duration)
	}
}

// FlickRollInput starts a flick roll.
func FlickRollInput(vx, vy float64) Input {
	return func(e *Engine) error {
		e.StartFlickRoll(vx, vy)
		return nil
	}
}

// ResetInput returns the die to rest at the identity orientation.
func ResetInput() Input {
	return func(e *Engine) error {
		e.Reset()
		return nil
	}
}

// maxFrameDelta clamps the tick length after a stall.
const maxFrameDelta = 0.1

// Loop is the single writer of an Engine. Other goroutines Send inputs and
// read the latest Snapshot; inputs are applied at tick boundaries in the
// order received.
type Loop struct {
	engine *Engine
	inputs chan Input
	done   chan struct{}
	snap   atomic.Pointer[Snapshot]
	log    *zap.Logger
}

// NewLoop wraps e. queue is the number of inputs buffered between ticks.
func NewLoop(e *Engine, queue int) *Loop {
	l := &Loop{
		engine: e,
		inputs: make(chan Input, queue),
		done:   make(chan struct{}),
		log:    e.log,
	}
	s := e.Snapshot()
	l.snap.Store(&s)
	return l
}

// Send queues an input, blocking while the queue is full.
func (l *Loop) Send(ctx context.Context, in Input) error {
	select {
	case l.inputs <- in:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the state published after the last tick.
func (l *Loop) Snapshot() Snapshot {
	return *l.snap.Load()
}

// Step applies every queued input, advances the engine by dt and publishes a
// new snapshot. It must only be called from one goroutine, and not while Run
// is active.
func (l *Loop) Step(dt float64) Snapshot {
	l.drain()
	l.engine.Tick(dt)
	s := l.engine.Snapshot()
	l.snap.Store(&s)
	return s
}

func (l *Loop) drain() {
	for {
		select {
		case in := <-l.inputs:
			if err := in(l.engine); err != nil {
				l.log.Warn("input rejected", zap.Error(err))
			}
		default:
			return
		}
	}
}

// Run steps the engine at rate Hz until ctx is cancelled. The tick length
// is the measured time since the previous tick, clamped after stalls.
func (l *Loop) Run(ctx context.Context, rate float64) error {
	defer close(l.done)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxFrameDelta {
				dt = maxFrameDelta
			}
			l.Step(dt)
		}
	}
}
