package logo

import "time"

// Clock exposes the host's time source in whatever integer unit its
// Scheduler agrees to interpret consistently (milliseconds is typical on
// a microcontroller; RealClock below uses nanoseconds).
type Clock interface {
	Now() int64
}

// Scheduler decides whether a duration has elapsed since a recorded
// start time. Implementations must never block — WAIT polls this once
// per Step, and the engine yields in between regardless of the answer.
type Scheduler interface {
	Elapsed(at, d int64) bool
}

// RealClock is a Clock backed by the host's wall clock, in nanoseconds.
type RealClock struct{}

func (RealClock) Now() int64 { return time.Now().UnixNano() }

// RealScheduler is a Scheduler that answers against RealClock's
// nanosecond unit.
type RealScheduler struct{}

func (RealScheduler) Elapsed(at, d int64) bool {
	return time.Now().UnixNano()-at >= d
}

// NewWaitBuiltin returns a WAIT builtin (arity 1) for registration as a
// host word. It pops its duration and arms the Engine's wait state rather
// than blocking: the call itself returns immediately, and the Engine
// refuses to advance past it (Step becomes a no-op, returning 0) until
// the configured Scheduler reports the duration has elapsed. Requires the
// Engine to have been constructed with WithClock; without one, WAIT
// silently becomes a no-op — it still consumes its argument but never
// suspends anything, since there's no time source to measure against.
func NewWaitBuiltin() BuiltinWord {
	return BuiltinWord{
		Name:  "WAIT",
		Arity: 1,
		Fn: func(eng *Engine) {
			d := int64(eng.PopInt())
			if eng.clock == nil {
				return
			}
			eng.waitAt = eng.clock.Now()
			eng.waitFor = d
			eng.waiting = true
		},
	}
}
