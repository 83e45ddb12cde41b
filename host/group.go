// Package host runs multiple tinylogo Engines concurrently: one goroutine
// per Engine, panics isolated, cancellation propagated through context.
// An Engine itself is single-threaded by design (see the logo package's
// doc comment); this package is how a process embeds more than one of
// them without sharing state between them.
package host

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tinylogo/tinylogo"
	"github.com/tinylogo/tinylogo/internal/panicerr"
)

// Group supervises a set of concurrently-running Engines.
type Group struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewGroup returns a Group bound to ctx. The group's own context is
// canceled as soon as any Go'd function returns a non-nil error, so
// well-behaved callers should select on Context().Done() to stop early.
func NewGroup(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx}
}

// Context returns the group's derived context.
func (grp *Group) Context() context.Context { return grp.ctx }

// Go runs fn in its own goroutine, tagging it with a fresh id fn can use
// for logging or correlating side effects, and converting any panic
// (or runtime.Goexit) into a returned error rather than crashing the
// process.
func (grp *Group) Go(name string, fn func(id uuid.UUID) error) {
	id := uuid.New()
	grp.g.Go(func() error {
		return panicerr.Recover(name, func() error { return fn(id) })
	})
}

// Wait blocks until every Go'd function has returned, yielding the first
// non-nil error encountered (including a recovered panic).
func (grp *Group) Wait() error { return grp.g.Wait() }

// IsWorkerPanic reports whether err (as returned by Wait) is a recovered
// panic from a Go'd worker, as opposed to an ordinary error it returned.
func IsWorkerPanic(err error) bool { return panicerr.IsPanic(err) }

// WorkerPanicStack returns the stack trace captured at a recovered worker
// panic, or "" if err isn't one.
func WorkerPanicStack(err error) string { return panicerr.PanicStack(err) }

// EngineFailure reports that a GoEngine worker terminated abnormally
// while eng had already parked an ErrCode — the panic or Goexit
// interrupted the engine mid-Step, but eng.GetErr() still names what it
// was failing on when that happened.
type EngineFailure struct {
	Worker string
	EngErr logo.ErrCode
	Cause  error
}

func (f *EngineFailure) Error() string {
	return fmt.Sprintf("%s: engine failed with %s before terminating abnormally: %v", f.Worker, f.EngErr, f.Cause)
}

func (f *EngineFailure) Unwrap() error { return f.Cause }

// GoEngine runs fn (typically a loop driving eng via eng.Step) in its own
// goroutine exactly like Go does, but on an abnormal termination it also
// consults eng.GetErr(): if eng had already parked a real ErrCode before
// the panic or Goexit unwound the goroutine, the returned error is an
// *EngineFailure carrying that code instead of a bare recovered panic.
// This is safe to read without synchronization because Recover's result
// channel only yields after fn's goroutine has fully exited, so eng's
// fields are no longer being written by anyone.
func (grp *Group) GoEngine(name string, eng *logo.Engine, fn func(id uuid.UUID) error) {
	id := uuid.New()
	grp.g.Go(func() error {
		err := panicerr.Recover(name, func() error { return fn(id) })
		if err == nil {
			return nil
		}
		if !panicerr.IsPanic(err) && !panicerr.IsExit(err) {
			return err
		}
		if engErr := eng.GetErr(); engErr != 0 {
			return &EngineFailure{Worker: name, EngErr: engErr, Cause: err}
		}
		return err
	})
}

// RunEngine steps eng in a loop until it halts, fails, or ctx is
// canceled, translating the engine's ErrCode terminal into a Go error
// (nil for the benign Stop).
func RunEngine(ctx context.Context, eng *logo.Engine) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch errc := eng.Step(); errc {
		case 0:
			continue
		case logo.Stop:
			return nil
		default:
			return errc
		}
	}
}
