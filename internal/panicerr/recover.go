// Package panicerr isolates an engine worker goroutine's abnormal
// termination — a panic, or a runtime.Goexit — as an ordinary error, so a
// supervisor like host.Group never takes one runaway Step loop down with
// the rest of the process.
//
// Outcome's Code follows the same convention the logo package's own
// ErrCode uses for engine failures: a small int with a name table behind
// Error(), comparable directly rather than requiring a type switch. A
// worker doesn't fail with an engine ErrCode when it panics (nothing
// parked one), so Code classifies the termination itself; host.GoEngine
// layers the engine's own ErrCode back on top once the worker's goroutine
// has fully unwound, where that context is still meaningful.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Code classifies how a worker terminated abnormally.
type Code int

const (
	_ Code = iota
	// Panicked means f panicked; Outcome.Val and Outcome.Stack are set.
	Panicked
	// Exited means f called runtime.Goexit (or a test helper that does,
	// like require.FailNow) without returning.
	Exited
)

var codeNames = [...]string{
	Panicked: "panicked",
	Exited:   "exited via runtime.Goexit",
}

func (c Code) Error() string {
	if int(c) > 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("panicerr: unknown code %d", int(c))
}

// Outcome is what Recover reports when f terminates abnormally instead of
// returning. Worker names the caller (an engine id, typically); Val is
// the recovered panic value (nil for an Exited outcome); Stack is only
// populated for a Panicked outcome.
type Outcome struct {
	Worker string
	Code   Code
	Val    interface{}
	Stack  []byte
}

func (o Outcome) Error() string {
	if o.Code != Panicked {
		return fmt.Sprintf("%s %s", o.Worker, o.Code)
	}
	return fmt.Sprintf("%s %s: %v", o.Worker, o.Code, o.Val)
}

// Unwrap lets errors.Is/As reach the panic value itself when it was
// already an error (e.g. a worker recovering its own typed failure and
// re-panicking with it), and the Code otherwise.
func (o Outcome) Unwrap() error {
	if err, ok := o.Val.(error); ok {
		return err
	}
	return o.Code
}

// Recover runs f on a new goroutine and waits for it to finish, turning a
// panic or runtime.Goexit inside f into a returned Outcome rather than
// letting either take down the whole process. worker names the caller
// for the resulting error text.
func Recover(worker string, f func() error) error {
	resultCh := make(chan error, 1)
	go func() {
		defer close(resultCh)
		defer reportExit(worker, resultCh)
		defer reportPanic(worker, resultCh)
		resultCh <- f()
	}()
	return <-resultCh
}

// reportPanic, run as the innermost deferred func in Recover's goroutine,
// turns an in-flight panic into an Outcome sent on resultCh. A no-op if
// f already returned normally.
func reportPanic(worker string, resultCh chan<- error) {
	val := recover()
	if val == nil {
		return
	}
	outcome := Outcome{Worker: worker, Code: Panicked, Val: val, Stack: debug.Stack()}
	select {
	case resultCh <- outcome:
	default:
		// f already sent a result before panicking during its own
		// deferred cleanup; the first send wins.
	}
}

// reportExit catches the case where f called runtime.Goexit: by the time
// this defer runs, reportPanic has already fired (recover found nothing,
// since Goexit isn't a panic) and f's own send never happened, so
// resultCh is still empty; fill it so Recover doesn't block forever.
func reportExit(worker string, resultCh chan<- error) {
	select {
	case resultCh <- Outcome{Worker: worker, Code: Exited}:
	default:
	}
}

// IsPanic reports whether err is a recovered worker panic.
func IsPanic(err error) bool {
	var o Outcome
	return errors.As(err, &o) && o.Code == Panicked
}

// IsExit reports whether err is a recovered runtime.Goexit.
func IsExit(err error) bool {
	var o Outcome
	return errors.As(err, &o) && o.Code == Exited
}

// PanicStack returns the stack trace captured at a recovered panic, or ""
// if err isn't one.
func PanicStack(err error) string {
	var o Outcome
	if errors.As(err, &o) && o.Code == Panicked {
		return string(o.Stack)
	}
	return ""
}
