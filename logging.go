package logo

// logHook wraps an optional structured logging callback, adapted from the
// mark/message logf convention: every call is cheap to skip when no
// function is installed, so instrumented hot-path code never allocates
// on a production build.
type logHook struct {
	fn func(mark, mess string, args ...interface{})
}

func (h logHook) logf(mark, mess string, args ...interface{}) {
	if h.fn == nil {
		return
	}
	h.fn(mark, mess, args...)
}
