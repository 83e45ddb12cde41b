package logo

// Default capacities, matched to the reference firmware's #define sizes:
// big enough for real programs, small enough to fit in kilobytes of RAM.
const (
	DefaultStringPoolSize = 256
	DefaultLineLen        = 64
	DefaultWordLen        = 32
	DefaultMaxWords       = 16
	DefaultMaxCode        = 100
	DefaultMaxStack       = 24
	DefaultMaxVars        = 8
)

// Capacities bounds every fixed array an Engine allocates. All fields
// default to the Default* constants; set only the ones you need to
// change.
type Capacities struct {
	StringPoolSize int
	LineLen        int
	WordLen        int
	MaxWords       int
	MaxCode        int
	MaxStack       int
	MaxVars        int
}

func (c Capacities) withDefaults() Capacities {
	if c.StringPoolSize == 0 {
		c.StringPoolSize = DefaultStringPoolSize
	}
	if c.LineLen == 0 {
		c.LineLen = DefaultLineLen
	}
	if c.WordLen == 0 {
		c.WordLen = DefaultWordLen
	}
	if c.MaxWords == 0 {
		c.MaxWords = DefaultMaxWords
	}
	if c.MaxCode == 0 {
		c.MaxCode = DefaultMaxCode
	}
	if c.MaxStack == 0 {
		c.MaxStack = DefaultMaxStack
	}
	if c.MaxVars == 0 {
		c.MaxVars = DefaultMaxVars
	}
	return c
}

// Option configures an Engine at construction time. Every Option is
// applied once, in New, before any backing array is allocated; there is
// no way to resize an Engine afterward, by design.
type Option interface{ apply(cfg *engineConfig) }

type engineConfig struct {
	caps        Capacities
	core        []BuiltinWord
	includeCore bool
	logf        func(mark, mess string, args ...interface{})
	clock       Clock
	sched       Scheduler
}

type optionFunc func(cfg *engineConfig)

func (f optionFunc) apply(cfg *engineConfig) { f(cfg) }

// WithCapacities overrides the default array sizes. Zero fields keep
// their default.
func WithCapacities(c Capacities) Option {
	return optionFunc(func(cfg *engineConfig) { cfg.caps = c })
}

// WithCoreWords controls whether the built-in core words (ERR, MAKE,
// REPEAT, FOREVER, IFELSE, =) are registered alongside the host's own
// builtins. It defaults to true; pass false to shave the handful of bytes
// a firmware that never uses them would otherwise spend.
func WithCoreWords(include bool) Option {
	return optionFunc(func(cfg *engineConfig) { cfg.includeCore = include })
}

// WithLogf installs a structured logging hook taking a short mark and a
// message; nil (the default) disables logging. The Engine keeps the hook,
// but none of its own compile or Step code calls it.
func WithLogf(logf func(mark, mess string, args ...interface{})) Option {
	return optionFunc(func(cfg *engineConfig) { cfg.logf = logf })
}

// WithClock wires a time source and scheduler into the Engine for use by
// a WAIT builtin built with NewWaitBuiltin. Without this option WAIT
// still pops its argument but never actually suspends progress — there's
// nothing to measure elapsed time against.
func WithClock(clock Clock, sched Scheduler) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.clock = clock
		cfg.sched = sched
	})
}
