package logo

// Engine is a single Logo virtual machine: string pool, instruction store,
// dictionaries, and value stack, all sized once at construction and never
// reallocated afterward. An Engine is single-owner and single-threaded;
// nothing in it synchronizes access, by design — run concurrent programs
// as independent Engines (see the host package) rather than sharing one.
type Engine struct {
	caps Capacities

	pool  *stringPool
	store *instructionStore
	dict  *dictionaries

	stack []Instruction
	tos   int
	pc    int

	debug bool
	log   logHook

	clock   Clock
	sched   Scheduler
	waiting bool
	waitAt  int64
	waitFor int64

	// compiler state, carried across Compile calls within one program.
	inWord      bool
	defining    StringRef
	definingSet bool
	wordJump    int
	wordJumpSet bool
	sentenceNum int
}

// New constructs an Engine. host supplies the builtin words available to
// compiled programs; core words (ERR, MAKE, REPEAT, FOREVER, IFELSE, =)
// are included unless WithCoreWords(false) is passed.
func New(host []BuiltinWord, opts ...Option) *Engine {
	cfg := engineConfig{includeCore: true}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	caps := cfg.caps.withDefaults()

	core := cfg.core
	if core == nil && cfg.includeCore {
		core = coreWords()
	}

	eng := &Engine{
		caps:  caps,
		pool:  newStringPool(caps.StringPoolSize),
		store: newInstructionStore(caps.MaxCode),
		dict:  newDictionaries(host, core, caps.MaxWords, caps.MaxVars),
		stack: make([]Instruction, caps.MaxStack),
		log:   logHook{fn: cfg.logf},
		clock: cfg.clock,
		sched: cfg.sched,
	}
	eng.Restart()
	return eng
}

// SetDebug sets the flag that Debug reports. The dump methods in debug.go
// write their output whether or not it is set; callers check Debug first.
func (eng *Engine) SetDebug(on bool) { eng.debug = on }

// Reset clears the entire code array back to Noop, replants the implicit
// Halt, and calls Restart. Words, variables and strings accumulate across
// Reset calls within a session; only a fresh Engine clears those too.
func (eng *Engine) Reset() {
	eng.store.reset()
	eng.resetCompilerState()
	eng.Restart()
}

// Restart zeroes the program counter and stack but preserves code,
// strings and dictionaries, so a compiled program can be rerun from the
// top without recompiling it.
func (eng *Engine) Restart() {
	eng.pc = 0
	eng.tos = 0
	for i := range eng.stack {
		eng.stack[i] = Instruction{OpType: Noop}
	}
}

func (eng *Engine) resetCompilerState() {
	eng.inWord = false
	eng.definingSet = false
	eng.wordJumpSet = false
	// words/vars/strings intentionally survive Reset's code wipe.
}

// GetErr scans the instruction store for the first parked Err instruction
// and returns its code, or 0 if the program compiled cleanly so far.
func (eng *Engine) GetErr() ErrCode {
	for i := 0; i < eng.store.len(); i++ {
		if instr := eng.store.at(i); instr.OpType == Err {
			return ErrCode(instr.Op)
		}
	}
	return 0
}

// Fail plants an Err instruction at PC 0, to be surfaced as a runtime
// error by the next instruction fetch. Builtins call this to report a
// runtime failure: a builtin invoked while its arguments drain sees the
// code returned later in that same Step, a zero-arity builtin on the next
// Step.
func (eng *Engine) Fail(code ErrCode) {
	eng.pc = 0
	eng.store.set(0, Instruction{OpType: Err, Op: int(code)})
}

// park writes an Err instruction at the compiler's current write cursor,
// the compile-time equivalent of Fail: it doesn't abort compilation, it
// just leaves a marker GetErr will find.
func (eng *Engine) park(code ErrCode) {
	eng.compileWord(&eng.store.nextcode, "!", int(code))
}
