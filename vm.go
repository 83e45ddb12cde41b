package logo

import "strconv"

// Step executes exactly one instruction: first draining any pending Arity
// frame (so a builtin's arguments are evaluated one per Step, left to
// right), then dispatching the instruction at the program counter. It
// returns Stop when a Halt is reached, 0 on ordinary progress, and any
// other ErrCode on failure.
func (eng *Engine) Step() ErrCode {
	if eng.waiting {
		if eng.sched == nil || eng.sched.Elapsed(eng.waitAt, eng.waitFor) {
			eng.waiting = false
		} else {
			return 0
		}
	}

	if err := eng.doArity(); err != 0 {
		return err
	}

	instr := eng.store.at(eng.pc)
	if instr.OpType.isControl() {
		return UnhandledOpType
	}

	var err ErrCode
	switch instr.OpType {
	case Halt:
		return Stop

	case Return:
		return eng.doReturn()

	case Noop:
		// nothing to do

	case Builtin:
		err = eng.doBuiltin()
		if err == 0 && eng.store.at(eng.pc).OpType == Err {
			// the builtin called Fail: stay on the planted Err so the
			// next Step surfaces it.
			return 0
		}

	case String, Num:
		if !eng.push(instr) {
			err = StackOverflow
		}

	case Ref:
		if val, ok := eng.resolveRef(instr); ok {
			if !eng.push(val) {
				err = StackOverflow
			}
		} else if !eng.push(Instruction{OpType: Num, Op: 0}) {
			// unresolved variable: evaluates as 0, never an error.
			err = StackOverflow
		}

	case Word:
		w, ok := eng.dict.word(instr.Op)
		if !ok || !eng.call(w) {
			err = StackOverflow
		}

	case Err:
		err = ErrCode(instr.Op)

	default:
		err = UnhandledOpType
	}

	eng.pc++
	return err
}

// Run steps the engine until it halts or hits an error, coercing the
// benign Stop terminal into success.
func (eng *Engine) Run() ErrCode {
	var err ErrCode
	for err == 0 {
		err = eng.Step()
	}
	if err == Stop {
		return 0
	}
	return err
}

// doArity walks the stack downward from the top looking for the nearest
// Arity or RetAddr frame. A RetAddr found first means there's no pending
// call to feed. An Arity frame with arguments remaining just consumes one
// step (the instruction about to dispatch becomes that argument); once
// exhausted, the frame is removed and the builtin it names is invoked.
func (eng *Engine) doArity() ErrCode {
	ar := eng.tos - 1
	for ar >= 0 && eng.stack[ar].OpType != RetAddr && eng.stack[ar].OpType != Arity {
		ar--
	}
	if ar < 0 || eng.stack[ar].OpType == RetAddr {
		return 0
	}

	if eng.stack[ar].Opand > 0 {
		eng.stack[ar].Opand--
		return 0
	}

	pc := eng.stack[ar].Op
	if eng.store.at(pc).OpType != Builtin {
		return NotBuiltin
	}

	n := eng.tos - ar - 1
	copy(eng.stack[ar:], eng.stack[ar+1:ar+1+n])
	eng.tos--

	if bw := eng.dict.builtin(eng.store.at(pc)); bw != nil {
		bw.Fn(eng)
	}
	return 0
}

// doBuiltin dispatches a Builtin instruction: a zero-arity builtin runs
// immediately, while one with arguments pushes an Arity frame that later
// Steps (via doArity) fill before it actually runs.
func (eng *Engine) doBuiltin() ErrCode {
	call := eng.pc
	bw := eng.dict.builtin(eng.store.at(call))
	if bw == nil {
		return NotBuiltin
	}
	if bw.Arity == 0 {
		bw.Fn(eng)
		return 0
	}
	if eng.tos >= len(eng.stack) {
		return StackOverflow
	}
	eng.stack[eng.tos] = Instruction{OpType: Arity, Op: call, Opand: bw.Arity}
	eng.tos++
	return 0
}

// call pushes a RetAddr frame for the instruction just past the call site
// and enters the word's body. The final pc-- is deliberate: the shared
// post-dispatch pc++ in Step lands it exactly on the body's first
// instruction.
func (eng *Engine) call(w userWord) bool {
	if eng.tos >= len(eng.stack) {
		return false
	}
	eng.stack[eng.tos] = Instruction{OpType: RetAddr, Op: eng.pc + 1}
	eng.tos++
	eng.pc = w.Jump - 1
	return true
}

// doReturn pops a word's produced value (if any), finds the nearest
// RetAddr below it, and resumes at the call site — except when a control
// sentinel sits just beneath that RetAddr, in which case IFELSE/FOREVER/
// REPEAT's patching logic takes over instead of a plain return.
func (eng *Engine) doReturn() ErrCode {
	if eng.tos <= 0 {
		return StackOverflow
	}
	eng.tos--

	ret := eng.tos
	for ret > 0 && eng.stack[ret].OpType != RetAddr {
		ret--
	}
	if eng.stack[ret].OpType != RetAddr {
		return NoReturnAddress
	}

	if ret > 0 {
		switch eng.stack[ret-1].OpType {
		case CondRet:
			return eng.returnFromCondRet(ret)
		case Skip:
			return eng.returnFromSkip(ret)
		case MRetAddr:
			return eng.returnFromLoop(ret)
		}
	}

	return eng.returnPlain(ret)
}

// returnPlain is an ordinary call return: resume at the call site,
// dropping the RetAddr frame but preserving any value the body produced
// above it.
func (eng *Engine) returnPlain(ret int) ErrCode {
	eng.pc = eng.stack[ret].Op
	n := eng.tos - ret
	copy(eng.stack[ret:], eng.stack[ret+1:ret+1+n])
	return 0
}

// returnFromCondRet resolves an IFELSE whose test was itself a word call:
// its RETURN lands here, and the value it produced (just above the
// RetAddr) selects the THEN or ELSE branch.
func (eng *Engine) returnFromCondRet(ret int) ErrCode {
	condRet := eng.stack[ret-1]
	result := eng.stack[ret+1]
	if result.OpType != Num {
		eng.Fail(NotNum)
		return NotNum
	}
	if result.Op != 0 {
		eng.pc = condRet.Op
		eng.tos = ret
		eng.stack[eng.tos-1] = Instruction{OpType: Skip}
	} else {
		eng.pc = condRet.Op + 1
		eng.tos = ret - 1
	}
	return 0
}

// returnFromSkip resolves the THEN branch's own RETURN: its result (if
// any) survives, the ELSE branch is jumped over, and the Skip/RetAddr
// frame pair collapses down to just that result.
func (eng *Engine) returnFromSkip(ret int) ErrCode {
	eng.pc = eng.stack[ret].Op + 1
	n := eng.tos - ret
	copy(eng.stack[ret-1:], eng.stack[ret+1:ret+1+n])
	eng.tos = ret - 1 + n
	return 0
}

// returnFromLoop implements FOREVER/REPEAT: rather than returning to the
// caller, it re-enters the loop body by rewinding pc relative to the
// RetAddr, reusing the same RetAddr/MRetAddr frame pair across every
// iteration until the count (if any) is exhausted.
func (eng *Engine) returnFromLoop(ret int) ErrCode {
	m := eng.stack[ret-1]
	retAddr := eng.stack[ret]
	switch {
	case m.Opand == -1:
		eng.pc = retAddr.Op + m.Op
	case m.Opand > 1:
		eng.stack[ret-1].Opand--
		eng.pc = retAddr.Op + m.Op
	default:
		eng.pc = retAddr.Op
		eng.tos = ret - 1
	}
	return 0
}

// push appends entry to the top of the stack, failing if it's full.
func (eng *Engine) push(entry Instruction) bool {
	if eng.tos >= len(eng.stack) {
		return false
	}
	eng.stack[eng.tos] = entry
	eng.tos++
	return true
}

// pop discards the top of the stack, reporting whether there was
// anything there. The discarded slot's data is left in place (not
// zeroed) so the caller can still read stack[tos] immediately after.
func (eng *Engine) pop() bool {
	if eng.tos <= 0 {
		return false
	}
	eng.tos--
	return true
}

// StackEmpty reports whether the value stack currently holds nothing.
func (eng *Engine) StackEmpty() bool { return eng.tos == 0 }

// Pop discards the top of the stack, reporting whether there was
// anything to discard.
func (eng *Engine) Pop() bool { return eng.pop() }

// PushInt pushes a numeric literal.
func (eng *Engine) PushInt(n int) {
	if !eng.push(Instruction{OpType: Num, Op: n}) {
		eng.Fail(StackOverflow)
	}
}

// PushString pushes a reference to a string already in the pool.
func (eng *Engine) PushString(ref StringRef) {
	if !eng.push(Instruction{OpType: String, Op: ref.Off, Opand: ref.Len}) {
		eng.Fail(StackOverflow)
	}
}

// PopInt pops the top of the stack and interprets it as an integer: a Num
// as-is, a String via a lenient atoi, and a Ref by resolving the variable
// first. Failing any of those (or an empty stack) yields 0.
func (eng *Engine) PopInt() int {
	if !eng.pop() {
		eng.Fail(StackOverflow)
		return 0
	}
	top := eng.stack[eng.tos]
	if v, ok := parseIntInstr(top, eng.pool); ok {
		return v
	}
	if top.OpType == Ref {
		if val, ok := eng.resolveRef(top); ok {
			if v, ok := parseIntInstr(val, eng.pool); ok {
				return v
			}
		}
	}
	return 0
}

// PopString pops the top of the stack and copies it into buf as text,
// returning the number of bytes written. An unresolved reference or an
// unconvertible value writes nothing and returns 0.
func (eng *Engine) PopString(buf []byte) int {
	if !eng.pop() {
		eng.Fail(StackOverflow)
		return 0
	}
	top := eng.stack[eng.tos]
	if s, ok := parseStringInstr(top, eng.pool); ok {
		return copy(buf, s)
	}
	if top.OpType == Ref {
		if val, ok := eng.resolveRef(top); ok {
			if s, ok := parseStringInstr(val, eng.pool); ok {
				return copy(buf, s)
			}
		}
	}
	return 0
}

// resolveRef looks up the variable a Ref instruction names, transparently
// handling forward references: a name that isn't defined (yet, or ever)
// simply fails to resolve rather than raising an error.
func (eng *Engine) resolveRef(instr Instruction) (Instruction, bool) {
	name := eng.pool.str(StringRef{Off: instr.Op, Len: instr.Opand})
	idx, ok := eng.dict.findVar(eng.pool, name)
	if !ok {
		return Instruction{}, false
	}
	v, _ := eng.dict.variable(idx)
	return v.Value, true
}

// DefineIntVar assigns an integer value to a named variable, creating it
// if it doesn't already exist (subject to MaxVars).
func (eng *Engine) DefineIntVar(name []byte, value int) {
	if errc := eng.dict.setVar(eng.pool, name, Instruction{OpType: Num, Op: value}); errc != 0 {
		eng.Fail(errc)
	}
}

// ModifyReturn pushes a loop frame used by FOREVER (rel=-1, count=-1) and
// REPEAT (rel=-1, count=N) that reroutes the next matching RETURN back
// into the loop body instead of to the caller.
func (eng *Engine) ModifyReturn(rel, count int) {
	if !eng.push(Instruction{OpType: MRetAddr, Op: rel, Opand: count}) {
		eng.Fail(StackOverflow)
	}
}

// CodeIsNum reports whether the instruction rel slots past the current pc
// is (or resolves, via a variable reference, to) a number.
func (eng *Engine) CodeIsNum(rel int) bool {
	instr := eng.store.at(eng.pc + rel)
	if instr.OpType == Ref {
		val, ok := eng.resolveRef(instr)
		return ok && val.OpType == Num
	}
	return instr.OpType == Num
}

// CodeToNum reads the instruction rel slots past pc as a number,
// resolving a variable reference transparently. Fails with NotNum if it
// isn't one.
func (eng *Engine) CodeToNum(rel int) int {
	instr := eng.store.at(eng.pc + rel)
	if instr.OpType == Ref {
		val, ok := eng.resolveRef(instr)
		if !ok || val.OpType != Num {
			eng.Fail(NotNum)
			return 0
		}
		return val.Op
	}
	if instr.OpType != Num {
		eng.Fail(NotNum)
		return 0
	}
	return instr.Op
}

// CodeIsString reports whether the instruction rel slots past pc is a
// string literal.
func (eng *Engine) CodeIsString(rel int) bool {
	return eng.store.at(eng.pc + rel).OpType == String
}

// CodeToString reads the instruction rel slots past pc as a string
// literal's pool reference. Fails with NotString if it isn't one.
func (eng *Engine) CodeToString(rel int) (StringRef, bool) {
	instr := eng.store.at(eng.pc + rel)
	if instr.OpType != String {
		eng.Fail(NotString)
		return StringRef{}, false
	}
	return StringRef{Off: instr.Op, Len: instr.Opand}, true
}

// Jump moves pc by rel, relative to the instruction after the one
// currently executing (so Jump(1) is a no-op, matching the implicit pc++
// every Step performs after dispatch).
func (eng *Engine) Jump(rel int) {
	eng.pc += rel - 1
}

// JumpSkip jumps by rel and arms a one-shot Skip marker so the next
// RETURN it encounters skips the instruction immediately following this
// jump's target.
func (eng *Engine) JumpSkip(rel int) {
	eng.Jump(rel)
	if !eng.push(Instruction{OpType: Skip}) {
		eng.Fail(StackOverflow)
	}
}

// CondReturn arms IFELSE's branch-selection patch: rel is the relative pc
// of the THEN branch, recorded so the test word's eventual RETURN can
// land on the right branch. Only valid when the very next instruction is
// itself a word call (the test).
func (eng *Engine) CondReturn(rel int) {
	if eng.store.at(eng.pc+1).OpType != Word {
		eng.Fail(NotNum)
		return
	}
	if !eng.push(Instruction{OpType: CondRet, Op: eng.pc + rel}) {
		eng.Fail(StackOverflow)
	}
}

func parseIntInstr(instr Instruction, pool *stringPool) (int, bool) {
	switch instr.OpType {
	case Num:
		return instr.Op, true
	case String:
		return atoiLoose(pool.str(StringRef{Off: instr.Op, Len: instr.Opand})), true
	}
	return 0, false
}

func parseStringInstr(instr Instruction, pool *stringPool) (string, bool) {
	switch instr.OpType {
	case String:
		return pool.str(StringRef{Off: instr.Op, Len: instr.Opand}), true
	case Num:
		return strconv.Itoa(instr.Op), true
	}
	return "", false
}

// atoiLoose mimics C's atoi: parse an optional sign and leading digits,
// stopping at the first non-digit, defaulting to 0 if there is none.
func atoiLoose(s string) int {
	i, neg, n, any := 0, false, 0, false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		any = true
	}
	if !any {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
