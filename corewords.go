package logo

// coreWords returns the always-available core vocabulary: ERR, MAKE, =,
// FOREVER, REPEAT and IFELSE. WithCoreWords(false) omits them from a new
// Engine for a host that has no use for variables or control flow beyond
// its own builtins.
func coreWords() []BuiltinWord {
	return []BuiltinWord{
		{Name: "ERR", Arity: 0, Fn: errWord},
		{Name: "MAKE", Arity: 2, Fn: makeWord},
		{Name: "=", Arity: 1, Fn: eqWord},
		{Name: "FOREVER", Arity: 0, Fn: foreverWord},
		{Name: "REPEAT", Arity: 1, Fn: repeatWord},
		{Name: "IFELSE", Arity: 0, Fn: ifelseWord},
	}
}

// errWord halts the engine with the benign Stop terminal. Mainly useful
// for tests and as a deliberate escape hatch in a program.
func errWord(eng *Engine) {
	eng.Fail(Stop)
}

// makeWord assigns a variable: MAKE "NAME VALUE. Arity 2 drains the name
// and the value left to right, so by the time this runs VALUE is on top.
func makeWord(eng *Engine) {
	n := eng.PopInt()
	buf := make([]byte, eng.caps.WordLen)
	l := eng.PopString(buf)
	eng.DefineIntVar(buf[:l], n)
}

// eqWord compares the already-on-stack left operand against the single
// arity-drained right operand, pushing 1 or 0.
func eqWord(eng *Engine) {
	right := eng.PopInt()
	left := eng.PopInt()
	if left == right {
		eng.PushInt(1)
	} else {
		eng.PushInt(0)
	}
}

// foreverWord arms an infinite loop frame: the following WORD call's
// eventual RETURN re-enters it instead of returning to the caller.
func foreverWord(eng *Engine) {
	eng.ModifyReturn(-1, -1)
}

// repeatWord arms a loop frame for exactly N total iterations of the
// following WORD call.
func repeatWord(eng *Engine) {
	n := eng.PopInt()
	eng.ModifyReturn(-1, n)
}

// ifelseWord implements IFELSE TEST THEN ELSE. When TEST is a literal
// number or a variable reference, the branch is known immediately and the
// VM jumps straight past the whole four-slot block, pushing the chosen
// branch's literal value if it has one, or landing on it directly (with a
// Skip armed past ELSE) if it's a word call. An unresolved or non-numeric
// variable reference counts as a known, falsy value rather than an error
// — it simply takes the ELSE branch. When TEST is itself a word call, its
// result isn't known until that call returns, so a CondRet frame is armed
// instead and the branch decision happens in doReturn. Any other TEST
// shape (a bare string literal, say) isn't decidable either way and
// fails NotNum.
func ifelseWord(eng *Engine) {
	n, isWord, ok := ifelseTest(eng)
	if !ok {
		eng.Fail(NotNum)
		return
	}
	if isWord {
		eng.CondReturn(2)
		return
	}
	if n != 0 {
		if pushBranchLiteral(eng, 2) {
			eng.Jump(4)
		} else {
			eng.JumpSkip(2)
		}
	} else {
		if pushBranchLiteral(eng, 3) {
			eng.Jump(4)
		} else {
			eng.Jump(3)
		}
	}
}

// ifelseTest classifies the instruction in TEST position (one slot past
// the IFELSE builtin). isWord means the branch decision must wait for
// that word call to RETURN; ok false means TEST is neither a number, a
// variable reference, nor a word call, and IFELSE can't proceed.
func ifelseTest(eng *Engine) (n int, isWord bool, ok bool) {
	instr := eng.store.at(eng.pc + 1)
	switch instr.OpType {
	case Word:
		return 0, true, true
	case Num:
		return instr.Op, false, true
	case Ref:
		if val, resolved := eng.resolveRef(instr); resolved && val.OpType == Num {
			return val.Op, false, true
		}
		return 0, false, true
	default:
		return 0, false, false
	}
}

// pushBranchLiteral pushes the value at rel slots past the IFELSE
// instruction if it's a literal number or string, reporting whether it
// did. A false result means the branch is a word call the VM must jump
// to instead.
func pushBranchLiteral(eng *Engine, rel int) bool {
	if eng.CodeIsNum(rel) {
		eng.PushInt(eng.CodeToNum(rel))
		return true
	}
	if eng.CodeIsString(rel) {
		ref, ok := eng.CodeToString(rel)
		if !ok {
			return false
		}
		eng.PushString(ref)
		return true
	}
	return false
}
