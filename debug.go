package logo

import (
	"fmt"
	"io"
)

// Debug reports whether SetDebug(true) is in effect. Callers doing
// nontrivial formatting work before a Dump call should guard on this
// first.
func (eng *Engine) Debug() bool { return eng.debug }

// Dump writes a full human-readable snapshot of the engine: code, stack,
// user words and variables.
func (eng *Engine) Dump(w io.Writer) {
	fmt.Fprintf(w, "# engine pc=%d tos=%d\n", eng.pc, eng.tos)
	eng.DumpCode(w)
	eng.DumpStack(w)
	eng.DumpWords(w)
	eng.DumpVars(w)
}

// DumpCode writes every non-Noop instruction in the store, plus whichever
// Noop the program counter currently sits on.
func (eng *Engine) DumpCode(w io.Writer) {
	fmt.Fprintf(w, "# code main=[0,%d) jump=[%d,%d)\n", eng.store.startj, eng.store.startj, eng.store.len())
	for i := 0; i < eng.store.len(); i++ {
		instr := eng.store.at(i)
		if instr.OpType == Noop && i != eng.pc {
			continue
		}
		marker := "  "
		if i == eng.pc {
			marker = "->"
		}
		fmt.Fprintf(w, "%s@%-3d %s\n", marker, i, eng.formatInstr(instr))
	}
}

// DumpStack writes the value stack from the bottom up, including any
// control sentinels it currently holds.
func (eng *Engine) DumpStack(w io.Writer) {
	fmt.Fprintf(w, "# stack (tos=%d)\n", eng.tos)
	for i := 0; i < eng.tos; i++ {
		fmt.Fprintf(w, "  [%-3d] %s\n", i, eng.formatInstr(eng.stack[i]))
	}
}

// DumpWords writes the user word table.
func (eng *Engine) DumpWords(w io.Writer) {
	fmt.Fprintf(w, "# words\n")
	for i := 0; ; i++ {
		uw, ok := eng.dict.word(i)
		if !ok {
			break
		}
		fmt.Fprintf(w, "  %-16s jump=%d\n", eng.pool.str(uw.Name), uw.Jump)
	}
}

// DumpVars writes the variable table.
func (eng *Engine) DumpVars(w io.Writer) {
	fmt.Fprintf(w, "# vars\n")
	for i := 0; ; i++ {
		v, ok := eng.dict.variable(i)
		if !ok {
			break
		}
		fmt.Fprintf(w, "  %-16s %s\n", eng.pool.str(v.Name), eng.formatInstr(v.Value))
	}
}

func (eng *Engine) formatInstr(instr Instruction) string {
	switch instr.OpType {
	case Noop:
		return "NOOP"
	case Halt:
		return "HALT"
	case Return:
		return "RETURN"
	case Builtin:
		if bw := eng.dict.builtin(instr); bw != nil {
			return fmt.Sprintf("BUILTIN %s", bw.Name)
		}
		return fmt.Sprintf("BUILTIN ?%d/%d", instr.Op, instr.Opand)
	case Word:
		if uw, ok := eng.dict.word(instr.Op); ok {
			return fmt.Sprintf("WORD %s", eng.pool.str(uw.Name))
		}
		return fmt.Sprintf("WORD ?%d", instr.Op)
	case String:
		return fmt.Sprintf("STRING %q", eng.pool.str(StringRef{Off: instr.Op, Len: instr.Opand}))
	case Num:
		return fmt.Sprintf("NUM %d", instr.Op)
	case Ref:
		return fmt.Sprintf("REF :%s", eng.pool.str(StringRef{Off: instr.Op, Len: instr.Opand}))
	case Err:
		return fmt.Sprintf("ERR %s", ErrCode(instr.Op))
	case Arity:
		return fmt.Sprintf("ARITY pc=%d left=%d", instr.Op, instr.Opand)
	case RetAddr:
		return fmt.Sprintf("RETADDR ->%d", instr.Op)
	case MRetAddr:
		return fmt.Sprintf("MRETADDR rel=%d left=%d", instr.Op, instr.Opand)
	case CondRet:
		return fmt.Sprintf("CONDRET ->%d", instr.Op)
	case Skip:
		return "SKIP"
	default:
		return fmt.Sprintf("?optype=%d op=%d opand=%d", instr.OpType, instr.Op, instr.Opand)
	}
}
