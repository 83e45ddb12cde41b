package logo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flashHost returns a side-effect log and the ON/OFF/WAIT host builtins
// used throughout these scenarios. WAIT here just logs its argument —
// the real wall-clock WAIT builtin (NewWaitBuiltin) has its own tests.
func flashHost() (*[]string, []BuiltinWord) {
	eff := &[]string{}
	host := []BuiltinWord{
		{Name: "ON", Arity: 0, Fn: func(eng *Engine) {
			*eff = append(*eff, "LED ON")
		}},
		{Name: "OFF", Arity: 0, Fn: func(eng *Engine) {
			*eff = append(*eff, "LED OFF")
		}},
		{Name: "WAIT", Arity: 1, Fn: func(eng *Engine) {
			n := eng.PopInt()
			*eff = append(*eff, fmt.Sprintf("WAIT %d", n))
		}},
	}
	return eff, host
}

func TestArithmeticEquality(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("1 = 3\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, 0, eng.PopInt())

	eng2 := New(nil)
	require.Equal(t, ErrCode(0), eng2.Compile("10 = 10\n"))
	require.Equal(t, ErrCode(0), eng2.Run())
	assert.Equal(t, 1, eng2.PopInt())
}

func TestVariableRoundTrip(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("MAKE \"VAR 10\n:VAR\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, 10, eng.PopInt())

	// Reset wipes the code array but keeps the variable table, so a
	// second MAKE of the same name updates it in place rather than
	// adding a duplicate.
	eng.Reset()
	require.Equal(t, ErrCode(0), eng.Compile("MAKE \"VAR 20\n:VAR\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, 20, eng.PopInt())
}

func TestSketchFlash(t *testing.T) {
	eff, host := flashHost()
	eng := New(host)
	require.Equal(t, ErrCode(0), eng.Compile("TO FLASH\nON WAIT 100 OFF WAIT 1000\nEND\nFLASH\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, []string{"LED ON", "WAIT 100", "LED OFF", "WAIT 1000"}, *eff)
}

func TestForeverLoop(t *testing.T) {
	eff, host := flashHost()
	eng := New(host)
	require.Equal(t, ErrCode(0), eng.Compile("TO FLASH\nON WAIT 100 OFF WAIT 1000\nEND\nTO GO\nFOREVER FLASH\nEND\nGO\n"))

	for i := 0; i < 100; i++ {
		eng.Step()
	}

	require.Len(t, *eff, 49)
	cycle := []string{"LED ON", "WAIT 100", "LED OFF", "WAIT 1000"}
	for i := 0; i < 12; i++ {
		assert.Equal(t, cycle, (*eff)[i*4:i*4+4], "cycle %d", i)
	}
	assert.Equal(t, "LED ON", (*eff)[48])
}

func TestRepeatCount(t *testing.T) {
	eff, host := flashHost()
	eng := New(host)
	require.Equal(t, ErrCode(0), eng.Compile("REPEAT 3 [ON WAIT 10 OFF WAIT 20]\n"))
	require.Equal(t, ErrCode(0), eng.Run())

	cycle := []string{"LED ON", "WAIT 10", "LED OFF", "WAIT 20"}
	want := append(append(append([]string{}, cycle...), cycle...), cycle...)
	assert.Equal(t, want, *eff)
	assert.Len(t, *eff, 12)
}

func ifelseEngine(t *testing.T, test int) *Engine {
	t.Helper()
	eng := New(nil)
	src := fmt.Sprintf("TO TEST\n%d\nEND\nTO THEN\n2\nEND\nTO ELSE\n3\nEND\nIFELSE TEST THEN ELSE\n", test)
	require.Equal(t, ErrCode(0), eng.Compile(src))
	require.Equal(t, ErrCode(0), eng.Run())
	return eng
}

func TestIfelseWordBranches(t *testing.T) {
	assert.Equal(t, 3, ifelseEngine(t, 0).PopInt())
	assert.Equal(t, 2, ifelseEngine(t, 1).PopInt())
}

func TestIfelseLiteralBranches(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("IFELSE 1 \"A \"B\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	buf := make([]byte, 16)
	n := eng.PopString(buf)
	assert.Equal(t, "A", string(buf[:n]))

	eng2 := New(nil)
	require.Equal(t, ErrCode(0), eng2.Compile("IFELSE 0 \"A \"B\n"))
	require.Equal(t, ErrCode(0), eng2.Run())
	n2 := eng2.PopString(buf)
	assert.Equal(t, "B", string(buf[:n2]))
}

func TestIfelseUnresolvedVarFallsToElse(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("IFELSE :NOPE \"A \"B\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	buf := make([]byte, 16)
	n := eng.PopString(buf)
	assert.Equal(t, "B", string(buf[:n]))
}

// TestIfelseWordTestNonNumericYieldsNotNum covers the boundary case where
// an IFELSE word TEST returns something other than a number: condreturn
// has nothing to branch on, so the engine fails with NotNum rather than
// guessing a truthiness for a string.
func TestIfelseWordTestNonNumericYieldsNotNum(t *testing.T) {
	eng := New(nil)
	src := "TO TEST\n\"X\nEND\nTO THEN\n2\nEND\nTO ELSE\n3\nEND\nIFELSE TEST THEN ELSE\n"
	require.Equal(t, ErrCode(0), eng.Compile(src))
	errc := eng.Run()
	assert.Equal(t, NotNum, errc)
	assert.Equal(t, NotNum, eng.GetErr())
}

func TestLineTooLong(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{LineLen: 5}))
	errc := eng.Compile("123456\n")
	assert.Equal(t, LineTooLong, errc)
	assert.Equal(t, LineTooLong, eng.GetErr())
}

func TestWordTooLong(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{WordLen: 3}))
	errc := eng.Compile("ABCD\n")
	assert.Equal(t, WordTooLong, errc)
}

func TestTooManyWords(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{MaxWords: 1}))
	require.Equal(t, ErrCode(0), eng.Compile("TO A\n1\nEND\n"))
	errc := eng.Compile("TO B\n2\nEND\n")
	assert.Equal(t, TooManyWords, errc)
}

func TestOutOfStrings(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{StringPoolSize: 2}))
	errc := eng.Compile("ABC\n")
	assert.Equal(t, OutOfStrings, errc)
}

func TestOutOfCode(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{MaxCode: 4}))
	errc := eng.Compile("1 2 3\n")
	assert.Equal(t, OutOfCode, errc)
}

func TestStackOverflow(t *testing.T) {
	eng := New(nil, WithCapacities(Capacities{MaxStack: 2}))
	require.Equal(t, ErrCode(0), eng.Compile("1 2 3\n"))
	errc := eng.Run()
	assert.Equal(t, StackOverflow, errc)
}
