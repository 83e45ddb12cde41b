package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrWordStops(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("ERR\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, Stop, eng.GetErr())
}

func TestMakeWordDefinesVariable(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("MAKE \"X 5\n"))
	require.Equal(t, ErrCode(0), eng.Run())

	idx, ok := eng.dict.findVar(eng.pool, "X")
	require.True(t, ok)
	v, ok := eng.dict.variable(idx)
	require.True(t, ok)
	assert.Equal(t, 5, v.Value.Op)
}

func TestEqWord(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("5 = 5\n"))
	require.Equal(t, ErrCode(0), eng.Run())
	assert.Equal(t, 1, eng.PopInt())
}

func TestRepeatModifiesReturn(t *testing.T) {
	eng := New(nil)
	require.Equal(t, ErrCode(0), eng.Compile("TO A\n1\nEND\n"))

	eng.PushInt(3) // the count REPEAT will pop
	repeatWord(eng)

	require.False(t, eng.StackEmpty())
	assert.Equal(t, MRetAddr, eng.stack[eng.tos-1].OpType)
	assert.Equal(t, -1, eng.stack[eng.tos-1].Op)
	assert.Equal(t, 3, eng.stack[eng.tos-1].Opand)
}

func TestForeverModifiesReturn(t *testing.T) {
	eng := New(nil)
	foreverWord(eng)
	require.False(t, eng.StackEmpty())
	assert.Equal(t, MRetAddr, eng.stack[eng.tos-1].OpType)
	assert.Equal(t, -1, eng.stack[eng.tos-1].Opand)
}
