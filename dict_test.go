package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBuiltinHostBeforeCore(t *testing.T) {
	host := []BuiltinWord{{Name: "MAKE", Arity: 0, Fn: func(eng *Engine) {}}}
	d := newDictionaries(host, coreWords(), DefaultMaxWords, DefaultMaxVars)

	idx, cat, ok := d.findBuiltin("MAKE")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, CategoryHost, cat)

	idx, cat, ok = d.findBuiltin("IFELSE")
	require.True(t, ok)
	assert.Equal(t, CategoryCore, cat)
	assert.NotNil(t, d.builtin(Instruction{OpType: Builtin, Op: idx, Opand: cat}))

	_, _, ok = d.findBuiltin("NOSUCH")
	assert.False(t, ok)
}

func TestAddAndFindWord(t *testing.T) {
	pool := newStringPool(64)
	d := newDictionaries(nil, nil, 4, 4)

	ref, errc := pool.add([]byte("SQUARE"))
	require.Equal(t, ErrCode(0), errc)

	idx, errc := d.addWord(ref, 10)
	require.Equal(t, ErrCode(0), errc)

	found, ok := d.findWord(pool, "SQUARE")
	require.True(t, ok)
	assert.Equal(t, idx, found)

	uw, ok := d.word(idx)
	require.True(t, ok)
	assert.Equal(t, 10, uw.Jump)
}

func TestSetVarOverwritesInPlace(t *testing.T) {
	pool := newStringPool(64)
	d := newDictionaries(nil, nil, 4, 4)

	require.Equal(t, ErrCode(0), d.setVar(pool, []byte("X"), Instruction{OpType: Num, Op: 1}))
	require.Equal(t, ErrCode(0), d.setVar(pool, []byte("X"), Instruction{OpType: Num, Op: 2}))

	assert.Equal(t, 1, d.vars.Len(), "reassigning an existing variable must not grow the table")

	idx, ok := d.findVar(pool, "X")
	require.True(t, ok)
	v, ok := d.variable(idx)
	require.True(t, ok)
	assert.Equal(t, 2, v.Value.Op)
}

func TestSetVarTooManyVars(t *testing.T) {
	pool := newStringPool(64)
	d := newDictionaries(nil, nil, 4, 1)

	require.Equal(t, ErrCode(0), d.setVar(pool, []byte("X"), Instruction{OpType: Num, Op: 1}))
	errc := d.setVar(pool, []byte("Y"), Instruction{OpType: Num, Op: 2})
	assert.Equal(t, TooManyVars, errc)
}

func TestDictionariesReset(t *testing.T) {
	pool := newStringPool(64)
	d := newDictionaries(nil, nil, 4, 4)

	ref, _ := pool.add([]byte("A"))
	_, errc := d.addWord(ref, 0)
	require.Equal(t, ErrCode(0), errc)
	require.Equal(t, ErrCode(0), d.setVar(pool, []byte("X"), Instruction{OpType: Num, Op: 1}))

	d.reset()
	assert.Equal(t, 0, d.words.Len())
	assert.Equal(t, 0, d.vars.Len())
}
