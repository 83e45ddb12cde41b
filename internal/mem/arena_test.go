package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAppendAndSlice(t *testing.T) {
	a := NewArena[byte](8)

	off, err := a.Append('h', 'i')
	require.NoError(t, err)
	assert.Equal(t, 0, off)
	assert.Equal(t, 2, a.Len())

	off2, err := a.Append('!', '!')
	require.NoError(t, err)
	assert.Equal(t, 2, off2)

	assert.Equal(t, []byte("hi!!"), a.Slice(0, 4))
	assert.Equal(t, []byte("i!"), a.Slice(1, 2))
}

func TestArenaOverflow(t *testing.T) {
	a := NewArena[int](3)

	_, err := a.Append(1, 2, 3)
	require.NoError(t, err)

	_, err = a.Append(4)
	require.Error(t, err)
	var overflow OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 1, overflow.Requested)
	assert.Equal(t, 0, overflow.Available)

	// a failed append must not have mutated state.
	assert.Equal(t, 3, a.Len())
}

func TestArenaOffsetsStableAcrossAppends(t *testing.T) {
	a := NewArena[int](4)

	off1, err := a.Append(10)
	require.NoError(t, err)
	_, err = a.Append(20, 30)
	require.NoError(t, err)

	v, ok := a.At(off1)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestArenaReset(t *testing.T) {
	a := NewArena[int](2)
	_, err := a.Append(1, 2)
	require.NoError(t, err)

	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 2, a.Cap())

	off, err := a.Append(9)
	require.NoError(t, err)
	assert.Equal(t, 0, off)
}
