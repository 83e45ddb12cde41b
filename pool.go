package logo

import (
	"github.com/tinylogo/tinylogo/internal/mem"
)

// StringRef addresses a run of bytes in a StringPool by offset and length.
// Offsets are never invalidated: the pool is append-only and never
// compacts or moves existing bytes.
type StringRef struct {
	Off int
	Len int
}

// stringPool is the append-only byte arena backing every identifier, word
// name, and literal string string the compiler emits.
type stringPool struct {
	arena *mem.Arena[byte]
}

func newStringPool(size int) *stringPool {
	return &stringPool{arena: mem.NewArena[byte](size)}
}

// add appends s to the pool, returning the StringRef it was written at.
// Fails with OutOfStrings if the pool's fixed capacity is exhausted.
func (p *stringPool) add(s []byte) (StringRef, ErrCode) {
	off, err := p.arena.Append(s...)
	if err != nil {
		return StringRef{}, OutOfStrings
	}
	return StringRef{Off: off, Len: len(s)}, 0
}

// get copies up to len(buf) bytes of the string at ref into buf, returning
// the number of bytes written (the lesser of len(buf) and ref.Len).
func (p *stringPool) get(ref StringRef, buf []byte) int {
	src := p.arena.Slice(ref.Off, ref.Len)
	n := copy(buf, src)
	return n
}

// bytes returns the pool's view of ref without copying; callers must
// treat the result as read-only since the pool's backing array is never
// reallocated but its appended tail will keep growing.
func (p *stringPool) bytes(ref StringRef) []byte {
	return p.arena.Slice(ref.Off, ref.Len)
}

// str is a convenience wrapper returning ref's bytes as a string.
func (p *stringPool) str(ref StringRef) string {
	return string(p.bytes(ref))
}

func (p *stringPool) reset() { p.arena.Reset() }
