package logo

import "github.com/tinylogo/tinylogo/internal/mem"

// BuiltinWord is a native action registered by the host (category
// CategoryHost) or provided by this package's core words (category
// CategoryCore). Fn receives the engine so it can pop its Arity arguments
// and push a result.
type BuiltinWord struct {
	Name  string
	Fn    func(eng *Engine)
	Arity int
}

// userWord is a defined Logo procedure: TO NAME ... END, or a desugared
// [ ... ] sentence.
type userWord struct {
	Name StringRef
	Jump int
}

// variable is a named, reassignable value. Its Value is stored as a full
// Instruction so a variable can transitively hold anything pushable (a
// Num today; the slot shape allows more later without a schema change).
type variable struct {
	Name  StringRef
	Value Instruction
}

// dictionaries bundles the three name -> entry tables (host builtins, core
// builtins, user words) plus the variable table. All lookups are linear:
// by design these tables stay small (MaxWords, MaxVars), so a linear scan
// is both simpler and cheaper than hashing for a handful of entries.
type dictionaries struct {
	host []BuiltinWord
	core []BuiltinWord

	words *mem.Arena[userWord]
	vars  *mem.Arena[variable]
}

func newDictionaries(host, core []BuiltinWord, maxWords, maxVars int) *dictionaries {
	return &dictionaries{
		host:  host,
		core:  core,
		words: mem.NewArena[userWord](maxWords),
		vars:  mem.NewArena[variable](maxVars),
	}
}

// findBuiltin looks up name in the host table first, then the core table.
// category reports which table matched (CategoryHost or CategoryCore).
func (d *dictionaries) findBuiltin(name string) (index, category int, ok bool) {
	for i := range d.host {
		if d.host[i].Name == name {
			return i, CategoryHost, true
		}
	}
	for i := range d.core {
		if d.core[i].Name == name {
			return i, CategoryCore, true
		}
	}
	return -1, 0, false
}

// builtin resolves a Builtin instruction back to the BuiltinWord it names.
func (d *dictionaries) builtin(entry Instruction) *BuiltinWord {
	switch entry.Opand {
	case CategoryHost:
		if entry.Op >= 0 && entry.Op < len(d.host) {
			return &d.host[entry.Op]
		}
	case CategoryCore:
		if entry.Op >= 0 && entry.Op < len(d.core) {
			return &d.core[entry.Op]
		}
	}
	return nil
}

func (d *dictionaries) findWord(pool *stringPool, name string) (int, bool) {
	for i := 0; i < d.words.Len(); i++ {
		w, _ := d.words.At(i)
		if pool.str(w.Name) == name {
			return i, true
		}
	}
	return -1, false
}

func (d *dictionaries) word(i int) (userWord, bool) {
	return d.words.At(i)
}

func (d *dictionaries) addWord(name StringRef, jump int) (int, ErrCode) {
	off, err := d.words.Append(userWord{Name: name, Jump: jump})
	if err != nil {
		return -1, TooManyWords
	}
	return off, 0
}

func (d *dictionaries) findVar(pool *stringPool, name string) (int, bool) {
	for i := 0; i < d.vars.Len(); i++ {
		v, _ := d.vars.At(i)
		if pool.str(v.Name) == name {
			return i, true
		}
	}
	return -1, false
}

func (d *dictionaries) variable(i int) (variable, bool) {
	return d.vars.At(i)
}

// setVar assigns name := value, updating the variable in place if it
// already exists, or defining a new one (subject to MaxVars) otherwise.
func (d *dictionaries) setVar(pool *stringPool, name []byte, value Instruction) ErrCode {
	if i, ok := d.findVar(pool, string(name)); ok {
		// overwrite in place: rebuild the arena slot via its backing slice.
		if v, ok := d.vars.At(i); ok {
			v.Value = value
			d.overwriteVar(i, v)
		}
		return 0
	}

	ref, errc := pool.add(name)
	if errc != 0 {
		return errc
	}
	if _, err := d.vars.Append(variable{Name: ref, Value: value}); err != nil {
		return TooManyVars
	}
	return 0
}

// overwriteVar mutates an already-appended variable slot in place. This is
// the one place the dictionary writes through an existing arena offset
// rather than appending: MAKE reassigning an existing variable must not
// grow the table or invalidate other variables' indices.
func (d *dictionaries) overwriteVar(i int, v variable) {
	if s := d.vars.Slice(i, 1); len(s) == 1 {
		s[0] = v
	}
}

func (d *dictionaries) reset() {
	d.words.Reset()
	d.vars.Reset()
}
