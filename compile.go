package logo

import (
	"fmt"
	"strings"
)

// Compile appends text to the program. It is safe to call repeatedly: a
// TO definition left open at the end of one call is still open at the
// start of the next, and words/variables/strings compiled so far remain
// intact. A compile-time failure parks an Err instruction in the store
// and returns its code; the caller may still inspect what compiled before
// the failure.
func (eng *Engine) Compile(text string) ErrCode {
	pos := 0
	for pos < len(text) {
		for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
			pos++
		}
		lineStart := pos
		for pos < len(text) && text[pos] != ';' && text[pos] != '\n' {
			pos++
		}
		line := text[lineStart:pos]
		if pos < len(text) {
			pos++ // consume the terminator
		}

		if len(line) > eng.caps.LineLen {
			eng.park(LineTooLong)
			return LineTooLong
		}
		if len(line) == 0 {
			continue
		}
		if errc := eng.compileLine(line); errc != 0 {
			return errc
		}
	}
	return 0
}

// compileLine desugars any [ ... ] sentences in line, then tokenizes and
// compiles what's left, dispatching TO/END at the top level.
func (eng *Engine) compileLine(line string) ErrCode {
	line, errc := eng.desugarSentences(line)
	if errc != 0 {
		return errc
	}
	toks, errc := eng.tokens(line)
	if errc != 0 {
		return errc
	}
	for _, tok := range toks {
		if errc := eng.compileTopToken(tok); errc != 0 {
			return errc
		}
	}
	return 0
}

// compileTopToken runs the TO ... END state machine: outside a
// definition, tokens compile straight into the main region; TO opens one
// (the following token becomes the word's name); inside one, tokens
// compile into the jump region until END closes it.
func (eng *Engine) compileTopToken(tok string) ErrCode {
	if !eng.inWord {
		if tok == "TO" {
			eng.inWord = true
			eng.definingSet = false
			eng.wordJumpSet = false
			return 0
		}
		return eng.compileWord(&eng.store.nextcode, tok, 0)
	}

	if !eng.definingSet {
		ref, errc := eng.pool.add([]byte(tok))
		if errc != 0 {
			eng.park(errc)
			return errc
		}
		eng.defining = ref
		eng.definingSet = true
		return 0
	}

	if !eng.wordJumpSet {
		// the body starts at its first token, after any sentence bodies
		// this line's [ ... ] desugaring already put in the jump region.
		eng.wordJump = eng.store.nextj
		eng.wordJumpSet = true
	}

	if tok == "END" {
		if errc := eng.emit(&eng.store.nextj, Instruction{OpType: Return}); errc != 0 {
			return errc
		}
		if _, errc := eng.dict.addWord(eng.defining, eng.wordJump); errc != 0 {
			eng.park(errc)
			return errc
		}
		eng.inWord = false
		eng.definingSet = false
		eng.wordJumpSet = false
		return 0
	}

	return eng.compileWord(&eng.store.nextj, tok, 0)
}

// desugarSentences replaces every [ ... ] in line with a synthesized word
// name &N, compiling the bracketed contents as a word body in the jump
// region and registering &N -> jump_pc. Iterates until no brackets
// remain; an unmatched [ fails with WordNotFound.
func (eng *Engine) desugarSentences(line string) (string, ErrCode) {
	for {
		start := strings.IndexByte(line, '[')
		if start < 0 {
			return line, 0
		}
		rel := strings.IndexByte(line[start:], ']')
		if rel < 0 {
			eng.park(WordNotFound)
			return line, WordNotFound
		}
		end := start + rel

		name := fmt.Sprintf("&%d", eng.sentenceNum)
		eng.sentenceNum++

		jump := eng.store.nextj
		if errc := eng.compileWordBody(line[start+1:end], &eng.store.nextj); errc != 0 {
			return line, errc
		}

		ref, errc := eng.pool.add([]byte(name))
		if errc != 0 {
			eng.park(errc)
			return line, errc
		}
		if _, errc := eng.dict.addWord(ref, jump); errc != 0 {
			eng.park(errc)
			return line, errc
		}

		line = line[:start] + name + line[end+1:]
	}
}

// compileWordBody tokenizes body and compiles each token into *next via
// compileWord, finishing with an implicit Return. desugarSentences uses it
// for [ ... ] sentence bodies (target: nextj); TO ... END bodies are
// compiled token by token through compileTopToken instead.
func (eng *Engine) compileWordBody(body string, next *int) ErrCode {
	toks, errc := eng.tokens(body)
	if errc != 0 {
		return errc
	}
	for _, tok := range toks {
		if errc := eng.compileWord(next, tok, 0); errc != 0 {
			return errc
		}
	}
	return eng.emit(next, Instruction{OpType: Return})
}

// tokens splits s on whitespace, failing with WordTooLong if any token
// exceeds the configured WordLen.
func (eng *Engine) tokens(s string) ([]string, ErrCode) {
	toks := strings.Fields(s)
	for _, t := range toks {
		if len(t) > eng.caps.WordLen {
			eng.park(WordTooLong)
			return nil, WordTooLong
		}
	}
	return toks, 0
}

// compileWord resolves word against host builtins, then core builtins,
// then user words, emitting a Builtin or Word instruction on a match. A
// token beginning with "!" instead plants Err(op) directly — the
// mechanism park uses to surface a compile-time failure at a known
// cursor. Anything else falls through to parseWord.
func (eng *Engine) compileWord(next *int, word string, op int) ErrCode {
	if strings.HasPrefix(word, "!") {
		return eng.emit(next, Instruction{OpType: Err, Op: op})
	}
	if idx, cat, ok := eng.dict.findBuiltin(word); ok {
		return eng.emit(next, Instruction{OpType: Builtin, Op: idx, Opand: cat})
	}
	if idx, ok := eng.dict.findWord(eng.pool, word); ok {
		return eng.emit(next, Instruction{OpType: Word, Op: idx})
	}
	instr, errc := eng.parseWord(word)
	if errc != 0 {
		eng.park(errc)
		return errc
	}
	return eng.emit(next, instr)
}

// parseWord classifies a token that named neither a builtin nor a user
// word: :name is a variable reference, an all-digit token is a number, a
// leading " marks a quoted string literal (the quote itself stripped),
// and anything else is an unquoted string literal.
func (eng *Engine) parseWord(token string) (Instruction, ErrCode) {
	switch {
	case strings.HasPrefix(token, ":"):
		ref, errc := eng.pool.add([]byte(token[1:]))
		if errc != 0 {
			return Instruction{}, errc
		}
		return Instruction{OpType: Ref, Op: ref.Off, Opand: ref.Len}, 0

	case isAllDigits(token):
		return Instruction{OpType: Num, Op: atoiLoose(token)}, 0

	case strings.HasPrefix(token, "\""):
		ref, errc := eng.pool.add([]byte(token[1:]))
		if errc != 0 {
			return Instruction{}, errc
		}
		return Instruction{OpType: String, Op: ref.Off, Opand: ref.Len}, 0

	default:
		ref, errc := eng.pool.add([]byte(token))
		if errc != 0 {
			return Instruction{}, errc
		}
		return Instruction{OpType: String, Op: ref.Off, Opand: ref.Len}, 0
	}
}

// emit writes instr at *next and advances it, unless the target region is
// full: then it resets *next to 0 and plants OutOfCode at index 0 instead,
// giving a debug dump a predictable anchor.
func (eng *Engine) emit(next *int, instr Instruction) ErrCode {
	limit := eng.store.len()
	if next == &eng.store.nextcode {
		limit = eng.store.startj
	}
	if *next >= limit {
		*next = 0
		eng.store.set(0, Instruction{OpType: Err, Op: int(OutOfCode)})
		return OutOfCode
	}
	eng.store.set(*next, instr)
	*next++
	return 0
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
