package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	logo "github.com/tinylogo/tinylogo"
)

// runREPL drives an interactive session, compiling and running one line
// at a time against a persistent engine so TO definitions and variables
// from earlier lines stay live. A piped (non-terminal) stdin falls back
// to script mode instead.
func runREPL(debug bool) {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(int(fd)) {
		runScript(os.Stdin, debug)
		return
	}

	rl, err := newRawLineReader(int(fd))
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "entering raw terminal mode"))
		os.Exit(1)
	}
	defer rl.Close()

	eng := newDemoEngine(debug)
	fmt.Print("tinylogo REPL. Ctrl-D to exit.\r\n")
	for {
		line, eof, err := rl.readLine("> ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if line != "" {
			if errc := eng.Compile(line + "\n"); errc != 0 {
				fmt.Fprintln(os.Stderr, "compile error:", errc)
			} else if errc := eng.Run(); errc != 0 {
				fmt.Fprintln(os.Stderr, "runtime error:", errc)
			}
		}
		if eof {
			fmt.Print("\r\n")
			return
		}
	}
}

// rawLineReader reads one line at a time from a raw terminal, with basic
// backspace editing and Ctrl-C/Ctrl-D handling. Raw mode is needed
// because the host's canonical line discipline would otherwise buffer
// input until Enter regardless of what we do here.
type rawLineReader struct {
	fd    int
	state *term.State
}

func newRawLineReader(fd int) (*rawLineReader, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &rawLineReader{fd: fd, state: state}, nil
}

func (r *rawLineReader) Close() error {
	return term.Restore(r.fd, r.state)
}

// readLine blocks for one line of input, returning eof=true if the user
// pressed Ctrl-D or the stream otherwise ended.
func (r *rawLineReader) readLine(prompt string) (line string, eof bool, err error) {
	fmt.Print(prompt)
	var buf []byte
	one := make([]byte, 1)
	for {
		n, rerr := os.Stdin.Read(one)
		if n == 0 || rerr != nil {
			return string(buf), true, rerr
		}
		switch b := one[0]; b {
		case '\r', '\n':
			fmt.Print("\r\n")
			return string(buf), false, nil
		case 3: // Ctrl-C: discard the line and keep going
			return "", false, nil
		case 4: // Ctrl-D
			return string(buf), true, nil
		case 127, 8: // backspace / delete
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Print("\b \b")
			}
		default:
			buf = append(buf, b)
			os.Stdout.Write(one)
		}
	}
}
