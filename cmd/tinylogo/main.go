// Command tinylogo runs Logo programs against the tinylogo engine: as a
// one-shot script (tinylogo run FILE, or piped on stdin) or as an
// interactive REPL (tinylogo repl), wiring a handful of demo builtins
// (ON, OFF, PRINT, WAIT) to stdout and a real clock.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	logo "github.com/tinylogo/tinylogo"
)

func main() {
	var debug bool
	flag.BoolVar(&debug, "debug", false, "dump engine state after running")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			runREPL(debug)
			return
		}
		runScript(os.Stdin, debug)
		return
	}

	switch args[0] {
	case "repl":
		runREPL(debug)
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: tinylogo run FILE")
			os.Exit(2)
		}
		f, err := os.Open(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrapf(err, "loading %s", args[1]))
			os.Exit(1)
		}
		defer f.Close()
		runScript(f, debug)
	default:
		fmt.Fprintln(os.Stderr, "usage: tinylogo [run FILE|repl]")
		os.Exit(2)
	}
}

func newDemoEngine(debug bool) *logo.Engine {
	host := []logo.BuiltinWord{
		{Name: "ON", Arity: 0, Fn: func(eng *logo.Engine) {
			fmt.Println("LED ON")
		}},
		{Name: "OFF", Arity: 0, Fn: func(eng *logo.Engine) {
			fmt.Println("LED OFF")
		}},
		{Name: "PRINT", Arity: 1, Fn: func(eng *logo.Engine) {
			buf := make([]byte, logo.DefaultLineLen)
			n := eng.PopString(buf)
			fmt.Println(string(buf[:n]))
		}},
		logo.NewWaitBuiltin(),
	}

	eng := logo.New(host,
		logo.WithClock(logo.RealClock{}, logo.RealScheduler{}),
		logo.WithLogf(func(mark, mess string, args ...interface{}) {
			if debug {
				fmt.Fprintf(os.Stderr, "[%s] "+mess+"\n", append([]interface{}{mark}, args...)...)
			}
		}),
	)
	eng.SetDebug(debug)
	return eng
}

func runScript(r io.Reader, debug bool) {
	eng := newDemoEngine(debug)

	src, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "reading source"))
		os.Exit(1)
	}
	if errc := eng.Compile(string(src)); errc != 0 {
		fmt.Fprintln(os.Stderr, "compile error:", errc)
		os.Exit(1)
	}
	if errc := eng.Run(); errc != 0 {
		fmt.Fprintln(os.Stderr, "runtime error:", errc)
		os.Exit(1)
	}
	if debug {
		eng.Dump(os.Stderr)
	}
}
