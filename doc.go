/*
Package logo implements a tiny Logo interpreter meant to be embedded on
resource-constrained hosts (microcontrollers with kilobytes of RAM). A host
registers native actions as builtin words ("ON", "OFF", "WAIT", ...), feeds
it source text incrementally, and drives execution one Step at a time so its
own main loop stays cooperative.

Use it like this:

	func ledOn(eng *logo.Engine)  { ... turn a LED on }
	func ledOff(eng *logo.Engine) { ... turn an LED off }
	func wait(eng *logo.Engine) {
		ms := eng.PopInt()
		... schedule a wakeup ms from now, non-blocking
	}

	eng := logo.New([]logo.BuiltinWord{
		{Name: "ON", Fn: ledOn},
		{Name: "OFF", Fn: ledOff},
		{Name: "WAIT", Fn: wait, Arity: 1},
	})
	eng.Compile("TO GO; FOREVER [ON WAIT 100 OFF WAIT 1000]; END;")

	... then on some trigger
	eng.Compile("GO")
	if err := eng.GetErr(); err != 0 {
		... do something with the error
	}

	... and to run it, call this pretty often
	if err := eng.Step(); err != 0 && err != logo.Stop {
		... do something with the error
	}

	... or just run it till it stops (the example above never does)
	if err := eng.Run(); err != 0 {
		... do something with the error
	}

	... at any time you can start from the top again with
	eng.Restart()

	... or completely reset the machine's code
	eng.Reset()

The interpreter targets AVR-class hardware: no floats, no general
expression grammar, argument count is driven entirely by builtin arity.
Every backing array is sized once, in New, and never grows again, even
though this package uses ordinary Go types (structs, a typed error, slices
fixed at construction time) rather than raw arrays and short ints.
Compiling source text, and MAKE's name buffer, still make short-lived Go
allocations outside those arrays.
*/
package logo
