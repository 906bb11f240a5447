/*
Package docopt turns a help text and an argument vector into a
map[string]Value, the way the program's own "usage:" text already promises
to a human reader.

A minimal program looks like this:

	package main

	import (
		"fmt"
		"github.com/cmdspec/docopt"
	)

	const usage = `
	Usage:
	  rocket launch <destination> [--speed=<kn>]
	  rocket land

	Options:
	  --speed=<kn>  Speed in knots [default: 10]
	`

	func main() {
		out, err := docopt.Run(usage, docopt.DefaultOptions())
		if err != nil {
			panic(err)
		}
		parsed := out.(*docopt.ParseOutput)
		if parsed.Values["launch"].AsBool() {
			fmt.Println("launching to", parsed.Values["<destination>"].AsString())
		}
	}

Run drives the whole pipeline: it scans the help text for a "usage:" section
and (optionally) one or more "...options:" description sections, parses the
usage grammar into a tree of commands, positionals, options and groups,
solves it against the option descriptions (expanding short-option stacks and
binding option arguments), lexes argv, matches argv against the solved usage
branches by backtracking, and reduces the result into a flat value map.

Help and version handling

Run recognizes opts.HelpFlags and opts.VersionFlags (by default "-h"/"--help"
and "--version") anywhere in argv, ahead of full matching, and returns a
*HelpOutput or *VersionOutput instead of parsing further. Unless
opts.DontExit is set, Run prints the corresponding text itself and calls
os.Exit, matching what most command-line tools built on a usage-text parser
already do; set DontExit to get the Result value back and handle output and
exit codes yourself.

Options

Options configures matching behavior that cannot be read off the usage text
alone: SmartOptions enables docopt's classic heuristic of slurping an
adjacent positional into an option's argument when usage writes them as
neighbors rather than joined by "="; RequireFlags, off by default, makes
options honor bracket-nesting the same as any other leaf instead of always
being optional; RepeatableOptions forces every option to accept repetition
regardless of a trailing "..."; AllowUnknown tolerates argv tokens that
match nothing; LaxPlacement loosens strict left-to-right ordering for
commands and positionals so they may be found past an intervening,
not-yet-claimed option token; StopAt names additional aliases (besides "--")
that, once matched, swallow every remaining token as that argument's value.
*/
package docopt
