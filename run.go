package docopt

import (
	"fmt"
	"os"
)

// Options configures a single Run call. There is no functional-option
// constructor chain here: Options is a plain struct, and DefaultOptions
// returns the zero-ish baseline a caller is expected to start from and
// adjust field by field.
type Options struct {
	Argv []string
	Env  map[string]string

	OptionsFirst       bool
	SmartOptions       bool
	RequireFlags       bool
	LaxPlacement       bool
	RepeatableOptions  bool
	AllowUnknown       bool
	StopAt             []string

	HelpFlags    []string
	VersionFlags []string
	Version      string
	DontExit     bool
}

// DefaultOptions returns the conventional baseline: smart option-argument
// slurping on, everything else off, "-h"/"--help" and "--version" wired up,
// and os.Args[1:] as the argument vector.
func DefaultOptions() *Options {
	return &Options{
		Argv:         os.Args[1:],
		SmartOptions: true,
		HelpFlags:    []string{"-h", "--help"},
		VersionFlags: []string{"--version"},
	}
}

// ParseOutput is returned when argv matched a usage branch.
type ParseOutput struct {
	Values map[string]Value
	Rich   map[string]RichValue
}

// HelpOutput is returned when a help flag fired.
type HelpOutput struct {
	Text string
}

// VersionOutput is returned when a version flag fired.
type VersionOutput struct {
	Text string
}

// Result is implemented by ParseOutput, HelpOutput and VersionOutput.
type Result interface {
	isResult()
}

func (*ParseOutput) isResult()   {}
func (*HelpOutput) isResult()    {}
func (*VersionOutput) isResult() {}

// Run compiles helpText and matches opts.Argv against it, in full: Scanner,
// Spec Lexer/Parser, Solver, argv Lexer, Argument Parser, then Reducer. A
// help or version flag found anywhere in argv short-circuits the rest of
// the pipeline. Unless opts.DontExit is set, Run prints and calls os.Exit
// itself on help, version, and parse failure, the way the reference CLI
// tools in this ecosystem behave; set DontExit to get the Result/error back
// instead.
func Run(helpText string, opts *Options) (Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if flag := firstMatchingFlag(opts.Argv, opts.HelpFlags); flag != "" {
		spec, err := parseSpec(helpText)
		if err != nil {
			return nil, err
		}
		out := &HelpOutput{Text: spec.Help()}
		if !opts.DontExit {
			fmt.Print(out.Text)
			os.Exit(0)
		}
		return out, nil
	}
	if flag := firstMatchingFlag(opts.Argv, opts.VersionFlags); flag != "" {
		if opts.Version == "" {
			return nil, &VersionMissingError{}
		}
		out := &VersionOutput{Text: opts.Version}
		if !opts.DontExit {
			fmt.Println(out.Text)
			os.Exit(0)
		}
		return out, nil
	}

	spec, pattern, args, err := compile(helpText, opts)
	if err != nil {
		if !opts.DontExit {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(64)
		}
		return nil, err
	}

	toks, err := lexArgv(opts.Argv)
	if err != nil {
		if !opts.DontExit {
			fmt.Fprintln(os.Stderr, spec.Usage())
			os.Exit(1)
		}
		return nil, err
	}

	bindings, err := matchArgs(pattern, toks, opts)
	if err != nil {
		if !opts.DontExit {
			fmt.Fprintln(os.Stderr, spec.Usage())
			os.Exit(1)
		}
		return nil, err
	}

	values, rich := Reduce(args, bindings, opts)
	return &ParseOutput{Values: values, Rich: rich}, nil
}

// Validate compiles helpText without matching any argv, the check a caller
// runs at startup (or in a test) to confirm a help text is well-formed
// before it is ever handed real arguments.
func Validate(helpText string) error {
	_, _, _, err := compile(helpText, DefaultOptions())
	return err
}

// compile runs the Scanner, Spec Lexer/Parser, Solver and Arg-preparation
// stages, stopping short of the Argument Parser.
func compile(helpText string, opts *Options) (*Spec[SolvedLayoutArg], *Pattern, []*Arg, error) {
	unsolved, err := parseSpec(helpText)
	if err != nil {
		return nil, nil, nil, err
	}
	spec, err := solve(unsolved, opts.SmartOptions)
	if err != nil {
		return nil, nil, nil, err
	}
	pattern, args, err := prepare(spec, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return spec, pattern, args, nil
}

func firstMatchingFlag(argv []string, flags []string) string {
	for _, a := range argv {
		for _, f := range flags {
			if a == f {
				return f
			}
		}
	}
	return ""
}
