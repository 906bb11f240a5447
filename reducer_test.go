package docopt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustReduce(t *testing.T, help string, opts *Options, argv []string) map[string]Value {
	t.Helper()
	pattern, args := mustPrepare(t, help, opts)
	toks, err := lexArgv(argv)
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	bindings, err := matchArgs(pattern, toks, opts)
	if err != nil {
		t.Fatalf("matchArgs error: %v", err)
	}
	values, _ := Reduce(args, bindings, opts)
	return values
}

func valuesEqual(a, b map[string]Value) bool {
	return cmp.Equal(a, b, cmp.Comparer(func(x, y Value) bool { return x.Equal(y) }))
}

func TestReduceCoercesBareFlagToBool(t *testing.T) {
	help := `Usage:
  prog [--verbose]

Options:
  --verbose  Be verbose.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"--verbose"})
	want := map[string]Value{"--verbose": BoolValue(true)}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceAbsentBareFlagIsFalse(t *testing.T) {
	help := `Usage:
  prog [--verbose]

Options:
  --verbose  Be verbose.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{})
	want := map[string]Value{"--verbose": BoolValue(false)}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceRepeatableBareFlagCountsOccurrences(t *testing.T) {
	help := `Usage:
  prog [-v]...

Options:
  -v  Verbose, may repeat.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"-v", "-v", "-v"})
	want := map[string]Value{"-v": IntValue(3)}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceAliasesAppearUnderEveryAlias(t *testing.T) {
	help := `Usage:
  prog [-v | --verbose]

Options:
  -v --verbose  Be loud.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"-v"})
	want := map[string]Value{"-v": BoolValue(true), "--verbose": BoolValue(true)}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceAliasesWithArgumentShareIdenticalValue(t *testing.T) {
	help := `Usage:
  prog [-h <name> | --host=<name>]

Options:
  -h --host=<name>  Server host.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"-h", "localhost"})
	want := map[string]Value{"-h": StringValue("localhost"), "--host": StringValue("localhost")}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceOptionWithArgumentPassesValueThrough(t *testing.T) {
	help := `Usage:
  prog --file=<f>

Options:
  --file=<f>  Input file.
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"--file=data.csv"})
	want := map[string]Value{"--file": StringValue("data.csv")}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceDefaultAppliesWhenArgvOmitsOption(t *testing.T) {
	help := `Usage:
  prog [--speed=<kn>]

Options:
  --speed=<kn>  Speed in knots [default: 10].
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{})
	want := map[string]Value{"--speed": StringValue("10")}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceArgvBeatsEnvironmentBeatsDefault(t *testing.T) {
	help := `Usage:
  prog [--host=<h>]

Options:
  --host=<h>  Server host [env: PROG_HOST] [default: localhost].
`
	opts := &Options{SmartOptions: true, Env: map[string]string{"PROG_HOST": "envhost"}}
	got := mustReduce(t, help, opts, []string{"--host=argvhost"})
	want := map[string]Value{"--host": StringValue("argvhost")}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}

	got = mustReduce(t, help, opts, []string{})
	want = map[string]Value{"--host": StringValue("envhost")}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}

func TestReduceRepeatablePositionalBecomesArray(t *testing.T) {
	help := `Usage:
  prog <name>...
`
	got := mustReduce(t, help, &Options{SmartOptions: true}, []string{"a", "b", "c"})
	want := map[string]Value{"<name>": ArrayValue(StringValue("a"), StringValue("b"), StringValue("c"))}
	if !valuesEqual(got, want) {
		t.Errorf("Reduce = %v, want %v\ndiff: %s", got, want, cmp.Diff(want, got))
	}
}
