package docopt

import "testing"

func mustSolve(t *testing.T, help string, smart bool) *Spec[SolvedLayoutArg] {
	t.Helper()
	unsolved, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	spec, err := solve(unsolved, smart)
	if err != nil {
		t.Fatalf("solve error: %v", err)
	}
	return spec
}

func TestSolveExpandsStackOfPlainFlags(t *testing.T) {
	help := `Usage:
  prog -abc

Options:
  -a  A.
  -b  B.
  -c  C.
`
	spec := mustSolve(t, help, true)
	branch := spec.Layouts[0]
	if len(branch) != 3 {
		t.Fatalf("got %d leaves, want 3 (a, b, c)", len(branch))
	}
	for i, want := range []rune{'a', 'b', 'c'} {
		leaf := branch[i].Leaf
		if leaf == nil || leaf.Kind != SArgOption || leaf.Alias != ShortAlias(want) {
			t.Errorf("leaf %d = %#v, want option -%c", i, leaf, want)
		}
	}
}

func TestSolveStackSubsumption(t *testing.T) {
	help := `Usage:
  prog -abcdFILE

Options:
  -a  A.
  -b  B.
  -c  C.
  -d=<file>  D takes a file.
`
	spec := mustSolve(t, help, true)
	branch := spec.Layouts[0]
	if len(branch) != 4 {
		t.Fatalf("got %d leaves, want 4 (a, b, c, d=FILE)", len(branch))
	}
	last := branch[3].Leaf
	if last == nil || last.Alias != ShortAlias('d') || last.OptArg == nil || placeholderName(last.OptArg.Name) != "FILE" {
		t.Errorf("last leaf = %#v, want -d bound to FILE via subsumption", last)
	}
}

func TestSolveSlurpAdjacentPositional(t *testing.T) {
	help := `Usage:
  prog -f FILE

Options:
  -f <file>  Input file.
`
	spec := mustSolve(t, help, true)
	branch := spec.Layouts[0]
	if len(branch) != 1 {
		t.Fatalf("got %d leaves, want 1 (the adjacent positional should be slurped)", len(branch))
	}
	leaf := branch[0].Leaf
	if leaf == nil || leaf.OptArg == nil || placeholderName(leaf.OptArg.Name) != "FILE" {
		t.Errorf("leaf = %#v, want -f bound to FILE via slurp-adjacent", leaf)
	}
}

func TestSolveSlurpAdjacentDisabledWithoutSmartOptions(t *testing.T) {
	help := `Usage:
  prog -f FILE

Options:
  -f <file>  Input file.
`
	unsolved, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	if _, err := solve(unsolved, false); err == nil {
		t.Fatal("expected a solveError: -f requires an argument but smartOptions is off")
	}
}

func TestSolveOptionsReference(t *testing.T) {
	help := `Usage:
  prog [options] <name>

Options:
  -v --verbose  Be verbose.
  -f --file=<f>  A file.
`
	spec := mustSolve(t, help, true)
	branch := spec.Layouts[0]
	if len(branch) != 2 {
		t.Fatalf("got %d elements, want 2 (the inlined [options] group, <name>)", len(branch))
	}
	if branch[0].Group == nil || !branch[0].Group.Optional || !branch[0].Group.Repeatable {
		t.Errorf("first element = %#v, want an optional repeatable group", branch[0])
	}
	if len(branch[0].Group.Branches) != 2 {
		t.Errorf("got %d option branches, want 2", len(branch[0].Group.Branches))
	}
}

func TestSolveStackSubsumptionMismatchIsError(t *testing.T) {
	help := `Usage:
  prog -abXYZ

Options:
  -a  A.
  -b=<file>  B takes a file.
`
	unsolved, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	if _, err := solve(unsolved, true); err == nil {
		t.Fatal("expected a solveError: XYZ does not spell the placeholder FILE")
	}
}
