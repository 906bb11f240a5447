package docopt

import "testing"

const navalFateHelp = `Naval Fate.

Usage:
  naval_fate ship new <name>...
  naval_fate ship move <name> <x> <y> [--speed=<kn>]
  naval_fate ship shoot <x> <y>
  naval_fate mine (set|remove) <x> <y> [--moored|--drifting]
  naval_fate -h | --help
  naval_fate --version

Options:
  -h --help     Show this screen.
  --version     Show version.
  --speed=<kn>  Speed in knots [default: 10].
  --moored      Moored (anchored) mine.
  --drifting    Drifting mine.
`

func TestParseSpecBranchCount(t *testing.T) {
	spec, err := parseSpec(navalFateHelp)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	if len(spec.Layouts) != 7 {
		t.Fatalf("got %d branches, want 7 (ship new/move/shoot, mine, -h, --help, --version)", len(spec.Layouts))
	}
	if len(spec.Descriptions) != 5 {
		t.Fatalf("got %d descriptions, want 5", len(spec.Descriptions))
	}
}

func TestParseSpecOptionDefault(t *testing.T) {
	spec, err := parseSpec(navalFateHelp)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	var speed *Description
	for i := range spec.Descriptions {
		if spec.Descriptions[i].hasAlias(LongAlias("speed")) {
			speed = &spec.Descriptions[i]
		}
	}
	if speed == nil {
		t.Fatal("no description found for --speed")
	}
	if speed.Default == nil || speed.Default.AsString() != "10" {
		t.Errorf("--speed default = %#v, want \"10\"", speed.Default)
	}
}

func TestParseSpecEnvTag(t *testing.T) {
	help := `Usage:
  prog [--host=<h>]

Options:
  --host=<h>  Server host [env: PROG_HOST] [default: localhost].
`
	spec, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	if len(spec.Descriptions) != 1 {
		t.Fatalf("got %d descriptions, want 1", len(spec.Descriptions))
	}
	d := spec.Descriptions[0]
	if d.Env != "PROG_HOST" {
		t.Errorf("Env = %q, want PROG_HOST", d.Env)
	}
	if d.Default == nil || d.Default.AsString() != "localhost" {
		t.Errorf("Default = %#v, want localhost", d.Default)
	}
}

func TestParseSpecGroupsAndAlternation(t *testing.T) {
	help := `Usage:
  prog (start|stop) [-v]

Options:
  -v  Verbose.
`
	spec, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	if len(spec.Layouts) != 1 {
		t.Fatalf("got %d branches, want 1", len(spec.Layouts))
	}
	branch := spec.Layouts[0]
	if len(branch) != 2 {
		t.Fatalf("got %d elements, want 2 (choice group, [-v] group)", len(branch))
	}
	if branch[0].Group == nil {
		t.Fatal("first element should be a group")
	}
	if len(branch[0].Group.Branches) != 2 {
		t.Errorf("got %d alternatives, want 2 (start, stop)", len(branch[0].Group.Branches))
	}
	opt := branch[1].Group
	if opt == nil || !opt.Optional || len(opt.Branches) != 1 || len(opt.Branches[0]) != 1 ||
		opt.Branches[0][0].Leaf == nil || opt.Branches[0][0].Leaf.Kind != UArgOptionStack {
		t.Errorf("second element = %#v, want an optional group holding one option stack leaf", branch[1])
	}
}

func TestParseSpecEllipsisMarksRepeatable(t *testing.T) {
	help := `Usage:
  prog <file>...
`
	spec, err := parseSpec(help)
	if err != nil {
		t.Fatalf("parseSpec error: %v", err)
	}
	leaf := spec.Layouts[0][0].Leaf
	if leaf == nil || !leaf.Repeatable {
		t.Fatalf("leaf = %#v, want a repeatable positional", leaf)
	}
}

func TestParseSpecNoUsageIsError(t *testing.T) {
	if _, err := parseSpec("no usage section here\n"); err == nil {
		t.Fatal("expected an error when there is no usage section")
	}
}
