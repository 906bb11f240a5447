package docopt

import "testing"

func TestLexArgvLiteralAndLong(t *testing.T) {
	toks, err := lexArgv([]string{"ship", "--speed=10", "--verbose"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	if toks[0].Kind != ArgTokLiteral || toks[0].Literal != "ship" {
		t.Errorf("token 0 = %#v", toks[0])
	}
	if toks[1].Kind != ArgTokLong || toks[1].Long != "speed" || toks[1].LongValue == nil || *toks[1].LongValue != "10" {
		t.Errorf("token 1 = %#v", toks[1])
	}
	if toks[2].Kind != ArgTokLong || toks[2].Long != "verbose" || toks[2].LongValue != nil {
		t.Errorf("token 2 = %#v", toks[2])
	}
}

func TestLexArgvShortRun(t *testing.T) {
	toks, err := lexArgv([]string{"-abc"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	if toks[0].Kind != ArgTokShortRun || string(toks[0].Run) != "abc" || toks[0].RunValue != nil {
		t.Errorf("token = %#v", toks[0])
	}
}

func TestLexArgvShortRunWithExplicitValue(t *testing.T) {
	toks, err := lexArgv([]string{"-f=path.txt"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	if toks[0].Kind != ArgTokShortRun || string(toks[0].Run) != "f" || toks[0].RunValue == nil || *toks[0].RunValue != "path.txt" {
		t.Errorf("token = %#v", toks[0])
	}
}

func TestLexArgvStdinAndEOA(t *testing.T) {
	toks, err := lexArgv([]string{"-", "--"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	if toks[0].Kind != ArgTokStdin {
		t.Errorf("token 0 = %#v, want Stdin", toks[0])
	}
	if toks[1].Kind != ArgTokEOA {
		t.Errorf("token 1 = %#v, want EOA", toks[1])
	}
}

func TestLexArgvAfterEOAEverythingIsLiteral(t *testing.T) {
	toks, err := lexArgv([]string{"--", "-v", "--flag", "-"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	for i := 1; i < len(toks); i++ {
		if toks[i].Kind != ArgTokLiteral {
			t.Errorf("token %d = %#v, want Literal (everything after -- is literal)", i, toks[i])
		}
	}
}

func TestLexArgvMonotonicIDs(t *testing.T) {
	toks, err := lexArgv([]string{"a", "-b", "--c"})
	if err != nil {
		t.Fatalf("lexArgv error: %v", err)
	}
	for i, tok := range toks {
		if tok.ID != i {
			t.Errorf("token %d has ID %d, want %d", i, tok.ID, i)
		}
		if tok.ArgvIndex != i {
			t.Errorf("token %d has ArgvIndex %d, want %d", i, tok.ArgvIndex, i)
		}
	}
}

func TestLexArgvEmptyLongNameIsMalformed(t *testing.T) {
	if _, err := lexArgv([]string{"--=value"}); err == nil {
		t.Fatal("expected malformedInputError for an empty long option name")
	} else if ape, ok := err.(*ArgParseError); !ok || ape.Kind != ArgParseMalformedInput {
		t.Errorf("error = %#v, want a malformed-input ArgParseError", err)
	}
}
