package docopt

import "strings"

// ArgTokKind discriminates the shapes the argv lexer recognizes. Unlike the
// usage tokenizer, the argv lexer does not know which short characters take
// an argument; like the Solver's stack expansion, that ambiguity is left for
// the Argument Parser to resolve against option descriptions.
type ArgTokKind uint8

const (
	ArgTokLong      ArgTokKind = iota // --name or --name=value
	ArgTokShortRun                   // -abc, -abc=value, or -fVALUE (undetermined split)
	ArgTokEOA                        // --
	ArgTokStdin                      // -
	ArgTokLiteral                    // positional/command word, or anything following --
)

// Token is one lexed argv word.
type Token struct {
	ID         int
	Kind       ArgTokKind
	Source     string
	Long       string
	LongValue  *string
	Run        []rune
	RunValue   *string
	Literal    string
}

// PositionedToken pairs a Token with its index in the original argv slice,
// used to report which argument a failure came from.
type PositionedToken struct {
	Token
	ArgvIndex int
}

// lexArgv tokenizes argv left to right. Once an EOA ("--") token has been
// emitted, every remaining word becomes a literal, even one that looks like
// an option, matching the conventional end-of-options behavior of getopt
// family parsers.
func lexArgv(argv []string) ([]PositionedToken, error) {
	var toks []PositionedToken
	id := 0
	afterEOA := false
	for i, word := range argv {
		var tok Token
		switch {
		case afterEOA:
			tok = Token{Kind: ArgTokLiteral, Source: word, Literal: word}
		case word == "--":
			tok = Token{Kind: ArgTokEOA, Source: word}
			afterEOA = true
		case word == "-":
			tok = Token{Kind: ArgTokStdin, Source: word}
		case strings.HasPrefix(word, "--"):
			t, ok := lexLongToken(word)
			if !ok {
				return nil, malformedInputError(i, word)
			}
			tok = t
		case strings.HasPrefix(word, "-") && len(word) > 1:
			tok = lexShortRunToken(word)
		default:
			tok = Token{Kind: ArgTokLiteral, Source: word, Literal: word}
		}
		tok.ID = id
		id++
		toks = append(toks, PositionedToken{Token: tok, ArgvIndex: i})
	}
	return toks, nil
}

func lexLongToken(word string) (Token, bool) {
	body := word[2:]
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		name := body[:idx]
		if name == "" {
			return Token{}, false
		}
		val := body[idx+1:]
		return Token{Kind: ArgTokLong, Source: word, Long: name, LongValue: &val}, true
	}
	if body == "" {
		return Token{}, false
	}
	return Token{Kind: ArgTokLong, Source: word, Long: body}, true
}

func lexShortRunToken(word string) Token {
	body := word[1:]
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		val := body[idx+1:]
		return Token{Kind: ArgTokShortRun, Source: word, Run: []rune(body[:idx]), RunValue: &val}
	}
	return Token{Kind: ArgTokShortRun, Source: word, Run: []rune(body)}
}
