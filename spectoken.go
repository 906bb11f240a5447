package docopt

import (
	"strings"
	"unicode"
)

// specTokKind discriminates the tokens produced by tokenizeUsage.
type specTokKind uint8

const (
	stLParen specTokKind = iota
	stRParen
	stLBrack
	stRBrack
	stPipe
	stEllipsis
	stWord
	stEOF
)

type specTok struct {
	Kind specTokKind
	Text string
	Pos  int
}

// tokenizeUsage scans a single usage expression (the whole usage section
// after Program/"or:" lines have been joined with "|", see joinUsageLines)
// into a flat token stream. Unlike the argv lexer, it never fails: an
// invalid rune run is simply swallowed into the surrounding word,
// since the usage grammar has no notion of an unlexable character — the
// Spec Parser is responsible for rejecting shapes it cannot make sense of.
func tokenizeUsage(s string) []specTok {
	var toks []specTok
	runes := []rune(s)
	n := len(runes)
	i := 0
	for i < n {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, specTok{Kind: stLParen, Text: "(", Pos: i})
			i++
		case r == ')':
			toks = append(toks, specTok{Kind: stRParen, Text: ")", Pos: i})
			i++
		case r == '[':
			toks = append(toks, specTok{Kind: stLBrack, Text: "[", Pos: i})
			i++
		case r == ']':
			toks = append(toks, specTok{Kind: stRBrack, Text: "]", Pos: i})
			i++
		case r == '|':
			toks = append(toks, specTok{Kind: stPipe, Text: "|", Pos: i})
			i++
		case startsEllipsis(runes, i):
			toks = append(toks, specTok{Kind: stEllipsis, Text: "...", Pos: i})
			i += 3
		default:
			start := i
			var b strings.Builder
			for i < n && !unicode.IsSpace(runes[i]) && !isUsagePunct(runes[i]) && !startsEllipsis(runes, i) {
				b.WriteRune(runes[i])
				i++
			}
			toks = append(toks, specTok{Kind: stWord, Text: b.String(), Pos: start})
		}
	}
	toks = append(toks, specTok{Kind: stEOF, Pos: n})
	return toks
}

func isUsagePunct(r rune) bool {
	return r == '(' || r == ')' || r == '[' || r == ']' || r == '|'
}

func startsEllipsis(runes []rune, i int) bool {
	return i+3 <= len(runes) && runes[i] == '.' && runes[i+1] == '.' && runes[i+2] == '.'
}
