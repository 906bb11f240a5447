package docopt

import (
	"regexp"
	"strings"
)

// parseSpec runs the Scanner then the Spec Lexer/Parser, producing an
// unsolved Spec(UsageLayoutArg). It does not run the Solver.
func parseSpec(helpText string) (*Spec[UsageLayoutArg], error) {
	sres, err := scan(helpText)
	if err != nil {
		return nil, err
	}
	joined := joinUsageLines(sres.Program, sres.UsageBlock)
	branches, err := parseUsageExpr(joined)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, specParseError(-1, "usage section has no branches")
	}

	var descs []Description
	for _, block := range sres.DescriptionBlocks {
		for _, entry := range splitDescriptionEntries(block) {
			d, err := parseDescriptionEntry(entry)
			if err != nil {
				return nil, err
			}
			descs = append(descs, d)
		}
	}

	return &Spec[UsageLayoutArg]{
		Program:      sres.Program,
		Layouts:      branches,
		Descriptions: descs,
		HelpText:     helpText,
		ShortHelp:    sres.ShortUsage,
	}, nil
}

// joinUsageLines turns the multi-line usage block into one expression
// string where every alternative ("usage:" line, "or:" line, or line
// re-starting with the program name) is joined by "|", so a single
// recursive-descent pass over parseUsageExpr handles both inline "|" and
// cross-line alternation uniformly.
func joinUsageLines(program, usageBlock string) string {
	var branches []string
	var cur strings.Builder
	started := false
	flush := func() {
		if started {
			branches = append(branches, cur.String())
		}
		cur.Reset()
	}
	for _, raw := range strings.Split(usageBlock, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "usage:"):
			flush()
			cur.WriteString(stripLeadingProgram(strings.TrimSpace(line[len("usage:"):]), program))
			started = strings.TrimSpace(line[len("usage:"):]) != ""
		case strings.HasPrefix(lower, "or:"):
			flush()
			cur.WriteString(stripLeadingProgram(strings.TrimSpace(line[len("or:"):]), program))
			started = strings.TrimSpace(line[len("or:"):]) != ""
		case startsWithWord(line, program):
			flush()
			cur.WriteString(stripLeadingProgram(line, program))
			started = true
		case started:
			cur.WriteString(" ")
			cur.WriteString(line)
		}
	}
	flush()
	return strings.Join(branches, " | ")
}

func startsWithWord(line, word string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == word
}

func stripLeadingProgram(line, program string) string {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == program {
		return strings.Join(fields[1:], " ")
	}
	return line
}

// parseUsageExpr tokenizes and parses one joined usage expression into the
// top-level disjunction of branches.
func parseUsageExpr(s string) ([]UsageBranch, error) {
	p := &usageParser{toks: tokenizeUsage(s)}
	branches, err := p.parseAlternation(false)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != stEOF {
		return nil, specParseError(p.cur().Pos, "unexpected token %q in usage", p.cur().Text)
	}
	return branches, nil
}

type usageParser struct {
	toks []specTok
	pos  int
}

func (p *usageParser) cur() specTok  { return p.toks[p.pos] }
func (p *usageParser) advance() specTok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// parseAlternation parses a "|"-separated list of sequences. requireNonEmpty
// is true inside groups, where an empty alternative ("(foo|)") is invalid;
// it is false at the top level, where a bare "prog" branch is legitimate.
func (p *usageParser) parseAlternation(requireNonEmpty bool) ([]UsageBranch, error) {
	var branches []UsageBranch
	for {
		seq, err := p.parseSeq(requireNonEmpty)
		if err != nil {
			return nil, err
		}
		branches = append(branches, seq)
		if p.cur().Kind == stPipe {
			p.advance()
			continue
		}
		break
	}
	return branches, nil
}

func (p *usageParser) parseSeq(requireNonEmpty bool) (UsageBranch, error) {
	var seq UsageBranch
	for {
		k := p.cur().Kind
		if k == stEOF || k == stPipe || k == stRParen || k == stRBrack {
			break
		}
		elem, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind == stEllipsis {
			p.advance()
			markRepeatable(&elem)
		}
		seq = append(seq, elem)
	}
	if len(seq) == 0 && requireNonEmpty {
		return nil, specParseError(p.cur().Pos, "empty alternative is not allowed inside a group")
	}
	return seq, nil
}

// markRepeatable sets the Repeatable flag on a leaf, or on a Group.
func markRepeatable(l *UsageLayout) {
	if l.Leaf != nil {
		l.Leaf.Repeatable = true
		return
	}
	l.Group.Repeatable = true
}

func (p *usageParser) parseAtom() (UsageLayout, error) {
	t := p.cur()
	switch t.Kind {
	case stLParen:
		p.advance()
		branches, err := p.parseAlternation(true)
		if err != nil {
			return UsageLayout{}, err
		}
		if p.cur().Kind != stRParen {
			return UsageLayout{}, specParseError(p.cur().Pos, "expected ')'")
		}
		p.advance()
		return GroupLayout(UsageGroup{Optional: false, Branches: branches}), nil
	case stLBrack:
		p.advance()
		if p.cur().Kind == stWord && strings.EqualFold(p.cur().Text, "options") {
			save := p.pos
			p.advance()
			if p.cur().Kind == stRBrack {
				p.advance()
				arg := UsageLayoutArg{Kind: UArgReference, Name: "options"}
				return LeafLayout(arg), nil
			}
			p.pos = save
		}
		branches, err := p.parseAlternation(true)
		if err != nil {
			return UsageLayout{}, err
		}
		if p.cur().Kind != stRBrack {
			return UsageLayout{}, specParseError(p.cur().Pos, "expected ']'")
		}
		p.advance()
		return GroupLayout(UsageGroup{Optional: true, Branches: branches}), nil
	case stWord:
		p.advance()
		return wordToLeaf(t.Text, t.Pos)
	default:
		return UsageLayout{}, specParseError(t.Pos, "unexpected token %q in usage", t.Text)
	}
}

func wordToLeaf(word string, pos int) (UsageLayout, error) {
	switch {
	case word == "--":
		return LeafLayout(UsageLayoutArg{Kind: UArgEOA}), nil
	case word == "-":
		return LeafLayout(UsageLayoutArg{Kind: UArgStdin}), nil
	case strings.HasPrefix(word, "--"):
		name, arg, err := splitLongOptionWord(word)
		if err != nil {
			return UsageLayout{}, specParseError(pos, "%s", err.Error())
		}
		return LeafLayout(UsageLayoutArg{Kind: UArgOption, Name: name, OptArg: arg}), nil
	case strings.HasPrefix(word, "-") && len(word) > 1:
		chars, arg, err := splitShortStackWord(word)
		if err != nil {
			return UsageLayout{}, specParseError(pos, "%s", err.Error())
		}
		return LeafLayout(UsageLayoutArg{Kind: UArgOptionStack, Stack: chars, OptArg: arg}), nil
	case strings.HasPrefix(word, "<") && strings.HasSuffix(word, ">"):
		return LeafLayout(UsageLayoutArg{Kind: UArgPositional, Name: word}), nil
	case isAllCapsWord(word):
		return LeafLayout(UsageLayoutArg{Kind: UArgPositional, Name: word}), nil
	default:
		return LeafLayout(UsageLayoutArg{Kind: UArgCommand, Name: word}), nil
	}
}

func isAllCapsWord(word string) bool {
	hasUpper := false
	for _, r := range word {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return hasUpper
}

// splitLongOptionWord splits "--foo", "--foo=ARG" and "--foo[=ARG]" into a
// bare name and an optional OptionArgument.
func splitLongOptionWord(word string) (string, *OptionArgument, error) {
	body := word[2:]
	if idx := strings.Index(body, "[="); idx >= 0 {
		if !strings.HasSuffix(body, "]") {
			return "", nil, specParseError(-1, "malformed option argument in %q", word)
		}
		name := body[:idx]
		arg := body[idx+2 : len(body)-1]
		return name, &OptionArgument{Name: arg, Optional: true}, nil
	}
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		return body[:idx], &OptionArgument{Name: body[idx+1:]}, nil
	}
	return body, nil, nil
}

// splitShortStackWord splits "-abc", "-abcFILE", "-abc=FILE" and
// "-abc[=FILE]" into the stack's characters and, for the trailing
// character only, an optional OptionArgument.
func splitShortStackWord(word string) ([]rune, *OptionArgument, error) {
	body := word[1:]
	if idx := strings.Index(body, "[="); idx >= 0 {
		if !strings.HasSuffix(body, "]") {
			return nil, nil, specParseError(-1, "malformed option argument in %q", word)
		}
		chars := []rune(body[:idx])
		arg := body[idx+2 : len(body)-1]
		return chars, &OptionArgument{Name: arg, Optional: true}, nil
	}
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		return []rune(body[:idx]), &OptionArgument{Name: body[idx+1:]}, nil
	}
	return []rune(body), nil, nil
}

var optionEntryStartRe = regexp.MustCompile(`^-`)
var defaultTagRe = regexp.MustCompile(`(?i)\[default:\s*([^\]]*)\]`)
var envTagRe = regexp.MustCompile(`(?i)\[env:\s*([^\]]*)\]`)

// splitDescriptionEntries splits a description block (heading included)
// into per-option chunks: a new entry begins at each line whose trimmed
// text starts with "-"; any other line is a continuation of the previous
// entry's documentation.
func splitDescriptionEntries(block string) []string {
	lines := strings.Split(block, "\n")
	var entries []string
	var cur strings.Builder
	have := false
	flush := func() {
		if have {
			entries = append(entries, cur.String())
		}
		cur.Reset()
		have = false
	}
	for i, raw := range lines {
		if i == 0 {
			continue // heading line, e.g. "Options:"
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if optionEntryStartRe.MatchString(trimmed) {
			flush()
			cur.WriteString(trimmed)
			have = true
		} else if have {
			cur.WriteString("\n")
			cur.WriteString(trimmed)
		}
	}
	flush()
	return entries
}

// parseDescriptionEntry parses one option's documentation chunk into a
// Description.
func parseDescriptionEntry(entry string) (Description, error) {
	lines := strings.SplitN(entry, "\n", 2)
	sigLine := lines[0]
	sig := sigLine
	if idx := strings.Index(sigLine, "  "); idx >= 0 {
		sig = sigLine[:idx]
	}

	var desc Description
	for _, tok := range strings.Fields(strings.ReplaceAll(sig, ",", " ")) {
		switch {
		case strings.HasPrefix(tok, "--"):
			name, arg, err := splitLongOptionWord(tok)
			if err != nil {
				return Description{}, err
			}
			desc.Aliases = append(desc.Aliases, LongAlias(name))
			if arg != nil {
				desc.Arg = arg
			}
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			chars, arg, err := splitShortStackWord(tok)
			if err != nil {
				return Description{}, err
			}
			if len(chars) != 1 {
				return Description{}, specParseError(-1, "option description alias %q is not a single short option", tok)
			}
			desc.Aliases = append(desc.Aliases, ShortAlias(chars[0]))
			if arg != nil {
				desc.Arg = arg
			}
		default:
			if desc.Arg == nil && tok != "" {
				desc.Arg = &OptionArgument{Name: tok}
			}
		}
	}
	if len(desc.Aliases) == 0 {
		return Description{}, specParseError(-1, "option description has no alias: %q", sigLine)
	}

	if m := defaultTagRe.FindStringSubmatch(entry); m != nil {
		v := StringValue(strings.Trim(strings.TrimSpace(m[1]), `"`))
		desc.Default = &v
	}
	if m := envTagRe.FindStringSubmatch(entry); m != nil {
		desc.Env = strings.TrimSpace(m[1])
	}
	desc.Doc = strings.TrimSpace(strings.ReplaceAll(entry, "\n", " "))
	return desc, nil
}
