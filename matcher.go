package docopt

// matchResult is the outcome of attempting to match one PatternBranch (or
// ChoicePattern repetition) against a token stream. A plain failure
// (ok=false, fatal=nil) just means "this alternative doesn't fit, try
// another"; fatal means an option-shape violation was found and no sibling
// alternative should be tried instead.
type matchResult struct {
	ok       bool
	fatal    *ArgParseError
	toks     []PositionedToken
	bindings []KeyValue
	omitted  int // optional leaves/choices that ended up unmatched
}

// matchArgs runs the Argument Parser: it tries every top-level branch of
// pattern against toks and keeps the one that consumes every token (or, if
// opts.AllowUnknown, the one that consumes the most); ties go to the
// earliest-listed branch. If no branch can account for all tokens, the
// error carrying the deepest Consumed count is returned.
func matchArgs(pattern *Pattern, toks []PositionedToken, opts *Options) ([]KeyValue, error) {
	bestConsumed := -1
	var bestErr error
	bestOKConsumed := -1
	var bestOK []KeyValue

	for _, branch := range pattern.Branches {
		res := matchBranch(branch.Nodes, toks, opts)
		if res.fatal != nil {
			return nil, res.fatal
		}
		if res.ok && len(res.toks) == 0 {
			return res.bindings, nil
		}

		consumed := len(toks) - len(res.toks)
		if res.ok && opts.AllowUnknown {
			if consumed > bestOKConsumed {
				bestOKConsumed, bestOK = consumed, res.bindings
			}
			continue
		}
		if res.ok {
			// consumed everything the branch could, but trailing unknown
			// tokens remain and AllowUnknown is off.
			err := unexpectedInputError(consumed, res.toks[0].Source)
			if consumed > bestConsumed {
				bestConsumed, bestErr = consumed, err
			}
			continue
		}
		if consumed > bestConsumed {
			bestConsumed = consumed
			bestErr = genericArgError(consumed, "arguments do not match any usage alternative")
		}
	}
	if bestOKConsumed >= 0 {
		return bestOK, nil
	}
	if bestErr != nil {
		return nil, bestErr
	}
	return nil, genericArgError(0, "arguments do not match any usage alternative")
}

// matchBranch matches a fixed-order sequence of nodes left to right. Option
// leaves are matched by searching the whole remaining stream regardless of
// position (options commute with everything); Command/Positional/EOA/Stdin
// leaves are matched against the front of what remains, honoring
// opts.LaxPlacement for how far ahead they may look.
func matchBranch(nodes []PatternNode, toks []PositionedToken, opts *Options) matchResult {
	cur := toks
	var bindings []KeyValue
	omitted := 0

	for _, node := range nodes {
		switch {
		case node.Leaf != nil:
			ok, newToks, newBindings, fatal := matchLeafNode(node.Leaf.Arg, cur, opts)
			if fatal != nil {
				return matchResult{fatal: fatal}
			}
			if ok {
				cur = newToks
				bindings = append(bindings, newBindings...)
				continue
			}
			if node.Leaf.Optional {
				omitted++
				continue
			}
			return matchResult{ok: false, toks: cur, bindings: bindings, omitted: omitted}

		default: // node.Choice != nil
			ok, newToks, newBindings, newOmitted, fatal := matchChoice(node.Choice, cur, opts)
			if fatal != nil {
				return matchResult{fatal: fatal}
			}
			if !ok {
				if node.Choice.Optional {
					omitted++
					continue
				}
				return matchResult{ok: false, toks: cur, bindings: bindings, omitted: omitted}
			}
			cur = newToks
			bindings = append(bindings, newBindings...)
			omitted += newOmitted
		}
	}
	return matchResult{ok: true, toks: cur, bindings: bindings, omitted: omitted}
}

// matchChoice tries c's branches in the order written, taking the one that
// consumes the most tokens (ties go to the earlier branch); when c is
// repeatable it re-runs the whole alternation fresh against whatever
// remains until a round consumes nothing. Re-trying every branch from
// scratch each round is what gives a pure-option group its free-order
// behavior: a later round can pick a different branch than an earlier one.
func matchChoice(c *ChoicePattern, toks []PositionedToken, opts *Options) (ok bool, newToks []PositionedToken, bindings []KeyValue, omitted int, fatal *ArgParseError) {
	cur := toks
	matchedAny := false

	for {
		best := -1
		var bestRes matchResult
		for i, b := range c.Branches {
			res := matchBranch(b.Nodes, cur, opts)
			if res.fatal != nil {
				return false, nil, nil, 0, res.fatal
			}
			if !res.ok {
				continue
			}
			if best == -1 || len(res.toks) < len(bestRes.toks) {
				best = i
				bestRes = res
			}
		}
		if best == -1 {
			break
		}
		consumed := len(cur) - len(bestRes.toks)
		cur = bestRes.toks
		bindings = append(bindings, bestRes.bindings...)
		omitted += bestRes.omitted
		matchedAny = true
		if consumed == 0 || !c.Repeatable {
			break
		}
	}

	if !matchedAny {
		return false, toks, nil, 0, nil
	}
	return true, cur, bindings, omitted, nil
}

func matchLeafNode(arg *Arg, toks []PositionedToken, opts *Options) (bool, []PositionedToken, []KeyValue, *ArgParseError) {
	switch arg.Leaf.Kind {
	case SArgOption:
		return matchOptionRepeat(arg, toks, opts)
	case SArgCommand:
		return matchLiteralRepeat(arg, toks, opts, true)
	case SArgPositional:
		return matchLiteralRepeat(arg, toks, opts, false)
	case SArgEOA:
		return matchEOA(arg, toks, opts)
	default: // SArgStdin
		return matchStdin(arg, toks, opts)
	}
}

// scanFront looks for the first token satisfying matches. In strict
// placement it only ever looks at the very front; in lax placement it may
// skip over not-yet-claimed option tokens (Long/ShortRun) to reach a
// matching token further ahead, but stops at the first literal, EOA or
// Stdin token that does not itself match, since skipping past that would
// reorder two same-kind leaves relative to each other.
func scanFront(toks []PositionedToken, lax bool, matches func(Token) bool) (int, bool) {
	if len(toks) == 0 {
		return -1, false
	}
	if !lax {
		if matches(toks[0].Token) {
			return 0, true
		}
		return -1, false
	}
	for i, t := range toks {
		if matches(t.Token) {
			return i, true
		}
		if t.Kind != ArgTokLong && t.Kind != ArgTokShortRun {
			return -1, false
		}
	}
	return -1, false
}

func removeAt(toks []PositionedToken, i int) []PositionedToken {
	out := make([]PositionedToken, 0, len(toks)-1)
	out = append(out, toks[:i]...)
	out = append(out, toks[i+1:]...)
	return out
}

// matchLiteralRepeat matches a Command or Positional leaf. Commands require
// an exact literal match; Positionals bind any literal token's text. It
// loops while arg.Repeatable; once matched, if arg.CanTerm, everything still
// remaining (of any shape, verbatim) is collected into one ArrayValue
// binding instead of the usual per-occurrence value, and the branch ends.
func matchLiteralRepeat(arg *Arg, toks []PositionedToken, opts *Options, isCommand bool) (bool, []PositionedToken, []KeyValue, *ArgParseError) {
	cur := toks
	var bindings []KeyValue
	matchedOnce := false

	matches := func(t Token) bool {
		if t.Kind != ArgTokLiteral {
			return false
		}
		if isCommand {
			return t.Literal == arg.Leaf.Name
		}
		return true
	}

	for {
		idx, ok := scanFront(cur, opts.LaxPlacement, matches)
		if !ok {
			break
		}
		tok := cur[idx]
		cur = removeAt(cur, idx)
		matchedOnce = true

		if arg.CanTerm {
			return true, nil, []KeyValue{{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: remainderArray(cur)}}}, nil
		}

		v := StringValue(tok.Literal)
		if isCommand {
			v = BoolValue(true)
		}
		bindings = append(bindings, KeyValue{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: v}})
		if !arg.Repeatable {
			break
		}
	}
	return matchedOnce, cur, bindings, nil
}

// remainderArray wraps what's left of the token stream (verbatim source
// text, in order) into the single ArrayValue a canTerm leaf emits.
func remainderArray(rest []PositionedToken) Value {
	vals := make([]Value, len(rest))
	for i, t := range rest {
		vals[i] = StringValue(t.Source)
	}
	return ArrayValue(vals...)
}

// matchEOA matches the "--" token itself and, since it always canTerm,
// emits a single ArrayValue binding carrying every token that follows (the
// argv lexer has already marked them literal), verbatim.
func matchEOA(arg *Arg, toks []PositionedToken, opts *Options) (bool, []PositionedToken, []KeyValue, *ArgParseError) {
	idx, ok := scanFront(toks, opts.LaxPlacement, func(t Token) bool { return t.Kind == ArgTokEOA })
	if !ok {
		return false, toks, nil, nil
	}
	rest := removeAt(toks, idx)
	binding := KeyValue{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: remainderArray(rest)}}
	return true, nil, []KeyValue{binding}, nil
}

// matchStdin matches the lone "-" token.
func matchStdin(arg *Arg, toks []PositionedToken, opts *Options) (bool, []PositionedToken, []KeyValue, *ArgParseError) {
	idx, ok := scanFront(toks, opts.LaxPlacement, func(t Token) bool { return t.Kind == ArgTokStdin })
	if !ok {
		return false, toks, nil, nil
	}
	cur := removeAt(toks, idx)
	bindings := []KeyValue{{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: BoolValue(true)}}}
	return true, cur, bindings, nil
}

// matchOptionRepeat matches an Option leaf by searching the whole remaining
// stream (options are not positional) for a token carrying one of the
// leaf's aliases, looping while arg.Repeatable; once matched, if
// arg.CanTerm, everything still remaining is collected into one ArrayValue
// binding (the terminating occurrence's own value is not separately bound)
// and the branch ends.
func matchOptionRepeat(arg *Arg, toks []PositionedToken, opts *Options) (bool, []PositionedToken, []KeyValue, *ArgParseError) {
	cur := toks
	var bindings []KeyValue
	matchedOnce := false

	for {
		ok, newToks, v, fatal := matchOptionOnce(arg, cur)
		if fatal != nil {
			return false, nil, nil, fatal
		}
		if !ok {
			break
		}
		cur = newToks
		matchedOnce = true

		if arg.CanTerm {
			return true, nil, []KeyValue{{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: remainderArray(cur)}}}, nil
		}

		bindings = append(bindings, KeyValue{Arg: arg, Value: RichValue{Origin: OriginArgv, Value: v}})
		if !arg.Repeatable {
			break
		}
	}
	return matchedOnce, cur, bindings, nil
}

// matchOptionOnce scans toks for a single occurrence of one of arg's
// aliases, either as a long-option token or within a short-option run, and
// returns the updated stream with that occurrence consumed. A short-option
// run that still has unmatched leading characters after removing arg's
// character is pushed back into the stream at the same position so sibling
// Option leaves can claim them.
func matchOptionOnce(arg *Arg, toks []PositionedToken) (bool, []PositionedToken, Value, *ArgParseError) {
	aliases := optionAliasesOf(arg)

	for i, pt := range toks {
		switch pt.Kind {
		case ArgTokLong:
			for _, a := range aliases {
				if a.Kind != AliasLong || !longAliasMatches(a.Long, pt.Long) {
					continue
				}
				return resolveLongMatch(arg, toks, i, pt)
			}
		case ArgTokShortRun:
			for _, a := range aliases {
				if a.Kind != AliasShort {
					continue
				}
				pos := indexRune(pt.Run, a.Short)
				if pos < 0 {
					continue
				}
				return resolveShortMatch(arg, toks, i, pt, pos)
			}
		}
	}
	return false, toks, Value{}, nil
}

func optionAliasesOf(arg *Arg) []OptionAlias {
	if arg.Desc != nil {
		return arg.Desc.Aliases
	}
	return []OptionAlias{arg.Leaf.Alias}
}

// longAliasMatches implements exact match, falling back to prefix match
// without an ambiguity check (the source text's own usage example reads as "the first
// declared alias whose name the typed word prefixes", so ties go to
// whichever alias is checked first).
func longAliasMatches(declared, typed string) bool {
	if declared == typed {
		return true
	}
	return typed != "" && len(typed) < len(declared) && declared[:len(typed)] == typed
}

func indexRune(rs []rune, c rune) int {
	for i, r := range rs {
		if r == c {
			return i
		}
	}
	return -1
}

// resolveLongMatch implements the long-alias cases: an exact name with no
// argument required, an attached "=value", a bare name whose option wants
// an argument (slurping the adjacent Lit token(s), falling back to the
// argument's own optionality, and finally erroring), and a takes-no-arg
// option given "=value" anyway.
func resolveLongMatch(arg *Arg, toks []PositionedToken, i int, pt PositionedToken) (bool, []PositionedToken, Value, *ArgParseError) {
	wantsArg := arg.Desc != nil && arg.Desc.Arg != nil
	switch {
	case wantsArg && pt.LongValue != nil:
		return true, removeAt(toks, i), StringValue(*pt.LongValue), nil
	case wantsArg:
		if v, newToks, ok := slurpAdjacentLiterals(toks, i, arg.Repeatable); ok {
			return true, newToks, v, nil
		}
		if arg.Desc.Arg.Optional {
			return true, removeAt(toks, i), BoolValue(true), nil
		}
		return false, toks, Value{}, optionRequiresArgumentError(i, "--"+pt.Long)
	case pt.LongValue != nil:
		return false, toks, Value{}, optionTakesNoArgumentError(i, "--"+pt.Long)
	default:
		return true, removeAt(toks, i), BoolValue(true), nil
	}
}

func resolveShortMatch(arg *Arg, toks []PositionedToken, i int, pt PositionedToken, pos int) (bool, []PositionedToken, Value, *ArgParseError) {
	wantsArg := arg.Desc != nil && arg.Desc.Arg != nil
	prefix := append([]rune{}, pt.Run[:pos]...)
	suffix := pt.Run[pos+1:]

	if !wantsArg {
		newRun := append(prefix, suffix...)
		return true, spliceShortRun(toks, i, newRun, nil), BoolValue(true), nil
	}

	if len(suffix) > 0 {
		return true, spliceShortRun(toks, i, prefix, nil), StringValue(string(suffix)), nil
	}
	if pt.RunValue != nil {
		return true, spliceShortRun(toks, i, prefix, nil), StringValue(*pt.RunValue), nil
	}

	spliced := spliceShortRun(toks, i, prefix, nil)
	if v, newToks, ok := slurpAdjacentLiterals(toks, i, arg.Repeatable); ok {
		if len(prefix) > 0 {
			// slurpAdjacentLiterals drops the whole run token; put its
			// unclaimed leading characters back at the same position.
			newToks = append(newToks[:i], append([]PositionedToken{spliced[i]}, newToks[i:]...)...)
		}
		return true, newToks, v, nil
	}
	if arg.Desc.Arg.Optional {
		return true, spliced, BoolValue(true), nil
	}
	return false, toks, Value{}, optionRequiresArgumentError(i, "-"+string(pt.Run[pos]))
}

// slurpAdjacentLiterals consumes the Lit token immediately following index i
// (and, if repeatable, any further contiguous run of Lit tokens) as an
// option's argument value: a single adjacent Lit yields a plain
// StringValue, a contiguous run yields an ArrayValue.
func slurpAdjacentLiterals(toks []PositionedToken, i int, repeatable bool) (Value, []PositionedToken, bool) {
	if i+1 >= len(toks) || toks[i+1].Kind != ArgTokLiteral {
		return Value{}, toks, false
	}
	end := i + 2
	if repeatable {
		for end < len(toks) && toks[end].Kind == ArgTokLiteral {
			end++
		}
	}
	lits := toks[i+1 : end]
	newToks := make([]PositionedToken, 0, len(toks)-(end-i-1))
	newToks = append(newToks, toks[:i+1]...)
	newToks = append(newToks, toks[end:]...)
	newToks = removeAt(newToks, i)

	if len(lits) == 1 {
		return StringValue(lits[0].Literal), newToks, true
	}
	vals := make([]Value, len(lits))
	for k, t := range lits {
		vals[k] = StringValue(t.Literal)
	}
	return ArrayValue(vals...), newToks, true
}

// spliceShortRun replaces the ShortRun token at i with one carrying the
// remaining characters, or removes it entirely if none remain.
func spliceShortRun(toks []PositionedToken, i int, remaining []rune, remainingValue *string) []PositionedToken {
	if len(remaining) == 0 {
		return removeAt(toks, i)
	}
	out := make([]PositionedToken, len(toks))
	copy(out, toks)
	t := out[i]
	t.Run = remaining
	t.RunValue = remainingValue
	out[i] = t
	return out
}
