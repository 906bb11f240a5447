package docopt

// Reduce turns the raw per-occurrence bindings the Argument Parser produced
// into the final map[string]Value a caller sees: for each Arg, annotate its
// occurrences with environment and default fallbacks, filter down to the
// highest Origin present, merge same-origin candidates into one value,
// coerce bare-flag values to bool/count, then emit that one value under
// every alias the Arg's Key represents (so "-f" and "--file" both appear,
// bound to the identical value). It also returns the RichValue (with
// Origin) behind each entry, for callers that want to know whether a value
// came from argv, the environment, or a declared default.
func Reduce(args []*Arg, bindings []KeyValue, opts *Options) (map[string]Value, map[string]RichValue) {
	occurrences := make(map[*Arg][]RichValue, len(args))
	for _, a := range args {
		occurrences[a] = nil
	}
	for _, kv := range bindings {
		occurrences[kv.Arg] = append(occurrences[kv.Arg], kv.Value)
	}

	values := make(map[string]Value, len(args))
	rich := make(map[string]RichValue, len(args))
	for a, occ := range occurrences {
		cands := annotate(a, occ, opts)
		filtered := filterByMaxOrigin(cands)
		merged := mergeCandidates(a, filtered)
		final := coerceFlag(a, merged)
		rv := RichValue{Origin: merged.Origin, Value: final}
		for _, alias := range displayAliases(a.Leaf, a.Desc) {
			values[alias] = final
			rich[alias] = rv
		}
	}
	return values, rich
}

// annotate appends the environment-origin and default-origin fallbacks (if
// any) behind occ's argv-origin occurrences, so a later step can pick
// whichever Origin actually has something to offer.
func annotate(arg *Arg, occ []RichValue, opts *Options) []RichValue {
	cands := make([]RichValue, len(occ))
	copy(cands, occ)

	if arg.Desc != nil && arg.Desc.Env != "" && opts != nil {
		if v, ok := opts.Env[arg.Desc.Env]; ok {
			cands = append(cands, RichValue{Origin: OriginEnvironment, Value: StringValue(v)})
		}
	}
	if arg.Fallback != nil {
		cands = append(cands, *arg.Fallback)
	}
	if len(cands) == 0 {
		cands = append(cands, emptyRichValue)
	}
	return cands
}

// filterByMaxOrigin keeps only the candidates sharing the highest Origin
// present, implementing Argv-beats-Environment-beats-Default-beats-Empty.
func filterByMaxOrigin(cands []RichValue) []RichValue {
	max := OriginEmpty
	for _, c := range cands {
		if c.Origin > max {
			max = c.Origin
		}
	}
	var out []RichValue
	for _, c := range cands {
		if c.Origin == max {
			out = append(out, c)
		}
	}
	return out
}

// mergeCandidates collapses same-origin candidates into one RichValue: a
// repeatable Arg's multiple Argv-origin occurrences become one ArrayValue;
// otherwise (a non-repeatable Arg matched more than once despite that, or a
// single candidate) the last occurrence wins.
func mergeCandidates(arg *Arg, cands []RichValue) RichValue {
	if len(cands) == 0 {
		return emptyRichValue
	}
	if len(cands) == 1 {
		return cands[0]
	}
	if arg.Repeatable {
		vals := make([]Value, len(cands))
		for i, c := range cands {
			vals[i] = c.Value
		}
		return RichValue{Origin: cands[0].Origin, Value: ArrayValue(vals...)}
	}
	return cands[len(cands)-1]
}

// coerceFlag turns the array-of-bool shape produced by repeated bare flags,
// commands or the Stdin marker into a single bool (present/absent) or, for a
// repeatable flag, an integer count; a repeatable flag matched once also
// becomes a count (1 for true, 0 for false). Options with a declared argument, and
// Positional/EOA leaves, pass through unchanged.
func coerceFlag(arg *Arg, rv RichValue) Value {
	isBareFlag := arg.Leaf.Kind == SArgCommand || arg.Leaf.Kind == SArgStdin ||
		(arg.Leaf.Kind == SArgOption && (arg.Desc == nil || arg.Desc.Arg == nil))
	if !isBareFlag {
		return rv.Value
	}
	switch {
	case rv.Value.Kind() == KindArray && rv.Value.allBool():
		if arg.Repeatable {
			return IntValue(rv.Value.countTrue())
		}
		return BoolValue(rv.Value.countTrue() > 0)
	case rv.Value.Kind() == KindBool:
		if arg.Repeatable {
			if rv.Value.AsBool() {
				return IntValue(1)
			}
			return IntValue(0)
		}
		return rv.Value
	case rv.Origin == OriginEmpty:
		return BoolValue(false)
	default:
		return rv.Value
	}
}
