package docopt

import "strings"

// solve rewrites an unsolved Spec into a SolvedLayout spec: stacked short
// options are expanded, option-arguments are bound, usage-section options
// are reconciled against options-section descriptions, [options]
// references are inlined, and branches that end up empty are pruned.
func solve(spec *Spec[UsageLayoutArg], smart bool) (*Spec[SolvedLayoutArg], error) {
	descIndex, err := buildDescIndex(spec.Descriptions)
	if err != nil {
		return nil, err
	}

	var solved []SolvedBranch
	for _, b := range spec.Layouts {
		ib, err := inlineReferences(b, spec.Descriptions)
		if err != nil {
			return nil, err
		}
		sb, err := solveBranch(ib, descIndex, smart)
		if err != nil {
			return nil, err
		}
		if len(sb) == 0 {
			continue // empty-branch pruning
		}
		solved = append(solved, sb)
	}
	if len(solved) == 0 {
		return nil, solveError("every usage branch became empty after solving")
	}

	return &Spec[SolvedLayoutArg]{
		Program:      spec.Program,
		Layouts:      solved,
		Descriptions: spec.Descriptions,
		HelpText:     spec.HelpText,
		ShortHelp:    spec.ShortHelp,
	}, nil
}

// buildDescIndex maps every declared alias to its Description, failing if
// two distinct Descriptions claim the same alias.
func buildDescIndex(descs []Description) (map[OptionAlias]*Description, error) {
	idx := make(map[OptionAlias]*Description)
	for i := range descs {
		d := &descs[i]
		for _, a := range d.Aliases {
			if existing, ok := idx[a]; ok && existing != d {
				return nil, solveError("alias %s is claimed by more than one option description", a)
			}
			idx[a] = d
		}
	}
	return idx, nil
}

// inlineReferences replaces every Reference leaf in branch (recursively,
// including nested groups) by a synthetic group built from the option
// descriptions. Only the conventional "[options]" reference is supported;
// anything else is unresolved.
func inlineReferences(branch UsageBranch, descs []Description) (UsageBranch, error) {
	out := make(UsageBranch, 0, len(branch))
	for _, elem := range branch {
		switch {
		case elem.Leaf != nil && elem.Leaf.Kind == UArgReference:
			if !strings.EqualFold(elem.Leaf.Name, "options") {
				return nil, solveError("unresolved reference [%s]", elem.Leaf.Name)
			}
			g, err := referenceGroup(descs)
			if err != nil {
				return nil, err
			}
			out = append(out, GroupLayout(g))
		case elem.Group != nil:
			branches := make([]UsageBranch, 0, len(elem.Group.Branches))
			for _, b := range elem.Group.Branches {
				nb, err := inlineReferences(b, descs)
				if err != nil {
					return nil, err
				}
				branches = append(branches, nb)
			}
			out = append(out, GroupLayout(UsageGroup{
				Optional:   elem.Group.Optional,
				Repeatable: elem.Group.Repeatable,
				Branches:   branches,
			}))
		default:
			out = append(out, elem)
		}
	}
	return out, nil
}

// referenceGroup builds the optional, repeatable, free-order group of
// single-option branches that "[options]" stands for.
func referenceGroup(descs []Description) (UsageGroup, error) {
	if len(descs) == 0 {
		return UsageGroup{}, solveError("reference [options] used but no option descriptions were found")
	}
	branches := make([]UsageBranch, 0, len(descs))
	for i := range descs {
		d := &descs[i]
		a := d.Aliases[0]
		var leaf UsageLayoutArg
		if a.Kind == AliasLong {
			leaf = UsageLayoutArg{Kind: UArgOption, Name: a.Long, OptArg: d.Arg, Repeatable: d.Repeatable}
		} else {
			leaf = UsageLayoutArg{Kind: UArgOptionStack, Stack: []rune{a.Short}, OptArg: d.Arg, Repeatable: d.Repeatable}
		}
		branches = append(branches, UsageBranch{LeafLayout(leaf)})
	}
	return UsageGroup{Optional: true, Repeatable: true, Branches: branches}, nil
}

// solveBranch converts one already-reference-inlined UsageBranch into a
// SolvedBranch, expanding stacks and resolving option arguments along the
// way. It needs to see sibling elements (for slurp-adjacent), so it walks
// the sequence itself rather than mapping leaves independently.
func solveBranch(branch UsageBranch, descIndex map[OptionAlias]*Description, smart bool) (SolvedBranch, error) {
	var out SolvedBranch
	i := 0
	for i < len(branch) {
		elem := branch[i]
		switch {
		case elem.Group != nil:
			branches := make([]SolvedBranch, 0, len(elem.Group.Branches))
			for _, b := range elem.Group.Branches {
				sb, err := solveBranch(b, descIndex, smart)
				if err != nil {
					return nil, err
				}
				if len(sb) > 0 {
					branches = append(branches, sb)
				}
			}
			if len(branches) > 0 {
				out = append(out, GroupLayout(SolvedGroup{
					Optional:   elem.Group.Optional,
					Repeatable: elem.Group.Repeatable,
					Branches:   branches,
				}))
			}
			i++
		case elem.Leaf.Kind == UArgOptionStack:
			leaves, consumedNext, err := expandStack(*elem.Leaf, branch, i, descIndex, smart)
			if err != nil {
				return nil, err
			}
			out = append(out, leaves...)
			i += 1 + consumedNext
		case elem.Leaf.Kind == UArgOption:
			leaf, consumedNext, err := resolveLongOption(*elem.Leaf, branch, i, descIndex, smart)
			if err != nil {
				return nil, err
			}
			out = append(out, leaf)
			i += 1 + consumedNext
		case elem.Leaf.Kind == UArgCommand:
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgCommand, Name: elem.Leaf.Name, Repeatable: elem.Leaf.Repeatable}))
			i++
		case elem.Leaf.Kind == UArgPositional:
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgPositional, Name: elem.Leaf.Name, Repeatable: elem.Leaf.Repeatable}))
			i++
		case elem.Leaf.Kind == UArgEOA:
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgEOA}))
			i++
		case elem.Leaf.Kind == UArgStdin:
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgStdin}))
			i++
		default: // UArgReference: unreachable, inlineReferences already removed these
			return nil, solveError("unresolved reference [%s]", elem.Leaf.Name)
		}
	}
	return out, nil
}

// expandStack expands a run of stacked short option characters into
// individual Option leaves. Every character but the last must not carry an
// argument unless the remaining suffix of the stack spells out that
// character's documented placeholder (subsumption); the terminal character
// may bind an argument explicitly written in usage, via subsumption, or by
// slurping the adjacent layout element.
func expandStack(leaf UsageLayoutArg, branch UsageBranch, idx int, descIndex map[OptionAlias]*Description, smart bool) ([]SolvedLayout, int, error) {
	chars := leaf.Stack
	n := len(chars)
	var out []SolvedLayout
	for k := 0; k < n; k++ {
		c := chars[k]
		alias := ShortAlias(c)
		desc := descIndex[alias]
		needsArg := desc != nil && desc.Arg != nil
		last := k == n-1

		if !needsArg {
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgOption, Alias: alias, Repeatable: leaf.Repeatable}))
			continue
		}

		rep := leaf.Repeatable || desc.Repeatable

		if !last {
			suffix := chars[k+1:]
			if placeholderName(string(suffix)) != placeholderName(desc.Arg.Name) {
				return nil, 0, solveError("option -%c cannot take an argument in the middle of stack %q", c, string(chars))
			}
			out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgOption, Alias: alias, OptArg: desc.Arg, Repeatable: rep}))
			return out, 0, nil
		}

		optArg := leaf.OptArg
		consumedNext := 0
		if optArg == nil {
			ok, cons, err := trySlurpAdjacent(branch, idx, smart, desc.Arg)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				consumedNext = cons
			} else if !desc.Arg.Optional {
				return nil, 0, solveError("option -%c requires argument %s but usage gives none to slurp", c, desc.Arg.Name)
			}
			optArg = desc.Arg
		}
		out = append(out, LeafLayout(SolvedLayoutArg{Kind: SArgOption, Alias: alias, OptArg: optArg, Repeatable: rep}))
		return out, consumedNext, nil
	}
	return out, 0, nil
}

// resolveLongOption resolves a long-option usage leaf against its
// Description, slurping the adjacent layout element when the usage gives
// no explicit argument but the description requires one.
func resolveLongOption(leaf UsageLayoutArg, branch UsageBranch, idx int, descIndex map[OptionAlias]*Description, smart bool) (SolvedLayout, int, error) {
	alias := LongAlias(leaf.Name)
	desc := descIndex[alias]
	optArg := leaf.OptArg
	consumedNext := 0

	if optArg == nil && desc != nil && desc.Arg != nil {
		ok, cons, err := trySlurpAdjacent(branch, idx, smart, desc.Arg)
		if err != nil {
			return SolvedLayout{}, 0, err
		}
		if ok {
			consumedNext = cons
		} else if !desc.Arg.Optional {
			return SolvedLayout{}, 0, solveError("option --%s requires argument %s but usage gives none to slurp", leaf.Name, desc.Arg.Name)
		}
		optArg = desc.Arg
	}

	rep := leaf.Repeatable
	if desc != nil {
		rep = rep || desc.Repeatable
	}
	return LeafLayout(SolvedLayoutArg{Kind: SArgOption, Alias: alias, OptArg: optArg, Repeatable: rep}), consumedNext, nil
}

// trySlurpAdjacent checks whether the layout element immediately following
// idx in branch is a Positional or Command (possibly wrapped in a single-
// branch, single-element optional group) and, if want is non-nil and the
// adjacent element is a Positional, that its placeholder agrees with want.
func trySlurpAdjacent(branch UsageBranch, idx int, smart bool, want *OptionArgument) (bool, int, error) {
	if !smart || idx+1 >= len(branch) {
		return false, 0, nil
	}
	next := branch[idx+1]
	if next.Group != nil {
		if len(next.Group.Branches) == 1 && len(next.Group.Branches[0]) == 1 && next.Group.Optional {
			next = next.Group.Branches[0][0]
		}
	}
	if next.Leaf == nil {
		return false, 0, nil
	}
	switch next.Leaf.Kind {
	case UArgPositional:
		if want != nil && placeholderName(next.Leaf.Name) != placeholderName(want.Name) {
			return false, 0, solveError("adjacent argument %s does not match documented argument %s", next.Leaf.Name, want.Name)
		}
		return true, 1, nil
	case UArgCommand:
		return true, 1, nil
	default:
		return false, 0, nil
	}
}
