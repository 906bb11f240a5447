package docopt

// LeafPattern is the matcher-ready form of a single leaf occurrence: whether
// bracket nesting (or requireFlags) makes it optional, and the shared Arg it
// binds to.
type LeafPattern struct {
	Optional bool
	Arg      *Arg
}

// PatternBranch is one alternative of a disjunction: an ordered sequence of
// nodes, plus whether the branch must match in strict left-to-right order.
// Fixed is true iff the branch recursively contains any non-Option leaf;
// pure-option branches may match in any order.
type PatternBranch struct {
	Fixed bool
	Nodes []PatternNode
}

// ChoicePattern is a disjunction of PatternBranches, corresponding to a
// parenthesized or bracketed group in usage.
type ChoicePattern struct {
	Optional   bool
	Repeatable bool
	Branches   []PatternBranch
}

// PatternNode is either a LeafPattern or a ChoicePattern.
type PatternNode struct {
	Leaf   *LeafPattern
	Choice *ChoicePattern
}

// Pattern is the fully prepared matcher input: the top-level disjunction of
// usage branches.
type Pattern struct {
	Branches []PatternBranch
}

// prepare walks a solved Spec into a Pattern, minting one shared *Arg per
// canonical Key (so "-f" and "--file" occurrences in different branches bind
// the same Arg) and folding in the structural effects of opts: requireFlags
// off (the default) loosens every Option leaf to optional, repeatableOptions forces every
// Option Arg repeatable, and optionsFirst/stopAt drive canTerm.
func prepare(spec *Spec[SolvedLayoutArg], opts *Options) (*Pattern, []*Arg, error) {
	descIndex, err := buildDescIndex(spec.Descriptions)
	if err != nil {
		return nil, nil, err
	}

	b := &patternBuilder{
		opts:      opts,
		descIndex: descIndex,
		argsByKey: make(map[Key]*Arg),
	}

	branches := make([]PatternBranch, 0, len(spec.Layouts))
	for _, layout := range spec.Layouts {
		pb, err := b.buildBranch(layout, false, false)
		if err != nil {
			return nil, nil, err
		}
		branches = append(branches, pb)
	}

	if opts.OptionsFirst {
		for i := range branches {
			markTrailingPositionalCanTerm(&branches[i])
		}
	}

	return &Pattern{Branches: branches}, b.argList, nil
}

type patternBuilder struct {
	opts      *Options
	descIndex map[OptionAlias]*Description
	argsByKey map[Key]*Arg
	argList   []*Arg
	nextID    int
}

func (b *patternBuilder) buildBranch(branch SolvedBranch, parentOptional, parentRepeatable bool) (PatternBranch, error) {
	nodes := make([]PatternNode, 0, len(branch))
	for _, elem := range branch {
		node, err := b.buildNode(elem, parentOptional, parentRepeatable)
		if err != nil {
			return PatternBranch{}, err
		}
		nodes = append(nodes, node)
	}
	return PatternBranch{Fixed: branchIsFixed(branch), Nodes: nodes}, nil
}

func (b *patternBuilder) buildNode(elem SolvedLayout, parentOptional, parentRepeatable bool) (PatternNode, error) {
	if elem.Group != nil {
		g := elem.Group
		childOptional := parentOptional || g.Optional
		childRepeatable := parentRepeatable || g.Repeatable
		branches := make([]PatternBranch, 0, len(g.Branches))
		for _, sub := range g.Branches {
			pb, err := b.buildBranch(sub, childOptional, childRepeatable)
			if err != nil {
				return PatternNode{}, err
			}
			branches = append(branches, pb)
		}
		return PatternNode{Choice: &ChoicePattern{
			Optional:   g.Optional,
			Repeatable: g.Repeatable,
			Branches:   branches,
		}}, nil
	}

	leaf := *elem.Leaf
	var desc *Description
	if leaf.Kind == SArgOption {
		desc = b.descIndex[leaf.Alias]
	}
	key := keyOf(leaf, desc)
	arg := b.getOrCreateArg(key, leaf, desc)

	rep := leaf.Repeatable || parentRepeatable || (b.opts.RepeatableOptions && leaf.Kind == SArgOption)
	arg.Repeatable = arg.Repeatable || rep
	arg.CanTerm = arg.CanTerm || computeCanTerm(leaf, b.opts, desc)

	optional := parentOptional || (leaf.Kind == SArgOption && !b.opts.RequireFlags)
	return PatternNode{Leaf: &LeafPattern{Optional: optional, Arg: arg}}, nil
}

func (b *patternBuilder) getOrCreateArg(key Key, leaf SolvedLayoutArg, desc *Description) *Arg {
	if a, ok := b.argsByKey[key]; ok {
		return a
	}
	a := &Arg{ID: b.nextID, Leaf: leaf, Key: key, Desc: desc}
	if desc != nil && desc.Default != nil {
		a.Fallback = &RichValue{Origin: OriginDefault, Value: *desc.Default}
	}
	b.nextID++
	b.argsByKey[key] = a
	b.argList = append(b.argList, a)
	return a
}

// computeCanTerm implements the structural part of canTerm: an EOA leaf
// always terminates matching and slurps; an Option leaf does so iff one of
// its aliases is named in opts.StopAt. The optionsFirst trailing-positional
// case is applied afterward by markTrailingPositionalCanTerm, since it needs
// the fully built branch to find "trailing".
func computeCanTerm(leaf SolvedLayoutArg, opts *Options, desc *Description) bool {
	switch leaf.Kind {
	case SArgEOA:
		return true
	case SArgOption:
		if stopAtContains(opts.StopAt, leaf.Alias.String()) {
			return true
		}
		if desc != nil {
			for _, a := range desc.Aliases {
				if stopAtContains(opts.StopAt, a.String()) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func stopAtContains(stopAt []string, alias string) bool {
	for _, s := range stopAt {
		if s == alias {
			return true
		}
	}
	return false
}

// markTrailingPositionalCanTerm marks the last node of pb canTerm when it is
// a bare Positional leaf, the simplified reading of optionsFirst's "trailing
// positional" rule: only the branch's own last element counts, not a
// positional buried inside a nested group.
func markTrailingPositionalCanTerm(pb *PatternBranch) {
	if len(pb.Nodes) == 0 {
		return
	}
	last := pb.Nodes[len(pb.Nodes)-1]
	if last.Leaf != nil && last.Leaf.Arg.Leaf.Kind == SArgPositional {
		last.Leaf.Arg.CanTerm = true
	}
}

// branchIsFixed reports whether branch must match in strict left-to-right
// order: true iff it recursively contains any non-Option leaf (Command,
// Positional, EOA or Stdin). Pure-option branches may match free-order.
func branchIsFixed(branch SolvedBranch) bool {
	for _, elem := range branch {
		if containsNonOptionLeaf(elem) {
			return true
		}
	}
	return false
}

func containsNonOptionLeaf(elem SolvedLayout) bool {
	if elem.Leaf != nil {
		return elem.Leaf.Kind != SArgOption
	}
	for _, b := range elem.Group.Branches {
		for _, sub := range b {
			if containsNonOptionLeaf(sub) {
				return true
			}
		}
	}
	return false
}
