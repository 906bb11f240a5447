package docopt

import (
	"sort"
	"strings"
)

// AliasKind discriminates the two shapes an OptionAlias can take.
type AliasKind uint8

const (
	AliasLong AliasKind = iota
	AliasShort
)

// OptionAlias is either a long name ("--file") or a short character ("-f").
// Several aliases may refer to the same logical option; the Description
// record is what ties them together.
type OptionAlias struct {
	Kind  AliasKind
	Long  string // set iff Kind == AliasLong
	Short rune   // set iff Kind == AliasShort
}

// LongAlias builds a long OptionAlias from a bare name (no leading dashes).
func LongAlias(name string) OptionAlias { return OptionAlias{Kind: AliasLong, Long: name} }

// ShortAlias builds a short OptionAlias from a bare character.
func ShortAlias(c rune) OptionAlias { return OptionAlias{Kind: AliasShort, Short: c} }

// String renders the alias the way it appears on the command line.
func (a OptionAlias) String() string {
	if a.Kind == AliasLong {
		return "--" + a.Long
	}
	return "-" + string(a.Short)
}

func (a OptionAlias) sortKey() string {
	if a.Kind == AliasLong {
		return "1" + a.Long
	}
	return "0" + string(a.Short)
}

// OptionArgument describes the placeholder an option binds, e.g. FILE in
// "--host FILE", and whether it may be omitted ("[=VAL]" form).
type OptionArgument struct {
	Name     string
	Optional bool
}

// placeholderName strips angle brackets and folds case, the comparison the
// Solver uses when matching a usage-section placeholder against a
// description's placeholder, and when checking stack-subsumption.
func placeholderName(s string) string {
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	return strings.ToUpper(s)
}

// Description is the per-option record parsed out of an options section:
// its aliases, whether it may repeat, its argument (if any), its default
// value, and the environment variable it falls back to.
type Description struct {
	Aliases    []OptionAlias
	Repeatable bool
	Arg        *OptionArgument
	Default    *Value
	Env        string
	Doc        string
}

// hasAlias reports whether d declares alias a.
func (d *Description) hasAlias(a OptionAlias) bool {
	for _, x := range d.Aliases {
		if x == a {
			return true
		}
	}
	return false
}

// aliasSignature is a canonical, order-independent string identifying the
// full alias set of a Description, used to build Keys so "-f" and "--file"
// collapse to one entry.
func aliasSignature(aliases []OptionAlias) string {
	keys := make([]string, len(aliases))
	for i, a := range aliases {
		keys[i] = a.sortKey()
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// UsageArgKind discriminates the leaf shapes produced by the Spec Parser,
// before solving.
type UsageArgKind uint8

const (
	UArgCommand UsageArgKind = iota
	UArgPositional
	UArgOption
	UArgOptionStack
	UArgEOA
	UArgStdin
	UArgReference
)

// UsageLayoutArg is a leaf of a UsageLayout tree.
type UsageLayoutArg struct {
	Kind       UsageArgKind
	Name       string   // Command/Positional literal, Option long name, or Reference section name
	Stack      []rune   // UArgOptionStack characters, head first
	OptArg     *OptionArgument
	Repeatable bool
}

// SolvedArgKind discriminates the leaf shapes that survive solving: no
// stacks, no references.
type SolvedArgKind uint8

const (
	SArgCommand SolvedArgKind = iota
	SArgPositional
	SArgOption
	SArgEOA
	SArgStdin
)

// SolvedLayoutArg is a leaf of a SolvedLayout tree.
type SolvedLayoutArg struct {
	Kind       SolvedArgKind
	Name       string // Command/Positional literal
	Alias      OptionAlias
	OptArg     *OptionArgument
	Repeatable bool
}

// Layout is a recursive tree of groups and leaves, generic over the leaf
// shape so the same container type describes both the pre-solve
// (UsageLayoutArg) and post-solve (SolvedLayoutArg) stages. Exactly one of
// Leaf or Group is non-nil.
type Layout[L any] struct {
	Leaf  *L
	Group *Group[L]
}

// Branch is a non-empty ordered sequence of Layouts: one alternative within
// a disjunction.
type Branch[L any] []Layout[L]

// Group is a disjunction of non-empty Branches.
type Group[L any] struct {
	Optional   bool
	Repeatable bool
	Branches   []Branch[L]
}

// LeafLayout wraps a leaf value as a Layout.
func LeafLayout[L any](l L) Layout[L] { return Layout[L]{Leaf: &l} }

// GroupLayout wraps a Group as a Layout.
func GroupLayout[L any](g Group[L]) Layout[L] { return Layout[L]{Group: &g} }

// UsageLayout and SolvedLayout name the two stage-specific instantiations of
// Layout, per the teacher's habit of giving each pipeline stage its own
// named type rather than passing a bare generic container around.
type UsageLayout = Layout[UsageLayoutArg]
type SolvedLayout = Layout[SolvedLayoutArg]
type UsageBranch = Branch[UsageLayoutArg]
type SolvedBranch = Branch[SolvedLayoutArg]
type UsageGroup = Group[UsageLayoutArg]
type SolvedGroup = Group[SolvedLayoutArg]

// Spec is the compiled form of a help text, parameterized by leaf type so
// the same shape flows through solving: Spec[UsageLayoutArg] before, and
// Spec[SolvedLayoutArg] after.
type Spec[L any] struct {
	Program      string
	Layouts      []Branch[L]
	Descriptions []Description
	HelpText     string
	ShortHelp    string
}

// Usage returns the original short-usage fragment retained by the Scanner.
func (s *Spec[L]) Usage() string { return s.ShortHelp }

// Help returns the full original help text.
func (s *Spec[L]) Help() string { return s.HelpText }

// KeyKind discriminates what a Key identifies.
type KeyKind uint8

const (
	KeyOption KeyKind = iota
	KeyCommand
	KeyPositional
)

// Key is the canonical identity of an argument across all its aliases. Two
// SolvedLayoutArg leaves collide in the Reducer iff they produce an equal
// Key. Display is a single representative name (for options, the first
// declared long alias, else the first short one); Reduce does not use it as
// the map key but emits the value under every alias (see displayAliases).
type Key struct {
	Kind    KeyKind
	Name    string // Command/Positional literal name
	Aliases string // canonical alias signature, for KeyOption
	Display string // representative name
}

func (k Key) String() string {
	return k.Display
}

// displayAlias picks the alias docopt conventionally shows first: the
// first declared long name, falling back to the first short one. Used
// only to seed Key.Display, a single representative name for internal
// bookkeeping — the Reducer emits every alias, not just this one.
func displayAlias(aliases []OptionAlias) string {
	for _, a := range aliases {
		if a.Kind == AliasLong {
			return a.String()
		}
	}
	if len(aliases) > 0 {
		return aliases[0].String()
	}
	return ""
}

// displayAliases lists every alias string an Arg's Key expands to in the
// Reducer's output map: every declared alias for an Option, the literal
// name for a Command/Positional, and the EOA/Stdin sentinel.
func displayAliases(leaf SolvedLayoutArg, desc *Description) []string {
	switch leaf.Kind {
	case SArgCommand, SArgPositional:
		return []string{leaf.Name}
	case SArgEOA:
		return []string{"--"}
	case SArgStdin:
		return []string{"-"}
	default: // SArgOption
		aliases := []OptionAlias{leaf.Alias}
		if desc != nil {
			aliases = desc.Aliases
		}
		out := make([]string, len(aliases))
		for i, a := range aliases {
			out[i] = a.String()
		}
		return out
	}
}

// keyOf derives the Key for a SolvedLayoutArg leaf, using desc (if found)
// to widen an option's identity to its full alias set.
func keyOf(leaf SolvedLayoutArg, desc *Description) Key {
	switch leaf.Kind {
	case SArgCommand:
		return Key{Kind: KeyCommand, Name: leaf.Name, Display: leaf.Name}
	case SArgPositional:
		return Key{Kind: KeyPositional, Name: leaf.Name, Display: leaf.Name}
	case SArgOption:
		aliases := []OptionAlias{leaf.Alias}
		if desc != nil {
			aliases = desc.Aliases
		}
		return Key{Kind: KeyOption, Aliases: aliasSignature(aliases), Display: displayAlias(aliases)}
	case SArgEOA:
		return Key{Kind: KeyOption, Aliases: "$EOA", Display: "--"}
	default: // SArgStdin
		return Key{Kind: KeyOption, Aliases: "$STDIN", Display: "-"}
	}
}

// Arg is the pre-cached bundle attached to each SolvedLayoutArg leaf during
// parser preparation.
type Arg struct {
	ID         int
	Leaf       SolvedLayoutArg
	Key        Key
	CanTerm    bool
	Repeatable bool // structural repeatable OR'd across every leaf sharing Key
	Desc       *Description
	Fallback   *RichValue
}

// KeyValue pairs an Arg with the RichValue the Argument Parser bound to it.
type KeyValue struct {
	Arg   *Arg
	Value RichValue
}
