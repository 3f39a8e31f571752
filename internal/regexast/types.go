package regexast

// Node is a node of the regular expression syntax tree.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	regexNode() // Marker method - seals interface to this package
}

// Empty matches the empty string.
type Empty struct{}

func (Empty) regexNode() {}

// NoMatch matches nothing (e.g. an empty character class).
type NoMatch struct{}

func (NoMatch) regexNode() {}

// AnchorKind identifies a zero-width assertion.
type AnchorKind int

const (
	BeginLine AnchorKind = iota
	EndLine
	BeginText
	EndText
	WordBoundary
	NoWordBoundary
)

func (k AnchorKind) String() string {
	switch k {
	case BeginLine:
		return "begin-line"
	case EndLine:
		return "end-line"
	case BeginText:
		return "begin-text"
	case EndText:
		return "end-text"
	case WordBoundary:
		return "word-boundary"
	case NoWordBoundary:
		return "no-word-boundary"
	default:
		return "anchor?"
	}
}

// Anchor is a zero-width assertion such as ^, $ or \b.
type Anchor struct {
	Kind AnchorKind
}

func (Anchor) regexNode() {}

// Literal matches a fixed string.
//
// When FoldCase is set, each rune also matches its simple case-fold
// equivalents (as in (?i)).
type Literal struct {
	Runes    []rune
	FoldCase bool
}

func (Literal) regexNode() {}

// Text returns the literal as a string.
func (l Literal) Text() string {
	return string(l.Runes)
}

// CharClass matches one rune from a set of inclusive ranges.
//
// Ranges holds lo/hi pairs: [lo0, hi0, lo1, hi1, ...].
type CharClass struct {
	Ranges []rune
}

func (CharClass) regexNode() {}

// Size returns the number of runes matched by the class.
func (c CharClass) Size() int {
	n := 0
	for i := 0; i+1 < len(c.Ranges); i += 2 {
		n += int(c.Ranges[i+1]-c.Ranges[i]) + 1
	}
	return n
}

// Runes enumerates the class in ascending order. Callers must bound the
// class with Size first; a class can hold the whole Unicode range.
func (c CharClass) Runes() []rune {
	out := make([]rune, 0, c.Size())
	for i := 0; i+1 < len(c.Ranges); i += 2 {
		for r := c.Ranges[i]; r <= c.Ranges[i+1]; r++ {
			out = append(out, r)
		}
	}
	return out
}

// AnyChar matches any single rune. MatchNL reports whether newline is
// included ((?s). or PCRE classes that cannot be enumerated).
type AnyChar struct {
	MatchNL bool
}

func (AnyChar) regexNode() {}

// Concat matches its children in sequence.
type Concat struct {
	Subs []Node
}

func (Concat) regexNode() {}

// Alternate matches any one of its children.
type Alternate struct {
	Subs []Node
}

func (Alternate) regexNode() {}

// Star matches zero or more repetitions of Sub.
type Star struct {
	Sub Node
}

func (Star) regexNode() {}

// Plus matches one or more repetitions of Sub.
type Plus struct {
	Sub Node
}

func (Plus) regexNode() {}

// Quest matches zero or one occurrence of Sub.
type Quest struct {
	Sub Node
}

func (Quest) regexNode() {}

// Repeat matches Sub between Min and Max times. Max is -1 when unbounded.
type Repeat struct {
	Sub Node
	Min int
	Max int
}

func (Repeat) regexNode() {}

// Capture is a capturing group. Grouping has no effect on what matches.
type Capture struct {
	Sub   Node
	Name  string // Empty for unnamed groups
	Index int    // Group number, 0 when unknown
}

func (Capture) regexNode() {}
