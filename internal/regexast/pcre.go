package regexast

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	pcre "github.com/quasilyte/regex/syntax"
)

// maxFoldedClass bounds the rune set built for a class under (?i). Larger
// classes are widened to AnyChar.
const maxFoldedClass = 1024

func parsePCRE(pattern string) (node Node, err error) {
	// Malformed input can still panic inside the parser.
	defer func() {
		if r := recover(); r != nil {
			node = nil
			err = &ParseError{Dialect: DialectPCRE, Pattern: pattern, Err: fmt.Errorf("%v", r)}
		}
	}()

	p := pcre.NewParser(nil)
	re, perr := p.Parse(pattern)
	if perr != nil {
		return nil, &ParseError{Dialect: DialectPCRE, Pattern: pattern, Err: perr}
	}

	c := pcreConverter{pattern: pattern, fold: hasFoldFlag(re.Expr)}
	return c.convert(re.Expr)
}

// pcreConverter maps a quasilyte expression tree onto Node.
//
// Case-insensitive flags are applied to the whole pattern when any group
// sets them. Folding more runes than the pattern does only widens the
// match set.
type pcreConverter struct {
	pattern string
	fold    bool
}

func (c *pcreConverter) convert(e pcre.Expr) (Node, error) {
	switch e.Op {
	case pcre.OpConcat:
		if len(e.Args) == 0 {
			return Empty{}, nil
		}
		subs, err := c.convertArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return Concat{Subs: subs}, nil

	case pcre.OpAlt:
		subs, err := c.convertArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return Alternate{Subs: subs}, nil

	case pcre.OpLiteral:
		runes := make([]rune, 0, len(e.Args))
		for _, arg := range e.Args {
			r, _ := utf8.DecodeRuneInString(arg.Value)
			runes = append(runes, r)
		}
		return c.literal(runes...), nil

	case pcre.OpChar:
		r, _ := utf8.DecodeRuneInString(e.Value)
		return c.literal(r), nil

	case pcre.OpEscapeMeta:
		r, _ := utf8.DecodeRuneInString(e.Value[1:])
		return c.literal(r), nil

	case pcre.OpEscapeHex:
		r, err := hexRune(e.Value)
		if err != nil {
			return nil, c.parseError(err)
		}
		return c.literal(r), nil

	case pcre.OpEscapeOctal:
		// \1-\9 are backreferences; they match previously captured text.
		if e.Value[1] != '0' {
			return Star{Sub: AnyChar{MatchNL: true}}, nil
		}
		r, err := octalRune(e.Value)
		if err != nil {
			return nil, c.parseError(err)
		}
		return c.literal(r), nil

	case pcre.OpEscapeChar:
		return c.escape(e.Value), nil

	case pcre.OpEscapeUni, pcre.OpNegCharClass, pcre.OpPosixClass:
		return AnyChar{MatchNL: true}, nil

	case pcre.OpQuote:
		text := strings.TrimPrefix(e.Value, `\Q`)
		text = strings.TrimSuffix(text, `\E`)
		if text == "" {
			return Empty{}, nil
		}
		return c.literal([]rune(text)...), nil

	case pcre.OpDot:
		return AnyChar{}, nil

	case pcre.OpCaret:
		return Anchor{Kind: BeginText}, nil

	case pcre.OpDollar:
		return Anchor{Kind: EndText}, nil

	case pcre.OpCharClass:
		return c.charClass(e.Args), nil

	case pcre.OpCapture:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		return Capture{Sub: sub}, nil

	case pcre.OpNamedCapture:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		return Capture{Sub: sub, Name: e.Args[1].Value}, nil

	case pcre.OpGroup, pcre.OpGroupWithFlags, pcre.OpNonGreedy,
		pcre.OpAtomicGroup, pcre.OpPossessive:
		return c.convert(e.Args[0])

	case pcre.OpFlagOnlyGroup, pcre.OpComment:
		return Empty{}, nil

	case pcre.OpPositiveLookahead, pcre.OpNegativeLookahead,
		pcre.OpPositiveLookbehind, pcre.OpNegativeLookbehind:
		// Zero-width: the asserted text is matched by the pattern
		// around it, if at all. Still reject unmapped ops inside.
		if _, err := c.convert(e.Args[0]); err != nil {
			return nil, err
		}
		return Empty{}, nil

	case pcre.OpPlus:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		return Plus{Sub: sub}, nil

	case pcre.OpStar:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		return Star{Sub: sub}, nil

	case pcre.OpQuestion:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		return Quest{Sub: sub}, nil

	case pcre.OpRepeat:
		sub, err := c.convert(e.Args[0])
		if err != nil {
			return nil, err
		}
		lo, hi, err := parseRepeatBounds(e.Args[1].Value)
		if err != nil {
			return nil, c.parseError(err)
		}
		return Repeat{Sub: sub, Min: lo, Max: hi}, nil

	default:
		return nil, &UnsupportedNodeError{Dialect: DialectPCRE, Op: fmt.Sprintf("%d (%q)", e.Op, e.Value)}
	}
}

func (c *pcreConverter) convertArgs(args []pcre.Expr) ([]Node, error) {
	out := make([]Node, 0, len(args))
	for _, arg := range args {
		n, err := c.convert(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *pcreConverter) literal(runes ...rune) Node {
	return Literal{Runes: runes, FoldCase: c.fold}
}

func (c *pcreConverter) parseError(err error) error {
	return &ParseError{Dialect: DialectPCRE, Pattern: c.pattern, Err: err}
}

// escape maps a backslash escape outside a class.
func (c *pcreConverter) escape(value string) Node {
	r, _ := utf8.DecodeRuneInString(value[1:])
	switch r {
	case 'b':
		return Anchor{Kind: WordBoundary}
	case 'B':
		return Anchor{Kind: NoWordBoundary}
	case 'A':
		return Anchor{Kind: BeginText}
	case 'z', 'Z':
		return Anchor{Kind: EndText}
	case 'G', 'K':
		return Empty{}
	}
	if set, ok := escapeSet(r); ok {
		if set == nil {
			return AnyChar{MatchNL: true}
		}
		return CharClass{Ranges: slices.Clone(set)}
	}
	return c.literal(escapeRune(r))
}

// charClass folds class items into ranges. Items that cannot be enumerated
// widen the class to AnyChar.
func (c *pcreConverter) charClass(items []pcre.Expr) Node {
	if len(items) == 0 {
		return NoMatch{}
	}
	var b classBuilder
	for _, item := range items {
		if !c.addClassItem(&b, item) {
			return AnyChar{MatchNL: true}
		}
	}
	if c.fold && !b.fold() {
		return AnyChar{MatchNL: true}
	}
	return CharClass{Ranges: b.ranges()}
}

func (c *pcreConverter) addClassItem(b *classBuilder, item pcre.Expr) bool {
	switch item.Op {
	case pcre.OpCharRange:
		lo, ok := classRune(item.Args[0])
		if !ok {
			return false
		}
		hi, ok := classRune(item.Args[1])
		if !ok || hi < lo {
			return false
		}
		b.addRange(lo, hi)
		return true

	case pcre.OpEscapeChar:
		r, _ := utf8.DecodeRuneInString(item.Value[1:])
		if set, ok := escapeSet(r); ok {
			if set == nil {
				return false
			}
			for i := 0; i+1 < len(set); i += 2 {
				b.addRange(set[i], set[i+1])
			}
			return true
		}
		if r == 'b' {
			b.addRange('\b', '\b')
			return true
		}
		r = escapeRune(r)
		b.addRange(r, r)
		return true

	case pcre.OpPosixClass:
		set, ok := posixClasses[item.Value]
		if !ok {
			return false
		}
		for i := 0; i+1 < len(set); i += 2 {
			b.addRange(set[i], set[i+1])
		}
		return true

	case pcre.OpLiteral:
		for _, arg := range item.Args {
			if !c.addClassItem(b, arg) {
				return false
			}
		}
		return true

	default:
		r, ok := classRune(item)
		if !ok {
			return false
		}
		b.addRange(r, r)
		return true
	}
}

// classRune returns the single rune an item denotes.
func classRune(e pcre.Expr) (rune, bool) {
	switch e.Op {
	case pcre.OpChar:
		r, _ := utf8.DecodeRuneInString(e.Value)
		return r, true
	case pcre.OpEscapeMeta:
		r, _ := utf8.DecodeRuneInString(e.Value[1:])
		return r, true
	case pcre.OpEscapeChar:
		r, _ := utf8.DecodeRuneInString(e.Value[1:])
		if _, isSet := escapeSet(r); isSet {
			return 0, false
		}
		return escapeRune(r), true
	case pcre.OpEscapeHex:
		r, err := hexRune(e.Value)
		return r, err == nil
	case pcre.OpEscapeOctal:
		r, err := octalRune(e.Value)
		return r, err == nil
	default:
		return 0, false
	}
}

// escapeSet returns the ranges for a class escape. A nil set with ok=true
// means the escape names a class too large to enumerate.
func escapeSet(r rune) ([]rune, bool) {
	switch r {
	case 'd':
		return []rune{'0', '9'}, true
	case 'w':
		return []rune{'0', '9', 'A', 'Z', '_', '_', 'a', 'z'}, true
	case 's':
		return spaceRanges, true
	case 'h':
		return horizontalSpaceRanges, true
	case 'v':
		return verticalSpaceRanges, true
	case 'D', 'W', 'S', 'H', 'V', 'N', 'R', 'X', 'C':
		return nil, true
	default:
		return nil, false
	}
}

// Whitespace escapes use the Unicode sets PCRE applies in UCP mode, a
// superset of the ASCII ones.
var (
	horizontalSpaceRanges = []rune{
		'\t', '\t', ' ', ' ', 0xa0, 0xa0, 0x1680, 0x1680, 0x180e, 0x180e,
		0x2000, 0x200a, 0x202f, 0x202f, 0x205f, 0x205f, 0x3000, 0x3000,
	}
	verticalSpaceRanges = []rune{'\n', '\r', 0x85, 0x85, 0x2028, 0x2029}
	spaceRanges         = []rune{
		'\t', '\r', ' ', ' ', 0x85, 0x85, 0xa0, 0xa0, 0x1680, 0x1680, 0x180e, 0x180e,
		0x2000, 0x200a, 0x2028, 0x2029, 0x202f, 0x202f, 0x205f, 0x205f, 0x3000, 0x3000,
	}
)

func escapeRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	case 'a':
		return '\a'
	case 'e':
		return 0x1b
	default:
		return r
	}
}

var posixClasses = map[string][]rune{
	"[:alnum:]":  {'0', '9', 'A', 'Z', 'a', 'z'},
	"[:alpha:]":  {'A', 'Z', 'a', 'z'},
	"[:ascii:]":  {0, 0x7f},
	"[:blank:]":  horizontalSpaceRanges,
	"[:cntrl:]":  {0, 0x1f, 0x7f, 0x7f},
	"[:digit:]":  {'0', '9'},
	"[:lower:]":  {'a', 'z'},
	"[:space:]":  spaceRanges,
	"[:upper:]":  {'A', 'Z'},
	"[:word:]":   {'0', '9', 'A', 'Z', '_', '_', 'a', 'z'},
	"[:xdigit:]": {'0', '9', 'A', 'F', 'a', 'f'},
}

func hexRune(value string) (rune, error) {
	digits := strings.TrimPrefix(value, `\x`)
	digits = strings.TrimSuffix(strings.TrimPrefix(digits, "{"), "}")
	if digits == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v > unicode.MaxRune {
		return 0, fmt.Errorf("invalid hex escape %q", value)
	}
	return rune(v), nil
}

func octalRune(value string) (rune, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(value, `\`), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal escape %q", value)
	}
	return rune(v), nil
}

// parseRepeatBounds parses "{n}", "{n,}", "{n,m}" and "{,m}".
func parseRepeatBounds(value string) (lo, hi int, err error) {
	body := strings.TrimSuffix(strings.TrimPrefix(value, "{"), "}")
	loText, hiText, hasComma := strings.Cut(body, ",")
	if loText != "" {
		if lo, err = strconv.Atoi(loText); err != nil {
			return 0, 0, fmt.Errorf("invalid repeat %q", value)
		}
	}
	switch {
	case !hasComma:
		hi = lo
	case hiText == "":
		hi = -1
	default:
		if hi, err = strconv.Atoi(hiText); err != nil {
			return 0, 0, fmt.Errorf("invalid repeat %q", value)
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("invalid repeat %q: max below min", value)
		}
	}
	return lo, hi, nil
}

// hasFoldFlag reports whether any flag group in the tree sets 'i'.
func hasFoldFlag(e pcre.Expr) bool {
	switch e.Op {
	case pcre.OpFlagOnlyGroup:
		if flagsEnable(e.Args[0].Value, 'i') {
			return true
		}
	case pcre.OpGroupWithFlags:
		if flagsEnable(e.Args[1].Value, 'i') {
			return true
		}
	}
	for _, arg := range e.Args {
		if hasFoldFlag(arg) {
			return true
		}
	}
	return false
}

// flagsEnable reports whether a flag string like "?im-s" turns flag on.
func flagsEnable(flags string, flag byte) bool {
	on, _, _ := strings.Cut(flags, "-")
	return strings.IndexByte(on, flag) >= 0
}

// classBuilder accumulates class ranges.
type classBuilder struct {
	pairs []rune
}

func (b *classBuilder) addRange(lo, hi rune) {
	b.pairs = append(b.pairs, lo, hi)
}

// fold adds the simple case-fold orbit of every rune. Returns false when
// the class is too large to fold.
func (b *classBuilder) fold() bool {
	size := 0
	for i := 0; i+1 < len(b.pairs); i += 2 {
		size += int(b.pairs[i+1]-b.pairs[i]) + 1
		if size > maxFoldedClass {
			return false
		}
	}
	n := len(b.pairs)
	for i := 0; i+1 < n; i += 2 {
		for r := b.pairs[i]; r <= b.pairs[i+1]; r++ {
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				b.addRange(f, f)
			}
		}
	}
	return true
}

// ranges returns sorted, merged lo/hi pairs.
func (b *classBuilder) ranges() []rune {
	type span struct{ lo, hi rune }
	spans := make([]span, 0, len(b.pairs)/2)
	for i := 0; i+1 < len(b.pairs); i += 2 {
		spans = append(spans, span{b.pairs[i], b.pairs[i+1]})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	var out []rune
	for _, s := range spans {
		if n := len(out); n > 0 && s.lo <= out[n-1]+1 {
			if s.hi > out[n-1] {
				out[n-1] = s.hi
			}
			continue
		}
		out = append(out, s.lo, s.hi)
	}
	return out
}
