package regexast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePCRETest(t *testing.T, pattern string) Node {
	t.Helper()
	node, err := Parse(pattern, DialectPCRE)
	require.NoError(t, err, "pattern %q", pattern)
	return node
}

func TestParsePCRE_Literals(t *testing.T) {
	tests := []struct {
		pattern string
		want    Node
	}{
		{"a", Literal{Runes: []rune("a")}},
		{"abc", Literal{Runes: []rune("abc")}},
		{`\x41`, Literal{Runes: []rune("A")}},
		{`\x{263a}`, Literal{Runes: []rune("☺")}},
		{`\012`, Literal{Runes: []rune("\n")}},
		{`\Qa.b\E`, Literal{Runes: []rune("a.b")}},
		{`\.`, Literal{Runes: []rune(".")}},
		{`\n`, Literal{Runes: []rune("\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePCRETest(t, tt.pattern))
		})
	}
}

func TestParsePCRE_Empty(t *testing.T) {
	assert.Equal(t, Empty{}, parsePCRETest(t, ""))
}

func TestParsePCRE_Anchors(t *testing.T) {
	node := parsePCRETest(t, "^abc$")
	assert.Equal(t, Concat{Subs: []Node{
		Anchor{Kind: BeginText},
		Literal{Runes: []rune("abc")},
		Anchor{Kind: EndText},
	}}, node)
}

func TestParsePCRE_CharClasses(t *testing.T) {
	tests := []struct {
		pattern string
		want    Node
	}{
		{"[a-c]", CharClass{Ranges: []rune{'a', 'c'}}},
		{"[cab]", CharClass{Ranges: []rune{'a', 'c'}}},
		{"[a-cx]", CharClass{Ranges: []rune{'a', 'c', 'x', 'x'}}},
		{`[\d]`, CharClass{Ranges: []rune{'0', '9'}}},
		{`\d`, CharClass{Ranges: []rune{'0', '9'}}},
		{"[[:digit:]]", CharClass{Ranges: []rune{'0', '9'}}},
		{"[^a]", AnyChar{MatchNL: true}},
		{`\D`, AnyChar{MatchNL: true}},
		{`\pL`, AnyChar{MatchNL: true}},
		{".", AnyChar{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePCRETest(t, tt.pattern))
		})
	}
}

func TestParsePCRE_Repetition(t *testing.T) {
	x := Literal{Runes: []rune("x")}
	tests := []struct {
		pattern string
		want    Node
	}{
		{"x*", Star{Sub: x}},
		{"x+", Plus{Sub: x}},
		{"x?", Quest{Sub: x}},
		{"x*?", Star{Sub: x}},
		{"x{3}", Repeat{Sub: x, Min: 3, Max: 3}},
		{"x{2,}", Repeat{Sub: x, Min: 2, Max: -1}},
		{"x{2,5}", Repeat{Sub: x, Min: 2, Max: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePCRETest(t, tt.pattern))
		})
	}
}

func TestParsePCRE_Groups(t *testing.T) {
	ab := Literal{Runes: []rune("ab")}

	assert.Equal(t, Capture{Sub: ab}, parsePCRETest(t, "(ab)"))
	assert.Equal(t, Capture{Sub: ab, Name: "n"}, parsePCRETest(t, "(?P<n>ab)"))
	assert.Equal(t, ab, parsePCRETest(t, "(?:ab)"))
}

func TestParsePCRE_FoldCase(t *testing.T) {
	node := parsePCRETest(t, "(?i)abc")

	concat, ok := node.(Concat)
	require.True(t, ok, "expected Concat, got %T", node)
	require.Len(t, concat.Subs, 2)
	assert.Equal(t, Empty{}, concat.Subs[0])
	assert.Equal(t, Literal{Runes: []rune("abc"), FoldCase: true}, concat.Subs[1])
}

func TestParsePCRE_FoldCaseClass(t *testing.T) {
	node := parsePCRETest(t, "(?i)[a-b]")

	concat, ok := node.(Concat)
	require.True(t, ok, "expected Concat, got %T", node)
	require.Len(t, concat.Subs, 2)
	assert.Equal(t, CharClass{Ranges: []rune{'A', 'B', 'a', 'b'}}, concat.Subs[1])
}

func TestParsePCRE_Backreference(t *testing.T) {
	node := parsePCRETest(t, `(a)\1`)
	assert.Equal(t, Concat{Subs: []Node{
		Capture{Sub: Literal{Runes: []rune("a")}},
		Star{Sub: AnyChar{MatchNL: true}},
	}}, node)
}

func TestParsePCRE_ZeroWidthAndAtomic(t *testing.T) {
	a := Literal{Runes: []rune("a")}
	b := Literal{Runes: []rune("b")}
	tests := []struct {
		pattern string
		want    Node
	}{
		{"a(?=b)", Concat{Subs: []Node{a, Empty{}}}},
		{"a(?!b)", Concat{Subs: []Node{a, Empty{}}}},
		{"(?<=a)b", Concat{Subs: []Node{Empty{}, b}}},
		{"(?<!a)b", Concat{Subs: []Node{Empty{}, b}}},
		{"a(?#note)b", Concat{Subs: []Node{a, Empty{}, b}}},
		{"(?>ab)", Literal{Runes: []rune("ab")}},
		{"a++", Plus{Sub: a}},
		{`a\Kb`, Concat{Subs: []Node{a, Empty{}, b}}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePCRETest(t, tt.pattern))
		})
	}
}

func TestParsePCRE_WhitespaceEscapes(t *testing.T) {
	tests := []struct {
		pattern string
		members []rune
	}{
		{`\h`, []rune{'\t', ' ', 0xa0, 0x1680, 0x2000, 0x200a, 0x202f, 0x205f, 0x3000}},
		{`\v`, []rune{'\n', '\v', '\f', '\r', 0x85, 0x2028, 0x2029}},
		{`\s`, []rune{'\t', '\n', '\v', '\f', '\r', ' ', 0x85, 0xa0, 0x2028, 0x3000}},
		{`[\h]`, []rune{'\t', 0xa0, 0x3000}},
		{`[\v]`, []rune{'\v', 0x2028}},
		{`[\s]`, []rune{'\v', 0x2029}},
		{"[[:space:]]", []rune{'\v', 0xa0}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			node := parsePCRETest(t, tt.pattern)
			class, ok := node.(CharClass)
			require.True(t, ok, "expected CharClass, got %T", node)
			runes := class.Runes()
			for _, r := range tt.members {
				assert.Contains(t, runes, r, "%U missing", r)
			}
		})
	}
}

func TestParsePCRE_Errors(t *testing.T) {
	patterns := []string{
		"a(b",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			_, err := Parse(pattern, DialectPCRE)
			require.Error(t, err)
			assert.True(t, IsParseError(err), "got %T: %v", err, err)
		})
	}
}

func TestParseRepeatBounds(t *testing.T) {
	lo, hi, err := parseRepeatBounds("{,4}")
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 4, hi)

	_, _, err = parseRepeatBounds("{5,2}")
	assert.Error(t, err)
}
