package gramquery

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError reports leaves whose gram length does not match the
// configured gram length.
type ValidationError struct {
	GramLength int      // Expected length in runes
	Invalid    []string // Offending grams, sorted and deduplicated
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Invalid))
	for i, g := range e.Invalid {
		quoted[i] = fmt.Sprintf("%q", g)
	}
	return fmt.Sprintf("grams must be %d runes long: %s", e.GramLength, strings.Join(quoted, ", "))
}

// Validate checks that every leaf of q holds a gram of exactly gramLength
// runes. Returns *ValidationError listing the offending grams, or nil.
//
// Validate is a pure function with no side effects.
func Validate(q Query, gramLength int) error {
	if gramLength <= 0 {
		return fmt.Errorf("gram length must be positive, got %d", gramLength)
	}

	invalid := make(map[string]struct{})
	walkLeaves(q, func(l Leaf) {
		if utf8.RuneCountInString(l.Gram) != gramLength {
			invalid[l.Gram] = struct{}{}
		}
	})
	if len(invalid) == 0 {
		return nil
	}

	grams := make([]string, 0, len(invalid))
	for g := range invalid {
		grams = append(grams, g)
	}
	sort.Strings(grams)
	return &ValidationError{GramLength: gramLength, Invalid: grams}
}

// Leaves returns the distinct grams of q in sorted order.
func Leaves(q Query) []string {
	set := make(map[string]struct{})
	walkLeaves(q, func(l Leaf) {
		set[l.Gram] = struct{}{}
	})
	grams := make([]string, 0, len(set))
	for g := range set {
		grams = append(grams, g)
	}
	sort.Strings(grams)
	return grams
}

func walkLeaves(q Query, visit func(Leaf)) {
	switch n := q.(type) {
	case Leaf:
		visit(n)
	case And:
		for _, child := range n.children {
			walkLeaves(child, visit)
		}
	case Or:
		for _, child := range n.children {
			walkLeaves(child, visit)
		}
	}
}
