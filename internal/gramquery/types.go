package gramquery

import (
	"sort"
	"strings"
)

// Query is a node of a gram boolean query tree.
//
// This is a sealed interface - only Leaf, And and Or implement it.
// Consumers can rely on exhaustive type switches:
//
//	switch n := q.(type) {
//	case Leaf:
//	case And:
//	case Or:
//	}
type Query interface {
	queryNode() // Marker method - seals interface to this package

	// Key returns the canonical encoding of the tree. Two queries are
	// equal if and only if their keys are equal.
	Key() string

	// String returns a compact human-readable form for diagnostics.
	String() string
}

// Leaf requires a single gram to be present in the document.
//
// The gram length is not checked at construction; use Validate to verify
// that every leaf of a tree has the configured gram length.
type Leaf struct {
	Gram string
}

func (Leaf) queryNode() {}

// NewLeaf creates a leaf for the given gram.
func NewLeaf(gram string) Leaf {
	return Leaf{Gram: gram}
}

// Key returns the canonical encoding of the leaf.
func (l Leaf) Key() string {
	return encodeString(l.Gram)
}

func (l Leaf) String() string {
	return encodeString(l.Gram)
}

// And requires all of its children to hold.
//
// Children are a set in canonical order. Use NewAnd to construct one;
// the zero value behaves like an empty And (the ANY sentinel).
type And struct {
	children []Query
	key      string
}

func (And) queryNode() {}

// NewAnd creates a conjunction of the given children.
// Duplicate children are removed and nil children are ignored.
// No flattening or simplification is applied.
func NewAnd(children ...Query) And {
	set, keys := canonicalSet(children)
	return And{children: set, key: compositeKey(opAnd, keys)}
}

// Children returns the children in canonical order.
// The returned slice is a copy and may be modified by the caller.
func (a And) Children() []Query {
	return cloneChildren(a.children)
}

// Len returns the number of children.
func (a And) Len() int {
	return len(a.children)
}

// Key returns the canonical encoding of the conjunction.
func (a And) Key() string {
	if a.key == "" {
		return compositeKey(opAnd, childKeys(a.children))
	}
	return a.key
}

func (a And) String() string {
	return formatComposite("AND", a.children)
}

// Or requires at least one of its children to hold.
//
// An Or with no children is the ANY sentinel (see package documentation).
type Or struct {
	children []Query
	key      string
}

func (Or) queryNode() {}

// NewOr creates a disjunction of the given children.
// Duplicate children are removed and nil children are ignored.
// No flattening or simplification is applied.
func NewOr(children ...Query) Or {
	set, keys := canonicalSet(children)
	return Or{children: set, key: compositeKey(opOr, keys)}
}

// Any returns the ANY sentinel: an Or without children.
func Any() Or {
	return NewOr()
}

// Children returns the children in canonical order.
// The returned slice is a copy and may be modified by the caller.
func (o Or) Children() []Query {
	return cloneChildren(o.children)
}

// Len returns the number of children.
func (o Or) Len() int {
	return len(o.children)
}

// Key returns the canonical encoding of the disjunction.
func (o Or) Key() string {
	if o.key == "" {
		return compositeKey(opOr, childKeys(o.children))
	}
	return o.key
}

func (o Or) String() string {
	if len(o.children) == 0 {
		return "ANY"
	}
	return formatComposite("OR", o.children)
}

// IsAny reports whether q imposes no constraint: an Or or And without
// children. A nil query is also treated as ANY.
func IsAny(q Query) bool {
	switch n := q.(type) {
	case nil:
		return true
	case Or:
		return len(n.children) == 0
	case And:
		return len(n.children) == 0
	default:
		return false
	}
}

// Equal reports whether two queries are structurally equal under set
// semantics. An empty And and an empty Or are both the ANY sentinel and
// compare equal.
func Equal(a, b Query) bool {
	if IsAny(a) || IsAny(b) {
		return IsAny(a) && IsAny(b)
	}
	return a.Key() == b.Key()
}

// canonicalSet deduplicates children by key and sorts them in key order.
// An empty And child is stored as Any() so both spellings of the sentinel
// share one key.
func canonicalSet(children []Query) ([]Query, []string) {
	if len(children) == 0 {
		return nil, nil
	}

	type keyed struct {
		key   string
		query Query
	}

	seen := make(map[string]struct{}, len(children))
	entries := make([]keyed, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		if and, ok := child.(And); ok && len(and.children) == 0 {
			child = Any()
		}
		k := child.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, keyed{key: k, query: child})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	set := make([]Query, len(entries))
	keys := make([]string, len(entries))
	for i, e := range entries {
		set[i] = e.query
		keys[i] = e.key
	}
	return set, keys
}

func childKeys(children []Query) []string {
	keys := make([]string, len(children))
	for i, child := range children {
		keys[i] = child.Key()
	}
	return keys
}

func cloneChildren(children []Query) []Query {
	if len(children) == 0 {
		return nil
	}
	out := make([]Query, len(children))
	copy(out, children)
	return out
}

func formatComposite(name string, children []Query) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
