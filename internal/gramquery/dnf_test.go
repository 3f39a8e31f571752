package gramquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// hasAndOverOr reports whether any And node in q has an Or child.
func hasAndOverOr(q Query) bool {
	switch n := q.(type) {
	case And:
		for _, child := range n.children {
			if _, ok := child.(Or); ok {
				return true
			}
			if hasAndOverOr(child) {
				return true
			}
		}
	case Or:
		for _, child := range n.children {
			if hasAndOverOr(child) {
				return true
			}
		}
	}
	return false
}

func sampleQueries() []Query {
	a, b, c, d := NewLeaf("aaa"), NewLeaf("bbb"), NewLeaf("ccc"), NewLeaf("ddd")
	return []Query{
		Any(),
		NewAnd(),
		a,
		NewAnd(a, b),
		NewOr(a, b),
		NewAnd(NewOr(a, b), c),
		NewAnd(NewOr(a, b), NewOr(c, d)),
		NewOr(NewAnd(a, NewOr(b, c)), d),
		NewAnd(Any(), a, NewOr(Any(), b)),
		NewAnd(NewAnd(a, b), NewAnd(b, c)),
		NewOr(NewOr(a, b), NewOr(c, NewAnd(a, d))),
	}
}

func TestToDNF_Leaf(t *testing.T) {
	got := ToDNF(NewLeaf("abc"))
	assert.Equal(t, NewOr(NewAnd(NewLeaf("abc"))), got)
}

func TestToDNF_Distributes(t *testing.T) {
	a, b, c := NewLeaf("aaa"), NewLeaf("bbb"), NewLeaf("ccc")

	got := ToDNF(NewAnd(NewOr(a, b), c))

	want := NewOr(NewAnd(a, c), NewAnd(b, c))
	assert.True(t, Equal(want, got), "got %s", got)
}

func TestToDNF_SentinelHandling(t *testing.T) {
	a := NewLeaf("aaa")

	assert.Equal(t, NewOr(NewAnd(a)), ToDNF(NewAnd(Any(), a)), "ANY is the identity of And")
	assert.True(t, IsAny(ToDNF(NewOr(Any(), a))), "ANY absorbs Or")
	assert.True(t, IsAny(ToDNF(Any())))
	assert.True(t, IsAny(ToDNF(NewAnd())))
	assert.True(t, IsAny(ToDNF(NewAnd(Any(), Any()))))
}

func TestToDNF_Flattens(t *testing.T) {
	a, b, c := NewLeaf("aaa"), NewLeaf("bbb"), NewLeaf("ccc")

	got := ToDNF(NewAnd(NewAnd(a, b), NewAnd(b, c)))
	assert.Equal(t, NewOr(NewAnd(a, b, c)), got)

	got = ToDNF(NewOr(NewOr(a, b), NewOr(b, c)))
	assert.Equal(t, NewOr(NewAnd(a), NewAnd(b), NewAnd(c)), got)
}

func TestToDNF_Idempotent(t *testing.T) {
	for _, q := range sampleQueries() {
		once := ToDNF(q)
		twice := ToDNF(once)
		assert.True(t, Equal(once, twice), "ToDNF not idempotent for %s", q)
	}
}

func TestToDNF_GenuineDNF(t *testing.T) {
	for _, q := range sampleQueries() {
		dnf := ToDNF(q)
		assert.False(t, hasAndOverOr(dnf), "And over Or left in %s", dnf)
		assert.True(t, IsDNF(dnf), "not DNF: %s", dnf)
	}
}

func TestToDNFLimit_DropsOverflowingConjunct(t *testing.T) {
	q := NewAnd(
		NewOr(leaves("aaa", "bbb")...),
		NewOr(leaves("ccc", "ddd")...),
		NewOr(leaves("eee", "fff")...),
	)

	got := ToDNFLimit(q, 4)

	want := NewOr(
		NewAnd(leaves("aaa", "ccc")...),
		NewAnd(leaves("aaa", "ddd")...),
		NewAnd(leaves("bbb", "ccc")...),
		NewAnd(leaves("bbb", "ddd")...),
	)
	assert.Equal(t, want, got)

	// Without a limit all eight clauses survive.
	assert.Equal(t, 8, ToDNFLimit(q, 0).(Or).Len())
}

func TestClauses(t *testing.T) {
	q := NewOr(
		NewAnd(leaves("dat", "pqr")...),
		NewAnd(leaves("dat", "bcd")...),
	)

	assert.Equal(t, [][]string{{"bcd", "dat"}, {"dat", "pqr"}}, Clauses(q))
	assert.Nil(t, Clauses(Any()))
	assert.Equal(t, [][]string{{"abc"}}, Clauses(NewLeaf("abc")))
}

func TestIsDNF(t *testing.T) {
	a := NewLeaf("aaa")

	assert.True(t, IsDNF(Any()))
	assert.True(t, IsDNF(NewOr(NewAnd(a))))
	assert.False(t, IsDNF(a))
	assert.False(t, IsDNF(NewAnd(a)))
	assert.False(t, IsDNF(NewOr(a)))
	assert.False(t, IsDNF(NewOr(NewAnd(NewOr(a)))))
}
