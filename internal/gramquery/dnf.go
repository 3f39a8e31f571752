package gramquery

import (
	"fmt"
	"sort"
)

// DefaultMaxClauses bounds the number of clauses produced while
// distributing And over Or.
const DefaultMaxClauses = 4096

// clause is a conjunction of grams, sorted and deduplicated.
// An empty clause is TRUE.
type clause []string

// ToDNF rewrites q into disjunctive normal form with DefaultMaxClauses.
func ToDNF(q Query) Query {
	return ToDNFLimit(q, DefaultMaxClauses)
}

// ToDNFLimit rewrites q into disjunctive normal form: Any(), or an Or
// whose children are all Ands of leaves.
//
// Distribution is bottom-up: And(Or(a,b), c) becomes Or(And(a,c), And(b,c)),
// nested And-of-And and Or-of-Or are merged, ANY children of an And are
// dropped and an ANY child of an Or makes the result ANY.
//
// When multiplying a child into a conjunction would produce more than
// maxClauses clauses, that child is treated as ANY. Dropping a conjunct
// only weakens the filter, so the result never rejects a document the
// full expansion would accept. maxClauses <= 0 disables the limit.
//
// ToDNFLimit is idempotent: applying it to its own output is a no-op.
func ToDNFLimit(q Query, maxClauses int) Query {
	return buildDNF(expand(q, maxClauses))
}

// Clauses returns the DNF clauses of q as sorted gram lists, in canonical
// order. Returns nil when q is ANY.
func Clauses(q Query) [][]string {
	clauses := expand(q, DefaultMaxClauses)
	if isTrue(clauses) {
		return nil
	}
	out := make([][]string, len(clauses))
	for i, c := range clauses {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// IsDNF reports whether q is already in the shape produced by ToDNF:
// Any(), or an Or of Ands whose children are all leaves.
func IsDNF(q Query) bool {
	if IsAny(q) {
		return true
	}
	or, ok := q.(Or)
	if !ok {
		return false
	}
	for _, child := range or.children {
		and, ok := child.(And)
		if !ok || len(and.children) == 0 {
			return false
		}
		for _, leaf := range and.children {
			if _, ok := leaf.(Leaf); !ok {
				return false
			}
		}
	}
	return true
}

// expand computes the clause list of q. The result is normalized: clauses
// are deduplicated and sorted, and a list that contains TRUE collapses to
// exactly one empty clause.
func expand(q Query, maxClauses int) []clause {
	switch n := q.(type) {
	case nil:
		return trueClauses()
	case Leaf:
		return []clause{{n.Gram}}
	case Or:
		if len(n.children) == 0 {
			return trueClauses()
		}
		var out []clause
		for _, child := range n.children {
			sub := expand(child, maxClauses)
			if isTrue(sub) {
				return trueClauses()
			}
			out = append(out, sub...)
		}
		return normalizeClauses(out)
	case And:
		acc := trueClauses()
		for _, child := range n.children {
			sub := expand(child, maxClauses)
			if isTrue(sub) {
				continue
			}
			if maxClauses > 0 && len(acc)*len(sub) > maxClauses {
				continue
			}
			acc = product(acc, sub)
		}
		return acc
	default:
		panic(fmt.Sprintf("gramquery: unknown query type %T", q))
	}
}

// product distributes two clause lists: every clause of a joined with
// every clause of b.
func product(a, b []clause) []clause {
	out := make([]clause, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			out = append(out, mergeClause(ca, cb))
		}
	}
	return normalizeClauses(out)
}

// mergeClause unions two sorted clauses.
func mergeClause(a, b clause) clause {
	out := make(clause, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func normalizeClauses(clauses []clause) []clause {
	seen := make(map[string]struct{}, len(clauses))
	out := make([]clause, 0, len(clauses))
	for _, c := range clauses {
		if len(c) == 0 {
			return trueClauses()
		}
		k := c.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key() < out[j].key()
	})
	return out
}

func (c clause) key() string {
	return fmt.Sprintf("%q", []string(c))
}

// contains reports whether every gram of sub is in c. Both are sorted.
func (c clause) contains(sub clause) bool {
	i := 0
	for _, g := range sub {
		for i < len(c) && c[i] < g {
			i++
		}
		if i == len(c) || c[i] != g {
			return false
		}
		i++
	}
	return true
}

func trueClauses() []clause {
	return []clause{{}}
}

func isTrue(clauses []clause) bool {
	return len(clauses) == 1 && len(clauses[0]) == 0
}

func leavesOf(c clause) []Query {
	leaves := make([]Query, len(c))
	for i, g := range c {
		leaves[i] = NewLeaf(g)
	}
	return leaves
}

// buildDNF renders a clause list as Or(And(leaf...)...).
func buildDNF(clauses []clause) Query {
	if isTrue(clauses) {
		return Any()
	}
	ands := make([]Query, len(clauses))
	for i, c := range clauses {
		ands[i] = NewAnd(leavesOf(c)...)
	}
	return NewOr(ands...)
}
