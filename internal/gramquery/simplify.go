package gramquery

import "sort"

// SimplifyDNF reduces a DNF query to its canonical form.
//
// Rules, applied until nothing changes:
//   - duplicates disappear through set semantics
//   - ANY children of an And are dropped; an Or with an ANY child is ANY
//   - a clause whose grams are a superset of another clause's grams is
//     dropped: it only admits documents the smaller clause already admits
//   - single-child And/Or nodes collapse to the child
//
// The output is Any(), a Leaf, an And of leaves, or an Or whose children
// are leaves or Ands of leaves. Input that is not in DNF is distributed
// first. SimplifyDNF is idempotent.
func SimplifyDNF(q Query) Query {
	clauses := expand(q, DefaultMaxClauses)
	if isTrue(clauses) {
		return Any()
	}
	return buildSimplified(removeSubsumed(clauses))
}

// Simplify is SimplifyDNF(ToDNF(q)).
func Simplify(q Query) Query {
	return SimplifyDNF(ToDNF(q))
}

// removeSubsumed drops every clause that contains another clause.
// Only leaf-only clauses exist after expansion, so the check is a plain
// subset test on gram sets.
func removeSubsumed(clauses []clause) []clause {
	bySize := make([]clause, len(clauses))
	copy(bySize, clauses)
	sort.SliceStable(bySize, func(i, j int) bool {
		return len(bySize[i]) < len(bySize[j])
	})

	kept := make([]clause, 0, len(bySize))
	for _, c := range bySize {
		subsumed := false
		for _, k := range kept {
			if c.contains(k) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, c)
		}
	}
	return normalizeClauses(kept)
}

func buildSimplified(clauses []clause) Query {
	terms := make([]Query, len(clauses))
	for i, c := range clauses {
		if len(c) == 1 {
			terms[i] = NewLeaf(c[0])
			continue
		}
		terms[i] = NewAnd(leavesOf(c)...)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return NewOr(terms...)
}
