package testutil

import "github.com/roach88/regram/internal/gramquery"

// Leaves builds one leaf per gram.
func Leaves(grams ...string) []gramquery.Query {
	out := make([]gramquery.Query, len(grams))
	for i, g := range grams {
		out[i] = gramquery.NewLeaf(g)
	}
	return out
}

// AndOf builds an AND of leaves.
func AndOf(grams ...string) gramquery.Query {
	return gramquery.NewAnd(Leaves(grams...)...)
}

// OrOf builds an OR of leaves.
func OrOf(grams ...string) gramquery.Query {
	return gramquery.NewOr(Leaves(grams...)...)
}

// Documents is a small corpus shared by index and harness tests.
var Documents = []string{
	"the data base",
	"databases and bcd",
	"pqr stuff dat",
	"nothing here",
	"uci irvine",
	"ucirvine machine learning",
}
