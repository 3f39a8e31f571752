// Package translate compiles a regular expression into a gram query: a
// boolean filter over fixed-length n-grams that every matching document
// must satisfy.
//
// The filter is sound, never exact. A document rejected by the query can
// never match the regex; a document accepted by it still has to be checked
// with the real regex engine.
//
// PIPELINE:
//
//	pattern --regexast.Parse--> AST --TranslateAST--> raw query
//	raw query --gramquery.ToDNFLimit--> DNF --gramquery.SimplifyDNF--> query
//
// EXACT SETS:
//
// Each subexpression is summarised either as an exact set (every string it
// can match, when that set is small) or as a query. Exact sets are joined
// across concatenation boundaries before gramming, so grams that span two
// regex nodes are still extracted:
//
//	data*(bcd|pqr)  ->  AND("dat", OR("bcd","pqr"))
//	abc?pqr?        ->  OR(AND("abc","bcp","cpq"), AND("abp","bpq"))
//
// Every "cannot constrain" or "too expensive" case collapses into the ANY
// sentinel (gramquery.Any). Only ErrUnsupportedNode and malformed trees
// (regexast.ErrInvalidTree) are reported as errors; both mean the AST
// binding is incomplete.
//
// CONCURRENCY:
//
// A Translator is immutable after New. Translate may be called from any
// number of goroutines.
package translate
