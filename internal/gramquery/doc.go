// Package gramquery provides the gram boolean query tree used to prefilter
// regular expression searches against an n-gram inverted index.
//
// A query is one of three shapes:
//
//	Leaf("abc")        the gram "abc" must occur in the document
//	And(q1, q2, ...)   every child must hold
//	Or(q1, q2, ...)    at least one child must hold
//
// And and Or children form a set: they are deduplicated and kept in
// canonical key order, so construction order never affects equality.
//
// # The ANY sentinel
//
// An Or with no children is the ANY sentinel. It does NOT mean false: it
// means that no usable constraint could be extracted and the filter must
// let every document through. An And with no children is treated the same
// way (it is the identity for conjunction). Every rewrite in this package
// threads the sentinel through:
//
//   - ANY inside an And is dropped (identity)
//   - ANY inside an Or makes the whole Or ANY
//
// # Pipeline
//
// Queries produced by the translator are normalized in two steps:
//
//	raw query --ToDNF--> Or(And(leaf...)...) --SimplifyDNF--> canonical query
//
// The canonical form drops clauses subsumed by smaller clauses and collapses
// single-child nodes, so logically equivalent translations compare Equal.
//
// All values are immutable and safe for concurrent use.
package gramquery
