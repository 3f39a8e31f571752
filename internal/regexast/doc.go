// Package regexast defines the regular expression syntax tree consumed by
// the gram translator, and binds external regex parsers to it.
//
// The tree is a closed set of node kinds:
//
//	Empty, Anchor, NoMatch          zero-width or impossible matches
//	Literal, CharClass, AnyChar     single characters and strings
//	Concat, Alternate               sequencing and choice
//	Star, Plus, Quest, Repeat       repetition
//	Capture                         grouping (named or numbered)
//
// SEALED INTERFACES:
//
// Node is a sealed interface using the marker method pattern. Only types in
// this package implement it, so translators can switch exhaustively:
//
//	switch n := node.(type) {
//	case Literal:
//	    // Handle literal
//	case Concat:
//	    // Handle concatenation
//	...
//	default:
//	    // Impossible - report an integration defect
//	}
//
// FRONT-ENDS:
//
// Parsing is delegated to existing libraries:
//
//	DialectRE2    regexp/syntax with Perl flags (Go's own regexp grammar)
//	DialectPCRE   github.com/quasilyte/regex/syntax (PCRE-flavoured grammar)
//
// Malformed patterns are reported as *ParseError. A parser operation that
// has no mapping to this tree is reported as *UnsupportedNodeError; that is
// a defect in the binding, never a property of the input data.
package regexast
