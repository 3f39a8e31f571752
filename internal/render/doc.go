// Package render presents gram queries to people and to index backends.
//
// Three renderings are provided, none of which mutate the query:
//
//	Tree              indented diagnostic dump (no compatibility guarantee)
//	IndexQueryString  Lucene-style boolean query over a gram field
//	SQLCompiler       parameterized SQLite SQL over the gramindex schema
//
// The ANY sentinel renders as an always-match expression in every form:
// MatchAll (default "*:*") for query strings, a scan of all documents for
// SQL. Callers may instead skip filtering when IsAny reports true.
package render
