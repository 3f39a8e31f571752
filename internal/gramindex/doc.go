// Package gramindex is a reference n-gram inverted index on SQLite.
//
// It stores documents and, for each document, the set of distinct grams it
// contains. A gram query compiled by render.SQLCompiler selects the
// candidate documents; the exact regex is run by the caller afterwards.
//
// SCHEMA:
//
//	documents(id, seq, body)   one row per document, seq is a logical clock
//	postings(gram, doc_id)     one row per distinct gram per document
//	index_meta(key, value)     gram_length and normalize, fixed at creation
//
// GRAM LENGTH:
//
// The gram length is recorded when the index is created. Reopening with a
// different length fails with ErrGramLengthMismatch, and Candidates rejects
// queries whose leaves have the wrong length, since either mismatch would
// silently drop true matches.
//
// DETERMINISM:
//
// Documents are ordered by a logical seq assigned at insert time, never by
// wall clock. Candidate IDs are returned in binary order of doc_id.
package gramindex
