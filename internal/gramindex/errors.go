package gramindex

import "errors"

var (
	// ErrGramLengthMismatch is returned when the requested gram length, or a
	// query leaf, disagrees with the length the index was built with.
	ErrGramLengthMismatch = errors.New("gram length mismatch")

	// ErrNormalizeMismatch is returned when reopening an index with a
	// different normalization setting.
	ErrNormalizeMismatch = errors.New("normalization mismatch")

	// ErrNotFound is returned by Get for unknown document IDs.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateID is returned by AddWithID when the ID already exists.
	ErrDuplicateID = errors.New("duplicate document id")
)
