package regexast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedNode is matched by every *UnsupportedNodeError.
//
// It signals an incomplete binding between a parser and this tree (or a
// translator that does not cover a node kind). It is a programming defect,
// not a data condition: callers must surface it and must not replace it
// with a permissive fallback.
var ErrUnsupportedNode = errors.New("unsupported regex node")

// UnsupportedNodeError describes a node kind that has no mapping.
type UnsupportedNodeError struct {
	Dialect Dialect // Front-end that produced the node, empty for tree nodes
	Op      string  // Operation or Go type name
}

func (e *UnsupportedNodeError) Error() string {
	if e.Dialect != "" {
		return fmt.Sprintf("%s: %s op %s", ErrUnsupportedNode, e.Dialect, e.Op)
	}
	return fmt.Sprintf("%s: %s", ErrUnsupportedNode, e.Op)
}

// Is reports ErrUnsupportedNode as the error category.
func (e *UnsupportedNodeError) Is(target error) bool {
	return target == ErrUnsupportedNode
}

// ErrInvalidTree is matched by every *TreeError.
var ErrInvalidTree = errors.New("invalid syntax tree")

// TreeError lists the structural problems Validate found in a tree.
type TreeError struct {
	Problems []string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTree, strings.Join(e.Problems, "; "))
}

// Is reports ErrInvalidTree as the error category.
func (e *TreeError) Is(target error) bool {
	return target == ErrInvalidTree
}

// ParseError is returned when an external parser rejects a pattern.
type ParseError struct {
	Dialect Dialect
	Pattern string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s pattern %q: %v", e.Dialect, e.Pattern, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
