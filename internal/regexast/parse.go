package regexast

import (
	"fmt"
	"strings"
)

// Dialect selects the parser front-end.
type Dialect string

const (
	// DialectRE2 parses with regexp/syntax using Perl flags.
	DialectRE2 Dialect = "re2"

	// DialectPCRE parses with github.com/quasilyte/regex/syntax.
	DialectPCRE Dialect = "pcre"
)

// Dialects lists the supported dialects.
var Dialects = []Dialect{DialectRE2, DialectPCRE}

// ParseDialect converts a dialect name, case-insensitively.
// The empty string selects DialectRE2.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(DialectRE2):
		return DialectRE2, nil
	case string(DialectPCRE):
		return DialectPCRE, nil
	default:
		return "", fmt.Errorf("unknown dialect %q: must be one of %v", name, Dialects)
	}
}

// Parse parses pattern with the given dialect and maps the result onto the
// syntax tree.
//
// Returns *ParseError for malformed patterns and *UnsupportedNodeError when
// the parser produced an operation this package cannot represent.
func Parse(pattern string, dialect Dialect) (Node, error) {
	switch dialect {
	case DialectRE2, "":
		return parseRE2(pattern)
	case DialectPCRE:
		return parsePCRE(pattern)
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
}
