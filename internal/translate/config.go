package translate

import (
	"fmt"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
)

const (
	// DefaultGramLength matches the trigram index granularity.
	DefaultGramLength = 3

	// MinGramLength and MaxGramLength bound GramLength.
	MinGramLength = 2
	MaxGramLength = 8

	// DefaultMaxExact bounds every exact set kept during translation.
	DefaultMaxExact = 64

	// DefaultMaxClassSize bounds the character classes that are enumerated.
	DefaultMaxClassSize = 32

	// DefaultMaxRepeat bounds how many copies a counted repeat unrolls to.
	DefaultMaxRepeat = 16

	// DefaultMaxExpansion is the per-call budget of exact strings generated.
	DefaultMaxExpansion = 100000
)

// Config holds translator settings. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// GramLength is the n-gram size of the target index, in runes.
	// Must equal the length the index was built with.
	GramLength int

	// Dialect selects the regex parser used by Translate.
	Dialect regexast.Dialect

	// MaxExact is the largest exact set kept. Larger sets are flushed into
	// a query at concatenation boundaries.
	MaxExact int

	// MaxClassSize is the largest character class enumerated rune by rune.
	// Larger classes impose no constraint.
	MaxClassSize int

	// MaxRepeat caps the copies a {n,m} repeat is unrolled into; the rest
	// is treated as a star.
	MaxRepeat int

	// MaxExpansion is the total number of exact strings one translation may
	// generate. Once spent, remaining subexpressions fall back to ANY.
	// Zero disables the budget.
	MaxExpansion int

	// MaxClauses bounds DNF expansion (see gramquery.ToDNFLimit).
	// Zero disables the bound.
	MaxClauses int

	// Normalize applies Unicode NFC to literal text before gramming.
	Normalize bool
}

// DefaultConfig returns the settings used by the package-level functions.
func DefaultConfig() Config {
	return Config{
		GramLength:   DefaultGramLength,
		Dialect:      regexast.DialectRE2,
		MaxExact:     DefaultMaxExact,
		MaxClassSize: DefaultMaxClassSize,
		MaxRepeat:    DefaultMaxRepeat,
		MaxExpansion: DefaultMaxExpansion,
		MaxClauses:   gramquery.DefaultMaxClauses,
	}
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.GramLength < MinGramLength || c.GramLength > MaxGramLength {
		return &ConfigError{
			Field:   "GramLength",
			Value:   c.GramLength,
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinGramLength, MaxGramLength, c.GramLength),
		}
	}
	if _, err := regexast.ParseDialect(string(c.Dialect)); err != nil {
		return &ConfigError{Field: "Dialect", Value: c.Dialect, Message: err.Error()}
	}
	if c.MaxExact < 1 {
		return &ConfigError{Field: "MaxExact", Value: c.MaxExact, Message: "must be at least 1"}
	}
	if c.MaxClassSize < 1 {
		return &ConfigError{Field: "MaxClassSize", Value: c.MaxClassSize, Message: "must be at least 1"}
	}
	if c.MaxRepeat < 1 {
		return &ConfigError{Field: "MaxRepeat", Value: c.MaxRepeat, Message: "must be at least 1"}
	}
	if c.MaxExpansion < 0 {
		return &ConfigError{Field: "MaxExpansion", Value: c.MaxExpansion, Message: "must not be negative"}
	}
	if c.MaxClauses < 0 {
		return &ConfigError{Field: "MaxClauses", Value: c.MaxClauses, Message: "must not be negative"}
	}
	return nil
}
