package translate

import (
	"errors"

	"github.com/roach88/regram/internal/regexast"
)

// ErrUnsupportedNode is returned for AST nodes the translator does not
// cover. It signals an integration defect and must not be turned into ANY.
var ErrUnsupportedNode = regexast.ErrUnsupportedNode

// UnsupportedNodeError carries the offending node kind.
type UnsupportedNodeError = regexast.UnsupportedNodeError

// IsUnsupportedNode returns true if err is or wraps ErrUnsupportedNode.
func IsUnsupportedNode(err error) bool {
	return errors.Is(err, ErrUnsupportedNode)
}

// ConfigError is returned by New and Config.Validate for out-of-range
// settings.
type ConfigError struct {
	Field   string // Config field name
	Value   any    // Offending value
	Message string
}

func (e *ConfigError) Error() string {
	return "translate config: " + e.Field + ": " + e.Message
}

// IsConfigError returns true if err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
