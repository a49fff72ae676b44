package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the atlas package.
var (
	// ErrAtlasFull is returned when a glyph cannot be packed even after
	// the atlas has grown to its maximum size. The condition is
	// recoverable: the caller may skip the glyph, and the atlas stays
	// usable for glyphs already cached.
	ErrAtlasFull = errors.New("atlas: atlas full at maximum size")
)

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("atlas: invalid config: %s: %s", e.Field, e.Reason)
}
