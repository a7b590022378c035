package override

import "errors"

var (
	// ErrInvalidConfig is fatal: nothing can be resolved without valid configuration.
	ErrInvalidConfig = errors.New("invalid override configuration")
)
