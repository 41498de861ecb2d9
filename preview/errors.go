package preview

import "errors"

var (
	// ErrInvalidConfig is returned for invalid server options.
	ErrInvalidConfig = errors.New("invalid preview configuration")

	// ErrNotLoaded is returned when no catalog has been loaded yet.
	ErrNotLoaded = errors.New("no catalog loaded")
)
