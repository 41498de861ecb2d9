package surface

import "errors"

var (
	// ErrUnavailable is returned when an engine cannot be constructed from a blob.
	// It wraps the underlying decode error.
	ErrUnavailable = errors.New("search unavailable")

	// ErrInvalidConfig is returned when a HostConfig fails validation.
	ErrInvalidConfig = errors.New("invalid host config")
)
