package builder

import "errors"

var (
	// ErrInvalidConfig is returned when a SyntheticConfig fails validation.
	ErrInvalidConfig = errors.New("invalid synthetic config")

	// ErrGeneratorInvariant is returned when the synthetic generator produces a
	// product that fails validation. It indicates a bug in the generator.
	ErrGeneratorInvariant = errors.New("generator produced an invalid product")

	// ErrReadExport is returned when a raw export file cannot be read or parsed.
	ErrReadExport = errors.New("failed to read export")
)
