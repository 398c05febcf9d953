package generation

import "errors"

// Common errors returned by content generator implementations.
var (
	// ErrGenerationFailed is returned when the upstream call errors at the
	// transport or API level.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrContentBlocked is returned when the upstream model refuses the
	// request due to safety filtering.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
