package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyPrompt is returned when a generation request has no prompt text.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidContentType is returned when the requested content type is
	// not one of the supported values.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidTone is returned when the requested tone is not one of the
	// supported values.
	ErrInvalidTone = errors.New("invalid tone")

	// ErrInvalidLength is returned when the requested length is not one of
	// the supported values.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidGeneratedContent is returned when persisted generated content
	// cannot be decoded back into its structured form.
	ErrInvalidGeneratedContent = errors.New("invalid generated content")
)
