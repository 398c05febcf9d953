package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/generation"
	"github.com/velvetlab/velvet-api/internal/service"
	"github.com/velvetlab/velvet-api/internal/service/auth"
	"github.com/velvetlab/velvet-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Credit exhaustion gets its own status so the SPA can route users to
	// the upgrade screen.
	case errors.Is(err, store.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrGenerationNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNoRequests),
		errors.Is(err, service.ErrBulkSizeExceeded):
		return http.StatusBadRequest

	// Upstream generation failures, blocked content included, surface as
	// server errors.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, store.ErrInsufficientCredits):
		return "Insufficient credits"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, service.ErrNoRequests),
		errors.Is(err, service.ErrBulkSizeExceeded):
		return err.Error()

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request: " + strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Generation failures
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content was blocked by the provider's safety filters"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Content generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from struct-tag
// validation errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Invalid request format"
}

// getValidationTagMessage translates validator tags into readable text.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "value is too short or too small"
	case "max":
		return "value is too long or too large"
	case "oneof":
		return "value is not one of the allowed options"
	case "gt", "gte":
		return "value is too small"
	case "lt", "lte":
		return "value is too large"
	default:
		return "invalid value"
	}
}
