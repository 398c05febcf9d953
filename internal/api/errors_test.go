package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velvetlab/velvet-api/internal/api"
	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/generation"
	"github.com/velvetlab/velvet-api/internal/service"
	"github.com/velvetlab/velvet-api/internal/service/auth"
	"github.com/velvetlab/velvet-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"insufficient credits", store.ErrInsufficientCredits, http.StatusPaymentRequired},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"generation not found", store.ErrGenerationNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"bulk size", service.ErrBulkSizeExceeded, http.StatusBadRequest},
		{"empty bulk", service.ErrNoRequests, http.StatusBadRequest},
		{"generation failed", generation.ErrGenerationFailed, http.StatusInternalServerError},
		{"content blocked", generation.ErrContentBlocked, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestMapErrorToStatusCodeUnwraps(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("generate for user: %w", store.ErrInsufficientCredits)
	assert.Equal(t, http.StatusPaymentRequired, api.MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"insufficient credits", store.ErrInsufficientCredits, "Insufficient credits"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"generation not found", store.ErrGenerationNotFound, "Generation not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"generation failed", generation.ErrGenerationFailed, "Content generation failed"},
		{
			"content blocked",
			generation.ErrContentBlocked,
			"Content was blocked by the provider's safety filters",
		},
		{"unknown hides details", errors.New("pq: password auth failed"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessageValidationDetail(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: prompt cannot be empty", domain.ErrValidation)
	msg := api.GetSafeErrorMessage(err)
	assert.Contains(t, msg, "prompt cannot be empty")
	assert.NotContains(t, msg, "%w")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	raw := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	msg := api.SanitizeValidationError(raw)
	assert.Contains(t, msg, "Email")
	assert.NotContains(t, msg, "LoginRequest")

	assert.Equal(t, "Invalid request format",
		api.SanitizeValidationError(errors.New("some other parse error")))
}
