package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlab/velvet-api/internal/api/middleware"
	"github.com/velvetlab/velvet-api/internal/config"
	"github.com/velvetlab/velvet-api/internal/service/auth"
)

func newJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := newJWTService(t)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	var capturedUserID uuid.UUID
	var capturedOK bool
	protected := authMiddleware.Authenticate(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			capturedUserID, capturedOK = middleware.GetUserID(r)
			w.WriteHeader(http.StatusOK)
		}))

	t.Run("valid token passes user ID through", func(t *testing.T) {
		userID := uuid.New()
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, capturedOK)
		assert.Equal(t, userID, capturedUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)

		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")

		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(context.Background(), uuid.New())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+refresh)

		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows within budget and rejects beyond", func(t *testing.T) {
		t.Parallel()

		limiter := middleware.NewRateLimiter(1, 2)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/generate", nil)
			r.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(w, r)
			statuses = append(statuses, w.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := middleware.NewRateLimiter(1, 1)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		first := httptest.NewRecorder()
		r1 := httptest.NewRequest(http.MethodPost, "/generate", nil)
		r1.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(first, r1)

		second := httptest.NewRecorder()
		r2 := httptest.NewRequest(http.MethodPost, "/generate", nil)
		r2.RemoteAddr = "10.0.0.2:1234"
		handler.ServeHTTP(second, r2)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
	})

	t.Run("disabled limiter passes everything", func(t *testing.T) {
		t.Parallel()

		limiter := middleware.NewRateLimiter(0, 0)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}
