package sso_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlab/velvet-api/internal/config"
	"github.com/velvetlab/velvet-api/internal/platform/sso"
)

func ssoConfig(issuer string) config.SSOConfig {
	return config.SSOConfig{
		Issuer:       issuer,
		ClientID:     "velvet",
		ClientSecret: "velvet-secret",
		RedirectURI:  "https://app.example.com/auth/callback",
		Scopes:       []string{"openid", "profile", "email"},
	}
}

func TestLoginURL(t *testing.T) {
	t.Parallel()

	client := sso.NewClient(ssoConfig("https://sso.example.com"), nil)

	loginURL, err := client.LoginURL("my-state")
	require.NoError(t, err)

	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)

	assert.Equal(t, "sso.example.com", parsed.Host)
	assert.Equal(t, "/auth", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "velvet", query.Get("client_id"))
	assert.Equal(t, "https://app.example.com/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "openid profile email", query.Get("scope"))
	assert.Equal(t, "my-state", query.Get("state"))
}

func TestLoginURLGeneratesState(t *testing.T) {
	t.Parallel()

	client := sso.NewClient(ssoConfig("https://sso.example.com"), nil)

	first, err := client.LoginURL("")
	require.NoError(t, err)
	second, err := client.LoginURL("")
	require.NoError(t, err)

	firstState := mustQueryParam(t, first, "state")
	secondState := mustQueryParam(t, second, "state")
	assert.NotEmpty(t, firstState)
	assert.NotEqual(t, firstState, secondState)
}

func TestLoginURLUnconfigured(t *testing.T) {
	t.Parallel()

	client := sso.NewClient(config.SSOConfig{}, nil)
	_, err := client.LoginURL("")
	assert.ErrorIs(t, err, sso.ErrNotConfigured)
}

func TestExchangeCode(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "velvet", r.PostForm.Get("client_id"))
			assert.Equal(t, "velvet-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "the-code", r.PostForm.Get("code"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-123","id_token":"idt-456"}`))
		}))
		defer server.Close()

		client := sso.NewClient(ssoConfig(server.URL), nil)
		tokens, err := client.ExchangeCode(context.Background(), "the-code")
		require.NoError(t, err)
		assert.Equal(t, "at-123", tokens.AccessToken)
		assert.Equal(t, "idt-456", tokens.IDToken)
	})

	t.Run("provider rejects the code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := sso.NewClient(ssoConfig(server.URL), nil)
		_, err := client.ExchangeCode(context.Background(), "bad-code")
		assert.ErrorIs(t, err, sso.ErrExchangeFailed)
	})

	t.Run("missing access token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := sso.NewClient(ssoConfig(server.URL), nil)
		_, err := client.ExchangeCode(context.Background(), "the-code")
		assert.ErrorIs(t, err, sso.ErrExchangeFailed)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/profile", r.URL.Path)
		require.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "sso-user-1",
			"email": "creator@example.com",
			"username": "neoncreator",
			"verified": true,
			"age_verified": true,
			"roles": ["creator"]
		}`))
	}))
	defer server.Close()

	cfg := ssoConfig(server.URL)
	cfg.ProfileAPI = server.URL

	client := sso.NewClient(cfg, nil)
	profile, err := client.Profile(context.Background(), "at-123")
	require.NoError(t, err)

	assert.Equal(t, "sso-user-1", profile.ID)
	assert.Equal(t, "creator@example.com", profile.Email)
	assert.True(t, profile.AgeVerified)
	assert.Equal(t, []string{"creator"}, profile.Roles)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate", r.URL.Path)
		if r.Header.Get("Authorization") == "Bearer good-token" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := sso.NewClient(ssoConfig(server.URL), nil)
	assert.True(t, client.ValidateToken(context.Background(), "good-token"))
	assert.False(t, client.ValidateToken(context.Background(), "bad-token"))
}

func mustQueryParam(t *testing.T, rawURL, key string) string {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	value := parsed.Query().Get(key)
	require.True(t, strings.TrimSpace(value) != "", "expected query param %q", key)
	return value
}
