package sso

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/velvetlab/velvet-api/internal/config"
)

// Client errors.
var (
	// ErrExchangeFailed is returned when the authorization-code exchange is
	// rejected by the identity provider.
	ErrExchangeFailed = errors.New("failed to exchange authorization code")

	// ErrProfileFetchFailed is returned when the profile API rejects the
	// access token or the response cannot be decoded.
	ErrProfileFetchFailed = errors.New("failed to fetch user profile")

	// ErrNotConfigured is returned when SSO operations are attempted
	// without an issuer configured.
	ErrNotConfigured = errors.New("sso is not configured")
)

// requestTimeout bounds every outbound call to the identity provider.
const requestTimeout = 10 * time.Second

// TokenResponse is the identity provider's answer to a successful
// authorization-code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// Profile is the subset of the identity provider's profile the application
// consumes. The user identifier and email seed local account creation on
// first login.
type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Verified    bool     `json:"verified"`
	AgeVerified bool     `json:"age_verified"`
	Roles       []string `json:"roles"`
}

// Client talks to the external SSO identity provider. Construct it once in
// main and pass it by reference to the components that need it.
type Client struct {
	cfg        config.SSOConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an SSO client from the given configuration.
func NewClient(cfg config.SSOConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With(slog.String("component", "sso_client")),
	}
}

// LoginURL builds the authorization URL the SPA redirects the browser to.
// When state is empty a random one is generated; the caller is responsible
// for round-tripping it through the provider and verifying it on callback.
func (c *Client) LoginURL(state string) (string, error) {
	if !c.cfg.Enabled() {
		return "", ErrNotConfigured
	}

	if state == "" {
		state = generateState()
	}

	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.cfg.ClientID},
		"redirect_uri":  {c.cfg.RedirectURI},
		"scope":         {strings.Join(c.cfg.Scopes, " ")},
		"state":         {state},
	}

	return c.cfg.Issuer + "/auth?" + params.Encode(), nil
}

// ExchangeCode trades an authorization code for tokens at the provider's
// token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	if !c.cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {c.cfg.RedirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Issuer+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "token exchange request failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "token exchange rejected",
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: provider returned status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("%w: invalid token response: %v", ErrExchangeFailed, err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrExchangeFailed)
	}

	return &tokens, nil
}

// Profile fetches the authenticated user's profile from the profile API
// using the given access token.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	if !c.cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	base := c.cfg.ProfileAPI
	if base == "" {
		base = c.cfg.Issuer
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "profile request failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrProfileFetchFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: invalid profile response: %v", ErrProfileFetchFailed, err)
	}

	return &profile, nil
}

// ValidateToken asks the provider whether the given token is still good.
// A transport failure counts as invalid.
func (c *Client) ValidateToken(ctx context.Context, token string) bool {
	if !c.cfg.Enabled() {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Issuer+"/validate", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "token validation request failed",
			slog.String("error", err.Error()))
		return false
	}
	defer drainAndClose(resp.Body)

	return resp.StatusCode == http.StatusOK
}

// generateState produces a random, URL-safe state parameter.
func generateState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal; a timestamp beats a
		// constant if it ever happens.
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// drainAndClose discards any unread body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
