package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/api/shared"
	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/platform/sso"
	"github.com/velvetlab/velvet-api/internal/service/auth"
	"github.com/velvetlab/velvet-api/internal/store"
)

// AuthHandler handles authentication-related API requests: local
// register/login/refresh plus the optional SSO flow.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	ssoClient        *sso.Client
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// ssoClient may be nil when SSO is not configured; the SSO routes are then
// not registered.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	ssoClient *sso.Client,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		ssoClient:        ssoClient,
		validator:        validator.New(),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}
	user.DisplayName = req.DisplayName

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(r.Context(), user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// RefreshToken handles POST /auth/refresh: it validates the presented
// refresh token and issues a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate refresh token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// SSOLoginURL handles GET /auth/sso/login: it returns the identity provider
// URL the SPA should redirect the browser to.
func (h *AuthHandler) SSOLoginURL(w http.ResponseWriter, r *http.Request) {
	if h.ssoClient == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "SSO is not configured")
		return
	}

	loginURL, err := h.ssoClient.LoginURL(r.URL.Query().Get("state"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to build SSO login URL", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SSOLoginURLResponse{URL: loginURL})
}

// SSOCallback handles GET /auth/sso/callback?code=...: it exchanges the
// authorization code, fetches the provider profile, provisions a local
// account on first login, and issues the usual token pair.
func (h *AuthHandler) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if h.ssoClient == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "SSO is not configured")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing authorization code")
		return
	}

	tokens, err := h.ssoClient.ExchangeCode(r.Context(), code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"SSO authentication failed", err)
		return
	}

	profile, err := h.ssoClient.Profile(r.Context(), tokens.AccessToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"SSO authentication failed", err)
		return
	}
	if profile.Email == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized,
			"SSO profile carried no email")
		return
	}

	user, err := h.findOrCreateSSOUser(r, profile)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to provision SSO account", err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// findOrCreateSSOUser resolves the provider profile to a local account,
// creating one with an unguessable password on first login.
func (h *AuthHandler) findOrCreateSSOUser(
	r *http.Request,
	profile *sso.Profile,
) (*domain.User, error) {
	user, err := h.userStore.GetByEmail(r.Context(), profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	// SSO accounts never use the local password path; the placeholder only
	// satisfies the schema.
	user, err = domain.NewUser(profile.Email, uuid.NewString()+uuid.NewString())
	if err != nil {
		return nil, err
	}
	user.DisplayName = profile.Username

	if err := h.userStore.Create(r.Context(), user); err != nil {
		// A concurrent callback may have created the account between the
		// lookup and the insert.
		if errors.Is(err, store.ErrEmailExists) {
			return h.userStore.GetByEmail(r.Context(), profile.Email)
		}
		return nil, err
	}

	slog.Info("provisioned account from SSO profile",
		"user_id", user.ID,
		"sso_id", profile.ID)
	return user, nil
}

// respondWithTokens issues an access/refresh pair for the user and writes
// the auth envelope.
func (h *AuthHandler) respondWithTokens(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	user *domain.User,
) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate refresh token", err)
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Credits:      user.Credits,
	})
}
