package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Credits is the account's current balance, returned so the SPA can
	// render it without a second round trip.
	Credits int `json:"credits"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SSOLoginURLResponse carries the identity provider URL the SPA should
// redirect the browser to.
type SSOLoginURLResponse struct {
	URL string `json:"url"`
}

// GenerateContentRequest defines the payload for a single generation.
type GenerateContentRequest struct {
	Prompt   string `json:"prompt"   validate:"required,min=1,max=2000"`
	Type     string `json:"type"     validate:"required"`
	Category string `json:"category" validate:"omitempty,max=100"`
	Tone     string `json:"tone"     validate:"omitempty"`
	Length   string `json:"length"   validate:"omitempty"`
}

// ToDomain converts the transport payload into a domain request. Value
// validation beyond shape (supported types, tones, lengths) happens in the
// domain layer.
func (r GenerateContentRequest) ToDomain() domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:   r.Prompt,
		Type:     domain.ContentType(r.Type),
		Category: r.Category,
		Tone:     domain.Tone(r.Tone),
		Length:   domain.Length(r.Length),
	}
}

// BulkGenerateRequest defines the payload for the bulk generation endpoint.
type BulkGenerateRequest struct {
	Requests []GenerateContentRequest `json:"requests" validate:"required,min=1,max=10,dive"`
}

// GenerationResponse is the transport shape of one persisted generation.
type GenerationResponse struct {
	ID          uuid.UUID                `json:"id"`
	Type        domain.ContentType       `json:"type"`
	Prompt      string                   `json:"prompt"`
	Content     *domain.GeneratedContent `json:"content"`
	CreditsUsed int                      `json:"credits_used"`
	CreatedAt   time.Time                `json:"created_at"`
}

// newGenerationResponse builds the response for a record whose content is
// already decoded.
func newGenerationResponse(
	record *domain.GenerationRecord,
	content *domain.GeneratedContent,
) GenerationResponse {
	return GenerationResponse{
		ID:          record.ID,
		Type:        record.Type,
		Prompt:      record.Prompt,
		Content:     content,
		CreditsUsed: record.CreditsUsed,
		CreatedAt:   record.CreatedAt,
	}
}

// GenerateContentResponse is the envelope for a single generation call.
type GenerateContentResponse struct {
	Generation       GenerationResponse `json:"generation"`
	RemainingCredits int                `json:"remaining_credits"`
}

// BulkItemResponse is the per-item outcome inside a bulk response. Failed
// items carry a message instead of a generation and were not charged.
type BulkItemResponse struct {
	Index      int                 `json:"index"`
	Success    bool                `json:"success"`
	Generation *GenerationResponse `json:"generation,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// BulkGenerateResponse is the envelope for a bulk generation call.
type BulkGenerateResponse struct {
	Results          []BulkItemResponse `json:"results"`
	Generated        int                `json:"generated"`
	Failed           int                `json:"failed"`
	RemainingCredits int                `json:"remaining_credits"`
}

// newBulkGenerateResponse converts a service bulk result into its transport
// shape, translating per-item errors into safe messages.
func newBulkGenerateResponse(result *service.BulkGenerationResult) BulkGenerateResponse {
	items := make([]BulkItemResponse, len(result.Results))
	for i, item := range result.Results {
		out := BulkItemResponse{Index: item.Index}
		if item.Err != nil {
			out.Error = GetSafeErrorMessage(item.Err)
		} else {
			out.Success = true
			resp := newGenerationResponse(item.Record, item.Content)
			out.Generation = &resp
		}
		items[i] = out
	}

	return BulkGenerateResponse{
		Results:          items,
		Generated:        result.Generated,
		Failed:           result.Failed,
		RemainingCredits: result.RemainingCredits,
	}
}

// HistoryResponse is the envelope for the generation history listing.
type HistoryResponse struct {
	Generations []GenerationResponse `json:"generations"`
	Count       int                  `json:"count"`
}

// CreditsResponse reports the account's credit ledger.
type CreditsResponse struct {
	Credits          int `json:"credits"`
	TotalCreditsUsed int `json:"total_credits_used"`
}

// CategoriesResponse is the envelope for the category listing.
type CategoriesResponse struct {
	Categories []*domain.ContentCategory `json:"categories"`
}
