package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/api/shared"
	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/platform/logger"
	"github.com/velvetlab/velvet-api/internal/redact"
	"github.com/velvetlab/velvet-api/internal/service"
)

// ContentGenerationService is the slice of the content service the HTTP
// handlers consume.
type ContentGenerationService interface {
	GenerateContent(ctx context.Context, userID uuid.UUID, req domain.GenerationRequest) (*service.GenerationResult, error)
	GenerateBulkContent(ctx context.Context, userID uuid.UUID, reqs []domain.GenerationRequest) (*service.BulkGenerationResult, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GenerationRecord, error)
	GetGeneration(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.GenerationRecord, error)
	GetCredits(ctx context.Context, userID uuid.UUID) (*service.CreditBalance, error)
	ListCategories(ctx context.Context) ([]*domain.ContentCategory, error)
}

// ContentHandler handles the credit-metered generation endpoints and the
// read paths over their results.
type ContentHandler struct {
	contentService ContentGenerationService
	validator      *validator.Validate
}

// NewContentHandler creates a new ContentHandler with the given dependencies.
func NewContentHandler(contentService ContentGenerationService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Generate handles POST /content/generate.
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.contentService.GenerateContent(r.Context(), userID, req.ToDomain())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateContentResponse{
		Generation:       newGenerationResponse(result.Record, result.Content),
		RemainingCredits: result.RemainingCredits,
	})
}

// GenerateBulk handles POST /content/generate/bulk.
func (h *ContentHandler) GenerateBulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BulkGenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	reqs := make([]domain.GenerationRequest, len(req.Requests))
	for i, item := range req.Requests {
		reqs[i] = item.ToDomain()
	}

	result, err := h.contentService.GenerateBulkContent(r.Context(), userID, reqs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newBulkGenerateResponse(result))
}

// History handles GET /content/history.
func (h *ContentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	records, err := h.contentService.GetHistory(r.Context(), userID, parseLimitQuery(r))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	generations := make([]GenerationResponse, 0, len(records))
	for _, record := range records {
		content, err := record.GeneratedContent()
		if err != nil {
			// A row that cannot be decoded should not hide the rest of the
			// history.
			logger.FromContext(r.Context()).Warn("skipping undecodable generation record",
				"record_id", record.ID.String(),
				"error", redact.Error(err))
			continue
		}
		generations = append(generations, newGenerationResponse(record, content))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Generations: generations,
		Count:       len(generations),
	})
}

// HistoryItem handles GET /content/history/{id}.
func (h *ContentHandler) HistoryItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid generation ID")
		return
	}

	record, err := h.contentService.GetGeneration(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	content, err := record.GeneratedContent()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to decode generation", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newGenerationResponse(record, content))
}

// Credits handles GET /content/credits.
func (h *ContentHandler) Credits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	balance, err := h.contentService.GetCredits(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CreditsResponse{
		Credits:          balance.Credits,
		TotalCreditsUsed: balance.TotalCreditsUsed,
	})
}

// Categories handles GET /content/categories.
func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.contentService.ListCategories(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CategoriesResponse{Categories: categories})
}
