package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/generation"
	"github.com/velvetlab/velvet-api/internal/platform/logger"
	"github.com/velvetlab/velvet-api/internal/store"
)

// GenerationResult is the outcome of a single successful generation: the
// persisted record, its decoded content, and the balance left after the
// charge.
type GenerationResult struct {
	Record           *domain.GenerationRecord
	Content          *domain.GeneratedContent
	RemainingCredits int
}

// BulkItemResult is the per-item outcome of a bulk generation. Exactly one
// of Record or Err is set: items that failed upstream carry the error, were
// not persisted, and were not charged.
type BulkItemResult struct {
	Index   int
	Record  *domain.GenerationRecord
	Content *domain.GeneratedContent
	Err     error
}

// BulkGenerationResult aggregates a bulk generation call. RemainingCredits
// reflects the balance after charging only the delivered items.
type BulkGenerationResult struct {
	Results          []BulkItemResult
	Generated        int
	Failed           int
	RemainingCredits int
}

// CreditBalance is a snapshot of a user's credit ledger.
type CreditBalance struct {
	Credits          int
	TotalCreditsUsed int
}

// txRunner executes a function inside a database transaction. Injectable so
// tests can run the transactional paths without a live database.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// ContentService implements the credit-metered content generation pipeline
// and the read paths over its results.
type ContentService struct {
	db          *sql.DB
	users       store.UserStore
	generations store.GenerationStore
	categories  store.CategoryStore
	generator   generation.ContentGenerator
	logger      *slog.Logger
	runTx       txRunner
}

// NewContentService creates a ContentService with its dependencies.
func NewContentService(
	db *sql.DB,
	users store.UserStore,
	generations store.GenerationStore,
	categories store.CategoryStore,
	generator generation.ContentGenerator,
	logger *slog.Logger,
) (*ContentService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if generations == nil {
		return nil, fmt.Errorf("generation store cannot be nil")
	}
	if categories == nil {
		return nil, fmt.Errorf("category store cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("content generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ContentService{
		db:          db,
		users:       users,
		generations: generations,
		categories:  categories,
		generator:   generator,
		logger:      logger.With(slog.String("component", "content_service")),
		runTx:       store.RunInTransaction,
	}, nil
}

// GenerateContent runs one generation for the user: validate the request,
// check the balance, call the generator, then persist the record and debit
// one credit atomically. The upstream call happens outside the transaction;
// a concurrent spender can still drain the balance between the check and the
// debit, in which case the conditional debit rolls the record back and the
// call fails with store.ErrInsufficientCredits.
func (s *ContentService) GenerateContent(
	ctx context.Context,
	userID uuid.UUID,
	req domain.GenerationRequest,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Credits < 1 {
		log.Info("generation rejected: no credits",
			slog.String("user_id", userID.String()))
		return nil, store.ErrInsufficientCredits
	}

	content, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Warn("upstream generation failed",
			slog.String("user_id", userID.String()),
			slog.String("type", string(req.Type)),
			slog.String("error", err.Error()))
		return nil, err
	}

	record, err := domain.NewGenerationRecord(userID, req, content)
	if err != nil {
		return nil, err
	}

	var remaining int
	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.generations.WithTx(tx).Create(ctx, record); err != nil {
			return err
		}
		balance, err := s.users.WithTx(tx).DebitCredits(ctx, userID, record.CreditsUsed)
		if err != nil {
			return err
		}
		remaining = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("content generated",
		slog.String("user_id", userID.String()),
		slog.String("generation_id", record.ID.String()),
		slog.String("type", string(req.Type)),
		slog.Int("remaining_credits", remaining))

	return &GenerationResult{
		Record:           record,
		Content:          content,
		RemainingCredits: remaining,
	}, nil
}

// GenerateBulkContent runs up to MaxBulkRequests generations for the user.
// Admission requires the balance to cover every requested item; after the
// upstream calls, only the items that actually produced content are
// persisted and charged. Per-item failures are reported in the results and
// never abort the whole call.
func (s *ContentService) GenerateBulkContent(
	ctx context.Context,
	userID uuid.UUID,
	reqs []domain.GenerationRequest,
) (*BulkGenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(reqs) == 0 {
		return nil, ErrNoRequests
	}
	if len(reqs) > MaxBulkRequests {
		return nil, ErrBulkSizeExceeded
	}

	for i := range reqs {
		reqs[i].Normalize()
		if err := reqs[i].Validate(); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Credits < len(reqs) {
		log.Info("bulk generation rejected: insufficient credits",
			slog.String("user_id", userID.String()),
			slog.Int("requested", len(reqs)),
			slog.Int("credits", user.Credits))
		return nil, store.ErrInsufficientCredits
	}

	generated, err := s.generator.GenerateBulk(ctx, reqs)
	if err != nil {
		return nil, err
	}

	results := make([]BulkItemResult, len(generated))
	var records []*domain.GenerationRecord
	for _, item := range generated {
		result := BulkItemResult{Index: item.Index, Err: item.Err}
		if item.Err == nil {
			record, recErr := domain.NewGenerationRecord(userID, reqs[item.Index], item.Content)
			if recErr != nil {
				result.Err = recErr
			} else {
				result.Record = record
				result.Content = item.Content
				records = append(records, record)
			}
		}
		results[item.Index] = result
	}

	remaining := user.Credits
	if len(records) > 0 {
		err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			generations := s.generations.WithTx(tx)
			for _, record := range records {
				if err := generations.Create(ctx, record); err != nil {
					return err
				}
			}
			balance, err := s.users.WithTx(tx).DebitCredits(ctx, userID, len(records))
			if err != nil {
				return err
			}
			remaining = balance
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	failed := len(results) - len(records)
	log.Info("bulk generation completed",
		slog.String("user_id", userID.String()),
		slog.Int("requested", len(reqs)),
		slog.Int("generated", len(records)),
		slog.Int("failed", failed),
		slog.Int("remaining_credits", remaining))

	return &BulkGenerationResult{
		Results:          results,
		Generated:        len(records),
		Failed:           failed,
		RemainingCredits: remaining,
	}, nil
}

// GetHistory returns the user's generation records, most recent first.
func (s *ContentService) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.GenerationRecord, error) {
	return s.generations.ListByUser(ctx, userID, limit)
}

// GetGeneration returns a single generation record, enforcing ownership.
// Records belonging to another user are reported as not found so their
// existence is not leaked.
func (s *ContentService) GetGeneration(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*domain.GenerationRecord, error) {
	record, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("generation access denied",
			slog.String("user_id", userID.String()),
			slog.String("generation_id", id.String()))
		return nil, store.ErrGenerationNotFound
	}
	return record, nil
}

// GetCredits returns the user's current credit balance.
func (s *ContentService) GetCredits(ctx context.Context, userID uuid.UUID) (*CreditBalance, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CreditBalance{
		Credits:          user.Credits,
		TotalCreditsUsed: user.TotalCreditsUsed,
	}, nil
}

// ListCategories returns the active content categories.
func (s *ContentService) ListCategories(ctx context.Context) ([]*domain.ContentCategory, error) {
	return s.categories.ListActive(ctx)
}
