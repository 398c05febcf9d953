package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/platform/logger"
	"github.com/velvetlab/velvet-api/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend. The table is
// append-only; this store exposes no update or delete operations.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// WithTx implements store.GenerationStore.WithTx
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.GenerationStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresGenerationStore) Create(ctx context.Context, record *domain.GenerationRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO content_generations (id, user_id, type, prompt, generated_content, credits_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.Type,
		record.Prompt,
		record.Content,
		record.CreditsUsed,
		record.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during generation creation",
				slog.String("record_id", record.ID.String()),
				slog.String("user_id", record.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, record.UserID)
		}

		log.Error("failed to create generation record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		return store.NewStoreError("generation", "create", "insert failed", err)
	}

	log.Info("generation record created",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.String("type", string(record.Type)))
	return nil
}

const generationColumns = `id, user_id, type, prompt, generated_content, credits_used, created_at`

// GetByID implements store.GenerationStore.GetByID
// Returns store.ErrGenerationNotFound if the record does not exist.
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + generationColumns + ` FROM content_generations WHERE id = $1`

	var record domain.GenerationRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.UserID,
		&record.Type,
		&record.Prompt,
		&record.Content,
		&record.CreditsUsed,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation record",
			slog.String("error", err.Error()),
			slog.String("record_id", id.String()))
		return nil, store.NewStoreError("generation", "get_by_id", "query failed", err)
	}

	return &record, nil
}

// ListByUser implements store.GenerationStore.ListByUser
// Records are ordered most recent first; created_at ties break on id so the
// ordering is stable.
func (s *PostgresGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.GenerationRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	query := `
		SELECT ` + generationColumns + `
		FROM content_generations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list generation records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("generation", "list_by_user", "query failed", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	records := make([]*domain.GenerationRecord, 0, limit)
	for rows.Next() {
		var record domain.GenerationRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Type,
			&record.Prompt,
			&record.Content,
			&record.CreditsUsed,
			&record.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("generation", "list_by_user", "scan failed", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("generation", "list_by_user", "row iteration failed", err)
	}

	return records, nil
}
