package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/domain"
)

// DefaultHistoryLimit caps history listings when the caller does not supply
// a limit of their own.
const DefaultHistoryLimit = 50

// GenerationStore defines the interface for the append-only persistence of
// generation records. Records are never updated or deleted.
type GenerationStore interface {
	// Create appends a new generation record.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, record *domain.GenerationRecord) error

	// GetByID retrieves a record by its unique ID.
	// Returns ErrGenerationNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error)

	// ListByUser returns the user's records, most recent first. A limit of
	// zero or less falls back to DefaultHistoryLimit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GenerationRecord, error)

	// WithTx returns a GenerationStore that runs its operations on the
	// provided transaction.
	WithTx(tx *sql.Tx) GenerationStore
}
