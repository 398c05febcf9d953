package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/velvetlab/velvet-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including the
// credit ledger operations used by the generation pipeline.
type UserStore interface {
	// Create saves a new user to the store. The user's plaintext Password
	// is hashed before storage.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// DebitCredits atomically decrements the user's balance by amount and
	// increments their total-used counter, but only when the current balance
	// covers the amount. Returns the remaining balance on success.
	// Returns ErrInsufficientCredits (leaving the balance untouched) when it
	// does not, and ErrUserNotFound when the user does not exist.
	DebitCredits(ctx context.Context, id uuid.UUID, amount int) (int, error)

	// WithTx returns a UserStore that runs its operations on the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
