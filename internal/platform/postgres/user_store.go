package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/platform/logger"
	"github.com/velvetlab/velvet-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface using a
// PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It validates the user, hashes the plaintext password, and inserts the row.
// Returns store.ErrEmailExists when the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return store.NewStoreError("user", "create", "failed to hash password", err)
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	query := `
		INSERT INTO users (id, email, display_name, hashed_password, credits, total_credits_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.HashedPassword,
		user.Credits,
		user.TotalCreditsUsed,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.Int("credits", user.Credits))
	return nil
}

const userColumns = `id, email, display_name, hashed_password, credits, total_credits_used, created_at, updated_at`

// scanUser scans one user row from the given row scanner.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.HashedPassword,
		&user.Credits,
		&user.TotalCreditsUsed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, store.NewStoreError("user", "get_by_id", "query failed", err)
	}

	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get_by_email", "query failed", err)
	}

	return user, nil
}

// DebitCredits implements store.UserStore.DebitCredits
// The decrement is conditional on the current balance covering the amount,
// so two concurrent debits can never take the balance below zero.
func (s *PostgresUserStore) DebitCredits(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive, got %d", store.ErrInvalidEntity, amount)
	}

	query := `
		UPDATE users
		SET credits = credits - $2,
		    total_credits_used = total_credits_used + $2,
		    updated_at = now()
		WHERE id = $1 AND credits >= $2
		RETURNING credits
	`

	var remaining int
	err := s.db.QueryRowContext(ctx, query, id, amount).Scan(&remaining)
	if err == nil {
		log.Info("credits debited",
			slog.String("user_id", id.String()),
			slog.Int("amount", amount),
			slog.Int("remaining", remaining))
		return remaining, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to debit credits",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()),
			slog.Int("amount", amount))
		return 0, store.NewStoreError("user", "debit_credits", "update failed", err)
	}

	// No row matched: either the user is missing or the balance is short.
	var credits int
	err = s.db.QueryRowContext(ctx, `SELECT credits FROM users WHERE id = $1`, id).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrUserNotFound
	}
	if err != nil {
		return 0, store.NewStoreError("user", "debit_credits", "balance check failed", err)
	}

	log.Warn("debit rejected for insufficient credits",
		slog.String("user_id", id.String()),
		slog.Int("amount", amount),
		slog.Int("available", credits))
	return 0, fmt.Errorf("%w: need %d, have %d", store.ErrInsufficientCredits, amount, credits)
}
