package api_test

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/velvetlab/velvet-api/internal/api"
	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/service"
	"github.com/velvetlab/velvet-api/internal/service/auth"
	"github.com/velvetlab/velvet-api/internal/store"
)

// mockUserStore mocks store.UserStore for handler tests
type mockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) DebitCredits(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, id, amount)
	return args.Int(0), args.Error(1)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockPasswordVerifier mocks auth.PasswordVerifier
type mockPasswordVerifier struct {
	mock.Mock
}

var _ auth.PasswordVerifier = (*mockPasswordVerifier)(nil)

func (m *mockPasswordVerifier) HashPassword(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordVerifier) Compare(ctx context.Context, hashedPassword, password string) error {
	args := m.Called(ctx, hashedPassword, password)
	return args.Error(0)
}

// mockContentService mocks api.ContentGenerationService
type mockContentService struct {
	mock.Mock
}

var _ api.ContentGenerationService = (*mockContentService)(nil)

func (m *mockContentService) GenerateContent(
	ctx context.Context,
	userID uuid.UUID,
	req domain.GenerationRequest,
) (*service.GenerationResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *mockContentService) GenerateBulkContent(
	ctx context.Context,
	userID uuid.UUID,
	reqs []domain.GenerationRequest,
) (*service.BulkGenerationResult, error) {
	args := m.Called(ctx, userID, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkGenerationResult), args.Error(1)
}

func (m *mockContentService) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.GenerationRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GenerationRecord), args.Error(1)
}

func (m *mockContentService) GetGeneration(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

func (m *mockContentService) GetCredits(
	ctx context.Context,
	userID uuid.UUID,
) (*service.CreditBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreditBalance), args.Error(1)
}

func (m *mockContentService) ListCategories(
	ctx context.Context,
) ([]*domain.ContentCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentCategory), args.Error(1)
}
