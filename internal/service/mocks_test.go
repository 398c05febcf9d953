package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/generation"
	"github.com/velvetlab/velvet-api/internal/store"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) DebitCredits(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, id, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockGenerationStore mocks the store.GenerationStore interface
type MockGenerationStore struct {
	mock.Mock
}

var _ store.GenerationStore = (*MockGenerationStore)(nil)

func (m *MockGenerationStore) Create(ctx context.Context, record *domain.GenerationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockGenerationStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

func (m *MockGenerationStore) ListByUser(
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

func (m *MockGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return m
}

// MockCategoryStore mocks the store.CategoryStore interface
type MockCategoryStore struct {
	mock.Mock
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

func (m *MockCategoryStore) ListActive(ctx context.Context) ([]*domain.ContentCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentCategory), args.Error(1)
}

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.ContentCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockGenerator mocks the generation.ContentGenerator interface
type MockGenerator struct {
	mock.Mock
}

var _ generation.ContentGenerator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
) (*domain.GeneratedContent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedContent), args.Error(1)
}

func (m *MockGenerator) GenerateBulk(
	ctx context.Context,
	reqs []domain.GenerationRequest,
) ([]generation.BulkResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]generation.BulkResult), args.Error(1)
}
