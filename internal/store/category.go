package store

import (
	"context"

	"github.com/velvetlab/velvet-api/internal/domain"
)

// CategoryStore defines the interface for content category persistence.
type CategoryStore interface {
	// ListActive returns all active categories ordered by name.
	ListActive(ctx context.Context) ([]*domain.ContentCategory, error)

	// Create saves a new category.
	Create(ctx context.Context, category *domain.ContentCategory) error
}
