package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyCategoryName is returned when a category is created without a name.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// ContentCategory is a curated grouping offered to users when they pick what
// kind of copy to generate. Categories are managed out of band; the API only
// lists the active ones.
type ContentCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewContentCategory creates an active category with the given name and
// description.
func NewContentCategory(name, description string) (*ContentCategory, error) {
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	return &ContentCategory{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
