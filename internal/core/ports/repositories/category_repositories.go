package repositories

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category owned by userID.
	FindCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error)

	// ListCategories retrieves all of the user's categories.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines all category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
