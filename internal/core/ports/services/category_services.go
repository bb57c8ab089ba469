package services

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
)

// CategorySvcFacade manages categories and category assignment.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)

	// AssignCategory sets an entry's category/business and, when requested,
	// promotes the assignment into a durable merchant-name rule.
	AssignCategory(ctx context.Context, userID string, kind domain.EntryKind, entryID string, req dto.AssignCategoryRequest) error
}
