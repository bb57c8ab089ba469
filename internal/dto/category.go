package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string    `json:"categoryID"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Icon:       c.Icon,
		CreatedAt:  c.CreatedAt,
	}
}

// AssignCategoryRequest defines a category assignment on an entry.
// ApplyToFuture promotes the assignment into a durable merchant-name rule.
type AssignCategoryRequest struct {
	CategoryID      string  `json:"categoryID" binding:"required"`
	BusinessID      *string `json:"businessID"`
	ApplyToFuture   bool    `json:"applyToFuture"`
	RuleDisplayName string  `json:"ruleDisplayName"`
}
