package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
)

// CategoryService manages categories and applies category assignments to
// entries, optionally promoting an assignment into a merchant-name rule.
type CategoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	entryRepo    portsrepo.EntryRepositoryFacade
	rules        portssvc.RuleSvcFacade
}

func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, rules portssvc.RuleSvcFacade) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, entryRepo: entryRepo, rules: rules}
}

// CreateCategory persists a new category for the user.
func (s *CategoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       req.Name,
		Icon:       req.Icon,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

// ListCategories returns all of the user's categories.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// AssignCategory sets the entry's category and optional business. When
// ApplyToFuture is set and the entry has a merchant name, the assignment is
// promoted into an enabled merchant-name rule so future entries from the same
// merchant are categorized automatically.
func (s *CategoryService) AssignCategory(ctx context.Context, userID string, kind domain.EntryKind, entryID string, req dto.AssignCategoryRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.categoryRepo.FindCategoryByID(ctx, userID, req.CategoryID); err != nil {
		return err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, userID, kind, entryID)
	if err != nil {
		return err
	}

	updated, err := s.entryRepo.UpdateCategory(ctx, userID, kind, entryID, req.CategoryID, req.BusinessID)
	if err != nil {
		logger.Error("Failed to assign category", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to assign category: %w", err)
	}
	if !updated {
		return apperrors.NewNotFoundError("entry not found")
	}
	logger.Info("Category assigned",
		slog.String("entry_id", entryID),
		slog.String("category_id", req.CategoryID),
	)

	if !req.ApplyToFuture {
		return nil
	}
	if entry.MerchantName == nil || *entry.MerchantName == "" {
		logger.Debug("Rule promotion skipped, entry has no merchant name", slog.String("entry_id", entryID))
		return nil
	}

	ruleReq := dto.UpsertRuleRequest{
		Field:           string(domain.RuleFieldMerchantName),
		MatchType:       string(domain.MatchExact),
		Value:           *entry.MerchantName,
		CategoryID:      req.CategoryID,
		BusinessID:      req.BusinessID,
		DisplayName:     req.RuleDisplayName,
		Source:          string(domain.RuleSourceCategoryAssignment),
		CreatedFromID:   &entryID,
		CreatedFromKind: ptr(string(kind)),
	}
	if _, _, err := s.rules.UpsertRule(ctx, userID, ruleReq); err != nil {
		logger.Error("Failed to promote assignment to rule", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to promote assignment to rule: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
