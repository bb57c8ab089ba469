package repositories

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// RuleReader defines read operations for categorization rules.
type RuleReader interface {
	// FindRuleByID retrieves a rule owned by userID.
	FindRuleByID(ctx context.Context, userID string, ruleID string) (*domain.CategoryRule, error)

	// ListEnabledRules retrieves the user's enabled rules, optionally
	// restricted to one field. A nil field returns rules for all fields.
	ListEnabledRules(ctx context.Context, userID string, field *domain.RuleField) ([]domain.CategoryRule, error)

	// ListRules retrieves all of the user's rules, enabled or not.
	ListRules(ctx context.Context, userID string) ([]domain.CategoryRule, error)
}

// RuleWriter defines write operations for categorization rules.
type RuleWriter interface {
	// UpsertMerchantRule saves a merchant-name rule, updating the existing
	// enabled rule for the same (user, lowercase value) if one exists.
	// Returns the stored rule and whether an existing row was updated.
	UpsertMerchantRule(ctx context.Context, rule domain.CategoryRule) (*domain.CategoryRule, bool, error)

	// SaveRule inserts a rule without the merchant-name uniqueness treatment
	// (description-field rules).
	SaveRule(ctx context.Context, rule domain.CategoryRule) error

	// DeleteRule removes a rule owned by userID. Never cascades to entries.
	DeleteRule(ctx context.Context, userID string, ruleID string) error
}

// RuleRepositoryFacade combines all rule repository interfaces.
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
