package services

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
)

// RuleSvcFacade manages categorization rules and evaluates them against
// candidate strings.
type RuleSvcFacade interface {
	// Matches reports whether the rule matches the candidate string. Invalid
	// regex rules never match and never raise.
	Matches(rule domain.CategoryRule, candidate string) bool

	// MatchCategory returns the first enabled rule matching the entry's
	// merchant name or description, or nil when none matches.
	MatchCategory(ctx context.Context, userID string, merchantName, description *string) (*domain.CategoryRule, error)

	// FilterUnruled keeps only the entries whose given field matches none of
	// the user's enabled rules for that field.
	FilterUnruled(rules []domain.CategoryRule, field domain.RuleField, entries []domain.SimilarEntry) []domain.SimilarEntry

	// UpsertRule creates a rule, updating the existing enabled merchant-name
	// rule for the same (user, lowercase value) instead of duplicating it.
	// The bool result reports whether an existing rule was updated.
	UpsertRule(ctx context.Context, userID string, req dto.UpsertRuleRequest) (*domain.CategoryRule, bool, error)

	// ListRules returns all of the user's rules.
	ListRules(ctx context.Context, userID string) ([]domain.CategoryRule, error)

	// ListEnabledRules returns the user's enabled rules for a field (nil =
	// all fields).
	ListEnabledRules(ctx context.Context, userID string, field *domain.RuleField) ([]domain.CategoryRule, error)

	// DeleteRule removes a rule. Entries categorized by it are untouched.
	DeleteRule(ctx context.Context, userID string, ruleID string) error
}
