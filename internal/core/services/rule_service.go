package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
)

// regexCache compiles user-supplied patterns lazily and remembers failures.
// A pattern that fails to compile is treated as never-matching: a malformed
// rule must not block the whole matching pass, and it must not fail open to
// "match everything".
type regexCache struct {
	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp
	failed   map[string]bool
}

func newRegexCache() *regexCache {
	return &regexCache{
		compiled: make(map[string]*regexp.Regexp),
		failed:   make(map[string]bool),
	}
}

// get returns the compiled case-insensitive regexp for pattern, or nil when
// the pattern does not compile.
func (c *regexCache) get(pattern string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.compiled[pattern]
	failed := c.failed[pattern]
	c.mu.RUnlock()
	if ok {
		return re
	}
	if failed {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.compiled[pattern]; ok {
		return re
	}
	if c.failed[pattern] {
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		c.failed[pattern] = true
		return nil
	}
	c.compiled[pattern] = re
	return re
}

// RuleService evaluates and manages user-defined categorization rules.
type RuleService struct {
	ruleRepo portsrepo.RuleRepositoryFacade
	regexes  *regexCache
}

func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
		regexes:  newRegexCache(),
	}
}

// Matches reports whether the rule matches the candidate string.
func (s *RuleService) Matches(rule domain.CategoryRule, candidate string) bool {
	if candidate == "" {
		return false
	}
	switch rule.MatchType {
	case domain.MatchExact:
		return strings.EqualFold(candidate, rule.Value)
	case domain.MatchContains:
		return strings.Contains(strings.ToLower(candidate), strings.ToLower(rule.Value))
	case domain.MatchRegex:
		re := s.regexes.get(rule.Value)
		if re == nil {
			// Invalid pattern: the rule is inert rather than an error.
			slog.Debug("Skipping rule with invalid regex", slog.String("rule_id", rule.RuleID))
			return false
		}
		return re.MatchString(candidate)
	default:
		return false
	}
}

// candidateForField picks the entry string a rule of the given field applies to.
func candidateForField(field domain.RuleField, merchantName, description *string) string {
	switch field {
	case domain.RuleFieldMerchantName:
		if merchantName != nil {
			return *merchantName
		}
	case domain.RuleFieldDescription:
		if description != nil {
			return *description
		}
	}
	return ""
}

// MatchCategory returns the first enabled rule matching the entry's merchant
// name or description, or nil when none matches.
func (s *RuleService) MatchCategory(ctx context.Context, userID string, merchantName, description *string) (*domain.CategoryRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	rules, err := s.ruleRepo.ListEnabledRules(ctx, userID, nil)
	if err != nil {
		logger.Error("Failed to list enabled rules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}

	for i := range rules {
		candidate := candidateForField(rules[i].Field, merchantName, description)
		if s.Matches(rules[i], candidate) {
			return &rules[i], nil
		}
	}
	return nil, nil
}

// FilterUnruled keeps only the entries whose given field matches none of the
// enabled rules for that field. Used so duplicate-suggestion and
// similar-transaction views do not re-surface already-automated merchants.
func (s *RuleService) FilterUnruled(rules []domain.CategoryRule, field domain.RuleField, entries []domain.SimilarEntry) []domain.SimilarEntry {
	fieldRules := make([]domain.CategoryRule, 0, len(rules))
	for _, r := range rules {
		if r.IsEnabled && r.Field == field {
			fieldRules = append(fieldRules, r)
		}
	}
	if len(fieldRules) == 0 {
		return entries
	}

	kept := make([]domain.SimilarEntry, 0, len(entries))
	for _, se := range entries {
		candidate := candidateForField(field, se.Entry.MerchantName, se.Entry.Description)
		matched := false
		for _, r := range fieldRules {
			if s.Matches(r, candidate) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, se)
		}
	}
	return kept
}

// UpsertRule creates a categorization rule. A merchant-name rule whose value
// already has an enabled rule for this user (case-insensitive) updates that
// rule instead of duplicating it; the bool result reports which happened.
func (s *RuleService) UpsertRule(ctx context.Context, userID string, req dto.UpsertRuleRequest) (*domain.CategoryRule, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	matchType := domain.MatchType(req.MatchType)
	if matchType == domain.MatchRegex {
		// Reject unusable patterns up front so users are not left with
		// silently dead rules. Stored rules still fail open at match time.
		if _, err := regexp.Compile("(?i)" + req.Value); err != nil {
			return nil, false, apperrors.NewValidationError("invalid regex pattern: " + err.Error())
		}
	}

	now := time.Now()
	source := domain.RuleSource(req.Source)
	if source == "" {
		source = domain.RuleSourceUser
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Value
	}
	var createdFromKind *domain.EntryKind
	if req.CreatedFromKind != nil {
		kind := domain.EntryKind(*req.CreatedFromKind)
		createdFromKind = &kind
	}

	rule := domain.CategoryRule{
		RuleID:          uuid.NewString(),
		UserID:          userID,
		Field:           domain.RuleField(req.Field),
		MatchType:       matchType,
		Value:           req.Value,
		CategoryID:      req.CategoryID,
		BusinessID:      req.BusinessID,
		DisplayName:     displayName,
		IsEnabled:       true,
		Source:          source,
		CreatedFromID:   req.CreatedFromID,
		CreatedFromKind: createdFromKind,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if rule.Field == domain.RuleFieldMerchantName {
		saved, updated, err := s.ruleRepo.UpsertMerchantRule(ctx, rule)
		if err != nil {
			logger.Error("Failed to upsert merchant rule", slog.String("error", err.Error()), slog.String("value", rule.Value))
			return nil, false, fmt.Errorf("failed to upsert rule: %w", err)
		}
		logger.Info("Merchant rule saved", slog.String("rule_id", saved.RuleID), slog.Bool("updated", updated))
		return saved, updated, nil
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		logger.Error("Failed to save rule", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to save rule: %w", err)
	}
	logger.Info("Rule saved", slog.String("rule_id", rule.RuleID))
	return &rule, false, nil
}

// ListRules returns all of the user's rules.
func (s *RuleService) ListRules(ctx context.Context, userID string) ([]domain.CategoryRule, error) {
	rules, err := s.ruleRepo.ListRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	if rules == nil {
		return []domain.CategoryRule{}, nil
	}
	return rules, nil
}

// ListEnabledRules returns the user's enabled rules for a field (nil = all).
func (s *RuleService) ListEnabledRules(ctx context.Context, userID string, field *domain.RuleField) ([]domain.CategoryRule, error) {
	rules, err := s.ruleRepo.ListEnabledRules(ctx, userID, field)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}
	return rules, nil
}

// DeleteRule removes a rule. Entries already categorized by it are untouched.
func (s *RuleService) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.ruleRepo.DeleteRule(ctx, userID, ruleID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		}
		return err
	}
	logger.Info("Rule deleted", slog.String("rule_id", ruleID))
	return nil
}
