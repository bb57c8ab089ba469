package mapping

import (
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

// ToModelCategoryRule converts a domain CategoryRule to a model CategoryRule
func ToModelCategoryRule(d domain.CategoryRule) models.CategoryRule {
	var createdFromKind *string
	if d.CreatedFromKind != nil {
		kind := string(*d.CreatedFromKind)
		createdFromKind = &kind
	}
	return models.CategoryRule{
		RuleID:          d.RuleID,
		UserID:          d.UserID,
		Field:           string(d.Field),
		MatchType:       string(d.MatchType),
		Value:           d.Value,
		CategoryID:      d.CategoryID,
		BusinessID:      d.BusinessID,
		DisplayName:     d.DisplayName,
		IsEnabled:       d.IsEnabled,
		Source:          string(d.Source),
		CreatedFromID:   d.CreatedFromID,
		CreatedFromKind: createdFromKind,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategoryRule converts a model CategoryRule to a domain CategoryRule
func ToDomainCategoryRule(m models.CategoryRule) domain.CategoryRule {
	var createdFromKind *domain.EntryKind
	if m.CreatedFromKind != nil {
		kind := domain.EntryKind(*m.CreatedFromKind)
		createdFromKind = &kind
	}
	return domain.CategoryRule{
		RuleID:          m.RuleID,
		UserID:          m.UserID,
		Field:           domain.RuleField(m.Field),
		MatchType:       domain.MatchType(m.MatchType),
		Value:           m.Value,
		CategoryID:      m.CategoryID,
		BusinessID:      m.BusinessID,
		DisplayName:     m.DisplayName,
		IsEnabled:       m.IsEnabled,
		Source:          domain.RuleSource(m.Source),
		CreatedFromID:   m.CreatedFromID,
		CreatedFromKind: createdFromKind,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategoryRuleSlice converts a slice of model rules to domain rules
func ToDomainCategoryRuleSlice(ms []models.CategoryRule) []domain.CategoryRule {
	ds := make([]domain.CategoryRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategoryRule(m)
	}
	return ds
}
