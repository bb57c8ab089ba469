package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// UpsertRuleRequest defines the data needed to create or update a
// categorization rule.
type UpsertRuleRequest struct {
	Field           string  `json:"field" binding:"required,oneof=merchant_name description"`
	MatchType       string  `json:"matchType" binding:"required,oneof=exact contains regex"`
	Value           string  `json:"value" binding:"required"`
	CategoryID      string  `json:"categoryID" binding:"required"`
	BusinessID      *string `json:"businessID"`
	DisplayName     string  `json:"displayName"`
	Source          string  `json:"source"`
	CreatedFromID   *string `json:"createdFromID"`
	CreatedFromKind *string `json:"createdFromKind" binding:"omitempty,oneof=receipt bank_transaction"`
}

// RuleResponse defines the data returned for a rule.
type RuleResponse struct {
	RuleID      string    `json:"ruleID"`
	Field       string    `json:"field"`
	MatchType   string    `json:"matchType"`
	Value       string    `json:"value"`
	CategoryID  string    `json:"categoryID"`
	BusinessID  *string   `json:"businessID,omitempty"`
	DisplayName string    `json:"displayName"`
	IsEnabled   bool      `json:"isEnabled"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UpsertRuleResponse reports the stored rule and whether an existing rule was
// updated rather than inserted.
type UpsertRuleResponse struct {
	Rule    RuleResponse `json:"rule"`
	Updated bool         `json:"updated"`
}

// ToRuleResponse converts a domain.CategoryRule to RuleResponse DTO
func ToRuleResponse(r *domain.CategoryRule) RuleResponse {
	return RuleResponse{
		RuleID:      r.RuleID,
		Field:       string(r.Field),
		MatchType:   string(r.MatchType),
		Value:       r.Value,
		CategoryID:  r.CategoryID,
		BusinessID:  r.BusinessID,
		DisplayName: r.DisplayName,
		IsEnabled:   r.IsEnabled,
		Source:      string(r.Source),
		CreatedAt:   r.CreatedAt,
	}
}

// ToRuleResponseSlice converts a slice of domain rules to DTOs
func ToRuleResponseSlice(rules []domain.CategoryRule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i := range rules {
		out[i] = ToRuleResponse(&rules[i])
	}
	return out
}
