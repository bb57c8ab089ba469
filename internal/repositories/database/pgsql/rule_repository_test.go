package pgsql

import (
	"testing"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// Upserting over an existing merchant rule replaces its categorization and
// provenance fields while keeping the row's identity and creation audit trail.
func TestApplyMerchantRuleUpdate(t *testing.T) {
	createdAt := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2025, 4, 2, 14, 30, 0, 0, time.UTC)

	oldFromID := "receipt-1"
	oldFromKind := "receipt"
	existing := models.CategoryRule{
		RuleID:          "rule-1",
		UserID:          "user-1",
		Field:           "merchant_name",
		MatchType:       "exact",
		Value:           "starbucks",
		CategoryID:      "cat-coffee",
		DisplayName:     "Starbucks",
		IsEnabled:       true,
		Source:          "category_assignment",
		CreatedFromID:   &oldFromID,
		CreatedFromKind: &oldFromKind,
		AuditFields: models.AuditFields{
			CreatedAt:     createdAt,
			CreatedBy:     "user-1",
			LastUpdatedAt: createdAt,
			LastUpdatedBy: "user-1",
		},
	}

	newFromID := "txn-9"
	newFromKind := domain.KindBankTransaction
	newBiz := "biz-1"
	incoming := domain.CategoryRule{
		RuleID:          "rule-other", // the stored identity must win
		UserID:          "user-1",
		Field:           domain.RuleFieldMerchantName,
		MatchType:       domain.MatchExact,
		Value:           "Starbucks",
		CategoryID:      "cat-dining",
		BusinessID:      &newBiz,
		DisplayName:     "Starbucks #42",
		IsEnabled:       true,
		Source:          domain.RuleSourceCategoryAssignment,
		CreatedFromID:   &newFromID,
		CreatedFromKind: &newFromKind,
		AuditFields: domain.AuditFields{
			CreatedAt:     updatedAt,
			CreatedBy:     "user-1",
			LastUpdatedAt: updatedAt,
			LastUpdatedBy: "user-1",
		},
	}

	updated := applyMerchantRuleUpdate(existing, incoming)

	assert.Equal(t, "rule-1", updated.RuleID)
	assert.Equal(t, "cat-dining", updated.CategoryID)
	assert.Equal(t, &newBiz, updated.BusinessID)
	assert.Equal(t, "Starbucks", updated.Value)
	assert.Equal(t, "Starbucks #42", updated.DisplayName)
	assert.Equal(t, domain.RuleSourceCategoryAssignment, updated.Source)

	// Provenance follows the entry that triggered the upsert.
	assert.Equal(t, &newFromID, updated.CreatedFromID)
	assert.Equal(t, &newFromKind, updated.CreatedFromKind)

	// Creation audit stays with the original row; only the update side moves.
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.Equal(t, "user-1", updated.CreatedBy)
	assert.Equal(t, updatedAt, updated.LastUpdatedAt)
}
