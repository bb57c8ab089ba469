package mapping

import (
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

// ToModelFlags converts a domain TransactionFlags to its JSONB model form
func ToModelFlags(d domain.TransactionFlags) models.TransactionFlags {
	return models.TransactionFlags{
		IsDuplicate:               d.IsDuplicate,
		LinkedTransactionID:       d.LinkedTransactionID,
		LinkedTransactionType:     string(d.LinkedTransactionType),
		DuplicateConfidence:       d.DuplicateConfidence,
		IsInternalTransfer:        d.IsInternalTransfer,
		TransferToAccountID:       d.TransferToAccountID,
		IsBnplPurchase:            d.IsBnplPurchase,
		BnplOriginalAmount:        d.BnplOriginalAmount,
		BnplRemainingInstallments: d.BnplRemainingInstallments,
		BnplProvider:              d.BnplProvider,
		IsInstallmentPlanCredit:   d.IsInstallmentPlanCredit,
		IsExcludedFromTotals:      d.IsExcludedFromTotals,
		ExclusionReason:           string(d.ExclusionReason),
		UserVerified:              d.UserVerified,
		VerifiedAt:                d.VerifiedAt,
		AutoDetected:              d.AutoDetected,
		DetectionMethod:           string(d.DetectionMethod),
	}
}

// ToDomainFlags converts a model TransactionFlags to its domain form
func ToDomainFlags(m models.TransactionFlags) domain.TransactionFlags {
	return domain.TransactionFlags{
		IsDuplicate:               m.IsDuplicate,
		LinkedTransactionID:       m.LinkedTransactionID,
		LinkedTransactionType:     domain.EntryKind(m.LinkedTransactionType),
		DuplicateConfidence:       m.DuplicateConfidence,
		IsInternalTransfer:        m.IsInternalTransfer,
		TransferToAccountID:       m.TransferToAccountID,
		IsBnplPurchase:            m.IsBnplPurchase,
		BnplOriginalAmount:        m.BnplOriginalAmount,
		BnplRemainingInstallments: m.BnplRemainingInstallments,
		BnplProvider:              m.BnplProvider,
		IsInstallmentPlanCredit:   m.IsInstallmentPlanCredit,
		IsExcludedFromTotals:      m.IsExcludedFromTotals,
		ExclusionReason:           domain.ExclusionReason(m.ExclusionReason),
		UserVerified:              m.UserVerified,
		VerifiedAt:                m.VerifiedAt,
		AutoDetected:              m.AutoDetected,
		DetectionMethod:           domain.DetectionMethod(m.DetectionMethod),
	}
}
