package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExclusionReason is the single authoritative cause for removing an entry
// from spend totals.
type ExclusionReason string

const (
	ExclusionManual            ExclusionReason = "manual"
	ExclusionDuplicate         ExclusionReason = "duplicate"
	ExclusionInternalTransfer  ExclusionReason = "internal_transfer"
	ExclusionCreditCardPayment ExclusionReason = "credit_card_payment"
)

// DetectionMethod records how an automatic detection classified the entry.
type DetectionMethod string

const (
	DetectionDescriptionPattern DetectionMethod = "description_pattern"
	DetectionAmountMatch        DetectionMethod = "amount_match"
)

// TransferType distinguishes the two transfer classifications.
type TransferType string

const (
	TransferInternal          TransferType = "internal_transfer"
	TransferCreditCardPayment TransferType = "credit_card_payment"
)

// ExclusionReason maps a transfer type to the exclusion reason it implies.
func (t TransferType) ExclusionReason() ExclusionReason {
	if t == TransferCreditCardPayment {
		return ExclusionCreditCardPayment
	}
	return ExclusionInternalTransfer
}

// TransactionFlags is the sparse, multi-concern status bag attached to every
// entry and persisted as a single JSONB column. Concerns (duplicate, transfer,
// BNPL, installment credit, manual exclusion) are not mutually exclusive, so
// this is a bag rather than an enum state machine.
//
// IsExcludedFromTotals and ExclusionReason must always be set or cleared
// together, and only by the concern that owns the current reason. Use the
// mark/clear methods below; never write the exclusion fields directly.
type TransactionFlags struct {
	// Duplicate concern
	IsDuplicate           bool      `json:"isDuplicate,omitempty"`
	LinkedTransactionID   string    `json:"linkedTransactionId,omitempty"`
	LinkedTransactionType EntryKind `json:"linkedTransactionType,omitempty"`
	DuplicateConfidence   float64   `json:"duplicateConfidence,omitempty"`

	// Internal transfer / credit card payment concern
	IsInternalTransfer  bool   `json:"isInternalTransfer,omitempty"`
	TransferToAccountID string `json:"transferToAccountId,omitempty"`

	// Buy-now-pay-later concern
	IsBnplPurchase            bool             `json:"isBnplPurchase,omitempty"`
	BnplOriginalAmount        *decimal.Decimal `json:"bnplOriginalAmount,omitempty"`
	BnplRemainingInstallments *int             `json:"bnplRemainingInstallments,omitempty"`
	BnplProvider              string           `json:"bnplProvider,omitempty"`

	IsInstallmentPlanCredit bool `json:"isInstallmentPlanCredit,omitempty"`

	// Shared exclusion state, paired fields
	IsExcludedFromTotals bool            `json:"isExcludedFromTotals,omitempty"`
	ExclusionReason      ExclusionReason `json:"exclusionReason,omitempty"`

	// Verification metadata
	UserVerified    bool            `json:"userVerified,omitempty"`
	VerifiedAt      *time.Time      `json:"verifiedAt,omitempty"`
	AutoDetected    bool            `json:"autoDetected,omitempty"`
	DetectionMethod DetectionMethod `json:"detectionMethod,omitempty"`
}

// setExclusion records the shared exclusion pair.
func (f *TransactionFlags) setExclusion(reason ExclusionReason) {
	f.IsExcludedFromTotals = true
	f.ExclusionReason = reason
}

// clearExclusionIf clears the shared exclusion pair only when the given
// concern is the recorded reason. An exclusion owned by an unrelated concern
// is left intact.
func (f *TransactionFlags) clearExclusionIf(reason ExclusionReason) {
	if f.ExclusionReason == reason {
		f.IsExcludedFromTotals = false
		f.ExclusionReason = ""
	}
}

// MarkDuplicate sets the duplicate concern and the shared exclusion. The link
// is one-directional: only the entry being marked carries the flag.
func (f *TransactionFlags) MarkDuplicate(linkedID string, linkedKind EntryKind, confidence float64, now time.Time) {
	f.IsDuplicate = true
	f.LinkedTransactionID = linkedID
	f.LinkedTransactionType = linkedKind
	f.DuplicateConfidence = confidence
	f.UserVerified = true
	f.VerifiedAt = &now
	f.setExclusion(ExclusionDuplicate)
}

// ClearDuplicate removes the duplicate concern. The shared exclusion is
// cleared only if "duplicate" was the recorded reason.
func (f *TransactionFlags) ClearDuplicate() {
	f.IsDuplicate = false
	f.LinkedTransactionID = ""
	f.LinkedTransactionType = ""
	f.DuplicateConfidence = 0
	f.clearExclusionIf(ExclusionDuplicate)
}

// MarkInternalTransfer sets the transfer concern and the exclusion implied by
// the transfer type. verifiedAt is nil for automatic (batch) detection.
func (f *TransactionFlags) MarkInternalTransfer(transferType TransferType, autoDetected bool, method DetectionMethod, verifiedAt *time.Time) {
	f.IsInternalTransfer = true
	f.AutoDetected = autoDetected
	f.DetectionMethod = method
	if verifiedAt != nil {
		f.UserVerified = true
		f.VerifiedAt = verifiedAt
	}
	f.setExclusion(transferType.ExclusionReason())
}

// ClearInternalTransfer removes the transfer concern, clearing the shared
// exclusion only if a transfer classification was the recorded reason.
func (f *TransactionFlags) ClearInternalTransfer() {
	f.IsInternalTransfer = false
	f.TransferToAccountID = ""
	f.clearExclusionIf(ExclusionInternalTransfer)
	f.clearExclusionIf(ExclusionCreditCardPayment)
}

// MarkManualExclusion excludes the entry from totals at the user's request.
func (f *TransactionFlags) MarkManualExclusion() {
	f.setExclusion(ExclusionManual)
}

// ClearManualExclusion removes a manual exclusion; exclusions owned by other
// concerns are untouched.
func (f *TransactionFlags) ClearManualExclusion() {
	f.clearExclusionIf(ExclusionManual)
}

// MarkBnplPurchase records a buy-now-pay-later purchase. BNPL does not imply
// exclusion from totals.
func (f *TransactionFlags) MarkBnplPurchase(originalAmount decimal.Decimal, remainingInstallments int, provider string) {
	f.IsBnplPurchase = true
	f.BnplOriginalAmount = &originalAmount
	f.BnplRemainingInstallments = &remainingInstallments
	f.BnplProvider = provider
}

// ClearBnplPurchase removes the BNPL concern.
func (f *TransactionFlags) ClearBnplPurchase() {
	f.IsBnplPurchase = false
	f.BnplOriginalAmount = nil
	f.BnplRemainingInstallments = nil
	f.BnplProvider = ""
}

// MarkInstallmentPlanCredit flags the credit leg of an installment plan.
func (f *TransactionFlags) MarkInstallmentPlanCredit() {
	f.IsInstallmentPlanCredit = true
}

// ClearInstallmentPlanCredit removes the installment-credit concern.
func (f *TransactionFlags) ClearInstallmentPlanCredit() {
	f.IsInstallmentPlanCredit = false
}
