package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFlags is the JSONB flag bag as persisted. Fields are sparse;
// omitempty keeps the stored document minimal.
type TransactionFlags struct {
	IsDuplicate           bool    `json:"isDuplicate,omitempty"`
	LinkedTransactionID   string  `json:"linkedTransactionId,omitempty"`
	LinkedTransactionType string  `json:"linkedTransactionType,omitempty"`
	DuplicateConfidence   float64 `json:"duplicateConfidence,omitempty"`

	IsInternalTransfer  bool   `json:"isInternalTransfer,omitempty"`
	TransferToAccountID string `json:"transferToAccountId,omitempty"`

	IsBnplPurchase            bool             `json:"isBnplPurchase,omitempty"`
	BnplOriginalAmount        *decimal.Decimal `json:"bnplOriginalAmount,omitempty"`
	BnplRemainingInstallments *int             `json:"bnplRemainingInstallments,omitempty"`
	BnplProvider              string           `json:"bnplProvider,omitempty"`

	IsInstallmentPlanCredit bool `json:"isInstallmentPlanCredit,omitempty"`

	IsExcludedFromTotals bool   `json:"isExcludedFromTotals,omitempty"`
	ExclusionReason      string `json:"exclusionReason,omitempty"`

	UserVerified    bool       `json:"userVerified,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	AutoDetected    bool       `json:"autoDetected,omitempty"`
	DetectionMethod string     `json:"detectionMethod,omitempty"`
}
