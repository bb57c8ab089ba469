package services

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// DuplicateSvcFacade is the duplicate-detection side of the reconciliation
// engine. Detection never writes; marking is a separate user-confirmed action.
type DuplicateSvcFacade interface {
	// DetectDuplicates scans the opposite entry kind for plausible duplicates
	// of the probe. Missing merchant/amount/date yields Detected=false, not
	// an error.
	DetectDuplicates(ctx context.Context, userID string, probe domain.DuplicateProbe) (*domain.DuplicateDetection, error)

	// MarkAsDuplicate flags the given entry as a duplicate of the linked
	// entry. One-directional: the linked entry is not touched.
	MarkAsDuplicate(ctx context.Context, userID string, kind domain.EntryKind, entryID string, linkedID string, linkedKind domain.EntryKind, confidence float64) error

	// UnmarkDuplicate removes the duplicate flags, clearing the shared
	// exclusion only when "duplicate" was the exclusion reason.
	UnmarkDuplicate(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error
}

// TransferSvcFacade detects and marks internal transfers and credit-card
// payments.
type TransferSvcFacade interface {
	// DetectTransfer tries description patterns first, then opposite-amount
	// matching when patterns found nothing.
	DetectTransfer(ctx context.Context, userID string, probe domain.TransferProbe) (*domain.TransferDetection, error)

	// MarkAsInternalTransfer flags a bank transaction as the given transfer
	// type and excludes it from totals.
	MarkAsInternalTransfer(ctx context.Context, userID string, transactionID string, transferType domain.TransferType) error

	// UnmarkInternalTransfer removes the transfer flags with the same
	// selective exclusion clearing as duplicate unmarking.
	UnmarkInternalTransfer(ctx context.Context, userID string, transactionID string) error

	// AutoDetectInternalTransfers runs the pattern strategy over the user's
	// unflagged bank transactions and flags hits. Returns the flagged count.
	AutoDetectInternalTransfers(ctx context.Context, userID string) (int, error)
}

// FlagSvcFacade is the flag state manager: concern-scoped read-modify-write
// updates of an entry's flag bag.
type FlagSvcFacade interface {
	// UpdateFlags loads the entry's bag, applies mutate, and persists the
	// result. A foreign or unknown entry is a silent no-op (false, nil).
	UpdateFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string, mutate func(*domain.TransactionFlags)) (bool, error)

	// SetManualExclusion excludes the entry from totals at the user's request.
	SetManualExclusion(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error

	// ClearManualExclusion removes a manual exclusion only.
	ClearManualExclusion(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error
}

// SimilarSvcFacade is the read-side companion to rule matching: historical
// entries similar to a merchant name, with aggregate stats for suggestions.
type SimilarSvcFacade interface {
	FindSimilarTransactions(ctx context.Context, userID string, merchantName string, query domain.SimilarQuery) (*domain.SimilarTransactions, error)
}
