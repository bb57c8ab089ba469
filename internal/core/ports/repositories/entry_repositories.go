package repositories

import (
	"context"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations over receipts and bank transactions.
// All queries are scoped to the owning user; bank-transaction ownership is
// resolved through the statement->document->user join inside the query.
type EntryReader interface {
	// FindEntryByID retrieves a single entry of the given kind owned by userID.
	// Returns apperrors.ErrNotFound when the row does not exist or belongs to
	// another user (the two cases are indistinguishable to the caller).
	FindEntryByID(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.Entry, error)

	// FindDuplicateCandidates returns entries of the given kind whose merchant
	// name similarity to merchantName exceeds threshold, dated within
	// [from, to], not already flagged as duplicates, and excluding excludeID.
	// Ordered by similarity descending, then absolute amount difference to
	// amount ascending. At most limit rows.
	FindDuplicateCandidates(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, amount decimal.Decimal, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error)

	// FindOppositeAmountCandidates returns the user's bank transactions dated
	// within [from, to] whose amount is within tolerance of -amount, excluding
	// excludeID and transactions already flagged as internal transfers.
	// Ordered by amount difference, then date difference. At most limit rows.
	FindOppositeAmountCandidates(ctx context.Context, userID string, amount decimal.Decimal, date time.Time, from, to time.Time, tolerance decimal.Decimal, excludeID string, limit int) ([]domain.Entry, error)

	// FindSimilarEntries returns entries of the given kind whose merchant name
	// similarity to merchantName exceeds threshold within [from, to],
	// excluding excludeID when the kind matches. Ordered by similarity
	// descending. At most limit rows.
	FindSimilarEntries(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error)

	// ListTransferScanCandidates returns the user's bank transactions that
	// carry no transfer flag and no exclusion, for the batch auto-detect pass.
	ListTransferScanCandidates(ctx context.Context, userID string) ([]domain.Entry, error)
}

// EntryFlagWriter defines the flag-bag read-modify-write cycle. GetFlags and
// UpdateFlags are the only paths that touch the flags column.
type EntryFlagWriter interface {
	// GetFlags loads the current flag bag of an entry owned by userID.
	GetFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.TransactionFlags, error)

	// UpdateFlags persists a full flag bag for an entry owned by userID.
	// Returns false with nil error when no row matched (unknown id or foreign
	// owner) so mutations on foreign rows stay silent no-ops.
	UpdateFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string, flags domain.TransactionFlags) (bool, error)
}

// EntryWriter defines the non-flag mutations the engine performs.
type EntryWriter interface {
	// UpdateCategory assigns category/business to an entry owned by userID.
	// Same zero-rows-is-no-op contract as UpdateFlags.
	UpdateCategory(ctx context.Context, userID string, kind domain.EntryKind, entryID string, categoryID string, businessID *string) (bool, error)
}

// EntryRepositoryFacade combines all entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryFlagWriter
	EntryWriter
}
