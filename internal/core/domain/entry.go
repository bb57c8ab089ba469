package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes the two independently-ingested entry sources.
type EntryKind string

const (
	KindReceipt         EntryKind = "receipt"
	KindBankTransaction EntryKind = "bank_transaction"
)

// Valid reports whether k is one of the two known entry kinds.
func (k EntryKind) Valid() bool {
	return k == KindReceipt || k == KindBankTransaction
}

// Opposite returns the other entry kind. Duplicate detection always searches
// the opposite kind of the probe entry.
func (k EntryKind) Opposite() EntryKind {
	if k == KindReceipt {
		return KindBankTransaction
	}
	return KindReceipt
}

// Entry is the reconciliation-time view of a receipt or bank transaction.
// Receipts carry their owner directly; bank transactions are owned through
// the statement->document->user chain, so UserID here is always the resolved
// owner, never a stored column for that kind.
//
// Sign convention: negative amount = money out, positive = money in.
// Receipt totals are stored unsigned and treated as expenses.
type Entry struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userID"`
	Kind         EntryKind         `json:"kind"`
	MerchantName *string           `json:"merchantName"`
	Description  *string           `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Date         *time.Time        `json:"date"`
	CategoryID   *string           `json:"categoryID"`
	BusinessID   *string           `json:"businessID"` // absent = personal
	Flags        TransactionFlags  `json:"flags"`
	AuditFields
}
