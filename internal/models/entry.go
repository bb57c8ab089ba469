package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a row of the receipts table. Receipts carry their owner and
// document provenance directly.
type Receipt struct {
	ReceiptID    string           `db:"receipt_id"`
	UserID       string           `db:"user_id"`
	DocumentID   *string          `db:"document_id"`
	MerchantName *string          `db:"merchant_name"`
	Description  *string          `db:"description"`
	Amount       decimal.Decimal  `db:"amount"` // unsigned total, treated as expense
	Currency     string           `db:"currency"`
	ReceiptDate  *time.Time       `db:"receipt_date"`
	CategoryID   *string          `db:"category_id"`
	BusinessID   *string          `db:"business_id"`
	Flags        TransactionFlags `db:"flags"`
	AuditFields
}

// BankTransaction is a row of the bank_transactions table. There is no
// user_id column; ownership runs transaction -> statement -> document -> user.
type BankTransaction struct {
	TransactionID   string           `db:"transaction_id"`
	StatementID     string           `db:"statement_id"`
	MerchantName    *string          `db:"merchant_name"`
	Description     *string          `db:"description"`
	Amount          decimal.Decimal  `db:"amount"` // negative = money out
	Currency        string           `db:"currency"`
	TransactionDate *time.Time       `db:"transaction_date"`
	CategoryID      *string          `db:"category_id"`
	BusinessID      *string          `db:"business_id"`
	Flags           TransactionFlags `db:"flags"`
	AuditFields
}
