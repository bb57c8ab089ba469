package mapping

import (
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

// ToDomainEntryFromReceipt converts a Receipt row to the unified Entry view.
func ToDomainEntryFromReceipt(m models.Receipt) domain.Entry {
	return domain.Entry{
		ID:           m.ReceiptID,
		UserID:       m.UserID,
		Kind:         domain.KindReceipt,
		MerchantName: m.MerchantName,
		Description:  m.Description,
		Amount:       m.Amount,
		Currency:     m.Currency,
		Date:         m.ReceiptDate,
		CategoryID:   m.CategoryID,
		BusinessID:   m.BusinessID,
		Flags:        ToDomainFlags(m.Flags),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntryFromBankTransaction converts a BankTransaction row to the
// unified Entry view. ownerID is the user resolved through the
// statement->document->user chain; the row itself has no user column.
func ToDomainEntryFromBankTransaction(m models.BankTransaction, ownerID string) domain.Entry {
	return domain.Entry{
		ID:           m.TransactionID,
		UserID:       ownerID,
		Kind:         domain.KindBankTransaction,
		MerchantName: m.MerchantName,
		Description:  m.Description,
		Amount:       m.Amount,
		Currency:     m.Currency,
		Date:         m.TransactionDate,
		CategoryID:   m.CategoryID,
		BusinessID:   m.BusinessID,
		Flags:        ToDomainFlags(m.Flags),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
