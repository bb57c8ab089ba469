package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
)

// EntryResponse is the API view of a receipt or bank transaction. Amounts
// travel as decimal strings.
type EntryResponse struct {
	ID           string                  `json:"id"`
	Kind         string                  `json:"kind"`
	MerchantName *string                 `json:"merchantName"`
	Description  *string                 `json:"description"`
	Amount       string                  `json:"amount"`
	Currency     string                  `json:"currency"`
	Date         *time.Time              `json:"date"`
	CategoryID   *string                 `json:"categoryID"`
	BusinessID   *string                 `json:"businessID"`
	Flags        domain.TransactionFlags `json:"flags"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Kind:         string(e.Kind),
		MerchantName: e.MerchantName,
		Description:  e.Description,
		Amount:       e.Amount.String(),
		Currency:     e.Currency,
		Date:         e.Date,
		CategoryID:   e.CategoryID,
		BusinessID:   e.BusinessID,
		Flags:        e.Flags,
	}
}
