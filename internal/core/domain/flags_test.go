package domain_test

import (
	"testing"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionFlags_MarkDuplicate(t *testing.T) {
	now := time.Now()
	var f domain.TransactionFlags

	f.MarkDuplicate("txn-9", domain.KindBankTransaction, 0.92, now)

	assert.True(t, f.IsDuplicate)
	assert.Equal(t, "txn-9", f.LinkedTransactionID)
	assert.Equal(t, domain.KindBankTransaction, f.LinkedTransactionType)
	assert.Equal(t, 0.92, f.DuplicateConfidence)
	assert.True(t, f.UserVerified)
	assert.Equal(t, &now, f.VerifiedAt)
	assert.True(t, f.IsExcludedFromTotals)
	assert.Equal(t, domain.ExclusionDuplicate, f.ExclusionReason)
}

func TestTransactionFlags_ExclusionPairing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *domain.TransactionFlags)
	}{
		{
			name: "duplicate mark and clear",
			mutate: func(f *domain.TransactionFlags) {
				f.MarkDuplicate("x", domain.KindReceipt, 0.9, time.Now())
				f.ClearDuplicate()
			},
		},
		{
			name: "transfer mark and clear",
			mutate: func(f *domain.TransactionFlags) {
				f.MarkInternalTransfer(domain.TransferInternal, true, domain.DetectionDescriptionPattern, nil)
				f.ClearInternalTransfer()
			},
		},
		{
			name: "credit card payment mark and clear",
			mutate: func(f *domain.TransactionFlags) {
				f.MarkInternalTransfer(domain.TransferCreditCardPayment, false, "", nil)
				f.ClearInternalTransfer()
			},
		},
		{
			name: "manual mark and clear",
			mutate: func(f *domain.TransactionFlags) {
				f.MarkManualExclusion()
				f.ClearManualExclusion()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f domain.TransactionFlags
			tt.mutate(&f)

			// A full mark/clear cycle leaves the exclusion pair zeroed.
			assert.False(t, f.IsExcludedFromTotals)
			assert.Empty(t, f.ExclusionReason)
		})
	}
}

func TestTransactionFlags_ClearLeavesForeignExclusion(t *testing.T) {
	var f domain.TransactionFlags
	f.MarkManualExclusion()
	f.MarkBnplPurchase(decimal.RequireFromString("120.00"), 3, "Klarna")

	// The duplicate concern was never the exclusion owner, so clearing it
	// must not drop the manual exclusion.
	f.ClearDuplicate()
	assert.True(t, f.IsExcludedFromTotals)
	assert.Equal(t, domain.ExclusionManual, f.ExclusionReason)

	f.ClearInternalTransfer()
	assert.True(t, f.IsExcludedFromTotals)
	assert.Equal(t, domain.ExclusionManual, f.ExclusionReason)

	// BNPL never touches exclusion at all.
	f.ClearBnplPurchase()
	assert.True(t, f.IsExcludedFromTotals)
	assert.False(t, f.IsBnplPurchase)
	assert.Nil(t, f.BnplOriginalAmount)
}

func TestTransactionFlags_MarkOverwritesExclusionReason(t *testing.T) {
	var f domain.TransactionFlags
	f.MarkManualExclusion()
	f.MarkDuplicate("txn-1", domain.KindBankTransaction, 0.8, time.Now())

	// Last mark owns the reason.
	assert.Equal(t, domain.ExclusionDuplicate, f.ExclusionReason)

	// Clearing the manual concern now does nothing; clearing the duplicate
	// concern releases the exclusion entirely.
	f.ClearManualExclusion()
	assert.True(t, f.IsExcludedFromTotals)
	f.ClearDuplicate()
	assert.False(t, f.IsExcludedFromTotals)
}

func TestTransferType_ExclusionReason(t *testing.T) {
	assert.Equal(t, domain.ExclusionInternalTransfer, domain.TransferInternal.ExclusionReason())
	assert.Equal(t, domain.ExclusionCreditCardPayment, domain.TransferCreditCardPayment.ExclusionReason())
}

func TestTransactionFlags_AutoDetectedTransferIsNotVerified(t *testing.T) {
	var f domain.TransactionFlags
	f.MarkInternalTransfer(domain.TransferInternal, true, domain.DetectionDescriptionPattern, nil)

	assert.True(t, f.AutoDetected)
	assert.False(t, f.UserVerified)
	assert.Nil(t, f.VerifiedAt)

	now := time.Now()
	var g domain.TransactionFlags
	g.MarkInternalTransfer(domain.TransferInternal, false, "", &now)
	assert.True(t, g.UserVerified)
	assert.Equal(t, &now, g.VerifiedAt)
}
