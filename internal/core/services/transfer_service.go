package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	// transferDateWindowDays bounds the settlement lag between the two legs of
	// a transfer.
	transferDateWindowDays = 2

	// amountMatchConfidence is assigned to opposite-amount hits. The amount
	// is an exact negation within a cent, so a hit is conclusive.
	amountMatchConfidence = 1.0

	maxTransferMatches = 5
)

// transferAmountTolerance is the absolute amount slack for the opposite leg.
// Transfers move exact amounts; a cent covers representation noise only.
var transferAmountTolerance = decimal.RequireFromString("0.01")

// transferPatterns maps lowercase description substrings to the transfer type
// they indicate. Credit-card payment phrasings are listed first so "payment to
// chase card" is not swallowed by the generic "payment to" transfer pattern.
var transferPatterns = []struct {
	substr       string
	transferType domain.TransferType
}{
	{"payment thank you", domain.TransferCreditCardPayment},
	{"credit card payment", domain.TransferCreditCardPayment},
	{"card payment received", domain.TransferCreditCardPayment},
	{"autopay", domain.TransferCreditCardPayment},
	{"online transfer", domain.TransferInternal},
	{"transfer to", domain.TransferInternal},
	{"transfer from", domain.TransferInternal},
	{"internal transfer", domain.TransferInternal},
	{"xfer", domain.TransferInternal},
	{"zelle transfer", domain.TransferInternal},
	{"wire transfer", domain.TransferInternal},
}

// TransferService classifies bank transactions as internal transfers or
// credit-card payments, either on demand for a single transaction or in a
// batch sweep over a user's unflagged history.
type TransferService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	flags     portssvc.FlagSvcFacade
}

func NewTransferService(entryRepo portsrepo.EntryRepositoryFacade, flags portssvc.FlagSvcFacade) *TransferService {
	return &TransferService{entryRepo: entryRepo, flags: flags}
}

// matchTransferPattern returns the transfer type indicated by the description,
// or "" when no pattern applies.
func matchTransferPattern(description string) domain.TransferType {
	lower := strings.ToLower(description)
	for _, p := range transferPatterns {
		if strings.Contains(lower, p.substr) {
			return p.transferType
		}
	}
	return ""
}

// DetectTransfer classifies a single transaction. Description patterns are
// tried first; only when no pattern hits does the opposite-amount search run.
// Detection never mutates state.
func (s *TransferService) DetectTransfer(ctx context.Context, userID string, probe domain.TransferProbe) (*domain.TransferDetection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := &domain.TransferDetection{Detected: false}

	if probe.Description != nil {
		if transferType := matchTransferPattern(*probe.Description); transferType != "" {
			result.Detected = true
			result.TransferType = transferType
			result.AutoDetected = true
			result.DetectionMethod = domain.DetectionDescriptionPattern
			logger.Debug("Transfer detected by description pattern", slog.String("transfer_type", string(transferType)))
			return result, nil
		}
	}

	if probe.Amount == nil || probe.Date == nil {
		return result, nil
	}

	from := probe.Date.AddDate(0, 0, -transferDateWindowDays)
	to := probe.Date.AddDate(0, 0, transferDateWindowDays)

	candidates, err := s.entryRepo.FindOppositeAmountCandidates(ctx, userID, *probe.Amount, *probe.Date, from, to, transferAmountTolerance, probe.ExcludeID, maxTransferMatches)
	if err != nil {
		logger.Error("Failed to query transfer candidates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query transfer candidates: %w", err)
	}

	for _, entry := range candidates {
		match := domain.TransferMatch{
			Entry:      entry,
			Confidence: amountMatchConfidence,
			Reason:     "Matching opposite amount on same date",
			AmountDiff: probe.Amount.Add(entry.Amount).Abs(),
		}
		if entry.Date != nil {
			match.DateDiff = dateDiffDays(*probe.Date, *entry.Date)
		}
		result.Matches = append(result.Matches, match)
	}

	if len(result.Matches) > 0 {
		result.Detected = true
		result.TransferType = domain.TransferInternal
		result.AutoDetected = true
		result.DetectionMethod = domain.DetectionAmountMatch
	}

	logger.Debug("Transfer detection finished",
		slog.Bool("detected", result.Detected),
		slog.Int("matches", len(result.Matches)),
	)
	return result, nil
}

// MarkAsInternalTransfer flags a bank transaction as the given transfer type
// at the user's request and excludes it from totals.
func (s *TransferService) MarkAsInternalTransfer(ctx context.Context, userID string, transactionID string, transferType domain.TransferType) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	updated, err := s.flags.UpdateFlags(ctx, userID, domain.KindBankTransaction, transactionID, func(f *domain.TransactionFlags) {
		f.MarkInternalTransfer(transferType, false, "", &now)
	})
	if err != nil {
		logger.Error("Failed to mark internal transfer", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to mark internal transfer: %w", err)
	}
	if updated {
		logger.Info("Transaction marked as transfer", slog.String("transaction_id", transactionID), slog.String("transfer_type", string(transferType)))
	}
	return nil
}

// UnmarkInternalTransfer removes the transfer flags. The shared exclusion is
// cleared only when a transfer classification was the recorded reason.
func (s *TransferService) UnmarkInternalTransfer(ctx context.Context, userID string, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	updated, err := s.flags.UpdateFlags(ctx, userID, domain.KindBankTransaction, transactionID, func(f *domain.TransactionFlags) {
		f.ClearInternalTransfer()
	})
	if err != nil {
		logger.Error("Failed to unmark internal transfer", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to unmark internal transfer: %w", err)
	}
	if updated {
		logger.Info("Transfer flag removed", slog.String("transaction_id", transactionID))
	}
	return nil
}

// AutoDetectInternalTransfers sweeps the user's unflagged bank transactions
// with the description-pattern strategy and flags every hit. Amount matching
// is deliberately left out of the batch pass: it pairs rows, and pairing every
// candidate against every other is a different job than a sweep.
func (s *TransferService) AutoDetectInternalTransfers(ctx context.Context, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidates, err := s.entryRepo.ListTransferScanCandidates(ctx, userID)
	if err != nil {
		logger.Error("Failed to list transfer scan candidates", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to list transfer scan candidates: %w", err)
	}

	flagged := 0
	for _, entry := range candidates {
		if entry.Description == nil {
			continue
		}
		transferType := matchTransferPattern(*entry.Description)
		if transferType == "" {
			continue
		}

		updated, err := s.flags.UpdateFlags(ctx, userID, domain.KindBankTransaction, entry.ID, func(f *domain.TransactionFlags) {
			f.MarkInternalTransfer(transferType, true, domain.DetectionDescriptionPattern, nil)
		})
		if err != nil {
			logger.Error("Failed to flag transaction during auto-detect", slog.String("error", err.Error()), slog.String("transaction_id", entry.ID))
			return flagged, fmt.Errorf("failed to flag transaction %s: %w", entry.ID, err)
		}
		if updated {
			flagged++
		}
	}

	logger.Info("Transfer auto-detect finished",
		slog.Int("scanned", len(candidates)),
		slog.Int("flagged", flagged),
	)
	return flagged, nil
}
