package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	// similarityThreshold is the shared trigram-similarity cutoff used by
	// every fuzzy merchant match in the system. Tuned against pg_trgm
	// similarity(); re-tune if the scoring function is ever swapped.
	similarityThreshold = 0.3

	// duplicateDateWindowDays bounds how far apart a receipt and a bank
	// transaction can be dated and still count as the same purchase.
	duplicateDateWindowDays = 3

	// amountTolerance is the relative difference under which two amounts are
	// considered the same charge (tips, FX rounding).
	amountTolerance = 0.05

	// confidenceFloor drops weak candidates from the result list.
	confidenceFloor = 0.5

	// strongSimilarity is where a merchant match is called out as a reason.
	strongSimilarity = 0.8

	maxDuplicateCandidates = 5
)

// DuplicateService finds likely duplicate pairs between receipts and bank
// transactions and applies the user-confirmed duplicate marking.
type DuplicateService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	flags     portssvc.FlagSvcFacade
}

func NewDuplicateService(entryRepo portsrepo.EntryRepositoryFacade, flags portssvc.FlagSvcFacade) *DuplicateService {
	return &DuplicateService{entryRepo: entryRepo, flags: flags}
}

// amountsMatch reports whether two amounts are within the relative tolerance.
// Signs are ignored; a receipt total is unsigned while the bank charge is
// negative. Zero-vs-zero matches, one zero against a non-zero does not.
func amountsMatch(a, b decimal.Decimal) bool {
	absA, absB := a.Abs(), b.Abs()
	if absA.IsZero() && absB.IsZero() {
		return true
	}
	if absA.IsZero() || absB.IsZero() {
		return false
	}
	avg := absA.Add(absB).Div(decimal.NewFromInt(2))
	diff := absA.Sub(absB).Abs()
	return diff.Div(avg).LessThanOrEqual(decimal.NewFromFloat(amountTolerance))
}

// exactAmountMatch reports whether the absolute amounts are equal.
func exactAmountMatch(a, b decimal.Decimal) bool {
	return a.Abs().Equal(b.Abs())
}

// dateDiffDays returns the absolute whole-day difference between two dates.
func dateDiffDays(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// DetectDuplicates scans entries of the opposite kind for plausible
// duplicates of the probe. Detection requires merchant name, amount and date;
// when any is missing the result reports Detected=false without error.
// Detection never mutates state.
func (s *DuplicateService) DetectDuplicates(ctx context.Context, userID string, probe domain.DuplicateProbe) (*domain.DuplicateDetection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if probe.MerchantName == nil || *probe.MerchantName == "" || probe.Amount == nil || probe.Date == nil {
		logger.Debug("Duplicate detection skipped, required fields missing")
		return &domain.DuplicateDetection{Detected: false, Candidates: []domain.DuplicateCandidate{}}, nil
	}

	from := probe.Date.AddDate(0, 0, -duplicateDateWindowDays)
	to := probe.Date.AddDate(0, 0, duplicateDateWindowDays)

	candidates, err := s.entryRepo.FindDuplicateCandidates(ctx, userID, probe.Kind.Opposite(), *probe.MerchantName, *probe.Amount, from, to, similarityThreshold, probe.ExcludeID, maxDuplicateCandidates)
	if err != nil {
		logger.Error("Failed to query duplicate candidates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query duplicate candidates: %w", err)
	}

	result := &domain.DuplicateDetection{Detected: false, Candidates: []domain.DuplicateCandidate{}}
	for _, se := range candidates {
		scored := scoreDuplicateCandidate(se, *probe.Amount, *probe.Date)
		if scored.Confidence <= confidenceFloor {
			continue
		}
		result.Candidates = append(result.Candidates, scored)
		if result.TopMatch == nil || scored.Confidence > result.TopMatch.Confidence {
			top := scored
			result.TopMatch = &top
		}
	}
	result.Detected = len(result.Candidates) > 0

	logger.Debug("Duplicate detection finished",
		slog.Int("candidates", len(result.Candidates)),
		slog.Bool("detected", result.Detected),
	)
	return result, nil
}

// scoreDuplicateCandidate blends merchant similarity, amount closeness and
// date proximity into a single confidence:
//
//	0.4*similarity + (0.4 exact | 0.3 close | 0 amount) + (0.2 dates), cap 1.0
func scoreDuplicateCandidate(se domain.SimilarEntry, amount decimal.Decimal, date time.Time) domain.DuplicateCandidate {
	c := domain.DuplicateCandidate{
		Entry:      se.Entry,
		Similarity: se.Similarity,
	}

	c.ExactAmountMatch = exactAmountMatch(amount, se.Entry.Amount)
	c.AmountsMatch = amountsMatch(amount, se.Entry.Amount)
	if se.Entry.Date != nil {
		c.DatesMatch = dateDiffDays(date, *se.Entry.Date) <= duplicateDateWindowDays
	}

	confidence := 0.4 * c.Similarity
	switch {
	case c.ExactAmountMatch:
		confidence += 0.4
	case c.AmountsMatch:
		confidence += 0.3
	}
	if c.DatesMatch {
		confidence += 0.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	c.Confidence = confidence

	if c.Similarity > strongSimilarity {
		c.MatchReasons = append(c.MatchReasons, "Similar merchant")
	}
	switch {
	case c.ExactAmountMatch:
		c.MatchReasons = append(c.MatchReasons, "Exact amount")
	case c.AmountsMatch:
		c.MatchReasons = append(c.MatchReasons, "Similar amount")
	}
	if c.DatesMatch {
		c.MatchReasons = append(c.MatchReasons, "Same date range")
	}

	return c
}

// MarkAsDuplicate flags the given entry as a duplicate of the linked entry
// and excludes it from totals. One-directional: the linked entry keeps its
// flags so the pair is excluded exactly once.
func (s *DuplicateService) MarkAsDuplicate(ctx context.Context, userID string, kind domain.EntryKind, entryID string, linkedID string, linkedKind domain.EntryKind, confidence float64) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	updated, err := s.flags.UpdateFlags(ctx, userID, kind, entryID, func(f *domain.TransactionFlags) {
		f.MarkDuplicate(linkedID, linkedKind, confidence, now)
	})
	if err != nil {
		logger.Error("Failed to mark duplicate", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to mark duplicate: %w", err)
	}
	if updated {
		logger.Info("Entry marked as duplicate", slog.String("entry_id", entryID), slog.String("linked_id", linkedID))
	}
	return nil
}

// UnmarkDuplicate removes the duplicate flags from an entry. The shared
// exclusion is cleared only when "duplicate" was the recorded reason; an
// exclusion owned by another concern survives.
func (s *DuplicateService) UnmarkDuplicate(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	updated, err := s.flags.UpdateFlags(ctx, userID, kind, entryID, func(f *domain.TransactionFlags) {
		f.ClearDuplicate()
	})
	if err != nil {
		logger.Error("Failed to unmark duplicate", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to unmark duplicate: %w", err)
	}
	if updated {
		logger.Info("Duplicate flag removed", slog.String("entry_id", entryID))
	}
	return nil
}
