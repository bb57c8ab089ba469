package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
)

const (
	// similarHistoryDays is the default lookback window for similar entries.
	similarHistoryDays = 90

	// maxSimilarEntries caps the ranked result list.
	maxSimilarEntries = 20

	// similarityBand is the width within which two similarities are treated as
	// equivalent and recency decides the order.
	similarityBand = 0.1
)

// SimilarityService finds historical entries with merchant names similar to a
// query name and summarizes how they were categorized. It feeds the
// category-suggestion flow, so entries already covered by a merchant rule are
// filtered out: those merchants are automated and need no suggestion.
type SimilarityService struct {
	entryRepo portsrepo.EntryRepositoryFacade
	rules     *RuleService
}

func NewSimilarityService(entryRepo portsrepo.EntryRepositoryFacade, rules *RuleService) *SimilarityService {
	return &SimilarityService{entryRepo: entryRepo, rules: rules}
}

// FindSimilarTransactions returns entries of both kinds whose merchant name is
// similar to merchantName, ranked by similarity with a recency tie-break, plus
// aggregate stats over the result set.
func (s *SimilarityService) FindSimilarTransactions(ctx context.Context, userID string, merchantName string, query domain.SimilarQuery) (*domain.SimilarTransactions, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if merchantName == "" {
		return &domain.SimilarTransactions{Entries: []domain.SimilarEntry{}}, nil
	}

	now := time.Now()
	from := now.AddDate(0, 0, -similarHistoryDays)
	to := now
	if query.From != nil {
		from = *query.From
	}
	if query.To != nil {
		to = *query.To
	}

	var entries []domain.SimilarEntry
	for _, kind := range []domain.EntryKind{domain.KindReceipt, domain.KindBankTransaction} {
		excludeID := ""
		if kind == query.ExcludeKind {
			excludeID = query.ExcludeID
		}
		found, err := s.entryRepo.FindSimilarEntries(ctx, userID, kind, merchantName, from, to, similarityThreshold, excludeID, maxSimilarEntries)
		if err != nil {
			logger.Error("Failed to query similar entries", slog.String("error", err.Error()), slog.String("kind", string(kind)))
			return nil, fmt.Errorf("failed to query similar entries: %w", err)
		}
		entries = append(entries, found...)
	}

	merchantField := domain.RuleFieldMerchantName
	rules, err := s.rules.ListEnabledRules(ctx, userID, &merchantField)
	if err != nil {
		return nil, err
	}
	entries = s.rules.FilterUnruled(rules, domain.RuleFieldMerchantName, entries)

	rankSimilarEntries(entries)

	// Stats describe the whole filtered population, not just the capped page.
	stats := summarizeSimilar(entries)
	if len(entries) > maxSimilarEntries {
		entries = entries[:maxSimilarEntries]
	}

	result := &domain.SimilarTransactions{
		Entries: entries,
		Stats:   stats,
	}
	if result.Entries == nil {
		result.Entries = []domain.SimilarEntry{}
	}

	logger.Debug("Similar transaction search finished",
		slog.String("merchant_name", merchantName),
		slog.Int("results", len(result.Entries)),
	)
	return result, nil
}

// rankSimilarEntries orders by similarity descending, except that entries
// whose similarities differ by at most the equivalence band are ordered by
// date descending. A slightly weaker match from last week beats a slightly
// stronger one from two months ago.
func rankSimilarEntries(entries []domain.SimilarEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].Similarity - entries[j].Similarity
		if di < 0 {
			di = -di
		}
		if di <= similarityBand {
			ti, tj := entryDate(entries[i].Entry), entryDate(entries[j].Entry)
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
		}
		return entries[i].Similarity > entries[j].Similarity
	})
}

func entryDate(e domain.Entry) time.Time {
	if e.Date != nil {
		return *e.Date
	}
	return time.Time{}
}

// summarizeSimilar computes the aggregate stats: how many results are
// categorized and the most frequent category and business among them.
func summarizeSimilar(entries []domain.SimilarEntry) domain.SimilarStats {
	stats := domain.SimilarStats{TotalCount: len(entries)}

	categoryCounts := make(map[string]int)
	businessCounts := make(map[string]int)
	for _, se := range entries {
		if se.Entry.CategoryID != nil && *se.Entry.CategoryID != "" {
			stats.CategorizedCount++
			categoryCounts[*se.Entry.CategoryID]++
		}
		if se.Entry.BusinessID != nil && *se.Entry.BusinessID != "" {
			businessCounts[*se.Entry.BusinessID]++
		}
	}

	for id, count := range categoryCounts {
		if count > stats.TopCategoryCount {
			id := id
			stats.TopCategoryID = &id
			stats.TopCategoryCount = count
		}
	}
	for id, count := range businessCounts {
		if count > stats.TopBusinessCount {
			id := id
			stats.TopBusinessID = &id
			stats.TopBusinessCount = count
		}
	}
	return stats
}
