package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SimilarityServiceTestSuite struct {
	suite.Suite
	mockEntryRepo *MockEntryRepository
	mockRuleRepo  *MockRuleRepository
	service       *services.SimilarityService
}

func (suite *SimilarityServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockRuleRepo = new(MockRuleRepository)
	ruleService := services.NewRuleService(suite.mockRuleRepo)
	suite.service = services.NewSimilarityService(suite.mockEntryRepo, ruleService)
}

func (suite *SimilarityServiceTestSuite) expectNoRules(ctx context.Context) {
	suite.mockRuleRepo.On("ListEnabledRules", ctx, "user-1", mock.Anything).
		Return([]domain.CategoryRule{}, nil).Once()
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_EmptyMerchantName() {
	ctx := context.Background()

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Empty(result.Entries)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindSimilarEntries")
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_RecencyBreaksNearTies() {
	ctx := context.Background()

	receipts := []domain.SimilarEntry{
		{
			// Stronger match, but two months old.
			Entry:      domain.Entry{ID: "old", Kind: domain.KindReceipt, Date: timePtr(dateAt(2025, 1, 5))},
			Similarity: 0.92,
		},
	}
	txns := []domain.SimilarEntry{
		{
			// Slightly weaker, from last week: wins inside the 0.1 band.
			Entry:      domain.Entry{ID: "recent", Kind: domain.KindBankTransaction, Date: timePtr(dateAt(2025, 3, 1))},
			Similarity: 0.85,
		},
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Starbucks",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(receipts, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Starbucks",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(txns, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Starbucks", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 2)
	suite.Equal("recent", result.Entries[0].Entry.ID)
	suite.Equal("old", result.Entries[1].Entry.ID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_BandBoundaryPrefersRecent() {
	ctx := context.Background()

	// The two scores differ by exactly the band width. The band is inclusive,
	// so recency still decides the order.
	receipts := []domain.SimilarEntry{
		{
			Entry:      domain.Entry{ID: "old", Kind: domain.KindReceipt, Date: timePtr(dateAt(2025, 1, 5))},
			Similarity: 0.225,
		},
		{
			Entry:      domain.Entry{ID: "recent", Kind: domain.KindReceipt, Date: timePtr(dateAt(2025, 3, 1))},
			Similarity: 0.125,
		},
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Starbucks",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(receipts, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Starbucks",
		mock.Anything, mock.Anything, 0.3, "", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Starbucks", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 2)
	suite.Equal("recent", result.Entries[0].Entry.ID)
	suite.Equal("old", result.Entries[1].Entry.ID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_OutsideBandSimilarityWins() {
	ctx := context.Background()

	receipts := []domain.SimilarEntry{
		{
			Entry:      domain.Entry{ID: "strong-old", Kind: domain.KindReceipt, Date: timePtr(dateAt(2025, 1, 5))},
			Similarity: 0.95,
		},
		{
			Entry:      domain.Entry{ID: "weak-recent", Kind: domain.KindReceipt, Date: timePtr(dateAt(2025, 3, 1))},
			Similarity: 0.4,
		},
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Target",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(receipts, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Target",
		mock.Anything, mock.Anything, 0.3, "", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Target", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 2)
	suite.Equal("strong-old", result.Entries[0].Entry.ID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_RuledMerchantsFilteredOut() {
	ctx := context.Background()

	entries := []domain.SimilarEntry{
		{
			Entry:      domain.Entry{ID: "ruled", Kind: domain.KindReceipt, MerchantName: strPtr("Starbucks"), Date: timePtr(dateAt(2025, 3, 1))},
			Similarity: 0.9,
		},
		{
			Entry:      domain.Entry{ID: "unruled", Kind: domain.KindReceipt, MerchantName: strPtr("Starlight Diner"), Date: timePtr(dateAt(2025, 3, 2))},
			Similarity: 0.5,
		},
	}

	rules := []domain.CategoryRule{
		{
			RuleID:    "rule-1",
			Field:     domain.RuleFieldMerchantName,
			MatchType: domain.MatchExact,
			Value:     "starbucks",
			IsEnabled: true,
		},
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Star",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(entries, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Star",
		mock.Anything, mock.Anything, 0.3, "", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.mockRuleRepo.On("ListEnabledRules", ctx, "user-1", mock.Anything).
		Return(rules, nil).Once()

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Star", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Require().Len(result.Entries, 1)
	suite.Equal("unruled", result.Entries[0].Entry.ID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_StatsCountModes() {
	ctx := context.Background()

	catA, catB := "cat-a", "cat-b"
	biz := "biz-1"
	entries := []domain.SimilarEntry{
		{Entry: domain.Entry{ID: "e1", CategoryID: &catA, BusinessID: &biz, Date: timePtr(dateAt(2025, 3, 1))}, Similarity: 0.9},
		{Entry: domain.Entry{ID: "e2", CategoryID: &catA, Date: timePtr(dateAt(2025, 3, 2))}, Similarity: 0.88},
		{Entry: domain.Entry{ID: "e3", CategoryID: &catB, Date: timePtr(dateAt(2025, 3, 3))}, Similarity: 0.87},
		{Entry: domain.Entry{ID: "e4", Date: timePtr(dateAt(2025, 3, 4))}, Similarity: 0.86},
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Cafe",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(entries, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Cafe",
		mock.Anything, mock.Anything, 0.3, "", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Cafe", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Equal(4, result.Stats.TotalCount)
	suite.Equal(3, result.Stats.CategorizedCount)
	suite.Require().NotNil(result.Stats.TopCategoryID)
	suite.Equal(catA, *result.Stats.TopCategoryID)
	suite.Equal(2, result.Stats.TopCategoryCount)
	suite.Require().NotNil(result.Stats.TopBusinessID)
	suite.Equal(biz, *result.Stats.TopBusinessID)
	suite.Equal(1, result.Stats.TopBusinessCount)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_StatsCoverEntriesBeyondCap() {
	ctx := context.Background()

	// Both kinds together yield more entries than the result cap. The stats
	// still describe the whole filtered population.
	cat := "cat-coffee"
	receipts := make([]domain.SimilarEntry, 0, 12)
	for i := 0; i < 12; i++ {
		receipts = append(receipts, domain.SimilarEntry{
			Entry:      domain.Entry{ID: fmt.Sprintf("r%d", i), Kind: domain.KindReceipt, CategoryID: &cat, Date: timePtr(dateAt(2025, 3, 1).AddDate(0, 0, -i))},
			Similarity: 0.9,
		})
	}
	txns := make([]domain.SimilarEntry, 0, 10)
	for i := 0; i < 10; i++ {
		txns = append(txns, domain.SimilarEntry{
			Entry:      domain.Entry{ID: fmt.Sprintf("t%d", i), Kind: domain.KindBankTransaction, CategoryID: &cat, Date: timePtr(dateAt(2025, 2, 1).AddDate(0, 0, -i))},
			Similarity: 0.6,
		})
	}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Cafe",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(receipts, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Cafe",
		mock.Anything, mock.Anything, 0.3, "", 20).Return(txns, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Cafe", domain.SimilarQuery{})

	suite.Require().NoError(err)
	suite.Len(result.Entries, 20)
	suite.Equal(22, result.Stats.TotalCount)
	suite.Equal(22, result.Stats.CategorizedCount)
	suite.Require().NotNil(result.Stats.TopCategoryID)
	suite.Equal(cat, *result.Stats.TopCategoryID)
	suite.Equal(22, result.Stats.TopCategoryCount)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *SimilarityServiceTestSuite) TestFindSimilar_ExcludesProbeEntryByKind() {
	ctx := context.Background()

	query := domain.SimilarQuery{ExcludeID: "receipt-7", ExcludeKind: domain.KindReceipt}

	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindReceipt, "Cafe",
		mock.Anything, mock.Anything, 0.3, "receipt-7", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.mockEntryRepo.On("FindSimilarEntries", ctx, "user-1", domain.KindBankTransaction, "Cafe",
		mock.Anything, mock.Anything, 0.3, "", 20).Return([]domain.SimilarEntry{}, nil).Once()
	suite.expectNoRules(ctx)

	result, err := suite.service.FindSimilarTransactions(ctx, "user-1", "Cafe", query)

	suite.Require().NoError(err)
	suite.NotNil(result.Entries)
	suite.Empty(result.Entries)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func TestSimilarityService(t *testing.T) {
	suite.Run(t, new(SimilarityServiceTestSuite))
}
