package services_test

import (
	"context"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/core/services"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRuleRepository
	service  *services.RuleService
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRuleRepository)
	suite.service = services.NewRuleService(suite.mockRepo)
}

func (suite *RuleServiceTestSuite) TestMatches_Exact() {
	rule := domain.CategoryRule{MatchType: domain.MatchExact, Value: "Starbucks"}

	suite.True(suite.service.Matches(rule, "starbucks"))
	suite.True(suite.service.Matches(rule, "STARBUCKS"))
	suite.False(suite.service.Matches(rule, "Starbucks #123"))
	suite.False(suite.service.Matches(rule, ""))
}

func (suite *RuleServiceTestSuite) TestMatches_Contains() {
	rule := domain.CategoryRule{MatchType: domain.MatchContains, Value: "uber"}

	suite.True(suite.service.Matches(rule, "UBER EATS SAN FRANCISCO"))
	suite.True(suite.service.Matches(rule, "Trip with Uber"))
	suite.False(suite.service.Matches(rule, "Lyft ride"))
}

func (suite *RuleServiceTestSuite) TestMatches_Regex() {
	rule := domain.CategoryRule{MatchType: domain.MatchRegex, Value: `^amazon( marketplace)?`}

	suite.True(suite.service.Matches(rule, "Amazon Marketplace Seattle"))
	suite.True(suite.service.Matches(rule, "AMAZON"))
	suite.False(suite.service.Matches(rule, "Whole Foods by Amazon"))
}

func (suite *RuleServiceTestSuite) TestMatches_InvalidRegexIsInert() {
	rule := domain.CategoryRule{RuleID: "bad", MatchType: domain.MatchRegex, Value: `([unclosed`}

	// A malformed pattern never matches and never panics, however often it
	// is evaluated.
	for i := 0; i < 3; i++ {
		suite.False(suite.service.Matches(rule, "anything at all"))
	}
}

func (suite *RuleServiceTestSuite) TestMatchCategory_FirstMatchWins() {
	ctx := context.Background()

	rules := []domain.CategoryRule{
		{RuleID: "r1", Field: domain.RuleFieldMerchantName, MatchType: domain.MatchContains, Value: "star", CategoryID: "cat-coffee", IsEnabled: true},
		{RuleID: "r2", Field: domain.RuleFieldMerchantName, MatchType: domain.MatchExact, Value: "starbucks", CategoryID: "cat-other", IsEnabled: true},
	}
	suite.mockRepo.On("ListEnabledRules", ctx, "user-1", (*domain.RuleField)(nil)).Return(rules, nil).Once()

	match, err := suite.service.MatchCategory(ctx, "user-1", strPtr("Starbucks"), nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.Equal("r1", match.RuleID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestMatchCategory_DescriptionRules() {
	ctx := context.Background()

	rules := []domain.CategoryRule{
		{RuleID: "r1", Field: domain.RuleFieldDescription, MatchType: domain.MatchContains, Value: "payroll", CategoryID: "cat-income", IsEnabled: true},
	}
	suite.mockRepo.On("ListEnabledRules", ctx, "user-1", (*domain.RuleField)(nil)).Return(rules, nil).Once()

	match, err := suite.service.MatchCategory(ctx, "user-1", nil, strPtr("ACME CORP PAYROLL DEP"))

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.Equal("r1", match.RuleID)
}

func (suite *RuleServiceTestSuite) TestMatchCategory_NoMatchIsNilNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListEnabledRules", ctx, "user-1", (*domain.RuleField)(nil)).
		Return([]domain.CategoryRule{}, nil).Once()

	match, err := suite.service.MatchCategory(ctx, "user-1", strPtr("Nowhere"), nil)

	suite.Require().NoError(err)
	suite.Nil(match)
}

func (suite *RuleServiceTestSuite) TestUpsertRule_RejectsInvalidRegex() {
	ctx := context.Background()

	req := dto.UpsertRuleRequest{
		Field:      string(domain.RuleFieldMerchantName),
		MatchType:  string(domain.MatchRegex),
		Value:      `([unclosed`,
		CategoryID: "cat-1",
	}

	rule, updated, err := suite.service.UpsertRule(ctx, "user-1", req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(rule)
	suite.False(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertMerchantRule")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRule")
}

func (suite *RuleServiceTestSuite) TestUpsertRule_MerchantRuleReportsUpdated() {
	ctx := context.Background()

	fromID := "receipt-7"
	fromKind := string(domain.KindReceipt)
	req := dto.UpsertRuleRequest{
		Field:           string(domain.RuleFieldMerchantName),
		MatchType:       string(domain.MatchExact),
		Value:           "STARBUCKS",
		CategoryID:      "cat-coffee",
		CreatedFromID:   &fromID,
		CreatedFromKind: &fromKind,
	}

	stored := &domain.CategoryRule{RuleID: "existing", Value: "STARBUCKS", CategoryID: "cat-coffee"}
	suite.mockRepo.On("UpsertMerchantRule", ctx, mock.MatchedBy(func(r domain.CategoryRule) bool {
		return r.UserID == "user-1" &&
			r.Field == domain.RuleFieldMerchantName &&
			r.Value == "STARBUCKS" &&
			r.IsEnabled &&
			r.Source == domain.RuleSourceUser &&
			r.DisplayName == "STARBUCKS" &&
			r.CreatedFromID != nil && *r.CreatedFromID == "receipt-7" &&
			r.CreatedFromKind != nil && *r.CreatedFromKind == domain.KindReceipt
	})).Return(stored, true, nil).Once()

	rule, updated, err := suite.service.UpsertRule(ctx, "user-1", req)

	suite.Require().NoError(err)
	suite.True(updated)
	suite.Equal("existing", rule.RuleID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestUpsertRule_DescriptionRuleInserts() {
	ctx := context.Background()

	req := dto.UpsertRuleRequest{
		Field:      string(domain.RuleFieldDescription),
		MatchType:  string(domain.MatchContains),
		Value:      "payroll",
		CategoryID: "cat-income",
	}

	suite.mockRepo.On("SaveRule", ctx, mock.MatchedBy(func(r domain.CategoryRule) bool {
		return r.Field == domain.RuleFieldDescription && r.Value == "payroll"
	})).Return(nil).Once()

	rule, updated, err := suite.service.UpsertRule(ctx, "user-1", req)

	suite.Require().NoError(err)
	suite.False(updated)
	suite.NotEmpty(rule.RuleID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestFilterUnruled() {
	rules := []domain.CategoryRule{
		{Field: domain.RuleFieldMerchantName, MatchType: domain.MatchExact, Value: "Starbucks", IsEnabled: true},
		{Field: domain.RuleFieldMerchantName, MatchType: domain.MatchContains, Value: "uber", IsEnabled: false}, // disabled
	}

	entries := []domain.SimilarEntry{
		{Entry: domain.Entry{ID: "a", MerchantName: strPtr("STARBUCKS")}},
		{Entry: domain.Entry{ID: "b", MerchantName: strPtr("Uber Eats")}},
		{Entry: domain.Entry{ID: "c", MerchantName: nil}},
	}

	kept := suite.service.FilterUnruled(rules, domain.RuleFieldMerchantName, entries)

	suite.Require().Len(kept, 2)
	suite.Equal("b", kept[0].Entry.ID) // disabled rule does not filter
	suite.Equal("c", kept[1].Entry.ID)
}

func (suite *RuleServiceTestSuite) TestDeleteRule_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteRule", ctx, "user-1", "missing").
		Return(apperrors.NewNotFoundError("rule not found")).Once()

	err := suite.service.DeleteRule(ctx, "user-1", "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestRuleService(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
