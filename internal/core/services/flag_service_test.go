package services_test

import (
	"context"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FlagServiceTestSuite struct {
	suite.Suite
	mockRepo *MockEntryRepository
	service  *services.FlagService
}

func (suite *FlagServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEntryRepository)
	suite.service = services.NewFlagService(suite.mockRepo)
}

func (suite *FlagServiceTestSuite) TestUpdateFlags_AppliesMutationToLoadedBag() {
	ctx := context.Background()

	existing := &domain.TransactionFlags{IsBnplPurchase: true, BnplProvider: "Klarna"}

	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindReceipt, "receipt-1").
		Return(existing, nil).Once()
	suite.mockRepo.On("UpdateFlags", ctx, "user-1", domain.KindReceipt, "receipt-1",
		mock.MatchedBy(func(f domain.TransactionFlags) bool {
			// Untouched concerns ride along with the mutation.
			return f.IsBnplPurchase && f.BnplProvider == "Klarna" &&
				f.IsExcludedFromTotals && f.ExclusionReason == domain.ExclusionManual
		})).Return(true, nil).Once()

	updated, err := suite.service.UpdateFlags(ctx, "user-1", domain.KindReceipt, "receipt-1", func(f *domain.TransactionFlags) {
		f.MarkManualExclusion()
	})

	suite.Require().NoError(err)
	suite.True(updated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FlagServiceTestSuite) TestUpdateFlags_UnknownEntryIsSilentNoOp() {
	ctx := context.Background()

	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindBankTransaction, "txn-unknown").
		Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateFlags(ctx, "user-1", domain.KindBankTransaction, "txn-unknown", func(f *domain.TransactionFlags) {
		f.MarkManualExclusion()
	})

	suite.Require().NoError(err)
	suite.False(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateFlags")
}

func (suite *FlagServiceTestSuite) TestUpdateFlags_ZeroRowWriteIsNoOp() {
	ctx := context.Background()

	// The row disappeared (or changed owner) between the read and the write.
	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindBankTransaction, "txn-1").
		Return(&domain.TransactionFlags{}, nil).Once()
	suite.mockRepo.On("UpdateFlags", ctx, "user-1", domain.KindBankTransaction, "txn-1", mock.Anything).
		Return(false, nil).Once()

	updated, err := suite.service.UpdateFlags(ctx, "user-1", domain.KindBankTransaction, "txn-1", func(f *domain.TransactionFlags) {
		f.MarkManualExclusion()
	})

	suite.Require().NoError(err)
	suite.False(updated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FlagServiceTestSuite) TestUpdateFlags_LoadError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindReceipt, "receipt-1").
		Return(nil, expectedErr).Once()

	updated, err := suite.service.UpdateFlags(ctx, "user-1", domain.KindReceipt, "receipt-1", func(f *domain.TransactionFlags) {})

	suite.Require().Error(err)
	suite.False(updated)
	suite.ErrorIs(err, expectedErr)
}

func (suite *FlagServiceTestSuite) TestClearManualExclusion_LeavesForeignExclusionIntact() {
	ctx := context.Background()

	existing := &domain.TransactionFlags{
		IsDuplicate:          true,
		IsExcludedFromTotals: true,
		ExclusionReason:      domain.ExclusionDuplicate,
	}

	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindReceipt, "receipt-1").
		Return(existing, nil).Once()
	suite.mockRepo.On("UpdateFlags", ctx, "user-1", domain.KindReceipt, "receipt-1",
		mock.MatchedBy(func(f domain.TransactionFlags) bool {
			// The duplicate-owned exclusion must survive a manual clear.
			return f.IsExcludedFromTotals && f.ExclusionReason == domain.ExclusionDuplicate
		})).Return(true, nil).Once()

	err := suite.service.ClearManualExclusion(ctx, "user-1", domain.KindReceipt, "receipt-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FlagServiceTestSuite) TestSetManualExclusion() {
	ctx := context.Background()

	suite.mockRepo.On("GetFlags", ctx, "user-1", domain.KindBankTransaction, "txn-1").
		Return(&domain.TransactionFlags{}, nil).Once()
	suite.mockRepo.On("UpdateFlags", ctx, "user-1", domain.KindBankTransaction, "txn-1",
		mock.MatchedBy(func(f domain.TransactionFlags) bool {
			return f.IsExcludedFromTotals && f.ExclusionReason == domain.ExclusionManual
		})).Return(true, nil).Once()

	err := suite.service.SetManualExclusion(ctx, "user-1", domain.KindBankTransaction, "txn-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestFlagService(t *testing.T) {
	suite.Run(t, new(FlagServiceTestSuite))
}
