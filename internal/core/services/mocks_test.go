package services_test

import (
	"context"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.Entry, error) {
	args := m.Called(ctx, userID, kind, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindDuplicateCandidates(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, amount decimal.Decimal, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error) {
	args := m.Called(ctx, userID, kind, merchantName, amount, from, to, threshold, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SimilarEntry), args.Error(1)
}

func (m *MockEntryRepository) FindOppositeAmountCandidates(ctx context.Context, userID string, amount decimal.Decimal, date time.Time, from, to time.Time, tolerance decimal.Decimal, excludeID string, limit int) ([]domain.Entry, error) {
	args := m.Called(ctx, userID, amount, date, from, to, tolerance, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindSimilarEntries(ctx context.Context, userID string, kind domain.EntryKind, merchantName string, from, to time.Time, threshold float64, excludeID string, limit int) ([]domain.SimilarEntry, error) {
	args := m.Called(ctx, userID, kind, merchantName, from, to, threshold, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SimilarEntry), args.Error(1)
}

func (m *MockEntryRepository) ListTransferScanCandidates(ctx context.Context, userID string) ([]domain.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string) (*domain.TransactionFlags, error) {
	args := m.Called(ctx, userID, kind, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionFlags), args.Error(1)
}

func (m *MockEntryRepository) UpdateFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string, flags domain.TransactionFlags) (bool, error) {
	args := m.Called(ctx, userID, kind, entryID, flags)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) UpdateCategory(ctx context.Context, userID string, kind domain.EntryKind, entryID string, categoryID string, businessID *string) (bool, error) {
	args := m.Called(ctx, userID, kind, entryID, categoryID, businessID)
	return args.Bool(0), args.Error(1)
}

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, userID string, ruleID string) (*domain.CategoryRule, error) {
	args := m.Called(ctx, userID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryRule), args.Error(1)
}

func (m *MockRuleRepository) ListEnabledRules(ctx context.Context, userID string, field *domain.RuleField) ([]domain.CategoryRule, error) {
	args := m.Called(ctx, userID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, userID string) ([]domain.CategoryRule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryRule), args.Error(1)
}

func (m *MockRuleRepository) UpsertMerchantRule(ctx context.Context, rule domain.CategoryRule) (*domain.CategoryRule, bool, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CategoryRule), args.Bool(1), args.Error(2)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.CategoryRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	args := m.Called(ctx, userID, ruleID)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
