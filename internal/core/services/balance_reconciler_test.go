package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BalanceReconcilerTestSuite struct {
	suite.Suite
	store      *fakeStore
	publisher  *recordingPublisher
	reconciler portssvc.BalanceReconcilerSvc
	day        time.Time
}

func (suite *BalanceReconcilerTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.publisher = &recordingPublisher{}
	suite.reconciler = services.NewBalanceReconciler(suite.store, services.WithEventPublisher(suite.publisher))
	suite.day = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *BalanceReconcilerTestSuite) ledgerEntry(id, accountID string, typ domain.TransactionType, amount int64, offset int, to *string) {
	suite.store.addTransaction(domain.Transaction{
		TransactionID:       id,
		UserID:              "user-1",
		AccountID:           accountID,
		Type:                typ,
		Amount:              dec(amount),
		Date:                suite.day.AddDate(0, 0, offset),
		TransferToAccountID: to,
	})
}

func (suite *BalanceReconcilerTestSuite) TestReconcile_RebuildsDriftedBalance() {
	suite.store.addAccount("acc-main", "user-1", "Main", 999)
	suite.store.addAccount("acc-savings", "user-1", "Savings", 0)
	suite.ledgerEntry("t1", "acc-main", domain.Income, 100, 0, nil)
	suite.ledgerEntry("t2", "acc-main", domain.Expense, 40, 1, nil)
	suite.ledgerEntry("t3", "acc-main", domain.Transfer, 20, 2, strPtr("acc-savings"))

	report, err := suite.reconciler.ReconcileUserBalances(context.Background(), "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(report.Results, 2)
	suite.Empty(report.Failures)

	byID := map[string]domain.BalanceReconciliation{}
	for _, r := range report.Results {
		byID[r.AccountID] = r
	}
	main := byID["acc-main"]
	suite.Equal("Main", main.AccountName)
	suite.True(main.OldBalance.Equal(dec(999)))
	suite.True(main.NewBalance.Equal(dec(40)), "got %s", main.NewBalance)
	suite.True(main.Difference.Equal(dec(-959)))

	suite.True(byID["acc-savings"].NewBalance.Equal(dec(20)), "transfer must credit the destination")
	suite.True(suite.store.balance("acc-main").Equal(dec(40)))
	suite.True(suite.store.balance("acc-savings").Equal(dec(20)))
	suite.Len(suite.publisher.ofType(domain.EventBalanceReconciled), 2)
}

func (suite *BalanceReconcilerTestSuite) TestReconcile_IsIdempotent() {
	suite.store.addAccount("acc-main", "user-1", "Main", 7)
	suite.ledgerEntry("t1", "acc-main", domain.Income, 100, 0, nil)
	suite.ledgerEntry("t2", "acc-main", domain.Expense, 30, 1, nil)

	_, err := suite.reconciler.ReconcileUserBalances(context.Background(), "user-1")
	suite.Require().NoError(err)

	second, err := suite.reconciler.ReconcileUserBalances(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.Require().Len(second.Results, 1)
	suite.True(second.Results[0].Difference.IsZero())
	suite.True(second.Results[0].NewBalance.Equal(dec(70)))
	suite.Len(suite.publisher.ofType(domain.EventBalanceReconciled), 1, "an unchanged balance publishes nothing")
}

func (suite *BalanceReconcilerTestSuite) TestReconcile_IsolatesAccountFailures() {
	suite.store.addAccount("acc-a", "user-1", "A", 0)
	suite.store.addAccount("acc-b", "user-1", "B", 0)
	suite.store.addAccount("acc-other", "user-2", "Other", 0)
	suite.ledgerEntry("t1", "acc-b", domain.Income, 50, 0, nil)
	suite.store.failures["acc-a"] = errors.New("lock timeout")

	report, err := suite.reconciler.ReconcileUserBalances(context.Background(), "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(report.Failures, 1)
	suite.Equal("acc-a", report.Failures[0].AccountID)
	suite.Contains(report.Failures[0].Error, "lock timeout")
	suite.Require().Len(report.Results, 1)
	suite.Equal("acc-b", report.Results[0].AccountID)
	suite.True(suite.store.balance("acc-b").Equal(dec(50)))
}

func (suite *BalanceReconcilerTestSuite) TestReconcile_NoAccounts() {
	report, err := suite.reconciler.ReconcileUserBalances(context.Background(), "nobody")
	suite.Require().NoError(err)
	suite.Empty(report.Results)
	suite.Empty(report.Failures)
}

func TestBalanceReconcilerTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceReconcilerTestSuite))
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ReconcileAccountBalance(ctx context.Context, accountID string, recompute portsrepo.BalanceFunc) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, recompute)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func TestReconcile_ListError(t *testing.T) {
	repo := new(MockAccountRepository)
	ctx := context.Background()
	repo.On("ListAccountsByUserID", ctx, "user-1").Return(nil, errors.New("db down")).Once()

	report, err := services.NewBalanceReconciler(repo).ReconcileUserBalances(ctx, "user-1")

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "db down")
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "ReconcileAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_PassesAccountScopedReplay(t *testing.T) {
	repo := new(MockAccountRepository)
	ctx := context.Background()
	repo.On("ListAccountsByUserID", ctx, "user-1").
		Return([]domain.Account{{AccountID: "acc-1", Name: "Wallet"}}, nil).Once()
	repo.On("ReconcileAccountBalance", ctx, "acc-1", mock.Anything).
		Run(func(args mock.Arguments) {
			recompute := args.Get(2).(portsrepo.BalanceFunc)
			// A transfer out of another account is not this account's outflow.
			got := recompute([]domain.Transaction{
				{AccountID: "acc-1", Type: domain.Income, Amount: dec(10)},
			}, []domain.Transaction{
				{AccountID: "acc-2", Type: domain.Transfer, Amount: dec(5), TransferToAccountID: strPtr("acc-1")},
			})
			assert.True(t, got.Equal(dec(15)), "got %s", got)
		}).
		Return(dec(3), dec(15), nil).Once()

	report, err := services.NewBalanceReconciler(repo).ReconcileUserBalances(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Difference.Equal(dec(12)))
	repo.AssertExpectations(t)
}
