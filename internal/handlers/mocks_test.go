package handlers_test

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceReconciler ---
type MockBalanceReconciler struct {
	mock.Mock
}

func (m *MockBalanceReconciler) ReconcileUserBalances(ctx context.Context, userID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

var _ portssvc.BalanceReconcilerSvc = (*MockBalanceReconciler)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock RecurringIncomeService ---
type MockRecurringIncomeService struct {
	mock.Mock
}

func (m *MockRecurringIncomeService) CreateRecurringIncome(ctx context.Context, userID string, req dto.CreateRecurringIncomeRequest) (*domain.RecurringIncome, *domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	var ri *domain.RecurringIncome
	if v := args.Get(0); v != nil {
		ri = v.(*domain.RecurringIncome)
	}
	var txn *domain.Transaction
	if v := args.Get(1); v != nil {
		txn = v.(*domain.Transaction)
	}
	return ri, txn, args.Error(2)
}

func (m *MockRecurringIncomeService) ListRecurringIncomes(ctx context.Context, userID string) ([]domain.RecurringIncome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringIncome), args.Error(1)
}

func (m *MockRecurringIncomeService) DeactivateRecurringIncome(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockRecurringIncomeService) ProcessDueRecurringIncomes(ctx context.Context) (*domain.RunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

var _ portssvc.RecurringIncomeSvcFacade = (*MockRecurringIncomeService)(nil)

// --- Mock RecurringTransactionService ---
type MockRecurringTransactionService struct {
	mock.Mock
}

func (m *MockRecurringTransactionService) CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, *domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	var rt *domain.RecurringTransaction
	if v := args.Get(0); v != nil {
		rt = v.(*domain.RecurringTransaction)
	}
	var txn *domain.Transaction
	if v := args.Get(1); v != nil {
		txn = v.(*domain.Transaction)
	}
	return rt, txn, args.Error(2)
}

func (m *MockRecurringTransactionService) ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringTransactionService) DeactivateRecurringTransaction(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockRecurringTransactionService) ProcessDueRecurringTransactions(ctx context.Context) (*domain.RunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

var _ portssvc.RecurringTransactionSvcFacade = (*MockRecurringTransactionService)(nil)

// --- Mock GoalService ---
type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) AddContribution(ctx context.Context, userID, goalID string, req dto.CreateContributionRequest) (*domain.GoalContribution, error) {
	args := m.Called(ctx, userID, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalContribution), args.Error(1)
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)

// --- Mock HouseholdService ---
type MockHouseholdService struct {
	mock.Mock
}

func (m *MockHouseholdService) ListUserHouseholds(ctx context.Context, userID string) ([]domain.Household, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Household), args.Error(1)
}

func (m *MockHouseholdService) AuthorizeMember(ctx context.Context, userID, householdID string) error {
	return m.Called(ctx, userID, householdID).Error(0)
}

var _ portssvc.HouseholdSvcFacade = (*MockHouseholdService)(nil)
