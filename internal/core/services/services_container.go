package services

import (
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// options are applied to every service after the household authorizer.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize household service first since other services depend on it
	container.Household = NewHouseholdService(repos.HouseholdRepo, options...)

	shared := append([]ServiceOption{WithHouseholdAuthorizer(container.Household)}, options...)

	container.Account = NewAccountService(repos.AccountRepo, shared...)
	container.BalanceReconciler = NewBalanceReconciler(repos.AccountRepo, shared...)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.TransactionRepo, repos.CreditCardRepo, shared...)
	container.RecurringIncome = NewRecurringIncomeService(repos.AccountRepo, repos.RecurringIncomeRepo, shared...)
	container.RecurringTransaction = NewRecurringTransactionService(repos.AccountRepo, repos.TransactionRepo, repos.RecurringTransactionRepo, shared...)
	container.Goal = NewGoalService(repos.GoalRepo, repos.AccountRepo, repos.CreditCardRepo, shared...)

	return container
}
