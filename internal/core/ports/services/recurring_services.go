package services

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/SscSPs/household_finance/internal/dto"
)

// RecurringIncomeSvcFacade manages recurring income definitions and runs their scheduler.
type RecurringIncomeSvcFacade interface {
	// CreateRecurringIncome persists the definition and returns the backfill
	// transaction when the day of month has already passed.
	CreateRecurringIncome(ctx context.Context, userID string, req dto.CreateRecurringIncomeRequest) (*domain.RecurringIncome, *domain.Transaction, error)
	ListRecurringIncomes(ctx context.Context, userID string) ([]domain.RecurringIncome, error)
	DeactivateRecurringIncome(ctx context.Context, userID, id string) error

	// ProcessDueRecurringIncomes posts every due definition. Item failures are
	// reported in the result; only a failure to select due items is returned.
	ProcessDueRecurringIncomes(ctx context.Context) (*domain.RunReport, error)
}

// RecurringTransactionSvcFacade manages recurring income/expense definitions and runs their scheduler.
type RecurringTransactionSvcFacade interface {
	CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, *domain.Transaction, error)
	ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error)
	DeactivateRecurringTransaction(ctx context.Context, userID, id string) error

	// ProcessDueRecurringTransactions posts, skips or deactivates every due definition.
	ProcessDueRecurringTransactions(ctx context.Context) (*domain.RunReport, error)
}
