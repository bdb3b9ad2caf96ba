package repositories

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUserID retrieves every account owned by the user, ordered by name.
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// BalanceFunc recomputes a balance from the ledger rows of one account:
// entries reference the account as AccountID, incoming are transfers into it
// from other accounts.
type BalanceFunc func(entries []domain.Transaction, incoming []domain.Transaction) decimal.Decimal

// AccountBalanceReconciler rebuilds cached balances from ledger history.
type AccountBalanceReconciler interface {
	// ReconcileAccountBalance locks the account, loads its ledger history ordered by
	// date, stores recompute's result as the new balance and returns old and new values.
	ReconcileAccountBalance(ctx context.Context, accountID string, recompute BalanceFunc) (decimal.Decimal, decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceReconciler
}
