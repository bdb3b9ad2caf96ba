package services

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/SscSPs/household_finance/internal/dto"
)

// AccountReaderSvc defines read operations for accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account the user can see.
	GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the user's accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts
type AccountWriterSvc interface {
	// CreateAccount creates a new account owned by the user.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// BalanceReconcilerSvc rebuilds cached account balances from the ledger.
type BalanceReconcilerSvc interface {
	// ReconcileUserBalances recomputes every account the user owns. Per-account
	// failures are reported in the result rather than aborting the run.
	ReconcileUserBalances(ctx context.Context, userID string) (*domain.ReconciliationReport, error)
}
