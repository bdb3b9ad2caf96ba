package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// TransactionReader defines read operations on the ledger.
type TransactionReader interface {
	// FindTransactionByID retrieves a ledger entry by ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ExistsForRecurringTransaction reports whether any entry generated by the
	// recurring definition is dated within [from, to).
	ExistsForRecurringTransaction(ctx context.Context, recurringTransactionID string, from, to time.Time) (bool, error)
}

// TransactionWriter defines write operations on the ledger.
type TransactionWriter interface {
	// PostTransaction inserts the entry and applies its balance changes in one unit of work.
	// When the entry references a card charge, that charge is marked paid; a charge that
	// is already paid fails with apperrors.ErrConflict.
	PostTransaction(ctx context.Context, posting domain.Posting) error

	// DeleteTransaction removes the entry and applies the (reversing) balance changes
	// in one unit of work.
	DeleteTransaction(ctx context.Context, posting domain.Posting) error
}

// TransactionRepositoryFacade combines all ledger repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
