package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger entry.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// Transaction is a single ledger entry. Amount is always positive; the sign is
// derived from Type and, for transfers, from which side an account occupies.
type Transaction struct {
	TransactionID          string          `json:"transactionID"`
	UserID                 string          `json:"userID"`
	AccountID              string          `json:"accountID"`
	CategoryID             *string         `json:"categoryID,omitempty"`
	Type                   TransactionType `json:"type"`
	Amount                 decimal.Decimal `json:"amount"`
	Description            string          `json:"description"`
	Date                   time.Time       `json:"date"`
	Notes                  string          `json:"notes,omitempty"`
	RecurringIncomeID      *string         `json:"recurringIncomeID,omitempty"`
	RecurringTransactionID *string         `json:"recurringTransactionID,omitempty"`
	RecurringPeriod        *string         `json:"recurringPeriod,omitempty"` // YYYY-MM, set for recurring-transaction postings
	TransferToAccountID    *string         `json:"transferToAccountID,omitempty"`
	GoalID                 *string         `json:"goalID,omitempty"`
	CardTransactionID      *string         `json:"cardTransactionID,omitempty"`
	HouseholdID            *string         `json:"householdID,omitempty"`
	IsShared               bool            `json:"isShared"`
	AuditFields
}

// Validate checks the structural invariants of a ledger entry.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	switch t.Type {
	case Income, Expense:
		if t.TransferToAccountID != nil {
			return fmt.Errorf("%s transaction cannot have a transfer destination", t.Type)
		}
	case Transfer:
		if t.TransferToAccountID == nil || *t.TransferToAccountID == "" {
			return fmt.Errorf("transfer requires a destination account")
		}
		if *t.TransferToAccountID == t.AccountID {
			return fmt.Errorf("transfer source and destination must differ")
		}
	default:
		return fmt.Errorf("unknown transaction type '%s'", t.Type)
	}
	return nil
}

// Posting is a ledger entry together with the balance changes it causes.
// Repositories persist both in one unit of work.
type Posting struct {
	Transaction    Transaction
	BalanceChanges map[string]decimal.Decimal
}
