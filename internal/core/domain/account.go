package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a money-holding account within the core domain.
// Balance is a cached value derived from the ledger; it is mutated by every
// posting and repaired by reconciliation.
type Account struct {
	AccountID    string          `json:"accountID"`             // Primary Key (UUID)
	UserID       string          `json:"userID"`                // Owning user
	HouseholdID  *string         `json:"householdID,omitempty"` // Set when the account is shared with a household
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// BalanceReconciliation is the outcome of recomputing one account balance from the ledger.
type BalanceReconciliation struct {
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	OldBalance  decimal.Decimal `json:"oldBalance"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	Difference  decimal.Decimal `json:"difference"`
}

// ReconciliationFailure records an account that could not be reconciled.
type ReconciliationFailure struct {
	AccountID string `json:"accountId"`
	Error     string `json:"error"`
}

// ReconciliationReport collects the per-account results of one reconciliation run.
type ReconciliationReport struct {
	Results  []BalanceReconciliation `json:"results"`
	Failures []ReconciliationFailure `json:"failures"`
}
