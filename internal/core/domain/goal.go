package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects which side ledger, if any, a goal contribution is posted to.
type PaymentMethod string

const (
	PayFromAccount    PaymentMethod = "account"
	PayWithCreditCard PaymentMethod = "creditCard"
	PayInCash         PaymentMethod = "cash"
)

// SavingsGoal holds a target and the amount saved so far.
type SavingsGoal struct {
	GoalID        string          `json:"goalID"`
	UserID        string          `json:"userID"`
	HouseholdID   *string         `json:"householdID,omitempty"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	AuditFields
}

// GoalContribution increments a goal's current amount.
type GoalContribution struct {
	ContributionID    string          `json:"contributionID"`
	GoalID            string          `json:"goalID"`
	UserID            string          `json:"userID"`
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	Note              string          `json:"note,omitempty"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	SourceID          *string         `json:"sourceID,omitempty"`
	TransactionID     *string         `json:"transactionID,omitempty"`
	CardTransactionID *string         `json:"cardTransactionID,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ContributionPosting bundles everything a contribution writes.
// At most one of LedgerPosting and CardTransaction is set.
type ContributionPosting struct {
	Contribution    GoalContribution
	LedgerPosting   *Posting
	CardTransaction *CreditCardTransaction
}
