package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardTransactionStatus tracks a card charge through its billing cycle.
type CardTransactionStatus string

const (
	CardPending CardTransactionStatus = "pending"
	CardBilled  CardTransactionStatus = "billed"
	CardPaid    CardTransactionStatus = "paid"
)

// CreditCard is a card whose charges are settled later against an account.
type CreditCard struct {
	CardID   string `json:"cardID"`
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// CreditCardTransaction is a charge on a card, outside the account ledger.
type CreditCardTransaction struct {
	CardTransactionID string                `json:"cardTransactionID"`
	CardID            string                `json:"cardID"`
	UserID            string                `json:"userID"`
	GoalID            *string               `json:"goalID,omitempty"`
	Amount            decimal.Decimal       `json:"amount"`
	Description       string                `json:"description"`
	Date              time.Time             `json:"date"`
	Status            CardTransactionStatus `json:"status"`
	CreatedAt         time.Time             `json:"createdAt"`
}

// Settled reports whether the charge has been billed or paid and is therefore immutable.
func (c CreditCardTransaction) Settled() bool {
	return c.Status == CardBilled || c.Status == CardPaid
}
