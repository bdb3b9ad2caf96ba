package dto

import (
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a manual ledger posting.
type CreateTransactionRequest struct {
	AccountID           string                 `json:"accountID" binding:"required"`
	CategoryID          *string                `json:"categoryID"`
	Type                domain.TransactionType `json:"type" binding:"required,oneof=income expense transfer"`
	Amount              decimal.Decimal        `json:"amount" binding:"required,positive_decimal"`
	Description         string                 `json:"description" binding:"required"`
	Date                *time.Time             `json:"date"` // Defaults to now
	Notes               string                 `json:"notes"`
	TransferToAccountID *string                `json:"transferToAccountID"`
	CardTransactionID   *string                `json:"cardTransactionID"` // Expense paying off a card charge
	HouseholdID         *string                `json:"householdID"`
	IsShared            bool                   `json:"isShared"`
}
