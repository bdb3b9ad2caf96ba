package dto

import (
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContributionRequest defines a savings goal contribution.
type CreateContributionRequest struct {
	Amount        decimal.Decimal      `json:"amount" binding:"required,positive_decimal"`
	Date          *time.Time           `json:"date"` // Defaults to now
	Note          string               `json:"note"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=account creditCard cash"`
	SourceID      *string              `json:"sourceId"` // Account or card ID, depending on PaymentMethod
}
