package dto

import (
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringIncomeRequest defines a monthly income template.
type CreateRecurringIncomeRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	CategoryID  *string         `json:"categoryID"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	Description string          `json:"description" binding:"required"`
	DayOfMonth  int             `json:"dayOfMonth" binding:"required,min=1,max=28"`
	HouseholdID *string         `json:"householdID"`
	IsShared    bool            `json:"isShared"`
}

// CreateRecurringTransactionRequest defines a monthly income or expense template.
type CreateRecurringTransactionRequest struct {
	AccountID   string                 `json:"accountID" binding:"required"`
	CategoryID  *string                `json:"categoryID"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal        `json:"amount" binding:"required,positive_decimal"`
	Description string                 `json:"description" binding:"required"`
	DayOfMonth  int                    `json:"dayOfMonth" binding:"required,min=1,max=28"`
	EndDate     *time.Time             `json:"endDate"`
	HouseholdID *string                `json:"householdID"`
	IsShared    bool                   `json:"isShared"`
}

// RecurringIncomeResponse is returned after creating a recurring income.
// BackfillTransaction is set when the day of month had already passed.
type RecurringIncomeResponse struct {
	RecurringIncome     domain.RecurringIncome `json:"recurringIncome"`
	BackfillTransaction *domain.Transaction    `json:"backfillTransaction,omitempty"`
}

// RecurringTransactionResponse is returned after creating a recurring transaction.
type RecurringTransactionResponse struct {
	RecurringTransaction domain.RecurringTransaction `json:"recurringTransaction"`
	BackfillTransaction  *domain.Transaction         `json:"backfillTransaction,omitempty"`
}

// RunRecurringResponse is the batch trigger response.
type RunRecurringResponse struct {
	Processed int                `json:"processed"`
	Results   []domain.RunResult `json:"results"`
}

// ToRunRecurringResponse converts a scheduler report.
func ToRunRecurringResponse(report *domain.RunReport) RunRecurringResponse {
	results := report.Results
	if results == nil {
		results = []domain.RunResult{}
	}
	return RunRecurringResponse{Processed: report.Processed, Results: results}
}
