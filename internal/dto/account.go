package dto

import (
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string  `json:"name" binding:"required"`
	CurrencyCode string  `json:"currencyCode" binding:"required,len=3"`
	HouseholdID  *string `json:"householdID"` // Optional, shares the account with a household
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	CurrencyCode  string          `json:"currencyCode"`
	HouseholdID   *string         `json:"householdID,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		CurrencyCode:  acc.CurrencyCode,
		HouseholdID:   acc.HouseholdID,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ReconcileBalancesResponse is returned by the balance reconciliation endpoint.
// Success is false when at least one account could not be reconciled.
type ReconcileBalancesResponse struct {
	Success  bool                           `json:"success"`
	Results  []domain.BalanceReconciliation `json:"results"`
	Failures []domain.ReconciliationFailure `json:"failures,omitempty"`
}

// ToReconcileBalancesResponse converts a reconciliation report.
func ToReconcileBalancesResponse(report *domain.ReconciliationReport) ReconcileBalancesResponse {
	results := report.Results
	if results == nil {
		results = []domain.BalanceReconciliation{}
	}
	return ReconcileBalancesResponse{
		Success:  len(report.Failures) == 0,
		Results:  results,
		Failures: report.Failures,
	}
}
