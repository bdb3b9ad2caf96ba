package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringIncome is the legacy monthly income template.
type RecurringIncome struct {
	RecurringIncomeID string          `json:"recurringIncomeID"`
	UserID            string          `json:"userID"`
	AccountID         string          `json:"accountID"`
	CategoryID        *string         `json:"categoryID,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	DayOfMonth        int             `json:"dayOfMonth"`
	IsActive          bool            `json:"isActive"`
	LastRunDate       *time.Time      `json:"lastRunDate,omitempty"`
	NextRunDate       time.Time       `json:"nextRunDate"`
	HouseholdID       *string         `json:"householdID,omitempty"`
	IsShared          bool            `json:"isShared"`
	AuditFields
}

// RecurringTransaction is a monthly income or expense template with optional expiry.
type RecurringTransaction struct {
	RecurringTransactionID string          `json:"recurringTransactionID"`
	UserID                 string          `json:"userID"`
	AccountID              string          `json:"accountID"`
	CategoryID             *string         `json:"categoryID,omitempty"`
	Type                   TransactionType `json:"type"` // income or expense
	Amount                 decimal.Decimal `json:"amount"`
	Description            string          `json:"description"`
	DayOfMonth             int             `json:"dayOfMonth"`
	IsActive               bool            `json:"isActive"`
	LastRunDate            *time.Time      `json:"lastRunDate,omitempty"`
	NextRunDate            time.Time       `json:"nextRunDate"`
	EndDate                *time.Time      `json:"endDate,omitempty"`
	HouseholdID            *string         `json:"householdID,omitempty"`
	IsShared               bool            `json:"isShared"`
	AuditFields
}

// IsDue reports whether the definition should be processed at now.
func (r RecurringIncome) IsDue(now time.Time) bool {
	return r.IsActive && !r.NextRunDate.After(now)
}

// IsDue reports whether the definition should be processed at now.
func (r RecurringTransaction) IsDue(now time.Time) bool {
	return r.IsActive && !r.NextRunDate.After(now)
}

// ExpiredAt reports whether the definition's end date lies before t.
func (r RecurringTransaction) ExpiredAt(t time.Time) bool {
	return r.EndDate != nil && r.EndDate.Before(t)
}

// ScheduleUpdate moves a recurring definition's pointers forward.
// ExpectedNextRunDate guards against a concurrent run having advanced the
// definition first.
type ScheduleUpdate struct {
	DefinitionID        string
	ExpectedNextRunDate time.Time
	LastRunDate         *time.Time
	NextRunDate         time.Time
	IsActive            bool
	UpdatedBy           string
	UpdatedAt           time.Time
}

// RunStatus is the per-item outcome of a scheduler invocation.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// RunAction describes what a successful item did.
type RunAction string

const (
	ActionPosted      RunAction = "posted"
	ActionSkipped     RunAction = "skipped"
	ActionDeactivated RunAction = "deactivated"
)

// RunResult is reported for every due definition a scheduler touched.
type RunResult struct {
	ID            string    `json:"id"`
	Status        RunStatus `json:"status"`
	Action        RunAction `json:"action,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// RunReport is the outcome of one scheduler invocation.
type RunReport struct {
	Processed int         `json:"processed"`
	Results   []RunResult `json:"results"`
}
