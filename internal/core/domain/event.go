package domain

import "time"

// LedgerEventType names a change clients may want to refresh on.
type LedgerEventType string

const (
	EventTransactionPosted    LedgerEventType = "transaction.posted"
	EventTransactionDeleted   LedgerEventType = "transaction.deleted"
	EventRecurringDeactivated LedgerEventType = "recurring.deactivated"
	EventBalanceReconciled    LedgerEventType = "account.reconciled"
	EventGoalContribution     LedgerEventType = "goal.contribution"
)

// LedgerEvent is published after a successful mutation. Delivery is best effort.
type LedgerEvent struct {
	Type        LedgerEventType `json:"type"`
	UserID      string          `json:"userId"`
	HouseholdID *string         `json:"householdId,omitempty"`
	EntityID    string          `json:"entityId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        map[string]any  `json:"data,omitempty"`
}
