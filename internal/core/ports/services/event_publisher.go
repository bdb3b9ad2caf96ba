package services

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// EventPublisher hands ledger events to the notification side. Publish must
// not block the caller and never fails the operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent)
}
