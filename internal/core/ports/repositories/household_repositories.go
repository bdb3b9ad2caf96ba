package repositories

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// HouseholdReader defines read operations for household data
type HouseholdReader interface {
	// ListHouseholdsByUserID retrieves all households a user belongs to.
	ListHouseholdsByUserID(ctx context.Context, userID string) ([]domain.Household, error)

	// FindMembership retrieves the user's membership in a household.
	FindMembership(ctx context.Context, householdID, userID string) (*domain.HouseholdMembership, error)
}
