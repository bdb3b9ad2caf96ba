package services

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// HouseholdReaderSvc defines read operations for households
type HouseholdReaderSvc interface {
	ListUserHouseholds(ctx context.Context, userID string) ([]domain.Household, error)
}

// HouseholdAuthorizerSvc defines authorization operations for households
type HouseholdAuthorizerSvc interface {
	// AuthorizeMember returns apperrors.ErrForbidden unless the user belongs to the household.
	AuthorizeMember(ctx context.Context, userID, householdID string) error
}

// HouseholdSvcFacade combines all household-related service interfaces
type HouseholdSvcFacade interface {
	HouseholdReaderSvc
	HouseholdAuthorizerSvc
}
