package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
)

// householdService implements the HouseholdSvcFacade interface
type householdService struct {
	BaseService
	householdRepo portsrepo.HouseholdReader
}

// NewHouseholdService creates a new household service with the provided dependencies
func NewHouseholdService(householdRepo portsrepo.HouseholdReader, options ...ServiceOption) portssvc.HouseholdSvcFacade {
	svc := &householdService{householdRepo: householdRepo}
	svc.apply(options)
	return svc
}

// Ensure householdService implements the HouseholdSvcFacade interface
var _ portssvc.HouseholdSvcFacade = (*householdService)(nil)

// ListUserHouseholds retrieves all households a user belongs to
func (s *householdService) ListUserHouseholds(ctx context.Context, userID string) ([]domain.Household, error) {
	households, err := s.householdRepo.ListHouseholdsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list households for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if households == nil {
		return []domain.Household{}, nil
	}

	s.LogDebug(ctx, "Households listed successfully",
		slog.Int("count", len(households)),
		slog.String("user_id", userID))
	return households, nil
}

// AuthorizeMember checks that the user holds any role in the household.
func (s *householdService) AuthorizeMember(ctx context.Context, userID, householdID string) error {
	membership, err := s.householdRepo.FindMembership(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User is not a member of household",
				slog.String("user_id", userID),
				slog.String("household_id", householdID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to check household membership",
			slog.String("user_id", userID),
			slog.String("household_id", householdID))
		return err
	}

	if membership.Role != domain.HouseholdAdmin && membership.Role != domain.HouseholdMember {
		return apperrors.ErrForbidden
	}
	return nil
}
