package services

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/SscSPs/household_finance/internal/dto"
)

// GoalSvcFacade reads savings goals and records contributions to them.
type GoalSvcFacade interface {
	GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error)
	AddContribution(ctx context.Context, userID, goalID string, req dto.CreateContributionRequest) (*domain.GoalContribution, error)
}
