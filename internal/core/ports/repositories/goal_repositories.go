package repositories

import (
	"context"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// GoalRepository persists savings goals and their contributions.
type GoalRepository interface {
	// FindGoalByID retrieves a goal by ID.
	FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error)

	// ListGoalsVisibleToUser lists goals the user owns or shares through a household.
	ListGoalsVisibleToUser(ctx context.Context, userID string) ([]domain.SavingsGoal, error)

	// SaveContribution persists the contribution, increments the goal's current amount
	// and writes the optional side-ledger record in one unit of work.
	SaveContribution(ctx context.Context, posting domain.ContributionPosting) error
}

// CreditCardRepository reads credit cards and their charges.
type CreditCardRepository interface {
	// FindCardByID retrieves a card by ID.
	FindCardByID(ctx context.Context, cardID string) (*domain.CreditCard, error)

	// FindCardTransactionByID retrieves a card charge by ID.
	FindCardTransactionByID(ctx context.Context, cardTransactionID string) (*domain.CreditCardTransaction, error)
}
