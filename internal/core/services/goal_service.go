package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/utils/accounting"
	"github.com/google/uuid"
)

type goalService struct {
	BaseService
	goalRepo    portsrepo.GoalRepository
	accountRepo portsrepo.AccountReader
	cardRepo    portsrepo.CreditCardRepository
}

// NewGoalService creates the savings goal service.
func NewGoalService(
	goalRepo portsrepo.GoalRepository,
	accountRepo portsrepo.AccountReader,
	cardRepo portsrepo.CreditCardRepository,
	options ...ServiceOption,
) portssvc.GoalSvcFacade {
	svc := &goalService{
		goalRepo:    goalRepo,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal", slog.String("goal_id", goalID))
		}
		return nil, err
	}
	if err := s.AuthorizeAccess(ctx, userID, goal.UserID, goal.HouseholdID); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	goals, err := s.goalRepo.ListGoalsVisibleToUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("user_id", userID))
		return nil, err
	}
	if goals == nil {
		return []domain.SavingsGoal{}, nil
	}
	return goals, nil
}

// AddContribution records a contribution and, depending on the payment
// method, the matching expense or card charge. Everything is validated
// before the single write.
func (s *goalService) AddContribution(ctx context.Context, userID, goalID string, req dto.CreateContributionRequest) (*domain.GoalContribution, error) {
	if !req.Amount.IsPositive() {
		return nil, validationError(errors.New("amount must be positive"))
	}

	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	contribution := domain.GoalContribution{
		ContributionID: uuid.NewString(),
		GoalID:         goal.GoalID,
		UserID:         userID,
		Amount:         req.Amount,
		Date:           date,
		Note:           req.Note,
		PaymentMethod:  req.PaymentMethod,
		CreatedAt:      now,
	}
	posting := domain.ContributionPosting{}
	description := fmt.Sprintf("Contribution to %s", goal.Name)

	switch req.PaymentMethod {
	case domain.PayFromAccount:
		if req.SourceID == nil || *req.SourceID == "" {
			return nil, validationError(errors.New("sourceId is required when paying from an account"))
		}
		account, err := s.accountRepo.FindAccountByID(ctx, *req.SourceID)
		if err != nil {
			return nil, fmt.Errorf("source account %s: %w", *req.SourceID, err)
		}
		if err := s.AuthorizeAccess(ctx, userID, account.UserID, account.HouseholdID); err != nil {
			return nil, err
		}
		if !account.IsActive {
			return nil, validationError(fmt.Errorf("account %s is inactive", account.AccountID))
		}

		goalRef := goal.GoalID
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			UserID:        userID,
			AccountID:     account.AccountID,
			Type:          domain.Expense,
			Amount:        req.Amount,
			Description:   description,
			Date:          date,
			Notes:         req.Note,
			GoalID:        &goalRef,
			HouseholdID:   goal.HouseholdID,
			IsShared:      goal.HouseholdID != nil,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		changes, err := accounting.BalanceChanges(txn)
		if err != nil {
			return nil, validationError(err)
		}
		posting.LedgerPosting = &domain.Posting{Transaction: txn, BalanceChanges: changes}
		contribution.SourceID = req.SourceID
		contribution.TransactionID = &txn.TransactionID

	case domain.PayWithCreditCard:
		if req.SourceID == nil || *req.SourceID == "" {
			return nil, validationError(errors.New("sourceId is required when paying with a credit card"))
		}
		card, err := s.cardRepo.FindCardByID(ctx, *req.SourceID)
		if err != nil {
			return nil, fmt.Errorf("credit card %s: %w", *req.SourceID, err)
		}
		if card.UserID != userID {
			return nil, apperrors.ErrForbidden
		}
		if !card.IsActive {
			return nil, validationError(fmt.Errorf("credit card %s is inactive", card.CardID))
		}

		goalRef := goal.GoalID
		posting.CardTransaction = &domain.CreditCardTransaction{
			CardTransactionID: uuid.NewString(),
			CardID:            card.CardID,
			UserID:            userID,
			GoalID:            &goalRef,
			Amount:            req.Amount,
			Description:       description,
			Date:              date,
			Status:            domain.CardPending,
			CreatedAt:         now,
		}
		contribution.SourceID = req.SourceID
		contribution.CardTransactionID = &posting.CardTransaction.CardTransactionID

	case domain.PayInCash:
		// Only the goal moves.

	default:
		return nil, validationError(fmt.Errorf("unknown payment method '%s'", req.PaymentMethod))
	}

	posting.Contribution = contribution
	if err := s.goalRepo.SaveContribution(ctx, posting); err != nil {
		s.LogError(ctx, err, "Failed to save goal contribution",
			slog.String("goal_id", goal.GoalID),
			slog.String("payment_method", string(req.PaymentMethod)))
		return nil, fmt.Errorf("failed to save contribution: %w", err)
	}

	s.LogInfo(ctx, "Goal contribution recorded",
		slog.String("goal_id", goal.GoalID),
		slog.String("contribution_id", contribution.ContributionID),
		slog.String("payment_method", string(req.PaymentMethod)))
	s.Publish(ctx, domain.LedgerEvent{
		Type:        domain.EventGoalContribution,
		UserID:      userID,
		HouseholdID: goal.HouseholdID,
		EntityID:    goal.GoalID,
		Data: map[string]any{
			"contributionId": contribution.ContributionID,
			"amount":         contribution.Amount.String(),
			"paymentMethod":  string(contribution.PaymentMethod),
		},
	})
	if posting.LedgerPosting != nil {
		s.publishPosted(ctx, posting.LedgerPosting.Transaction)
	}
	return &contribution, nil
}
