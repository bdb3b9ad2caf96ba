package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/utils/accounting"
	"github.com/SscSPs/household_finance/internal/utils/recurrence"
	"github.com/google/uuid"
)

// recurringIncomeService runs the legacy income scheduler. Unlike recurring
// transactions it has no per-month duplicate check: the next-run pointer is
// the only guard, and the repository moves it with a compare-and-set.
type recurringIncomeService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	recurringRepo portsrepo.RecurringIncomeRepository
}

// NewRecurringIncomeService creates the recurring income scheduler.
func NewRecurringIncomeService(
	accountRepo portsrepo.AccountReader,
	recurringRepo portsrepo.RecurringIncomeRepository,
	options ...ServiceOption,
) portssvc.RecurringIncomeSvcFacade {
	svc := &recurringIncomeService{
		accountRepo:   accountRepo,
		recurringRepo: recurringRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.RecurringIncomeSvcFacade = (*recurringIncomeService)(nil)

func (s *recurringIncomeService) CreateRecurringIncome(ctx context.Context, userID string, req dto.CreateRecurringIncomeRequest) (*domain.RecurringIncome, *domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, validationError(errors.New("amount must be positive"))
	}
	if err := s.checkRecurringTarget(ctx, s.accountRepo, userID, req.AccountID, req.Description, req.DayOfMonth, req.HouseholdID); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	ri := domain.RecurringIncome{
		RecurringIncomeID: uuid.NewString(),
		UserID:            userID,
		AccountID:         req.AccountID,
		CategoryID:        req.CategoryID,
		Amount:            req.Amount,
		Description:       req.Description,
		DayOfMonth:        req.DayOfMonth,
		IsActive:          true,
		NextRunDate:       recurrence.FirstRunDate(now, req.DayOfMonth),
		HouseholdID:       req.HouseholdID,
		IsShared:          req.IsShared,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var backfillPosting *domain.Posting
	if recurrence.HasPassedThisMonth(now, req.DayOfMonth) {
		backfillDate := recurrence.DateInMonth(now, req.DayOfMonth)
		posting, err := s.buildPosting(ri, backfillDate, now, userID)
		if err != nil {
			return nil, nil, err
		}
		backfillPosting = &posting
		ri.LastRunDate = &backfillDate
	}

	if err := s.recurringRepo.SaveRecurringIncome(ctx, ri, backfillPosting); err != nil {
		s.LogError(ctx, err, "Failed to save recurring income", slog.String("recurring_income_id", ri.RecurringIncomeID))
		return nil, nil, fmt.Errorf("failed to save recurring income: %w", err)
	}
	s.LogInfo(ctx, "Recurring income created",
		slog.String("recurring_income_id", ri.RecurringIncomeID),
		slog.Time("next_run_date", ri.NextRunDate))

	if backfillPosting == nil {
		return &ri, nil, nil
	}
	s.publishPosted(ctx, backfillPosting.Transaction)
	return &ri, &backfillPosting.Transaction, nil
}

func (s *recurringIncomeService) ListRecurringIncomes(ctx context.Context, userID string) ([]domain.RecurringIncome, error) {
	items, err := s.recurringRepo.ListRecurringIncomesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring incomes", slog.String("user_id", userID))
		return nil, err
	}
	if items == nil {
		return []domain.RecurringIncome{}, nil
	}
	return items, nil
}

func (s *recurringIncomeService) DeactivateRecurringIncome(ctx context.Context, userID, id string) error {
	ri, err := s.recurringRepo.FindRecurringIncomeByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.AuthorizeAccess(ctx, userID, ri.UserID, ri.HouseholdID); err != nil {
		return err
	}
	if !ri.IsActive {
		return nil
	}

	update := domain.ScheduleUpdate{
		DefinitionID:        ri.RecurringIncomeID,
		ExpectedNextRunDate: ri.NextRunDate,
		LastRunDate:         ri.LastRunDate,
		NextRunDate:         ri.NextRunDate,
		IsActive:            false,
		UpdatedBy:           userID,
		UpdatedAt:           s.Now(),
	}
	if err := s.recurringRepo.UpdateRecurringIncomeSchedule(ctx, update); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring income", slog.String("recurring_income_id", id))
		return err
	}
	s.Publish(ctx, domain.LedgerEvent{
		Type:        domain.EventRecurringDeactivated,
		UserID:      ri.UserID,
		HouseholdID: ri.HouseholdID,
		EntityID:    ri.RecurringIncomeID,
	})
	return nil
}

// ProcessDueRecurringIncomes posts every active definition whose next run
// date is not in the future. Failed items keep their schedule and are
// picked up by the next invocation.
func (s *recurringIncomeService) ProcessDueRecurringIncomes(ctx context.Context) (*domain.RunReport, error) {
	now := s.Now()
	due, err := s.recurringRepo.ListDueRecurringIncomes(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to select due recurring incomes")
		return nil, fmt.Errorf("failed to select due recurring incomes: %w", err)
	}

	report := &domain.RunReport{Results: make([]domain.RunResult, 0, len(due))}
	for _, ri := range due {
		report.Results = append(report.Results, s.processOne(ctx, ri, now))
	}
	report.Processed = len(report.Results)

	s.LogInfo(ctx, "Recurring income run finished", slog.Int("processed", report.Processed))
	return report, nil
}

func (s *recurringIncomeService) processOne(ctx context.Context, ri domain.RecurringIncome, now time.Time) domain.RunResult {
	posting, err := s.buildPosting(ri, now, now, systemActor)
	if err == nil {
		err = s.recurringRepo.PostRecurringIncome(ctx, posting, domain.ScheduleUpdate{
			DefinitionID:        ri.RecurringIncomeID,
			ExpectedNextRunDate: ri.NextRunDate,
			LastRunDate:         &now,
			NextRunDate:         recurrence.NextRunDate(now, ri.DayOfMonth),
			IsActive:            true,
			UpdatedBy:           systemActor,
			UpdatedAt:           now,
		})
	}
	if err != nil {
		s.LogError(ctx, err, "Recurring income failed", slog.String("recurring_income_id", ri.RecurringIncomeID))
		return domain.RunResult{ID: ri.RecurringIncomeID, Status: domain.RunError, Error: err.Error()}
	}

	s.publishPosted(ctx, posting.Transaction)
	return domain.RunResult{
		ID:            ri.RecurringIncomeID,
		Status:        domain.RunSuccess,
		Action:        domain.ActionPosted,
		TransactionID: posting.Transaction.TransactionID,
	}
}

func (s *recurringIncomeService) buildPosting(ri domain.RecurringIncome, date, now time.Time, actor string) (domain.Posting, error) {
	id := ri.RecurringIncomeID
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		UserID:            ri.UserID,
		AccountID:         ri.AccountID,
		CategoryID:        ri.CategoryID,
		Type:              domain.Income,
		Amount:            ri.Amount,
		Description:       ri.Description,
		Date:              date,
		RecurringIncomeID: &id,
		HouseholdID:       ri.HouseholdID,
		IsShared:          ri.IsShared,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	changes, err := accounting.BalanceChanges(txn)
	if err != nil {
		return domain.Posting{}, validationError(err)
	}
	return domain.Posting{Transaction: txn, BalanceChanges: changes}, nil
}
