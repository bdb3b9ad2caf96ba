package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/utils/accounting"
	"github.com/SscSPs/household_finance/internal/utils/recurrence"
	"github.com/google/uuid"
)

// systemActor is recorded as the updater of rows changed by a scheduler run.
const systemActor = "system:scheduler"

type recurringTransactionService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionReader
	recurringRepo   portsrepo.RecurringTransactionRepository
}

// NewRecurringTransactionService creates the recurring income/expense scheduler.
func NewRecurringTransactionService(
	accountRepo portsrepo.AccountReader,
	transactionRepo portsrepo.TransactionReader,
	recurringRepo portsrepo.RecurringTransactionRepository,
	options ...ServiceOption,
) portssvc.RecurringTransactionSvcFacade {
	svc := &recurringTransactionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		recurringRepo:   recurringRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.RecurringTransactionSvcFacade = (*recurringTransactionService)(nil)

// checkRecurringTarget validates the fields shared by both recurring kinds and
// the caller's access to the target account and household.
func (s *BaseService) checkRecurringTarget(ctx context.Context, accounts portsrepo.AccountReader, userID, accountID, description string, day int, householdID *string) error {
	if err := recurrence.ValidateDayOfMonth(day); err != nil {
		return validationError(err)
	}
	if strings.TrimSpace(description) == "" {
		return validationError(errors.New("description is required"))
	}

	account, err := accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("account %s: %w", accountID, err)
	}
	if err := s.AuthorizeAccess(ctx, userID, account.UserID, account.HouseholdID); err != nil {
		return err
	}
	if householdID != nil {
		return s.AuthorizeMember(ctx, userID, *householdID)
	}
	return nil
}

func (s *recurringTransactionService) CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, *domain.Transaction, error) {
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, nil, validationError(fmt.Errorf("type must be income or expense, got '%s'", req.Type))
	}
	if !req.Amount.IsPositive() {
		return nil, nil, validationError(errors.New("amount must be positive"))
	}
	if err := s.checkRecurringTarget(ctx, s.accountRepo, userID, req.AccountID, req.Description, req.DayOfMonth, req.HouseholdID); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	firstRun := recurrence.FirstRunDate(now, req.DayOfMonth)
	backfill := recurrence.HasPassedThisMonth(now, req.DayOfMonth)
	backfillDate := recurrence.DateInMonth(now, req.DayOfMonth)
	if backfill && req.EndDate != nil && req.EndDate.Before(backfillDate) {
		backfill = false
	}

	rt := domain.RecurringTransaction{
		RecurringTransactionID: uuid.NewString(),
		UserID:                 userID,
		AccountID:              req.AccountID,
		CategoryID:             req.CategoryID,
		Type:                   req.Type,
		Amount:                 req.Amount,
		Description:            req.Description,
		DayOfMonth:             req.DayOfMonth,
		IsActive:               !recurrence.ExceedsEnd(firstRun, req.EndDate),
		NextRunDate:            firstRun,
		EndDate:                req.EndDate,
		HouseholdID:            req.HouseholdID,
		IsShared:               req.IsShared,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The day already passed this month: post this month's occurrence with the
	// definition. NextRunDate is already next month, so the scheduler will not repeat it.
	var backfillPosting *domain.Posting
	if backfill {
		posting, err := s.buildPosting(rt, backfillDate, now, userID)
		if err != nil {
			return nil, nil, err
		}
		backfillPosting = &posting
		rt.LastRunDate = &backfillDate
	}

	if err := s.recurringRepo.SaveRecurringTransaction(ctx, rt, backfillPosting); err != nil {
		s.LogError(ctx, err, "Failed to save recurring transaction",
			slog.String("recurring_transaction_id", rt.RecurringTransactionID),
			slog.Bool("backfill", backfill))
		return nil, nil, fmt.Errorf("failed to save recurring transaction: %w", err)
	}
	s.LogInfo(ctx, "Recurring transaction created",
		slog.String("recurring_transaction_id", rt.RecurringTransactionID),
		slog.Time("next_run_date", rt.NextRunDate),
		slog.Bool("backfill", backfill))

	if backfillPosting == nil {
		return &rt, nil, nil
	}
	s.publishPosted(ctx, backfillPosting.Transaction)
	return &rt, &backfillPosting.Transaction, nil
}

func (s *recurringTransactionService) ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	items, err := s.recurringRepo.ListRecurringTransactionsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring transactions", slog.String("user_id", userID))
		return nil, err
	}
	if items == nil {
		return []domain.RecurringTransaction{}, nil
	}
	return items, nil
}

func (s *recurringTransactionService) DeactivateRecurringTransaction(ctx context.Context, userID, id string) error {
	rt, err := s.recurringRepo.FindRecurringTransactionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.AuthorizeAccess(ctx, userID, rt.UserID, rt.HouseholdID); err != nil {
		return err
	}
	if !rt.IsActive {
		return nil
	}

	update := domain.ScheduleUpdate{
		DefinitionID:        rt.RecurringTransactionID,
		ExpectedNextRunDate: rt.NextRunDate,
		LastRunDate:         rt.LastRunDate,
		NextRunDate:         rt.NextRunDate,
		IsActive:            false,
		UpdatedBy:           userID,
		UpdatedAt:           s.Now(),
	}
	if err := s.recurringRepo.UpdateRecurringTransactionSchedule(ctx, update); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring transaction", slog.String("recurring_transaction_id", id))
		return err
	}
	s.publishDeactivated(ctx, *rt)
	return nil
}

// ProcessDueRecurringTransactions runs one scheduler pass. Every due
// definition produces exactly one result; a failing item leaves its
// schedule untouched and does not stop the pass.
func (s *recurringTransactionService) ProcessDueRecurringTransactions(ctx context.Context) (*domain.RunReport, error) {
	now := s.Now()
	due, err := s.recurringRepo.ListDueRecurringTransactions(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to select due recurring transactions")
		return nil, fmt.Errorf("failed to select due recurring transactions: %w", err)
	}

	report := &domain.RunReport{Results: make([]domain.RunResult, 0, len(due))}
	for _, rt := range due {
		result := s.processOne(ctx, rt, now)
		if result.Status == domain.RunError {
			s.LogError(ctx, errors.New(result.Error), "Recurring transaction failed",
				slog.String("recurring_transaction_id", rt.RecurringTransactionID))
		}
		report.Results = append(report.Results, result)
	}
	report.Processed = len(report.Results)

	s.LogInfo(ctx, "Recurring transaction run finished", slog.Int("processed", report.Processed))
	return report, nil
}

func (s *recurringTransactionService) processOne(ctx context.Context, rt domain.RecurringTransaction, now time.Time) domain.RunResult {
	result := domain.RunResult{ID: rt.RecurringTransactionID, Status: domain.RunSuccess}
	fail := func(err error) domain.RunResult {
		return domain.RunResult{ID: rt.RecurringTransactionID, Status: domain.RunError, Error: err.Error()}
	}

	if rt.ExpiredAt(now) {
		update := s.scheduleUpdate(rt, rt.LastRunDate, rt.NextRunDate, false, now)
		if err := s.recurringRepo.UpdateRecurringTransactionSchedule(ctx, update); err != nil {
			return fail(err)
		}
		s.publishDeactivated(ctx, rt)
		result.Action = domain.ActionDeactivated
		return result
	}

	next := recurrence.NextRunDate(now, rt.DayOfMonth)
	active := !recurrence.ExceedsEnd(next, rt.EndDate)

	monthStart, nextMonthStart := recurrence.MonthBounds(now)
	exists, err := s.transactionRepo.ExistsForRecurringTransaction(ctx, rt.RecurringTransactionID, monthStart, nextMonthStart)
	if err != nil {
		return fail(err)
	}
	if exists {
		return s.skip(ctx, rt, next, active, now)
	}

	posting, err := s.buildPosting(rt, now, now, systemActor)
	if err != nil {
		return fail(err)
	}
	err = s.recurringRepo.PostRecurringTransaction(ctx, posting, s.scheduleUpdate(rt, &now, next, active, now))
	if errors.Is(err, apperrors.ErrDuplicate) {
		// A concurrent run posted this period first.
		return s.skip(ctx, rt, next, active, now)
	}
	if err != nil {
		return fail(err)
	}

	s.publishPosted(ctx, posting.Transaction)
	if !active {
		s.publishDeactivated(ctx, rt)
	}
	result.Action = domain.ActionPosted
	result.TransactionID = posting.Transaction.TransactionID
	return result
}

// skip advances the schedule without posting.
func (s *recurringTransactionService) skip(ctx context.Context, rt domain.RecurringTransaction, next time.Time, active bool, now time.Time) domain.RunResult {
	update := s.scheduleUpdate(rt, rt.LastRunDate, next, active, now)
	err := s.recurringRepo.UpdateRecurringTransactionSchedule(ctx, update)
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		// The run that posted this period already moved the schedule.
		return domain.RunResult{ID: rt.RecurringTransactionID, Status: domain.RunSuccess, Action: domain.ActionSkipped}
	case err != nil:
		return domain.RunResult{ID: rt.RecurringTransactionID, Status: domain.RunError, Error: err.Error()}
	}
	s.LogInfo(ctx, "Recurring transaction already posted this month, skipping",
		slog.String("recurring_transaction_id", rt.RecurringTransactionID))
	if !active {
		s.publishDeactivated(ctx, rt)
	}
	return domain.RunResult{ID: rt.RecurringTransactionID, Status: domain.RunSuccess, Action: domain.ActionSkipped}
}

func (s *recurringTransactionService) scheduleUpdate(rt domain.RecurringTransaction, lastRun *time.Time, next time.Time, active bool, now time.Time) domain.ScheduleUpdate {
	return domain.ScheduleUpdate{
		DefinitionID:        rt.RecurringTransactionID,
		ExpectedNextRunDate: rt.NextRunDate,
		LastRunDate:         lastRun,
		NextRunDate:         next,
		IsActive:            active,
		UpdatedBy:           systemActor,
		UpdatedAt:           now,
	}
}

func (s *recurringTransactionService) buildPosting(rt domain.RecurringTransaction, date, now time.Time, actor string) (domain.Posting, error) {
	id := rt.RecurringTransactionID
	period := recurrence.PeriodKey(date)
	txn := domain.Transaction{
		TransactionID:          uuid.NewString(),
		UserID:                 rt.UserID,
		AccountID:              rt.AccountID,
		CategoryID:             rt.CategoryID,
		Type:                   rt.Type,
		Amount:                 rt.Amount,
		Description:            rt.Description,
		Date:                   date,
		RecurringTransactionID: &id,
		RecurringPeriod:        &period,
		HouseholdID:            rt.HouseholdID,
		IsShared:               rt.IsShared,
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

func (s *BaseService) publishPosted(ctx context.Context, txn domain.Transaction) {
	s.Publish(ctx, domain.LedgerEvent{
		Type:        domain.EventTransactionPosted,
		UserID:      txn.UserID,
		HouseholdID: txn.HouseholdID,
		EntityID:    txn.TransactionID,
		Data:        map[string]any{"accountId": txn.AccountID, "type": string(txn.Type), "amount": txn.Amount.String()},
	})
}

func (s *recurringTransactionService) publishDeactivated(ctx context.Context, rt domain.RecurringTransaction) {
	s.Publish(ctx, domain.LedgerEvent{
		Type:        domain.EventRecurringDeactivated,
		UserID:      rt.UserID,
		HouseholdID: rt.HouseholdID,
		EntityID:    rt.RecurringTransactionID,
	})
}
