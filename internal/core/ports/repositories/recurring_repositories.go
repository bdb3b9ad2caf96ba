package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
)

// RecurringIncomeRepository persists recurring income definitions.
type RecurringIncomeRepository interface {
	// SaveRecurringIncome persists a new definition. A non-nil backfill is posted with
	// its balance changes in the same unit of work, so either both persist or neither does.
	SaveRecurringIncome(ctx context.Context, income domain.RecurringIncome, backfill *domain.Posting) error

	// FindRecurringIncomeByID retrieves a definition by ID.
	FindRecurringIncomeByID(ctx context.Context, id string) (*domain.RecurringIncome, error)

	// ListRecurringIncomesByUserID lists the user's definitions.
	ListRecurringIncomesByUserID(ctx context.Context, userID string) ([]domain.RecurringIncome, error)

	// ListDueRecurringIncomes lists active definitions with next_run_date <= now.
	ListDueRecurringIncomes(ctx context.Context, now time.Time) ([]domain.RecurringIncome, error)

	// PostRecurringIncome inserts the posting, applies its balance changes and moves the
	// schedule in one unit of work. It fails with apperrors.ErrConflict when the
	// definition's next_run_date no longer equals update.ExpectedNextRunDate.
	PostRecurringIncome(ctx context.Context, posting domain.Posting, update domain.ScheduleUpdate) error

	// UpdateRecurringIncomeSchedule moves the schedule pointers without posting.
	UpdateRecurringIncomeSchedule(ctx context.Context, update domain.ScheduleUpdate) error
}

// RecurringTransactionRepository persists recurring income/expense definitions.
type RecurringTransactionRepository interface {
	// SaveRecurringTransaction persists a new definition together with the optional
	// backfill posting in one unit of work.
	SaveRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction, backfill *domain.Posting) error

	// FindRecurringTransactionByID retrieves a definition by ID.
	FindRecurringTransactionByID(ctx context.Context, id string) (*domain.RecurringTransaction, error)

	// ListRecurringTransactionsByUserID lists the user's definitions.
	ListRecurringTransactionsByUserID(ctx context.Context, userID string) ([]domain.RecurringTransaction, error)

	// ListDueRecurringTransactions lists active definitions with next_run_date <= now,
	// including ones whose end date has passed so they can be deactivated.
	ListDueRecurringTransactions(ctx context.Context, now time.Time) ([]domain.RecurringTransaction, error)

	// PostRecurringTransaction inserts the posting, applies its balance changes and moves
	// the schedule in one unit of work. A second posting for the same definition and
	// period fails with apperrors.ErrDuplicate; a schedule moved by someone else fails
	// with apperrors.ErrConflict.
	PostRecurringTransaction(ctx context.Context, posting domain.Posting, update domain.ScheduleUpdate) error

	// UpdateRecurringTransactionSchedule moves the schedule pointers without posting.
	UpdateRecurringTransactionSchedule(ctx context.Context, update domain.ScheduleUpdate) error
}
