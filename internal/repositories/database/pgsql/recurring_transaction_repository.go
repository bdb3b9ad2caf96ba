package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecurringTransactionRepository struct {
	BaseRepository
}

func newPgxRecurringTransactionRepository(pool *pgxpool.Pool) *PgxRecurringTransactionRepository {
	return &PgxRecurringTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringTransactionRepository = (*PgxRecurringTransactionRepository)(nil)

const recurringTransactionColumns = `recurring_transaction_id, user_id, account_id, category_id, type, amount,
	description, day_of_month, is_active, last_run_date, next_run_date, end_date, household_id, is_shared,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRecurringTransaction(row pgx.Row) (domain.RecurringTransaction, error) {
	var rt domain.RecurringTransaction
	err := row.Scan(
		&rt.RecurringTransactionID,
		&rt.UserID,
		&rt.AccountID,
		&rt.CategoryID,
		&rt.Type,
		&rt.Amount,
		&rt.Description,
		&rt.DayOfMonth,
		&rt.IsActive,
		&rt.LastRunDate,
		&rt.NextRunDate,
		&rt.EndDate,
		&rt.HouseholdID,
		&rt.IsShared,
		&rt.CreatedAt,
		&rt.CreatedBy,
		&rt.LastUpdatedAt,
		&rt.LastUpdatedBy,
	)
	return rt, err
}

func (r *PgxRecurringTransactionRepository) list(ctx context.Context, filter string, args ...any) ([]domain.RecurringTransaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+recurringTransactionColumns+` FROM recurring_transactions `+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query recurring transactions", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RecurringTransaction, error) {
		return scanRecurringTransaction(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect recurring transaction rows", err)
	}
	return items, nil
}

// SaveRecurringTransaction inserts a new definition and, when given, its
// creation-time backfill posting in the same transaction.
func (r *PgxRecurringTransactionRepository) SaveRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction, backfill *domain.Posting) error {
	query := `
		INSERT INTO recurring_transactions (` + recurringTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			rt.RecurringTransactionID, rt.UserID, rt.AccountID, rt.CategoryID, rt.Type, rt.Amount,
			rt.Description, rt.DayOfMonth, rt.IsActive, rt.LastRunDate, rt.NextRunDate, rt.EndDate, rt.HouseholdID, rt.IsShared,
			rt.CreatedAt, rt.CreatedBy, rt.LastUpdatedAt, rt.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "recurring transaction "+rt.RecurringTransactionID)
		}
		if backfill == nil {
			return nil
		}
		return postInTx(ctx, tx, *backfill)
	})
}

func (r *PgxRecurringTransactionRepository) FindRecurringTransactionByID(ctx context.Context, id string) (*domain.RecurringTransaction, error) {
	rt, err := scanRecurringTransaction(r.Pool.QueryRow(ctx,
		`SELECT `+recurringTransactionColumns+` FROM recurring_transactions WHERE recurring_transaction_id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurring transaction %s: %w", id, err)
	}
	return &rt, nil
}

func (r *PgxRecurringTransactionRepository) ListRecurringTransactionsByUserID(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	return r.list(ctx, `WHERE user_id = $1 ORDER BY day_of_month, description;`, userID)
}

// ListDueRecurringTransactions does not filter on end_date; expired rows are
// returned so the scheduler can deactivate them.
func (r *PgxRecurringTransactionRepository) ListDueRecurringTransactions(ctx context.Context, now time.Time) ([]domain.RecurringTransaction, error) {
	return r.list(ctx, `WHERE is_active AND next_run_date <= $1 ORDER BY next_run_date, recurring_transaction_id;`, now)
}

// PostRecurringTransaction relies on uq_transactions_recurring_period for
// ErrDuplicate and on the next_run_date guard for ErrConflict.
func (r *PgxRecurringTransactionRepository) PostRecurringTransaction(ctx context.Context, posting domain.Posting, update domain.ScheduleUpdate) error {
	return recurringTransactionTable.post(ctx, &r.BaseRepository, posting, update)
}

func (r *PgxRecurringTransactionRepository) UpdateRecurringTransactionSchedule(ctx context.Context, update domain.ScheduleUpdate) error {
	return recurringTransactionTable.updateSchedule(ctx, &r.BaseRepository, update)
}
