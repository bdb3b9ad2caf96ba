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

type PgxRecurringIncomeRepository struct {
	BaseRepository
}

func newPgxRecurringIncomeRepository(pool *pgxpool.Pool) *PgxRecurringIncomeRepository {
	return &PgxRecurringIncomeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringIncomeRepository = (*PgxRecurringIncomeRepository)(nil)

const recurringIncomeColumns = `recurring_income_id, user_id, account_id, category_id, amount, description,
	day_of_month, is_active, last_run_date, next_run_date, household_id, is_shared,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRecurringIncome(row pgx.Row) (domain.RecurringIncome, error) {
	var ri domain.RecurringIncome
	err := row.Scan(
		&ri.RecurringIncomeID,
		&ri.UserID,
		&ri.AccountID,
		&ri.CategoryID,
		&ri.Amount,
		&ri.Description,
		&ri.DayOfMonth,
		&ri.IsActive,
		&ri.LastRunDate,
		&ri.NextRunDate,
		&ri.HouseholdID,
		&ri.IsShared,
		&ri.CreatedAt,
		&ri.CreatedBy,
		&ri.LastUpdatedAt,
		&ri.LastUpdatedBy,
	)
	return ri, err
}

func (r *PgxRecurringIncomeRepository) list(ctx context.Context, filter string, args ...any) ([]domain.RecurringIncome, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+recurringIncomeColumns+` FROM recurring_incomes `+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query recurring incomes", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RecurringIncome, error) {
		return scanRecurringIncome(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect recurring income rows", err)
	}
	return items, nil
}

// SaveRecurringIncome inserts a new definition and its optional backfill posting atomically.
func (r *PgxRecurringIncomeRepository) SaveRecurringIncome(ctx context.Context, ri domain.RecurringIncome, backfill *domain.Posting) error {
	query := `
		INSERT INTO recurring_incomes (` + recurringIncomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			ri.RecurringIncomeID, ri.UserID, ri.AccountID, ri.CategoryID, ri.Amount, ri.Description,
			ri.DayOfMonth, ri.IsActive, ri.LastRunDate, ri.NextRunDate, ri.HouseholdID, ri.IsShared,
			ri.CreatedAt, ri.CreatedBy, ri.LastUpdatedAt, ri.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "recurring income "+ri.RecurringIncomeID)
		}
		if backfill == nil {
			return nil
		}
		return postInTx(ctx, tx, *backfill)
	})
}

func (r *PgxRecurringIncomeRepository) FindRecurringIncomeByID(ctx context.Context, id string) (*domain.RecurringIncome, error) {
	ri, err := scanRecurringIncome(r.Pool.QueryRow(ctx,
		`SELECT `+recurringIncomeColumns+` FROM recurring_incomes WHERE recurring_income_id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurring income %s: %w", id, err)
	}
	return &ri, nil
}

func (r *PgxRecurringIncomeRepository) ListRecurringIncomesByUserID(ctx context.Context, userID string) ([]domain.RecurringIncome, error) {
	return r.list(ctx, `WHERE user_id = $1 ORDER BY day_of_month, description;`, userID)
}

func (r *PgxRecurringIncomeRepository) ListDueRecurringIncomes(ctx context.Context, now time.Time) ([]domain.RecurringIncome, error) {
	return r.list(ctx, `WHERE is_active AND next_run_date <= $1 ORDER BY next_run_date, recurring_income_id;`, now)
}

func (r *PgxRecurringIncomeRepository) PostRecurringIncome(ctx context.Context, posting domain.Posting, update domain.ScheduleUpdate) error {
	return recurringIncomeTable.post(ctx, &r.BaseRepository, posting, update)
}

func (r *PgxRecurringIncomeRepository) UpdateRecurringIncomeSchedule(ctx context.Context, update domain.ScheduleUpdate) error {
	return recurringIncomeTable.updateSchedule(ctx, &r.BaseRepository, update)
}
