package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// scheduleTable names the table and key column of a recurring definition.
type scheduleTable struct {
	table  string
	column string
}

var (
	recurringIncomeTable      = scheduleTable{table: "recurring_incomes", column: "recurring_income_id"}
	recurringTransactionTable = scheduleTable{table: "recurring_transactions", column: "recurring_transaction_id"}
)

// lockDefinition serialises schedulers working on the same definition.
func (s scheduleTable) lockDefinition(ctx context.Context, tx pgx.Tx, id string) error {
	var locked string
	err := tx.QueryRow(ctx,
		`SELECT `+s.column+` FROM `+s.table+` WHERE `+s.column+` = $1 FOR UPDATE;`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock %s %s: %w", s.table, id, err)
	}
	return nil
}

// advance moves the schedule only if next_run_date still holds the value the
// caller read. Zero affected rows means either a missing definition or a run
// that got there first.
func (s scheduleTable) advance(ctx context.Context, q pgx.Tx, update domain.ScheduleUpdate) error {
	query := `
		UPDATE ` + s.table + `
		SET last_run_date = $2, next_run_date = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE ` + s.column + ` = $1 AND next_run_date = $7;
	`
	ct, err := q.Exec(ctx, query,
		update.DefinitionID,
		update.LastRunDate,
		update.NextRunDate,
		update.IsActive,
		update.UpdatedAt,
		update.UpdatedBy,
		update.ExpectedNextRunDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule of %s %s: %w", s.table, update.DefinitionID, err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+s.table+` WHERE `+s.column+` = $1);`, update.DefinitionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check %s %s: %w", s.table, update.DefinitionID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%w: %s %s was advanced by another run", apperrors.ErrConflict, s.table, update.DefinitionID)
}

// post writes a scheduled posting and advances its definition atomically.
func (s scheduleTable) post(ctx context.Context, base *BaseRepository, posting domain.Posting, update domain.ScheduleUpdate) error {
	return base.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.lockDefinition(ctx, tx, update.DefinitionID); err != nil {
			return err
		}
		if err := postInTx(ctx, tx, posting); err != nil {
			return err
		}
		return s.advance(ctx, tx, update)
	})
}

// updateSchedule advances a definition without posting.
func (s scheduleTable) updateSchedule(ctx context.Context, base *BaseRepository, update domain.ScheduleUpdate) error {
	return base.WithTx(ctx, func(tx pgx.Tx) error {
		return s.advance(ctx, tx, update)
	})
}
