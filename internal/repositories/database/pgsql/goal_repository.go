package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGoalRepository struct {
	BaseRepository
}

func newPgxGoalRepository(pool *pgxpool.Pool) *PgxGoalRepository {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepository = (*PgxGoalRepository)(nil)

const goalColumns = `g.goal_id, g.user_id, g.household_id, g.name, g.target_amount, g.current_amount, g.deadline,
	g.created_at, g.created_by, g.last_updated_at, g.last_updated_by`

func scanGoal(row pgx.Row) (domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	err := row.Scan(
		&g.GoalID,
		&g.UserID,
		&g.HouseholdID,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.CreatedAt,
		&g.CreatedBy,
		&g.LastUpdatedAt,
		&g.LastUpdatedBy,
	)
	return g, err
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	goal, err := scanGoal(r.Pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM savings_goals g WHERE g.goal_id = $1;`, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal %s: %w", goalID, err)
	}
	return &goal, nil
}

// ListGoalsVisibleToUser returns owned goals plus goals of households the user belongs to.
func (r *PgxGoalRepository) ListGoalsVisibleToUser(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	query := `
		SELECT ` + goalColumns + ` FROM savings_goals g
		WHERE g.user_id = $1
		   OR g.household_id IN (SELECT household_id FROM household_members WHERE user_id = $1)
		ORDER BY g.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query goals", err)
	}
	goals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SavingsGoal, error) {
		return scanGoal(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect goal rows", err)
	}
	return goals, nil
}

// SaveContribution writes the side-ledger record first so the contribution can reference it.
func (r *PgxGoalRepository) SaveContribution(ctx context.Context, posting domain.ContributionPosting) error {
	c := posting.Contribution
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if posting.CardTransaction != nil {
			if err := insertCardTransaction(ctx, tx, *posting.CardTransaction); err != nil {
				return err
			}
		}
		if posting.LedgerPosting != nil {
			if err := postInTx(ctx, tx, *posting.LedgerPosting); err != nil {
				return err
			}
		}

		ct, err := tx.Exec(ctx, `
			UPDATE savings_goals
			SET current_amount = current_amount + $2, last_updated_at = $3, last_updated_by = $4
			WHERE goal_id = $1;`, c.GoalID, c.Amount, c.CreatedAt, c.UserID)
		if err != nil {
			return fmt.Errorf("failed to increment goal %s: %w", c.GoalID, err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO goal_contributions (
				contribution_id, goal_id, user_id, amount, date, note,
				payment_method, source_id, transaction_id, card_transaction_id, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			c.ContributionID, c.GoalID, c.UserID, c.Amount, c.Date, c.Note,
			c.PaymentMethod, c.SourceID, c.TransactionID, c.CardTransactionID, c.CreatedAt,
		)
		if err != nil {
			return mapPgError(err, "goal contribution "+c.ContributionID)
		}
		return nil
	})
}
