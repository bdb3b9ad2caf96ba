package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxHouseholdRepository struct {
	BaseRepository
}

// newPgxHouseholdRepository creates a new repository for household data.
func newPgxHouseholdRepository(pool *pgxpool.Pool) *PgxHouseholdRepository {
	return &PgxHouseholdRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxHouseholdRepository implements portsrepo.HouseholdReader
var _ portsrepo.HouseholdReader = (*PgxHouseholdRepository)(nil)

var fullHouseholdSelectQuery = `
SELECT
	h.household_id, h.name,
	h.created_at, h.created_by, h.last_updated_at, h.last_updated_by
FROM households h
`

func (r *PgxHouseholdRepository) getHouseholds(ctx context.Context, filterQuery string, args ...any) ([]domain.Household, error) {
	rows, err := r.Pool.Query(ctx, fullHouseholdSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query households", err)
	}
	households, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Household, error) {
		var h domain.Household
		err := row.Scan(&h.HouseholdID, &h.Name, &h.CreatedAt, &h.CreatedBy, &h.LastUpdatedAt, &h.LastUpdatedBy)
		return h, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect household rows", err)
	}
	return households, nil
}

// ListHouseholdsByUserID retrieves all households a user belongs to.
func (r *PgxHouseholdRepository) ListHouseholdsByUserID(ctx context.Context, userID string) ([]domain.Household, error) {
	query := `
		JOIN household_members hm ON h.household_id = hm.household_id
		WHERE hm.user_id = $1
		ORDER BY h.name;
	`
	return r.getHouseholds(ctx, query, userID)
}

// FindMembership retrieves the user's membership in a household.
func (r *PgxHouseholdRepository) FindMembership(ctx context.Context, householdID, userID string) (*domain.HouseholdMembership, error) {
	query := `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1 AND user_id = $2;
	`
	var m domain.HouseholdMembership
	err := r.Pool.QueryRow(ctx, query, householdID, userID).Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership of user %s in household %s: %w", userID, householdID, err)
	}
	return &m, nil
}
