package pgsql

import (
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:              newPgxAccountRepository(dbPool),
		TransactionRepo:          newPgxTransactionRepository(dbPool),
		RecurringIncomeRepo:      newPgxRecurringIncomeRepository(dbPool),
		RecurringTransactionRepo: newPgxRecurringTransactionRepository(dbPool),
		GoalRepo:                 newPgxGoalRepository(dbPool),
		CreditCardRepo:           newPgxCreditCardRepository(dbPool),
		HouseholdRepo:            newPgxHouseholdRepository(dbPool),
	}
}
