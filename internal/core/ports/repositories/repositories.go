package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo              AccountRepositoryFacade
	TransactionRepo          TransactionRepositoryFacade
	RecurringIncomeRepo      RecurringIncomeRepository
	RecurringTransactionRepo RecurringTransactionRepository
	GoalRepo                 GoalRepository
	CreditCardRepo           CreditCardRepository
	HouseholdRepo            HouseholdReader
}
