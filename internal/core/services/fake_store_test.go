package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory ledger that enforces the same constraints as the
// PostgreSQL schema: one recurring posting per definition and period, and
// schedule updates guarded by the expected next run date.
type fakeStore struct {
	mu sync.Mutex

	accounts         map[string]*domain.Account
	transactions     map[string]domain.Transaction
	recurringIncomes map[string]*domain.RecurringIncome
	recurringTxns    map[string]*domain.RecurringTransaction
	goals            map[string]*domain.SavingsGoal
	contributions    []domain.GoalContribution
	cards            map[string]*domain.CreditCard
	cardTxns         map[string]*domain.CreditCardTransaction
	households       map[string]domain.Household
	members          map[string]map[string]domain.HouseholdRole

	// failures makes any write touching the keyed account, goal or definition fail.
	failures map[string]error
	// staleExists hides existing postings from ExistsForRecurringTransaction,
	// like a read taken before a concurrent run committed.
	staleExists bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:         map[string]*domain.Account{},
		transactions:     map[string]domain.Transaction{},
		recurringIncomes: map[string]*domain.RecurringIncome{},
		recurringTxns:    map[string]*domain.RecurringTransaction{},
		goals:            map[string]*domain.SavingsGoal{},
		cards:            map[string]*domain.CreditCard{},
		cardTxns:         map[string]*domain.CreditCardTransaction{},
		households:       map[string]domain.Household{},
		members:          map[string]map[string]domain.HouseholdRole{},
		failures:         map[string]error{},
	}
}

var (
	_ portsrepo.AccountRepositoryFacade        = (*fakeStore)(nil)
	_ portsrepo.TransactionRepositoryFacade    = (*fakeStore)(nil)
	_ portsrepo.RecurringIncomeRepository      = (*fakeStore)(nil)
	_ portsrepo.RecurringTransactionRepository = (*fakeStore)(nil)
	_ portsrepo.GoalRepository                 = (*fakeStore)(nil)
	_ portsrepo.CreditCardRepository           = (*fakeStore)(nil)
	_ portsrepo.HouseholdReader                = (*fakeStore)(nil)
)

func (f *fakeStore) repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:              f,
		TransactionRepo:          f,
		RecurringIncomeRepo:      f,
		RecurringTransactionRepo: f,
		GoalRepo:                 f,
		CreditCardRepo:           f,
		HouseholdRepo:            f,
	}
}

// --- seeding helpers ---

func (f *fakeStore) addAccount(id, userID, name string, balance int64) *domain.Account {
	acc := &domain.Account{AccountID: id, UserID: userID, Name: name, CurrencyCode: "EUR", Balance: decimal.NewFromInt(balance), IsActive: true}
	f.accounts[id] = acc
	return acc
}

func (f *fakeStore) addTransaction(txn domain.Transaction) {
	f.transactions[txn.TransactionID] = txn
}

func (f *fakeStore) addMember(householdID, userID string, role domain.HouseholdRole) {
	f.households[householdID] = domain.Household{HouseholdID: householdID, Name: householdID}
	if f.members[householdID] == nil {
		f.members[householdID] = map[string]domain.HouseholdRole{}
	}
	f.members[householdID][userID] = role
}

func (f *fakeStore) balance(accountID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[accountID].Balance
}

func (f *fakeStore) transactionsFor(filter func(domain.Transaction) bool) []domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range f.transactions {
		if filter(txn) {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// --- accounts ---

func (f *fakeStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeStore) ListAccountsByUserID(_ context.Context, userID string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, acc := range f.accounts {
		if acc.UserID == userID {
			out = append(out, *acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) SaveAccount(_ context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	f.accounts[account.AccountID] = &account
	return nil
}

func (f *fakeStore) ReconcileAccountBalance(_ context.Context, accountID string, recompute portsrepo.BalanceFunc) (decimal.Decimal, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures[accountID]; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	acc, ok := f.accounts[accountID]
	if !ok {
		return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
	}

	var entries, incoming []domain.Transaction
	for _, txn := range f.transactions {
		if txn.AccountID == accountID {
			entries = append(entries, txn)
		}
		if txn.Type == domain.Transfer && txn.TransferToAccountID != nil && *txn.TransferToAccountID == accountID && txn.AccountID != accountID {
			incoming = append(incoming, txn)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	sort.Slice(incoming, func(i, j int) bool { return incoming[i].Date.Before(incoming[j].Date) })

	old := acc.Balance
	acc.Balance = recompute(entries, incoming)
	return old, acc.Balance, nil
}

// --- ledger ---

// applyPostingLocked validates first and mutates only when every check passed.
func (f *fakeStore) applyPostingLocked(posting domain.Posting) error {
	txn := posting.Transaction
	for accountID := range posting.BalanceChanges {
		if err := f.failures[accountID]; err != nil {
			return err
		}
		if _, ok := f.accounts[accountID]; !ok {
			return apperrors.ErrNotFound
		}
	}
	if txn.RecurringTransactionID != nil && txn.RecurringPeriod != nil {
		for _, existing := range f.transactions {
			if existing.RecurringTransactionID != nil && *existing.RecurringTransactionID == *txn.RecurringTransactionID &&
				existing.RecurringPeriod != nil && *existing.RecurringPeriod == *txn.RecurringPeriod {
				return apperrors.ErrDuplicate
			}
		}
	}

	f.transactions[txn.TransactionID] = txn
	for accountID, delta := range posting.BalanceChanges {
		f.accounts[accountID].Balance = f.accounts[accountID].Balance.Add(delta)
	}
	return nil
}

func (f *fakeStore) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (f *fakeStore) ExistsForRecurringTransaction(_ context.Context, recurringTransactionID string, from, to time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleExists {
		return false, nil
	}
	for _, txn := range f.transactions {
		if txn.RecurringTransactionID != nil && *txn.RecurringTransactionID == recurringTransactionID &&
			!txn.Date.Before(from) && txn.Date.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PostTransaction(_ context.Context, posting domain.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var charge *domain.CreditCardTransaction
	if id := posting.Transaction.CardTransactionID; id != nil {
		charge = f.cardTxns[*id]
		if charge == nil || charge.Status == domain.CardPaid {
			return apperrors.ErrConflict
		}
	}
	if err := f.applyPostingLocked(posting); err != nil {
		return err
	}
	if charge != nil {
		charge.Status = domain.CardPaid
	}
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, posting domain.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[posting.Transaction.TransactionID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.transactions, posting.Transaction.TransactionID)
	for accountID, delta := range posting.BalanceChanges {
		if acc, ok := f.accounts[accountID]; ok {
			acc.Balance = acc.Balance.Add(delta)
		}
	}
	return nil
}

// --- recurring incomes ---

func (f *fakeStore) SaveRecurringIncome(_ context.Context, income domain.RecurringIncome, backfill *domain.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if backfill != nil {
		if err := f.applyPostingLocked(*backfill); err != nil {
			return err
		}
	}
	f.recurringIncomes[income.RecurringIncomeID] = &income
	return nil
}

func (f *fakeStore) FindRecurringIncomeByID(_ context.Context, id string) (*domain.RecurringIncome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ri, ok := f.recurringIncomes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *ri
	return &cp, nil
}

func (f *fakeStore) ListRecurringIncomesByUserID(_ context.Context, userID string) ([]domain.RecurringIncome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringIncome
	for _, ri := range f.recurringIncomes {
		if ri.UserID == userID {
			out = append(out, *ri)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDueRecurringIncomes(_ context.Context, now time.Time) ([]domain.RecurringIncome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringIncome
	for _, ri := range f.recurringIncomes {
		if ri.IsDue(now) {
			out = append(out, *ri)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecurringIncomeID < out[j].RecurringIncomeID })
	return out, nil
}

func (f *fakeStore) incomeScheduleLocked(update domain.ScheduleUpdate) (*domain.RecurringIncome, error) {
	if err := f.failures[update.DefinitionID]; err != nil {
		return nil, err
	}
	ri, ok := f.recurringIncomes[update.DefinitionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !ri.NextRunDate.Equal(update.ExpectedNextRunDate) {
		return nil, apperrors.ErrConflict
	}
	return ri, nil
}

func (f *fakeStore) PostRecurringIncome(_ context.Context, posting domain.Posting, update domain.ScheduleUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ri, err := f.incomeScheduleLocked(update)
	if err != nil {
		return err
	}
	if err := f.applyPostingLocked(posting); err != nil {
		return err
	}
	ri.LastRunDate, ri.NextRunDate, ri.IsActive = update.LastRunDate, update.NextRunDate, update.IsActive
	return nil
}

func (f *fakeStore) UpdateRecurringIncomeSchedule(_ context.Context, update domain.ScheduleUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ri, err := f.incomeScheduleLocked(update)
	if err != nil {
		return err
	}
	ri.LastRunDate, ri.NextRunDate, ri.IsActive = update.LastRunDate, update.NextRunDate, update.IsActive
	return nil
}

// --- recurring transactions ---

func (f *fakeStore) SaveRecurringTransaction(_ context.Context, rt domain.RecurringTransaction, backfill *domain.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if backfill != nil {
		if err := f.applyPostingLocked(*backfill); err != nil {
			return err
		}
	}
	f.recurringTxns[rt.RecurringTransactionID] = &rt
	return nil
}

func (f *fakeStore) FindRecurringTransactionByID(_ context.Context, id string) (*domain.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.recurringTxns[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeStore) ListRecurringTransactionsByUserID(_ context.Context, userID string) ([]domain.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringTransaction
	for _, rt := range f.recurringTxns {
		if rt.UserID == userID {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDueRecurringTransactions(_ context.Context, now time.Time) ([]domain.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringTransaction
	for _, rt := range f.recurringTxns {
		if rt.IsDue(now) {
			out = append(out, *rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecurringTransactionID < out[j].RecurringTransactionID })
	return out, nil
}

func (f *fakeStore) recurringScheduleLocked(update domain.ScheduleUpdate) (*domain.RecurringTransaction, error) {
	if err := f.failures[update.DefinitionID]; err != nil {
		return nil, err
	}
	rt, ok := f.recurringTxns[update.DefinitionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !rt.NextRunDate.Equal(update.ExpectedNextRunDate) {
		return nil, apperrors.ErrConflict
	}
	return rt, nil
}

func (f *fakeStore) PostRecurringTransaction(_ context.Context, posting domain.Posting, update domain.ScheduleUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures[update.DefinitionID]; err != nil {
		return err
	}
	// Insert first, like the SQL implementation, so a double post surfaces
	// as a unique violation rather than a schedule conflict.
	if err := f.applyPostingLocked(posting); err != nil {
		return err
	}
	rt, err := f.recurringScheduleLocked(update)
	if err != nil {
		f.rollbackPostingLocked(posting)
		return err
	}
	rt.LastRunDate, rt.NextRunDate, rt.IsActive = update.LastRunDate, update.NextRunDate, update.IsActive
	return nil
}

func (f *fakeStore) rollbackPostingLocked(posting domain.Posting) {
	delete(f.transactions, posting.Transaction.TransactionID)
	for accountID, delta := range posting.BalanceChanges {
		f.accounts[accountID].Balance = f.accounts[accountID].Balance.Sub(delta)
	}
}

func (f *fakeStore) UpdateRecurringTransactionSchedule(_ context.Context, update domain.ScheduleUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, err := f.recurringScheduleLocked(update)
	if err != nil {
		return err
	}
	rt.LastRunDate, rt.NextRunDate, rt.IsActive = update.LastRunDate, update.NextRunDate, update.IsActive
	return nil
}

// --- goals and cards ---

func (f *fakeStore) FindGoalByID(_ context.Context, goalID string) (*domain.SavingsGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[goalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *goal
	return &cp, nil
}

func (f *fakeStore) ListGoalsVisibleToUser(_ context.Context, userID string) ([]domain.SavingsGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SavingsGoal
	for _, goal := range f.goals {
		visible := goal.UserID == userID
		if !visible && goal.HouseholdID != nil {
			_, visible = f.members[*goal.HouseholdID][userID]
		}
		if visible {
			out = append(out, *goal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) SaveContribution(_ context.Context, posting domain.ContributionPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := posting.Contribution
	if err := f.failures[c.GoalID]; err != nil {
		return err
	}
	goal, ok := f.goals[c.GoalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if posting.LedgerPosting != nil {
		if err := f.applyPostingLocked(*posting.LedgerPosting); err != nil {
			return err
		}
	}
	if posting.CardTransaction != nil {
		cardTxn := *posting.CardTransaction
		f.cardTxns[cardTxn.CardTransactionID] = &cardTxn
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(c.Amount)
	f.contributions = append(f.contributions, c)
	return nil
}

func (f *fakeStore) FindCardByID(_ context.Context, cardID string) (*domain.CreditCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[cardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *card
	return &cp, nil
}

func (f *fakeStore) FindCardTransactionByID(_ context.Context, cardTransactionID string) (*domain.CreditCardTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cardTxn, ok := f.cardTxns[cardTransactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *cardTxn
	return &cp, nil
}

// --- households ---

func (f *fakeStore) ListHouseholdsByUserID(_ context.Context, userID string) ([]domain.Household, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Household
	for householdID, members := range f.members {
		if _, ok := members[userID]; ok {
			out = append(out, f.households[householdID])
		}
	}
	return out, nil
}

func (f *fakeStore) FindMembership(_ context.Context, householdID, userID string) (*domain.HouseholdMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.members[householdID][userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.HouseholdMembership{HouseholdID: householdID, UserID: userID, Role: role}, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.LedgerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(t domain.LedgerEventType) []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.LedgerEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// fixedClock returns a settable clock for WithClock.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func strPtr(s string) *string { return &s }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
