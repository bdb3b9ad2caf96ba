package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/core/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/stretchr/testify/suite"
)

type RecurringIncomeServiceTestSuite struct {
	suite.Suite
	store   *fakeStore
	clock   *fixedClock
	service portssvc.RecurringIncomeSvcFacade
	ctx     context.Context
}

func (suite *RecurringIncomeServiceTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.clock = &fixedClock{now: time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)}
	suite.ctx = context.Background()
	suite.service = services.NewRecurringIncomeService(suite.store, suite.store, services.WithClock(suite.clock.Now))
	suite.store.addAccount("acc-1", "user-1", "Checking", 0)
}

func (suite *RecurringIncomeServiceTestSuite) addIncome(id string, amount int64, day int, next time.Time) *domain.RecurringIncome {
	ri := &domain.RecurringIncome{
		RecurringIncomeID: id,
		UserID:            "user-1",
		AccountID:         "acc-1",
		Amount:            dec(amount),
		Description:       id,
		DayOfMonth:        day,
		IsActive:          true,
		NextRunDate:       next,
	}
	suite.store.recurringIncomes[id] = ri
	return ri
}

func (suite *RecurringIncomeServiceTestSuite) incomePostings(id string) []domain.Transaction {
	return suite.store.transactionsFor(func(t domain.Transaction) bool {
		return t.RecurringIncomeID != nil && *t.RecurringIncomeID == id
	})
}

func (suite *RecurringIncomeServiceTestSuite) TestProcess_PostsIncomeAndAdvances() {
	ri := suite.addIncome("ri-salary", 2500, 1, march(1))
	suite.addIncome("ri-future", 10, 28, march(28))

	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(1, report.Processed)
	suite.Equal(domain.RunSuccess, report.Results[0].Status)
	suite.Equal(domain.ActionPosted, report.Results[0].Action)

	postings := suite.incomePostings("ri-salary")
	suite.Require().Len(postings, 1)
	suite.Equal(domain.Income, postings[0].Type)
	suite.Nil(postings[0].RecurringPeriod)
	suite.True(suite.store.balance("acc-1").Equal(dec(2500)))
	suite.Equal(april(1), ri.NextRunDate)
	suite.Equal(suite.clock.now, *ri.LastRunDate)
}

func (suite *RecurringIncomeServiceTestSuite) TestProcess_HasNoMonthlyDuplicateCheck() {
	suite.addIncome("ri-bonus", 100, 2, march(2))
	suite.store.addTransaction(domain.Transaction{
		TransactionID:     "manual",
		AccountID:         "acc-1",
		Type:              domain.Income,
		Amount:            dec(100),
		Date:              march(2),
		RecurringIncomeID: strPtr("ri-bonus"),
	})

	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(domain.ActionPosted, report.Results[0].Action)
	suite.Len(suite.incomePostings("ri-bonus"), 2)
}

func (suite *RecurringIncomeServiceTestSuite) TestProcess_ReportsScheduleConflict() {
	suite.addIncome("ri-1", 100, 2, march(2))
	// Another run moved the pointer after this one selected the item.
	suite.store.failures["ri-1"] = apperrors.ErrConflict

	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(domain.RunError, report.Results[0].Status)
	suite.Contains(report.Results[0].Error, apperrors.ErrConflict.Error())
	suite.Empty(suite.incomePostings("ri-1"))
	suite.True(suite.store.balance("acc-1").IsZero())
}

func (suite *RecurringIncomeServiceTestSuite) TestProcess_SecondRunFindsNothingDue() {
	suite.addIncome("ri-1", 100, 2, march(2))

	_, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)
	suite.Require().NoError(err)
	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)
	suite.Require().NoError(err)

	suite.Zero(report.Processed)
	suite.Len(suite.incomePostings("ri-1"), 1)
}

func (suite *RecurringIncomeServiceTestSuite) TestCreate_Backfill() {
	ri, backfill, err := suite.service.CreateRecurringIncome(suite.ctx, "user-1", dto.CreateRecurringIncomeRequest{
		AccountID:   "acc-1",
		Amount:      dec(300),
		Description: "Rent from tenant",
		DayOfMonth:  3,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(backfill)
	suite.Equal(march(3), backfill.Date)
	suite.Equal(april(3), ri.NextRunDate)
	suite.Equal(march(3), *ri.LastRunDate)
	suite.True(suite.store.balance("acc-1").Equal(dec(300)))

	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(report.Processed)
}

func (suite *RecurringIncomeServiceTestSuite) TestCreate_FailedBackfillIsAtomic() {
	suite.store.failures["acc-1"] = errors.New("account row locked")

	ri, backfill, err := suite.service.CreateRecurringIncome(suite.ctx, "user-1", dto.CreateRecurringIncomeRequest{
		AccountID:   "acc-1",
		Amount:      dec(300),
		Description: "Rent from tenant",
		DayOfMonth:  3,
	})

	suite.Require().Error(err)
	suite.Nil(ri)
	suite.Nil(backfill)
	suite.Empty(suite.store.recurringIncomes)
	suite.Empty(suite.store.transactions)
	suite.True(suite.store.balance("acc-1").IsZero())
}

func (suite *RecurringIncomeServiceTestSuite) TestCreate_ValidatesAndChecksAccess() {
	_, _, err := suite.service.CreateRecurringIncome(suite.ctx, "user-1", dto.CreateRecurringIncomeRequest{
		AccountID: "acc-1", Amount: dec(1), Description: "x", DayOfMonth: 0,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.CreateRecurringIncome(suite.ctx, "user-2", dto.CreateRecurringIncomeRequest{
		AccountID: "acc-1", Amount: dec(1), Description: "x", DayOfMonth: 25,
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, _, err = suite.service.CreateRecurringIncome(suite.ctx, "user-1", dto.CreateRecurringIncomeRequest{
		AccountID: "acc-missing", Amount: dec(1), Description: "x", DayOfMonth: 25,
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecurringIncomeServiceTestSuite) TestDeactivate() {
	ri := suite.addIncome("ri-1", 100, 2, april(2))

	suite.Require().NoError(suite.service.DeactivateRecurringIncome(suite.ctx, "user-1", "ri-1"))
	suite.False(ri.IsActive)

	suite.clock.now = april(10)
	report, err := suite.service.ProcessDueRecurringIncomes(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(report.Processed)
}

func TestRecurringIncomeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringIncomeServiceTestSuite))
}
