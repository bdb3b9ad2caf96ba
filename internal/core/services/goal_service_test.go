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

type GoalServiceTestSuite struct {
	suite.Suite
	store     *fakeStore
	publisher *recordingPublisher
	service   portssvc.GoalSvcFacade
	ctx       context.Context
	now       time.Time
}

func (suite *GoalServiceTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.publisher = &recordingPublisher{}
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	suite.service = services.NewGoalService(suite.store, suite.store, suite.store,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithEventPublisher(suite.publisher),
		services.WithHouseholdAuthorizer(services.NewHouseholdService(suite.store)),
	)

	suite.store.addAccount("acc-1", "user-1", "Checking", 500)
	suite.store.cards["card-1"] = &domain.CreditCard{CardID: "card-1", UserID: "user-1", Name: "Visa", IsActive: true}
	suite.store.goals["goal-1"] = &domain.SavingsGoal{GoalID: "goal-1", UserID: "user-1", Name: "Holiday", TargetAmount: dec(1000), CurrentAmount: dec(100)}
	suite.store.goals["goal-shared"] = &domain.SavingsGoal{GoalID: "goal-shared", UserID: "user-2", HouseholdID: strPtr("hh-1"), Name: "Car", TargetAmount: dec(5000)}
	suite.store.addMember("hh-1", "user-1", domain.HouseholdMember)
	suite.store.addMember("hh-1", "user-2", domain.HouseholdAdmin)
}

func (suite *GoalServiceTestSuite) goalAmount(goalID string) string {
	return suite.store.goals[goalID].CurrentAmount.String()
}

func (suite *GoalServiceTestSuite) TestContribution_FromAccountPostsLinkedExpense() {
	contribution, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount:        dec(50),
		PaymentMethod: domain.PayFromAccount,
		SourceID:      strPtr("acc-1"),
		Note:          "May",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(contribution.TransactionID)
	suite.Nil(contribution.CardTransactionID)
	suite.Equal(suite.now, contribution.Date)

	txn := suite.store.transactions[*contribution.TransactionID]
	suite.Equal(domain.Expense, txn.Type)
	suite.Equal("goal-1", *txn.GoalID)
	suite.Equal("acc-1", txn.AccountID)
	suite.True(txn.Amount.Equal(dec(50)))

	suite.True(suite.store.balance("acc-1").Equal(dec(450)))
	suite.Equal("150", suite.goalAmount("goal-1"))
	suite.Empty(suite.store.cardTxns)
	suite.Len(suite.publisher.ofType(domain.EventGoalContribution), 1)
	suite.Len(suite.publisher.ofType(domain.EventTransactionPosted), 1)
}

func (suite *GoalServiceTestSuite) TestContribution_CreditCardCreatesPendingCharge() {
	contribution, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount:        dec(75),
		PaymentMethod: domain.PayWithCreditCard,
		SourceID:      strPtr("card-1"),
	})

	suite.Require().NoError(err)
	suite.Nil(contribution.TransactionID)
	suite.Require().NotNil(contribution.CardTransactionID)

	charge := suite.store.cardTxns[*contribution.CardTransactionID]
	suite.Require().NotNil(charge)
	suite.Equal(domain.CardPending, charge.Status)
	suite.Equal("card-1", charge.CardID)
	suite.Equal("goal-1", *charge.GoalID)

	suite.Empty(suite.store.transactions)
	suite.True(suite.store.balance("acc-1").Equal(dec(500)))
	suite.Equal("175", suite.goalAmount("goal-1"))
}

func (suite *GoalServiceTestSuite) TestContribution_CashOnlyMovesGoal() {
	date := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	contribution, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount:        dec(20),
		Date:          &date,
		PaymentMethod: domain.PayInCash,
		SourceID:      strPtr("acc-1"),
	})

	suite.Require().NoError(err)
	suite.Nil(contribution.TransactionID)
	suite.Nil(contribution.CardTransactionID)
	suite.Nil(contribution.SourceID)
	suite.Equal(date, contribution.Date)
	suite.Empty(suite.store.transactions)
	suite.Empty(suite.store.cardTxns)
	suite.True(suite.store.balance("acc-1").Equal(dec(500)))
	suite.Equal("120", suite.goalAmount("goal-1"))
	suite.Len(suite.store.contributions, 1)
}

func (suite *GoalServiceTestSuite) TestContribution_HouseholdMemberCanContribute() {
	_, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-shared", dto.CreateContributionRequest{
		Amount:        dec(10),
		PaymentMethod: domain.PayInCash,
	})
	suite.Require().NoError(err)
	suite.Equal("10", suite.goalAmount("goal-shared"))

	_, err = suite.service.AddContribution(suite.ctx, "user-3", "goal-shared", dto.CreateContributionRequest{
		Amount:        dec(10),
		PaymentMethod: domain.PayInCash,
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal("10", suite.goalAmount("goal-shared"))
}

func (suite *GoalServiceTestSuite) TestContribution_Validation() {
	cases := map[string]struct {
		goalID string
		req    dto.CreateContributionRequest
		want   error
	}{
		"missing account source": {"goal-1", dto.CreateContributionRequest{Amount: dec(1), PaymentMethod: domain.PayFromAccount}, apperrors.ErrValidation},
		"missing card source":    {"goal-1", dto.CreateContributionRequest{Amount: dec(1), PaymentMethod: domain.PayWithCreditCard}, apperrors.ErrValidation},
		"zero amount":            {"goal-1", dto.CreateContributionRequest{Amount: dec(0), PaymentMethod: domain.PayInCash}, apperrors.ErrValidation},
		"unknown method":         {"goal-1", dto.CreateContributionRequest{Amount: dec(1), PaymentMethod: "crypto"}, apperrors.ErrValidation},
		"unknown goal":           {"goal-x", dto.CreateContributionRequest{Amount: dec(1), PaymentMethod: domain.PayInCash}, apperrors.ErrNotFound},
		"unknown account":        {"goal-1", dto.CreateContributionRequest{Amount: dec(1), PaymentMethod: domain.PayFromAccount, SourceID: strPtr("acc-x")}, apperrors.ErrNotFound},
	}

	for name, tc := range cases {
		suite.Run(name, func() {
			_, err := suite.service.AddContribution(suite.ctx, "user-1", tc.goalID, tc.req)
			suite.ErrorIs(err, tc.want)
		})
	}
	suite.Empty(suite.store.contributions)
	suite.Equal("100", suite.goalAmount("goal-1"))
}

func (suite *GoalServiceTestSuite) TestContribution_SourceMustBeVisible() {
	suite.store.addAccount("acc-foreign", "user-9", "Foreign", 100)
	suite.store.cards["card-foreign"] = &domain.CreditCard{CardID: "card-foreign", UserID: "user-9", IsActive: true}

	_, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount: dec(5), PaymentMethod: domain.PayFromAccount, SourceID: strPtr("acc-foreign"),
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount: dec(5), PaymentMethod: domain.PayWithCreditCard, SourceID: strPtr("card-foreign"),
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.True(suite.store.balance("acc-foreign").Equal(dec(100)))
}

func (suite *GoalServiceTestSuite) TestContribution_FailedWriteChangesNothing() {
	suite.store.failures["goal-1"] = errors.New("tx aborted")

	_, err := suite.service.AddContribution(suite.ctx, "user-1", "goal-1", dto.CreateContributionRequest{
		Amount: dec(50), PaymentMethod: domain.PayFromAccount, SourceID: strPtr("acc-1"),
	})

	suite.Require().Error(err)
	suite.True(suite.store.balance("acc-1").Equal(dec(500)))
	suite.Equal("100", suite.goalAmount("goal-1"))
	suite.Empty(suite.store.transactions)
	suite.Empty(suite.publisher.events)
}

func (suite *GoalServiceTestSuite) TestListGoals() {
	goals, err := suite.service.ListGoals(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Len(goals, 2)

	goals, err = suite.service.ListGoals(suite.ctx, "user-3")
	suite.Require().NoError(err)
	suite.NotNil(goals)
	suite.Empty(goals)
}

func TestGoalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GoalServiceTestSuite))
}
