package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/budgeteer/budgeteer/internal/utils"
	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var ruleRepoStub = NewRepositoryStub()
var ledgerStub = transaction.NewStubRepository()
var clock = &utils.MockClock{}

var service Service

func setup(t *testing.T) func() {
	clock.SetNow(time.Date(2025, time.August, 14, 10, 30, 0, 0, time.UTC))
	service = NewService(ruleRepoStub, ledgerStub, clock)
	return func() {
		t.Log("Teardown after test")
		ruleRepoStub.Cleanup()
		ledgerStub.Cleanup()
	}
}

func rentRule() Rule {
	return Rule{
		Name:       "Rent",
		Type:       transaction.TypeExpense,
		Amount:     decimal.NewFromInt(1200),
		CategoryId: 1,
		AccountId:  1,
		Frequency:  FrequencyMonthly,
		StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DayOfMonth: 1,
		IsActive:   true,
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a rule and assign a uid", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, rentRule())

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
	})

	t.Run("should reject rule with end date before start date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rule := rentRule()
		rule.EndDate = rule.StartDate.AddDate(0, 0, -1)

		// when
		_, err := service.Create(ctx, rule)

		// then
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("should reject day of month on a weekly rule", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rule := rentRule()
		rule.Frequency = FrequencyWeekly
		rule.DayOfMonth = 15

		// when
		_, err := service.Create(ctx, rule)

		// then
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), rentRule())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GenerateForPeriod(t *testing.T) {
	t.Run("should materialize one entry per due rule", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, rentRule())
		require.NoError(t, err)

		// when
		result, err := service.GenerateForPeriod(ctx, 2025, time.March)

		// then
		assert.NoError(t, err)
		assert.Equal(t, GenerationResult{Generated: 1}, result)

		entries, err := ledgerStub.FindMaterialized(ctx, 1, 2025, time.March)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, created.Uid, entries[0].RuleUid)
		assert.Equal(t, "Rent", entries[0].Description)
		assert.Equal(t, transaction.TypeExpense, entries[0].Type)
		assert.True(t, decimal.NewFromInt(1200).Equal(entries[0].Amount))
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), entries[0].Date)
	})

	t.Run("should be idempotent across repeated runs", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, rentRule())
		require.NoError(t, err)

		// when
		first, err := service.GenerateForPeriod(ctx, 2025, time.March)
		require.NoError(t, err)
		second, err := service.GenerateForPeriod(ctx, 2025, time.March)
		require.NoError(t, err)

		// then
		assert.Equal(t, GenerationResult{Generated: 1}, first)
		assert.Equal(t, GenerationResult{AlreadyMaterialized: 1}, second)
		assert.Equal(t, 1, second.Skipped())

		entries, err := ledgerStub.FindMaterialized(ctx, 1, 2025, time.March)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("should count rules not due in the period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, rentRule())
		require.NoError(t, err)

		insurance := rentRule()
		insurance.Name = "Car insurance"
		insurance.Frequency = FrequencyYearly
		insurance.DayOfMonth = 0
		insurance.StartDate = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		_, err = service.Create(ctx, insurance)
		require.NoError(t, err)

		// when
		result, err := service.GenerateForPeriod(ctx, 2025, time.March)

		// then
		assert.NoError(t, err)
		assert.Equal(t, GenerationResult{Generated: 1, NotDue: 1}, result)
	})

	t.Run("should generate separate entries for separate periods", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, rentRule())
		require.NoError(t, err)

		// when
		_, err = service.GenerateForPeriod(ctx, 2025, time.March)
		require.NoError(t, err)
		result, err := service.GenerateForPeriod(ctx, 2025, time.April)

		// then
		assert.NoError(t, err)
		assert.Equal(t, GenerationResult{Generated: 1}, result)
	})

	t.Run("should skip inactive rules entirely", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rule := rentRule()
		created, err := service.Create(ctx, rule)
		require.NoError(t, err)
		created.IsActive = false
		_, err = service.Update(ctx, created)
		require.NoError(t, err)

		// when
		result, err := service.GenerateForPeriod(ctx, 2025, time.March)

		// then
		assert.NoError(t, err)
		assert.Equal(t, GenerationResult{}, result)
	})

	t.Run("should reject an out of range month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GenerateForPeriod(ctx, 2025, time.Month(13))

		// then
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GenerateForPeriod(context.Background(), 2025, time.March)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_UpcomingPayments(t *testing.T) {
	t.Run("should list occurrences within the horizon soonest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given today is 2025-08-14
		rent := rentRule() // due on the 1st, next on September 1
		_, err := service.Create(ctx, rent)
		require.NoError(t, err)

		gym := rentRule()
		gym.Name = "Gym"
		gym.DayOfMonth = 20 // due August 20
		_, err = service.Create(ctx, gym)
		require.NoError(t, err)

		// when
		payments, err := service.UpcomingPayments(ctx, 30)

		// then
		assert.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "Gym", payments[0].Rule.Name)
		assert.Equal(t, time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), payments[0].DueDate)
		assert.Equal(t, "Rent", payments[1].Rule.Name)
		assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), payments[1].DueDate)
	})

	t.Run("should exclude occurrences past the horizon", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given today is 2025-08-14, next rent occurrence is September 1
		_, err := service.Create(ctx, rentRule())
		require.NoError(t, err)

		// when
		payments, err := service.UpcomingPayments(ctx, 7)

		// then
		assert.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("should exclude lapsed rules", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		rule := rentRule()
		rule.EndDate = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
		_, err := service.Create(ctx, rule)
		require.NoError(t, err)

		// when
		payments, err := service.UpcomingPayments(ctx, 30)

		// then
		assert.NoError(t, err)
		assert.Empty(t, payments)
	})
}
