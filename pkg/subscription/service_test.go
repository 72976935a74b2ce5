package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/budgeteer/budgeteer/internal/utils"
	"github.com/budgeteer/budgeteer/pkg/recurring"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var repoStub = NewRepositoryStub()
var clock = &utils.MockClock{}

var service Service

func setup(t *testing.T) func() {
	clock.SetNow(time.Date(2025, time.August, 14, 9, 0, 0, 0, time.UTC))
	service = NewService(repoStub, clock)
	return func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func streaming() Subscription {
	return Subscription{
		Provider:  "Streamify",
		Plan:      "Family",
		Amount:    decimal.NewFromFloat(15.99),
		Frequency: recurring.FrequencyMonthly,
		StartDate: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a subscription and assign a uid", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, streaming())

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
	})

	t.Run("should reject a subscription without provider", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		sub := streaming()
		sub.Provider = ""

		// when
		_, err := service.Create(ctx, sub)

		// then
		assert.ErrorIs(t, err, ErrInvalidSubscription)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), streaming())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GetAll(t *testing.T) {
	t.Run("should decorate subscriptions with next billing date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given today is 2025-08-14 and billing anchors on the 20th
		_, err := service.Create(ctx, streaming())
		require.NoError(t, err)

		// when
		views, err := service.GetAll(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), views[0].NextBilling)
	})

	t.Run("should leave next billing empty for inactive subscriptions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		sub := streaming()
		created, err := service.Create(ctx, sub)
		require.NoError(t, err)
		created.IsActive = false
		_, err = service.Update(ctx, created)
		require.NoError(t, err)

		// when
		views, err := service.GetAll(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, views, 1)
		assert.True(t, views[0].NextBilling.IsZero())
	})
}
