package goal

import (
	"context"
	"testing"

	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var repoStub = NewRepositoryStub()

var service Service

func setup(t *testing.T) func() {
	service = NewService(repoStub)
	return func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func vacationGoal() Goal {
	return Goal{
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(2000),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a goal successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, vacationGoal())

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
	})

	t.Run("should reject a goal with zero target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		goal := vacationGoal()
		goal.TargetAmount = decimal.Zero

		// when
		_, err := service.Create(ctx, goal)

		// then
		assert.ErrorIs(t, err, ErrInvalidGoal)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), vacationGoal())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_Contribute(t *testing.T) {
	t.Run("should accumulate contributions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, vacationGoal())
		require.NoError(t, err)

		// when
		_, err = service.Contribute(ctx, created.Id, decimal.NewFromInt(300))
		require.NoError(t, err)
		goal, err := service.Contribute(ctx, created.Id, decimal.NewFromInt(200))

		// then
		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500).Equal(goal.SavedAmount))
		assert.True(t, decimal.NewFromFloat(0.25).Equal(goal.Progress()))
		assert.False(t, goal.IsAchieved())
	})

	t.Run("should mark the goal achieved once target is reached", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, vacationGoal())
		require.NoError(t, err)

		// when
		goal, err := service.Contribute(ctx, created.Id, decimal.NewFromInt(2500))

		// then
		assert.NoError(t, err)
		assert.True(t, goal.IsAchieved())
		assert.True(t, decimal.NewFromInt(1).Equal(goal.Progress()))
	})

	t.Run("should reject a non-positive contribution", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, vacationGoal())
		require.NoError(t, err)

		// when
		_, err = service.Contribute(ctx, created.Id, decimal.Zero)

		// then
		assert.ErrorIs(t, err, ErrInvalidGoal)
	})

	t.Run("should return not found for an unknown goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Contribute(ctx, 42, decimal.NewFromInt(100))

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should not overwrite saved amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, vacationGoal())
		require.NoError(t, err)
		_, err = service.Contribute(ctx, created.Id, decimal.NewFromInt(300))
		require.NoError(t, err)

		// when
		created.Name = "Big vacation"
		created.SavedAmount = decimal.NewFromInt(9999)
		ok, err := service.Update(ctx, created)
		require.NoError(t, err)
		require.True(t, ok)

		// then
		goal, err := service.Get(ctx, created.Id)
		assert.NoError(t, err)
		assert.Equal(t, "Big vacation", goal.Name)
		assert.True(t, decimal.NewFromInt(300).Equal(goal.SavedAmount))
	})
}
