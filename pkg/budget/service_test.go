package budget

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

func TestServiceImpl_CreatePlan(t *testing.T) {
	t.Run("should create a plan with items", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreatePlan(ctx, Plan{
			Year: 2025,
			Items: []Item{
				{CategoryId: 1, MonthlyAmount: decimal.NewFromInt(500)},
				{CategoryId: 2, MonthlyAmount: decimal.NewFromInt(150)},
			},
		})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Len(t, created.Items, 2)
	})

	t.Run("should reject a second plan for the same year", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreatePlan(ctx, Plan{Year: 2025})
		require.NoError(t, err)

		// when
		_, err = service.CreatePlan(ctx, Plan{Year: 2025})

		// then
		assert.ErrorIs(t, err, ErrPlanExists)
	})

	t.Run("should reject an item without category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreatePlan(ctx, Plan{
			Year:  2025,
			Items: []Item{{MonthlyAmount: decimal.NewFromInt(100)}},
		})

		// then
		assert.ErrorIs(t, err, ErrInvalidPlan)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreatePlan(context.Background(), Plan{Year: 2025})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_SetItem(t *testing.T) {
	t.Run("should replace the planned amount for an existing category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreatePlan(ctx, Plan{
			Year:  2025,
			Items: []Item{{CategoryId: 1, MonthlyAmount: decimal.NewFromInt(500)}},
		})
		require.NoError(t, err)

		// when
		_, err = service.SetItem(ctx, Item{PlanId: created.Id, CategoryId: 1, MonthlyAmount: decimal.NewFromInt(650)})
		require.NoError(t, err)

		// then
		plan, err := service.GetPlanByYear(ctx, 2025)
		assert.NoError(t, err)
		require.Len(t, plan.Items, 1)
		assert.True(t, decimal.NewFromInt(650).Equal(plan.Items[0].MonthlyAmount))
	})

	t.Run("should add an item for a new category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreatePlan(ctx, Plan{Year: 2025})
		require.NoError(t, err)

		// when
		item, err := service.SetItem(ctx, Item{PlanId: created.Id, CategoryId: 3, MonthlyAmount: decimal.NewFromInt(80)})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, item.Id)

		plan, err := service.GetPlanByYear(ctx, 2025)
		assert.NoError(t, err)
		assert.Len(t, plan.Items, 1)
	})
}
