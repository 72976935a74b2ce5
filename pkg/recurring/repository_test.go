package recurring

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/budgeteer/budgeteer/internal/test_utils"
	"github.com/budgeteer/budgeteer/pkg/account"
	"github.com/budgeteer/budgeteer/pkg/category"
	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	db             *sql.DB
	testUserId     int
	testCategoryId int
	testAccountId  int
)

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	seedReferencedRows()
	code := m.Run()
	// os.Exit skips deferred calls, so the container is terminated explicitly.
	cleanup()
	os.Exit(code)
}

func seedReferencedRows() {
	ctx := context.Background()
	var err error
	testUserId, err = user.NewUserRepo(db).CreateUser(ctx, user.User{
		Uid:         uuid.NewString(),
		Username:    "test_user",
		DisplayName: "Test User",
	})
	if err != nil {
		panic(err)
	}
	testCategoryId, err = category.NewRepository(db).Store(ctx, testUserId, category.Category{
		Name:  "Housing",
		Kind:  category.KindExpense,
		Color: "#FF5733",
	})
	if err != nil {
		panic(err)
	}
	testAccountId, err = account.NewRepository(db).Store(ctx, testUserId, account.Account{
		Name:           "Checking",
		Kind:           account.KindChecking,
		OpeningBalance: decimal.NewFromInt(1000),
	})
	if err != nil {
		panic(err)
	}
}

func setupTestRepository(t *testing.T) (context.Context, Repository) {
	ctx := context.Background()
	repository := NewRepository(db)
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM recurring_rules")
		require.NoError(t, err)
	})
	return ctx, repository
}

func monthlyRentRule() Rule {
	return Rule{
		Uid:        uuid.NewString(),
		Name:       "Rent",
		Type:       transaction.TypeExpense,
		Amount:     decimal.NewFromInt(1200),
		CategoryId: testCategoryId,
		AccountId:  testAccountId,
		Frequency:  FrequencyMonthly,
		StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DayOfMonth: 1,
		IsActive:   true,
	}
}

func TestRepositoryImpl_StoreAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	rule := monthlyRentRule()
	rule.EndDate = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	// when
	id, err := repo.Store(ctx, testUserId, rule)
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, testUserId, id)
	require.NoError(t, err)
	assert.Equal(t, rule.Uid, stored.Uid)
	assert.Equal(t, "Rent", stored.Name)
	assert.Equal(t, transaction.TypeExpense, stored.Type)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, FrequencyMonthly, stored.Frequency)
	assert.Equal(t, "2025-01-01", stored.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-12-31", stored.EndDate.Format("2006-01-02"))
	assert.Equal(t, 1, stored.DayOfMonth)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepositoryImpl_Get_ShouldNotReturnOtherUsersRule(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	id, err := repo.Store(ctx, testUserId, monthlyRentRule())
	require.NoError(t, err)

	// when
	_, err = repo.Get(ctx, testUserId+1, id)

	// then
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRepositoryImpl_Store_ShouldKeepOpenEndedRuleNullable(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	rule := monthlyRentRule()
	rule.DayOfMonth = 0

	// when
	id, err := repo.Store(ctx, testUserId, rule)
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, testUserId, id)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.IsZero())
	assert.Equal(t, 0, stored.DayOfMonth)
}

func TestRepositoryImpl_FindActive(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	active := monthlyRentRule()
	paused := monthlyRentRule()
	paused.Uid = uuid.NewString()
	paused.Name = "Gym"
	paused.IsActive = false
	_, err := repo.Store(ctx, testUserId, active)
	require.NoError(t, err)
	_, err = repo.Store(ctx, testUserId, paused)
	require.NoError(t, err)

	// when
	rules, err := repo.FindActive(ctx, testUserId)

	// then
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Rent", rules[0].Name)
}

func TestRepositoryImpl_Update(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	rule := monthlyRentRule()
	id, err := repo.Store(ctx, testUserId, rule)
	require.NoError(t, err)

	rule.Id = id
	rule.Amount = decimal.NewFromInt(1250)
	rule.DayOfMonth = 5
	rule.IsActive = false

	// when
	updated, err := repo.Update(ctx, testUserId, rule)

	// then
	require.NoError(t, err)
	assert.True(t, updated)
	stored, err := repo.Get(ctx, testUserId, id)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, 5, stored.DayOfMonth)
	assert.False(t, stored.IsActive)
}

func TestRepositoryImpl_Delete(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	id, err := repo.Store(ctx, testUserId, monthlyRentRule())
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, testUserId, id)

	// then
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.Get(ctx, testUserId, id)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}
