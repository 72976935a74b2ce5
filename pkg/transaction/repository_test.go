package transaction

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/budgeteer/budgeteer/internal/test_utils"
	"github.com/budgeteer/budgeteer/pkg/account"
	"github.com/budgeteer/budgeteer/pkg/category"
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
	testRuleUid    string
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
	// The recurring package depends on this one, so the rule referenced by
	// generated entries is seeded with plain SQL instead of its repository.
	testRuleUid = uuid.NewString()
	_, err = db.Exec(`INSERT INTO recurring_rules (uid, name, type, amount, category_id, account_id, frequency, start_date, is_active, user_id)
				VALUES ($1, 'Rent', 'expense', '1200', $2, $3, 'monthly', '2025-01-01', TRUE, $4)`,
		testRuleUid, testCategoryId, testAccountId, testUserId)
	if err != nil {
		panic(err)
	}
}

func setupTestRepository(t *testing.T) (context.Context, Repository) {
	ctx := context.Background()
	repository := NewRepository(db)
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM transactions")
		require.NoError(t, err)
	})
	return ctx, repository
}

func groceriesEntry(date time.Time) Transaction {
	return Transaction{
		Uid:         uuid.NewString(),
		Type:        TypeExpense,
		Amount:      decimal.NewFromInt(85),
		CategoryId:  testCategoryId,
		AccountId:   testAccountId,
		Description: "Groceries",
		Date:        date,
	}
}

func generatedEntry(year int, month time.Month) Transaction {
	return Transaction{
		Uid:         uuid.NewString(),
		Type:        TypeExpense,
		Amount:      decimal.NewFromInt(1200),
		CategoryId:  testCategoryId,
		AccountId:   testAccountId,
		Description: "Rent",
		Date:        time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		RuleUid:     testRuleUid,
		PeriodYear:  year,
		PeriodMonth: month,
	}
}

func TestRepositoryImpl_StoreAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	entry := groceriesEntry(time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC))

	// when
	id, err := repo.Store(ctx, testUserId, entry)
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, testUserId, id)
	require.NoError(t, err)
	assert.Equal(t, entry.Uid, stored.Uid)
	assert.Equal(t, TypeExpense, stored.Type)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, "Groceries", stored.Description)
	assert.Equal(t, "2025-08-14", stored.Date.Format("2006-01-02"))
	assert.False(t, stored.FromRule())
}

func TestRepositoryImpl_Find_ShouldFilterByDateRange(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	_, err := repo.Store(ctx, testUserId, groceriesEntry(time.Date(2025, time.July, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = repo.Store(ctx, testUserId, groceriesEntry(time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	// when
	entries, err := repo.Find(ctx, testUserId, Filter{
		From: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
	})

	// then
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-08-14", entries[0].Date.Format("2006-01-02"))
}

func TestRepositoryImpl_InsertGenerated_ShouldDropDuplicatePeriods(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	first := generatedEntry(2025, time.March)

	// when
	inserted, err := repo.InsertGenerated(ctx, testUserId, []Transaction{first})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// then inserting the same period again is a no-op even with a fresh uid
	again := generatedEntry(2025, time.March)
	inserted, err = repo.InsertGenerated(ctx, testUserId, []Transaction{again})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	entries, err := repo.FindMaterialized(ctx, testUserId, 2025, time.March)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.Uid, entries[0].Uid)
}

func TestRepositoryImpl_InsertGenerated_ShouldInsertOnlyNewPeriods(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	_, err := repo.InsertGenerated(ctx, testUserId, []Transaction{generatedEntry(2025, time.March)})
	require.NoError(t, err)

	// when
	inserted, err := repo.InsertGenerated(ctx, testUserId, []Transaction{
		generatedEntry(2025, time.March),
		generatedEntry(2025, time.April),
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestRepositoryImpl_FindMaterialized_ShouldIgnoreManualEntries(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	_, err := repo.Store(ctx, testUserId, groceriesEntry(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = repo.InsertGenerated(ctx, testUserId, []Transaction{generatedEntry(2025, time.March)})
	require.NoError(t, err)

	// when
	entries, err := repo.FindMaterialized(ctx, testUserId, 2025, time.March)

	// then
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].FromRule())
	assert.Equal(t, testRuleUid, entries[0].RuleUid)
}
