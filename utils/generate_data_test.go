package utils

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
)

func TestGenerateTestDataKeepsBalancesConsistent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	svc := ledger.New(db, nil, nil)
	users, err := GenerateTestData(ctx, db, svc, SeedOptions{
		Users:               2,
		CategoriesPerUser:   3,
		TransactionsPerUser: 15,
		BudgetsPerUser:      2,
		GoalsPerUser:        1,
		Seed:                42,
	})
	require.NoError(t, err)
	require.Len(t, users, 2)

	for _, u := range users {
		stored, err := db.GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.NoError(t, auth.CheckPassword(stored.PasswordHash, u.Password))

		transactions, err := db.GetTransactionsByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, transactions)

		sum := decimal.Zero
		for _, tr := range transactions {
			sum = sum.Add(tr.Delta())
		}
		account, err := db.GetAccountByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(sum), "balance %s, transactions sum %s", account.Balance, sum)
		assert.False(t, account.Balance.IsNegative())

		budgets, err := db.GetBudgetsByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, budgets, 2)

		goals, err := db.GetAllGoals(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, goals, 1)

		categories, err := db.GetCategoriesByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, categories, 3)
	}
}

func TestGenerateTestDataWithNothingToDo(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	users, err := GenerateTestData(ctx, db, ledger.New(db, nil, nil), SeedOptions{})
	require.NoError(t, err)
	assert.Empty(t, users)
}
