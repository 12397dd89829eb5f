package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSnapshot(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	account := mustAccount(t, store, "Checking")
	food, err := store.CreateCategory(ctx, "Food", "", "")
	require.NoError(t, err)

	_, err = store.SaveTransactions(ctx, []model.Transaction{
		txn(account.ID, food.ID, model.TransactionTypeExpense, "100", day(2024, time.April, 30)),
		txn(account.ID, food.ID, model.TransactionTypeExpense, "200", day(2024, time.May, 10)),
		txn(account.ID, "", model.TransactionTypeIncome, "3000", day(2024, time.June, 1)),
		txn(account.ID, food.ID, model.TransactionTypeExpense, "250", day(2024, time.June, 12)),
		txn(account.ID, food.ID, model.TransactionTypeExpense, "75", day(2024, time.July, 1)),
	})
	require.NoError(t, err)

	require.NoError(t, store.SetBudget(ctx, &model.Budget{CategoryID: food.ID, Amount: decimal.NewFromInt(500), Month: 6, Year: 2024}))
	require.NoError(t, store.SetBudget(ctx, &model.Budget{CategoryID: food.ID, Amount: decimal.NewFromInt(450), Month: 5, Year: 2024}))
	require.NoError(t, store.CreateSavingsGoal(ctx, &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(2000)}))
	require.NoError(t, store.CreateRecurringTransaction(ctx, &model.RecurringTransaction{
		AccountID: account.ID, Amount: decimal.NewFromInt(15), Frequency: model.FrequencyMonthly, VendorName: "Netflix",
	}))

	period, err := model.MonthPeriod(6, 2024)
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx, period)
	require.NoError(t, err)

	assert.Equal(t, period, snap.Period)
	require.Len(t, snap.Current, 2)
	require.Len(t, snap.Previous, 1)
	assert.Equal(t, "200", snap.Previous[0].Amount.String())
	require.Len(t, snap.Budgets, 1)
	assert.Equal(t, "500", snap.Budgets[0].Amount.String())
	assert.Len(t, snap.Goals, 1)
	assert.Len(t, snap.Recurring, 1)
	assert.Len(t, snap.Accounts, 1)
	assert.Len(t, snap.Categories, 1)
}

func TestLoadSnapshot_EmptyDatabase(t *testing.T) {
	store := createTestStorage(t)

	period, err := model.MonthPeriod(1, 2024)
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(context.Background(), period)
	require.NoError(t, err)

	assert.NotNil(t, snap.Current)
	assert.NotNil(t, snap.Previous)
	assert.NotNil(t, snap.Budgets)
	assert.Empty(t, snap.Current)
	assert.Empty(t, snap.Goals)
}

func TestLoadSnapshot_JanuaryReadsDecember(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	account := mustAccount(t, store, "Checking")

	_, err := store.SaveTransactions(ctx, []model.Transaction{
		txn(account.ID, "x", model.TransactionTypeExpense, "60", day(2023, time.December, 31)),
	})
	require.NoError(t, err)

	period, err := model.MonthPeriod(1, 2024)
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx, period)
	require.NoError(t, err)
	assert.Empty(t, snap.Current)
	assert.Len(t, snap.Previous, 1)
}

func TestLoadSnapshot_InvalidPeriod(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.LoadSnapshot(context.Background(), model.Period{Month: 0, Year: 2024})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
