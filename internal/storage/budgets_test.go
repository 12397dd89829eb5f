package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBudget_Upserts(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := &model.Budget{CategoryID: "food", Amount: decimal.NewFromInt(400), Month: 6, Year: 2024}
	require.NoError(t, store.SetBudget(ctx, first))

	second := &model.Budget{CategoryID: "food", Amount: decimal.NewFromInt(350), Month: 6, Year: 2024}
	require.NoError(t, store.SetBudget(ctx, second))
	assert.Equal(t, first.ID, second.ID, "upsert keeps the original row")

	other := &model.Budget{CategoryID: "food", Amount: decimal.NewFromInt(500), Month: 7, Year: 2024}
	require.NoError(t, store.SetBudget(ctx, other))

	june, err := store.GetBudgets(ctx, 6, 2024)
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, "350", june[0].Amount.String())

	require.NoError(t, store.DeleteBudget(ctx, first.ID))
	june, err = store.GetBudgets(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Empty(t, june)
	assert.ErrorIs(t, store.DeleteBudget(ctx, first.ID), common.ErrNotFound)
}

func TestSetBudget_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		budget  *model.Budget
		wantErr error
		name    string
	}{
		{name: "nil", budget: nil, wantErr: ErrNilParameter},
		{name: "zero amount", budget: &model.Budget{CategoryID: "x", Amount: decimal.Zero, Month: 1, Year: 2024}, wantErr: ErrInvalidAmount},
		{name: "negative amount", budget: &model.Budget{CategoryID: "x", Amount: decimal.NewFromInt(-1), Month: 1, Year: 2024}, wantErr: ErrInvalidAmount},
		{name: "month zero", budget: &model.Budget{CategoryID: "x", Amount: decimal.NewFromInt(1), Month: 0, Year: 2024}, wantErr: ErrInvalidMonth},
		{name: "month thirteen", budget: &model.Budget{CategoryID: "x", Amount: decimal.NewFromInt(1), Month: 13, Year: 2024}, wantErr: ErrInvalidMonth},
		{name: "short year", budget: &model.Budget{CategoryID: "x", Amount: decimal.NewFromInt(1), Month: 1, Year: 24}, wantErr: ErrInvalidYear},
		{name: "missing category", budget: &model.Budget{Amount: decimal.NewFromInt(1), Month: 1, Year: 2024}, wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SetBudget(ctx, tt.budget), tt.wantErr)
		})
	}

	_, err := store.GetBudgets(ctx, 13, 2024)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestSavingsGoals(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	trip := &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(2000), TargetDate: day(2025, time.March, 1)}
	fund := &model.SavingsGoal{Name: "Emergency", TargetAmount: decimal.NewFromInt(10000)}
	require.NoError(t, store.CreateSavingsGoal(ctx, trip))
	require.NoError(t, store.CreateSavingsGoal(ctx, fund))

	goals, err := store.GetSavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Emergency", goals[0].Name)
	assert.True(t, goals[0].TargetDate.IsZero())
	assert.Equal(t, day(2025, time.March, 1), goals[1].TargetDate)

	assert.ErrorIs(t, store.CreateSavingsGoal(ctx, &model.SavingsGoal{Name: "Zero"}), ErrInvalidAmount)
	assert.ErrorIs(t, store.CreateSavingsGoal(ctx, &model.SavingsGoal{TargetAmount: decimal.NewFromInt(1)}), ErrEmptyString)

	require.NoError(t, store.DeleteSavingsGoal(ctx, trip.ID))
	goals, err = store.GetSavingsGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}
