package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/shopspring/decimal"
)

// TestStorageValidation tests that validation is applied at the storage layer.
func TestStorageValidation(t *testing.T) {
	store := createTestStorage(t)

	t.Run("nil context validation", func(t *testing.T) {
		// These tests intentionally pass nil to verify validation
		//nolint:staticcheck
		txns := []model.Transaction{{AccountID: "acc1", Type: model.TransactionTypeExpense, Date: time.Now()}}

		if _, err := store.SaveTransactions(nil, txns); err == nil || !strings.Contains(err.Error(), "context cannot be nil") { //nolint:staticcheck
			t.Errorf("SaveTransactions should fail with nil context, got: %v", err)
		}

		if _, err := store.GetTransactions(nil, service.TransactionFilter{}); err == nil || !strings.Contains(err.Error(), "context cannot be nil") { //nolint:staticcheck
			t.Errorf("GetTransactions should fail with nil context, got: %v", err)
		}

		if _, err := store.GetAccounts(nil); err == nil || !strings.Contains(err.Error(), "context cannot be nil") { //nolint:staticcheck
			t.Errorf("GetAccounts should fail with nil context, got: %v", err)
		}

		if _, err := store.LoadSnapshot(nil, model.PeriodContaining(time.Now())); err == nil || !strings.Contains(err.Error(), "context cannot be nil") { //nolint:staticcheck
			t.Errorf("LoadSnapshot should fail with nil context, got: %v", err)
		}

		if _, err := store.GetRecurringTransactions(nil); err == nil || !strings.Contains(err.Error(), "context cannot be nil") { //nolint:staticcheck
			t.Errorf("GetRecurringTransactions should fail with nil context, got: %v", err)
		}
	})

	t.Run("empty string validation", func(t *testing.T) {
		ctx := context.Background()

		if _, err := store.GetTransactionByID(ctx, ""); err == nil || !strings.Contains(err.Error(), "string parameter cannot be empty") {
			t.Errorf("GetTransactionByID should fail with empty ID, got: %v", err)
		}

		if _, err := store.GetAccountByName(ctx, "   "); err == nil || !strings.Contains(err.Error(), "string parameter cannot be empty") {
			t.Errorf("GetAccountByName should fail with whitespace name, got: %v", err)
		}

		if _, err := store.CreateCategory(ctx, "", "", ""); err == nil || !strings.Contains(err.Error(), "string parameter cannot be empty") {
			t.Errorf("CreateCategory should fail with empty name, got: %v", err)
		}

		if err := store.DeleteTransaction(ctx, ""); err == nil || !strings.Contains(err.Error(), "string parameter cannot be empty") {
			t.Errorf("DeleteTransaction should fail with empty ID, got: %v", err)
		}
	})

	t.Run("nil parameter validation", func(t *testing.T) {
		ctx := context.Background()

		if err := store.SetBudget(ctx, nil); err == nil || !strings.Contains(err.Error(), "parameter cannot be nil") {
			t.Errorf("SetBudget should fail with nil budget, got: %v", err)
		}

		if err := store.CreateSavingsGoal(ctx, nil); err == nil || !strings.Contains(err.Error(), "parameter cannot be nil") {
			t.Errorf("CreateSavingsGoal should fail with nil goal, got: %v", err)
		}

		if err := store.CreateRecurringTransaction(ctx, nil); err == nil || !strings.Contains(err.Error(), "parameter cannot be nil") {
			t.Errorf("CreateRecurringTransaction should fail with nil item, got: %v", err)
		}

		if _, err := store.SaveTransactions(ctx, nil); err == nil || !strings.Contains(err.Error(), "parameter cannot be nil") {
			t.Errorf("SaveTransactions should fail with nil slice, got: %v", err)
		}
	})

	t.Run("amount validation", func(t *testing.T) {
		ctx := context.Background()

		budget := &model.Budget{CategoryID: "food", Amount: decimal.Zero, Month: 6, Year: 2024}
		if err := store.SetBudget(ctx, budget); err == nil || !strings.Contains(err.Error(), "budget amount must be positive") {
			t.Errorf("SetBudget should fail with zero amount, got: %v", err)
		}

		goal := &model.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(-5)}
		if err := store.CreateSavingsGoal(ctx, goal); err == nil || !strings.Contains(err.Error(), "target amount must be positive") {
			t.Errorf("CreateSavingsGoal should fail with negative target, got: %v", err)
		}

		txns := []model.Transaction{{AccountID: "acc1", Type: model.TransactionTypeExpense, Date: time.Now(), Amount: decimal.NewFromInt(-1)}}
		if _, err := store.SaveTransactions(ctx, txns); err == nil || !strings.Contains(err.Error(), "is negative") {
			t.Errorf("SaveTransactions should fail with negative amount, got: %v", err)
		}
	})

	t.Run("period validation", func(t *testing.T) {
		ctx := context.Background()

		if _, err := store.GetBudgets(ctx, 13, 2024); err == nil || !strings.Contains(err.Error(), "month must be between 1 and 12") {
			t.Errorf("GetBudgets should fail with month 13, got: %v", err)
		}

		if _, err := store.GetBudgets(ctx, 6, 24); err == nil || !strings.Contains(err.Error(), "year must have four digits") {
			t.Errorf("GetBudgets should fail with two-digit year, got: %v", err)
		}
	})

	t.Run("date range validation", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		end := start.Add(-24 * time.Hour)

		if _, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end}); err == nil || !strings.Contains(err.Error(), "start date must be before end date") {
			t.Errorf("GetTransactions should fail when end is before start, got: %v", err)
		}
	})

	t.Run("recurring validation", func(t *testing.T) {
		ctx := context.Background()

		rt := &model.RecurringTransaction{AccountID: "acc1", Frequency: "fortnightly"}
		if err := store.CreateRecurringTransaction(ctx, rt); err == nil || !strings.Contains(err.Error(), "invalid frequency") {
			t.Errorf("CreateRecurringTransaction should fail with unknown frequency, got: %v", err)
		}

		rt = &model.RecurringTransaction{AccountID: "acc1", Frequency: model.FrequencyMonthly, BillingCycle: "weekly"}
		if err := store.CreateRecurringTransaction(ctx, rt); err == nil || !strings.Contains(err.Error(), "invalid billing cycle") {
			t.Errorf("CreateRecurringTransaction should fail with unknown cycle, got: %v", err)
		}
	})
}
