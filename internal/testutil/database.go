// Package testutil provides test utilities for pulse: a migrated throwaway
// database and helpers that seed it with realistic records.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB represents a test database with associated seeding helpers.
// Every helper fails the test on error.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	seq     int
}

// SetupTestDB creates a new in-memory test database. It automatically handles
// migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	checking := db.Account("Checking")
//	food := db.Category("Food")
//	db.Expense(checking, food, "42.10", testutil.Date(2024, 6, 3))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// Date returns midnight UTC on the given day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Money parses a decimal literal or fails the test.
func (db *TestDB) Money(amount string) decimal.Decimal {
	db.t.Helper()
	d, err := decimal.NewFromString(amount)
	if err != nil {
		db.t.Fatalf("bad amount %q: %v", amount, err)
	}
	return d
}

// Account creates an account and returns its ID.
func (db *TestDB) Account(name string) string {
	db.t.Helper()
	account := &model.Account{Name: name}
	if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account.ID
}

// AccountWithBalance creates an account holding balance and returns its ID.
func (db *TestDB) AccountWithBalance(name, balance string) string {
	db.t.Helper()
	b := db.Money(balance)
	account := &model.Account{Name: name, Balance: &b}
	if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account.ID
}

// Category creates a category and returns its ID.
func (db *TestDB) Category(name string) string {
	db.t.Helper()
	cat, err := db.Storage.CreateCategory(context.Background(), name, "", "")
	if err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return cat.ID
}

// Expense records an expense in categoryID.
func (db *TestDB) Expense(accountID, categoryID, amount string, date time.Time) {
	db.t.Helper()
	db.save(model.Transaction{
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       model.TransactionTypeExpense,
		Amount:     db.Money(amount),
		Date:       date,
	})
}

// Income records income.
func (db *TestDB) Income(accountID, amount string, date time.Time) {
	db.t.Helper()
	db.save(model.Transaction{
		AccountID: accountID,
		Type:      model.TransactionTypeIncome,
		Amount:    db.Money(amount),
		Date:      date,
	})
}

// Transfer records a transfer between accounts.
func (db *TestDB) Transfer(accountID, amount string, date time.Time) {
	db.t.Helper()
	db.save(model.Transaction{
		AccountID: accountID,
		Type:      model.TransactionTypeTransfer,
		Amount:    db.Money(amount),
		Date:      date,
	})
}

// save gives every seeded row distinct notes so identical amounts on one day
// are not collapsed as duplicates.
func (db *TestDB) save(txn model.Transaction) {
	db.t.Helper()
	db.seq++
	txn.Notes = fmt.Sprintf("seed %d", db.seq)
	if _, err := db.Storage.SaveTransactions(context.Background(), []model.Transaction{txn}); err != nil {
		db.t.Fatalf("failed to seed transaction: %v", err)
	}
}

// Budget sets a monthly budget for categoryID.
func (db *TestDB) Budget(categoryID, amount string, month, year int) {
	db.t.Helper()
	budget := &model.Budget{CategoryID: categoryID, Amount: db.Money(amount), Month: month, Year: year}
	if err := db.Storage.SetBudget(context.Background(), budget); err != nil {
		db.t.Fatalf("failed to seed budget: %v", err)
	}
}

// Goal creates a savings goal.
func (db *TestDB) Goal(name, target string) {
	db.t.Helper()
	goal := &model.SavingsGoal{Name: name, TargetAmount: db.Money(target)}
	if err := db.Storage.CreateSavingsGoal(context.Background(), goal); err != nil {
		db.t.Fatalf("failed to seed goal %q: %v", name, err)
	}
}

// Subscription creates a monthly-billed subscription.
func (db *TestDB) Subscription(accountID, vendor, amount string) {
	db.t.Helper()
	db.Recurring(&model.RecurringTransaction{
		AccountID:      accountID,
		Amount:         db.Money(amount),
		Frequency:      model.FrequencyMonthly,
		BillingCycle:   model.BillingCycleMonthly,
		IsSubscription: true,
		AutoGenerate:   true,
		VendorName:     vendor,
	})
}

// Recurring stores an arbitrary recurring transaction.
func (db *TestDB) Recurring(rt *model.RecurringTransaction) {
	db.t.Helper()
	if err := db.Storage.CreateRecurringTransaction(context.Background(), rt); err != nil {
		db.t.Fatalf("failed to seed recurring transaction: %v", err)
	}
}
