// Package service defines the interfaces shared between the storage layer and its callers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries.
// StartDate is inclusive and EndDate is exclusive.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Limit     int
}

// Snapshot is every collection the score needs for one month, read at a single
// point in time.
type Snapshot struct {
	Period     model.Period
	Current    []model.Transaction
	Previous   []model.Transaction
	Budgets    []model.Budget
	Goals      []model.SavingsGoal
	Recurring  []model.RecurringTransaction
	Accounts   []model.Account
	Categories []model.Category
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error

	// Category operations
	CreateCategory(ctx context.Context, name, parentID, icon string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Budget operations
	SetBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context, month, year int) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id string) error

	// Savings goal operations
	CreateSavingsGoal(ctx context.Context, goal *model.SavingsGoal) error
	GetSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, id string) error

	// Recurring transaction operations
	CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error
	GetRecurringTransactions(ctx context.Context) ([]model.RecurringTransaction, error)
	DeleteRecurringTransaction(ctx context.Context, id string) error

	// LoadSnapshot reads everything scoring a month needs in one read transaction.
	LoadSnapshot(ctx context.Context, period model.Period) (*Snapshot, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
