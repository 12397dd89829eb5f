package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
)

// LoadSnapshot reads the period's transactions, the previous period's transactions,
// the period's budgets, all savings goals, all recurring transactions, accounts and
// categories inside one transaction.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, period model.Period) (*service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(period.Month, period.Year); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := &service.Snapshot{Period: period}
	previous := period.Previous()

	if snap.Current, err = transactionsInRange(ctx, tx, period.Start, period.End); err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	if snap.Previous, err = transactionsInRange(ctx, tx, previous.Start, previous.End); err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}
	if snap.Budgets, err = getBudgets(ctx, tx, period.Month, period.Year); err != nil {
		return nil, err
	}
	if snap.Goals, err = getSavingsGoals(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Recurring, err = getRecurringTransactions(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Accounts, err = getAccounts(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Categories, err = getCategories(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to close snapshot transaction: %w", err)
	}
	return snap, nil
}
