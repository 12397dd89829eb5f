package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/google/uuid"
)

// SetBudget creates or replaces the budget for a category and month.
// On return budget.ID holds the stored row's ID.
func (s *SQLiteStorage) SetBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (id, category_id, amount, month, year)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category_id, month, year) DO UPDATE SET amount = excluded.amount
		RETURNING id`,
		budget.ID, budget.CategoryID, budget.Amount, budget.Month, budget.Year,
	).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// GetBudgets returns the budgets for one month.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, month, year int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return getBudgets(ctx, s.db, month, year)
}

func getBudgets(ctx context.Context, q queryer, month, year int) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, category_id, amount, month, year
		FROM budgets
		WHERE month = ? AND year = ?
		ORDER BY category_id`, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	budgets := []model.Budget{}
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Amount, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "budgets", id)
}
