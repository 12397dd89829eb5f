package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/google/uuid"
)

// CreateSavingsGoal stores a new savings goal.
func (s *SQLiteStorage) CreateSavingsGoal(ctx context.Context, goal *model.SavingsGoal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSavingsGoal(goal); err != nil {
		return err
	}

	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	var targetDate sql.NullString
	if !goal.TargetDate.IsZero() {
		targetDate = sql.NullString{String: formatDate(goal.TargetDate), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, name, target_amount, target_date)
		VALUES (?, ?, ?, ?)`,
		goal.ID, goal.Name, goal.TargetAmount, targetDate)
	if err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// GetSavingsGoals returns every savings goal.
func (s *SQLiteStorage) GetSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSavingsGoals(ctx, s.db)
}

func getSavingsGoals(ctx context.Context, q queryer) ([]model.SavingsGoal, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, target_amount, target_date
		FROM savings_goals
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	goals := []model.SavingsGoal{}
	for rows.Next() {
		var (
			g          model.SavingsGoal
			targetDate sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &targetDate); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		if targetDate.Valid {
			if g.TargetDate, err = parseDate(targetDate.String); err != nil {
				return nil, err
			}
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings goals: %w", err)
	}
	return goals, nil
}

// DeleteSavingsGoal removes a savings goal.
func (s *SQLiteStorage) DeleteSavingsGoal(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "savings_goals", id)
}
