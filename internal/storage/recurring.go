package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/google/uuid"
)

// CreateRecurringTransaction stores a recurring transaction definition.
func (s *SQLiteStorage) CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecurring(rt); err != nil {
		return err
	}

	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}

	var next sql.NullString
	if !rt.NextOccurrence.IsZero() {
		next = sql.NullString{String: formatDate(rt.NextOccurrence), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (
			id, account_id, category_id, amount, frequency, next_occurrence,
			auto_generate, is_subscription, billing_cycle, vendor_name, logo_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID,
		rt.AccountID,
		nullString(rt.CategoryID),
		rt.Amount,
		string(rt.Frequency),
		next,
		boolToInt(rt.AutoGenerate),
		boolToInt(rt.IsSubscription),
		nullString(string(rt.BillingCycle)),
		nullString(rt.VendorName),
		nullString(rt.LogoURL),
	)
	if err != nil {
		return fmt.Errorf("failed to create recurring transaction: %w", err)
	}
	return nil
}

// GetRecurringTransactions returns all recurring transactions ordered by vendor name.
func (s *SQLiteStorage) GetRecurringTransactions(ctx context.Context) ([]model.RecurringTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRecurringTransactions(ctx, s.db)
}

func getRecurringTransactions(ctx context.Context, q queryer) ([]model.RecurringTransaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, category_id, amount, frequency, next_occurrence,
			auto_generate, is_subscription, billing_cycle, vendor_name, logo_url
		FROM recurring_transactions
		ORDER BY vendor_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []model.RecurringTransaction{}
	for rows.Next() {
		var (
			rt                                    model.RecurringTransaction
			categoryID, next, cycle, vendor, logo sql.NullString
			frequency                             string
			autoGenerate, isSubscription          int
		)
		err := rows.Scan(
			&rt.ID,
			&rt.AccountID,
			&categoryID,
			&rt.Amount,
			&frequency,
			&next,
			&autoGenerate,
			&isSubscription,
			&cycle,
			&vendor,
			&logo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}

		rt.CategoryID = categoryID.String
		rt.Frequency = model.Frequency(frequency)
		rt.BillingCycle = model.BillingCycle(cycle.String)
		rt.VendorName = vendor.String
		rt.LogoURL = logo.String
		rt.AutoGenerate = autoGenerate != 0
		rt.IsSubscription = isSubscription != 0
		if next.Valid {
			if rt.NextOccurrence, err = parseDate(next.String); err != nil {
				return nil, err
			}
		}
		result = append(result, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring transactions: %w", err)
	}
	return result, nil
}

// DeleteRecurringTransaction removes a recurring transaction.
func (s *SQLiteStorage) DeleteRecurringTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "recurring_transactions", id)
}
