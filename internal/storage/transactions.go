package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/google/uuid"
)

const transactionColumns = `id, hash, account_id, category_id, type, amount, date, notes, is_recurring_instance`

// SaveTransactions saves multiple transactions to the database and returns how many
// were new. Transactions whose hash already exists are skipped.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted, err := s.saveTransactionsTx(ctx, tx, transactions)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Debug("saved transactions",
		"received", len(transactions),
		"inserted", inserted)
	return inserted, nil
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, account_id, category_id, type, amount,
			date, notes, is_recurring_instance, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	created := nowTimestamp()
	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		result, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.AccountID,
			nullString(txn.CategoryID),
			string(txn.Type),
			txn.Amount,
			formatDate(txn.Date),
			nullString(txn.Notes),
			boolToInt(txn.IsRecurringInstance),
			created,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check rows affected: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}

// GetTransactions returns transactions matching the filter, oldest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v",
			ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}
	return getTransactions(ctx, s.db, filter)
}

func getTransactions(ctx context.Context, q queryer, filter service.TransactionFilter) ([]model.Transaction, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date < ?")
		args = append(args, formatDate(*filter.EndDate))
	}
	if filter.AccountID != "" {
		conditions = append(conditions, "account_id = ?")
		args = append(args, filter.AccountID)
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := []model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func transactionsInRange(ctx context.Context, q queryer, start, end time.Time) ([]model.Transaction, error) {
	return getTransactions(ctx, q, service.TransactionFilter{StartDate: &start, EndDate: &end})
}

// GetTransactionByID returns a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return txn, err
}

// DeleteTransaction removes a transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", id)
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		categoryID sql.NullString
		notes      sql.NullString
		txnType    string
		date       string
		recurring  int
	)
	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.AccountID,
		&categoryID,
		&txnType,
		&txn.Amount,
		&date,
		&notes,
		&recurring,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.CategoryID = categoryID.String
	txn.Notes = notes.String
	txn.Type = model.TransactionType(txnType)
	txn.IsRecurringInstance = recurring != 0
	if txn.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &txn, nil
}

// deleteByID removes one row from table. table is always a package constant.
func (s *SQLiteStorage) deleteByID(ctx context.Context, table, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", common.ErrNotFound, table, id)
	}
	return nil
}
