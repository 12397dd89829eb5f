package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccount stores a new account, filling in ID, currency and creation time when unset.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateString(account.Name, "name"); err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Currency = strings.ToUpper(strings.TrimSpace(account.Currency))
	if account.Currency == "" {
		account.Currency = model.DefaultCurrency
	}
	created := nowTimestamp()

	var balance decimal.NullDecimal
	if account.Balance != nil {
		balance = decimal.NewNullDecimal(*account.Balance)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, currency, balance, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		account.ID, account.Name, account.Currency, balance, created)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s", common.ErrDuplicateEntry, account.ID)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedAt, err = parseTimestamp(created)
	return err
}

// GetAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccounts(ctx, s.db)
}

func getAccounts(ctx context.Context, q queryer) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, currency, balance, created_at
		FROM accounts
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []model.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// GetAccountByID returns a single account.
func (s *SQLiteStorage) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, currency, balance, created_at
		FROM accounts WHERE id = ?`, id)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", common.ErrNotFound, id)
	}
	return account, err
}

// GetAccountByName returns the first account with the given name.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, currency, balance, created_at
		FROM accounts WHERE name = ? ORDER BY created_at LIMIT 1`, name)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %q", common.ErrNotFound, name)
	}
	return account, err
}

// UpdateAccountBalance sets an account's current balance.
func (s *SQLiteStorage) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE id = ?`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s", common.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		account model.Account
		balance decimal.NullDecimal
		created string
	)
	if err := row.Scan(&account.ID, &account.Name, &account.Currency, &balance, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	if balance.Valid {
		b := balance.Decimal
		account.Balance = &b
	}
	var err error
	if account.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}
	return &account, nil
}
