package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					balance TEXT,
					created_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					parent_id TEXT REFERENCES categories(id),
					icon TEXT,
					created_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					account_id TEXT NOT NULL REFERENCES accounts(id),
					category_id TEXT,
					type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'transfer')),
					amount TEXT NOT NULL,
					date TEXT NOT NULL,
					notes TEXT,
					is_recurring_instance INTEGER NOT NULL DEFAULT 0,
					created_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					category_id TEXT NOT NULL,
					amount TEXT NOT NULL,
					month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
					year INTEGER NOT NULL,
					UNIQUE (category_id, month, year)
				)`,

				`CREATE TABLE IF NOT EXISTS savings_goals (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					target_amount TEXT NOT NULL,
					target_date TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS recurring_transactions (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					category_id TEXT,
					amount TEXT NOT NULL,
					frequency TEXT NOT NULL,
					next_occurrence TEXT,
					auto_generate INTEGER NOT NULL DEFAULT 1,
					is_subscription INTEGER NOT NULL DEFAULT 0,
					billing_cycle TEXT,
					vendor_name TEXT,
					logo_url TEXT
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add indexes for period queries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX IF NOT EXISTS idx_budgets_period ON budgets(year, month)`,
				`CREATE INDEX IF NOT EXISTS idx_recurring_vendor ON recurring_transactions(vendor_name)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
