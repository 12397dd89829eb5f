package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/report"
	"github.com/Veraticus/finpulse/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newReporter builds a Reporter from the configured emergency fund and copy seed.
func newReporter(store *storage.SQLiteStorage) *report.Reporter {
	var writer *copywriting.Writer
	if cfg.CopySeed != 0 {
		writer = copywriting.NewSeededWriter(nil, cfg.CopySeed)
	}
	return report.New(store, writer, report.Options{
		EmergencyAccount: cfg.EmergencyAccount,
		EmergencyTarget:  cfg.EmergencyTarget,
	})
}

// addPeriodFlags adds --month and --year. Unset values mean the current month.
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().Int("month", 0, "month (1-12, default: current month)")
	cmd.Flags().Int("year", 0, "four-digit year (default: current year)")
}

func periodFromFlags(cmd *cobra.Command, now time.Time) (model.Period, error) {
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")

	current := model.PeriodContaining(now)
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}

	period, err := model.MonthPeriod(month, year)
	if err != nil {
		return model.Period{}, common.NewUserError(err.Error(), err)
	}
	return period, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("%q is not an amount", s), err)
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("%q is not a YYYY-MM-DD date", s), err)
	}
	return t, nil
}

// resolveAccount finds an account by ID, falling back to name.
func resolveAccount(ctx context.Context, store *storage.SQLiteStorage, ref string) (*model.Account, error) {
	account, err := store.GetAccountByID(ctx, ref)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	account, err = store.GetAccountByName(ctx, ref)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(fmt.Sprintf("No account named %q. Use 'pulse accounts add' to create one.", ref), err)
	}
	return account, err
}

// resolveCategory finds a category by ID, falling back to name. An empty
// reference resolves to no category.
func resolveCategory(ctx context.Context, store *storage.SQLiteStorage, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	category, err := store.GetCategoryByID(ctx, ref)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	category, err = store.GetCategoryByName(ctx, ref)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.NewUserError(fmt.Sprintf("No category named %q. Use 'pulse categories add' to create one.", ref), err)
	}
	if err != nil {
		return "", err
	}
	return category.ID, nil
}

// categoryNames maps category IDs to names for table rendering.
func categoryNames(ctx context.Context, store *storage.SQLiteStorage) (map[string]string, error) {
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
