package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/ofx"
	"github.com/Veraticus/finpulse/internal/storage"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files exported from your bank.

Credits are recorded as income, debits as expenses and transfers as transfers.
Re-importing a file skips transactions that were already saved. Without
--account, each statement goes to an account named after its account number,
which is created if needed. The database is backed up first unless
--no-backup is given; see 'pulse backup list'.

Examples:
  # Import single file into an existing account
  pulse import-ofx --account Checking ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  pulse import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("account", "a", "", "account ID or name to import into")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("no-backup", false, "skip the automatic backup taken before importing")

	return cmd
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, common.NewUserError("No files found to import", common.ErrNoTransactions)
	}
	return files, nil
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	accountRef, _ := cmd.Flags().GetString("account")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var fixed *model.Account
	if accountRef != "" {
		if fixed, err = resolveAccount(ctx, store, accountRef); err != nil {
			return err
		}
	}

	if !dryRun && !noBackup {
		backupBeforeImport(ctx, store)
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	importer := &ofxImporter{
		store:  store,
		parser: ofx.NewParser(),
		fixed:  fixed,
		dryRun: dryRun,
		seen:   make(map[string]bool),
	}

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Importing statements...")
	var results []cli.ImportResult
	for _, path := range files {
		fileResults, err := importer.importFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			common.LogError(err, "Failed to import file", common.Fields{"file": path})
		}
		results = append(results, fileResults...)
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	cli.RenderImportSummary(out, results, dryRun)
	if dryRun {
		_, _ = fmt.Fprintln(out, cli.FormatInfo("Dry run complete - no data saved"))
	}
	return nil
}

// backupBeforeImport takes an automatic backup. Failures are logged and the
// import goes ahead.
func backupBeforeImport(ctx context.Context, store *storage.SQLiteStorage) {
	manager, err := store.Backups()
	if err != nil {
		slog.Warn("Skipping automatic backup", "error", err)
		return
	}
	info, err := manager.Auto(ctx, "import")
	if err != nil {
		slog.Warn("Automatic backup failed", "error", err)
		return
	}
	slog.Info("Created automatic backup", "id", info.ID)
}

type ofxImporter struct {
	store  *storage.SQLiteStorage
	parser *ofx.Parser
	fixed  *model.Account
	seen   map[string]bool
	dryRun bool
}

func (im *ofxImporter) importFile(ctx context.Context, path string) ([]cli.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	statements, err := im.parser.ParseFile(ctx, f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}

	var results []cli.ImportResult
	for i := range statements {
		result, err := im.importStatement(ctx, &statements[i])
		if err != nil {
			return results, err
		}
		result.File = filepath.Base(path)
		results = append(results, result)
	}
	return results, nil
}

func (im *ofxImporter) importStatement(ctx context.Context, stmt *ofx.Statement) (cli.ImportResult, error) {
	account, err := im.accountFor(ctx, stmt)
	if err != nil {
		return cli.ImportResult{}, err
	}
	stmt.Assign(account.ID)

	// Drop repeats across the files of this run before touching storage.
	var batch []model.Transaction
	for _, tx := range stmt.Transactions {
		if im.seen[tx.Hash] {
			continue
		}
		im.seen[tx.Hash] = true
		batch = append(batch, tx)
	}

	result := cli.ImportResult{
		Account: account.Name,
		Parsed:  len(stmt.Transactions),
	}
	if im.dryRun || len(batch) == 0 {
		result.Saved = len(batch)
		result.Duplicates = result.Parsed - len(batch)
		return result, nil
	}

	saved, err := im.store.SaveTransactions(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("failed to save transactions: %w", err)
	}
	result.Saved = saved
	result.Duplicates = result.Parsed - saved

	if stmt.Balance != nil && account.ID != "" {
		if err := im.store.UpdateAccountBalance(ctx, account.ID, *stmt.Balance); err != nil {
			return result, fmt.Errorf("failed to update balance: %w", err)
		}
	}
	return result, nil
}

// accountFor returns the --account target, or an account named after the
// statement's account number, created on first use.
func (im *ofxImporter) accountFor(ctx context.Context, stmt *ofx.Statement) (*model.Account, error) {
	if im.fixed != nil {
		return im.fixed, nil
	}

	name := stmt.AccountNumber
	if name == "" {
		name = "OFX " + stmt.Kind
	}
	account, err := im.store.GetAccountByName(ctx, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	account = &model.Account{Name: name, Currency: stmt.Currency}
	if im.dryRun {
		return account, nil
	}
	if err := im.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", name, err)
	}
	slog.Info("Created account for OFX statement", "account", name, "kind", stmt.Kind)
	return account, nil
}
