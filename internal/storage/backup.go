package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// KeepAutoBackups is how many automatic backups survive pruning.
const KeepAutoBackups = 5

// Backup errors.
var (
	ErrBackupNotFound   = errors.New("backup not found")
	ErrBackupExists     = errors.New("backup already exists")
	ErrBackupCorrupted  = errors.New("backup integrity check failed")
	ErrInvalidBackupTag = errors.New("invalid backup tag")
	ErrInMemoryBackup   = errors.New("in-memory databases cannot be backed up")
)

// backupTables are counted into each backup's metadata.
var backupTables = []string{
	"accounts",
	"categories",
	"transactions",
	"budgets",
	"savings_goals",
	"recurring_transactions",
}

// BackupInfo describes one backup. It is stored as JSON next to the copy.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// Transactions returns the number of transactions in the backup.
func (b BackupInfo) Transactions() int {
	return b.RowCounts["transactions"]
}

// BackupManager creates and restores copies of the database in a backups
// directory beside the database file.
type BackupManager struct {
	store *SQLiteStorage
	now   func() time.Time
	dir   string
}

// Backups returns a manager for this database's backups, creating the
// backups directory if needed.
func (s *SQLiteStorage) Backups() (*BackupManager, error) {
	if s.dbPath == ":memory:" {
		return nil, ErrInMemoryBackup
	}

	dir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{store: s, dir: dir, now: time.Now}, nil
}

// Dir returns the backups directory.
func (bm *BackupManager) Dir() string {
	return bm.dir
}

func validateTag(tag string) error {
	if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, `/\`) || strings.Contains(tag, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidBackupTag, tag)
	}
	return nil
}

func (bm *BackupManager) dbFile(id string) string   { return filepath.Join(bm.dir, id+".db") }
func (bm *BackupManager) metaFile(id string) string { return filepath.Join(bm.dir, id+".meta.json") }

// Create copies the live database under tag. An empty tag is generated from
// the current time.
func (bm *BackupManager) Create(ctx context.Context, tag, description string) (*BackupInfo, error) {
	return bm.create(ctx, tag, description, false)
}

func (bm *BackupManager) create(ctx context.Context, tag, description string, auto bool) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = "backup-" + bm.now().Format("2006-01-02-150405")
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	path := bm.dbFile(tag)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, tag)
	}

	version, err := bm.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts := bm.rowCounts(ctx)

	if _, err := bm.store.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return nil, fmt.Errorf("failed to copy database: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		ID:            tag,
		CreatedAt:     bm.now().UTC(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: version,
		IsAuto:        auto,
	}
	if err := writeMetadata(bm.metaFile(tag), info); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Error("failed to remove backup after metadata failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save backup metadata: %w", err)
	}

	slog.Debug("Created backup", "id", tag, "size", info.FileSize, "auto", auto)
	return info, nil
}

// Auto creates an automatic backup labelled with reason, then prunes
// automatic backups beyond KeepAutoBackups.
func (bm *BackupManager) Auto(ctx context.Context, reason string) (*BackupInfo, error) {
	base := fmt.Sprintf("auto-%s-%s", reason, bm.now().Format("2006-01-02-150405"))
	tag := base
	for i := 2; ; i++ {
		if _, err := os.Stat(bm.dbFile(tag)); errors.Is(err, os.ErrNotExist) {
			break
		}
		tag = fmt.Sprintf("%s-%d", base, i)
	}

	info, err := bm.create(ctx, tag, "Automatic backup before "+reason, true)
	if err != nil {
		return nil, err
	}

	if err := bm.pruneAuto(); err != nil {
		slog.Warn("failed to prune automatic backups", "error", err)
	}
	return info, nil
}

// List returns every backup, newest first. Backups with unreadable metadata
// are skipped.
func (bm *BackupManager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := readMetadata(filepath.Join(bm.dir, entry.Name()))
		if err != nil {
			slog.Warn("Skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].ID > backups[j].ID
	})
	return backups, nil
}

// Get returns the metadata of one backup.
func (bm *BackupManager) Get(id string) (*BackupInfo, error) {
	if err := validateTag(id); err != nil {
		return nil, err
	}
	info, err := readMetadata(bm.metaFile(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	return info, err
}

// Restore replaces the live database with backup id and reopens it. The
// previous database is kept until the copy succeeds.
func (bm *BackupManager) Restore(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := bm.Get(id); err != nil {
		return err
	}

	src := bm.dbFile(id)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	if err := checkIntegrity(ctx, src); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}

	live := bm.store.dbPath
	if err := bm.store.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(live + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove journal file", "file", live+suffix, "error", err)
		}
	}

	safety := live + ".restore-backup"
	if err := copyFile(live, safety); err != nil {
		return bm.reopen(fmt.Errorf("failed to keep current database: %w", err))
	}
	if err := copyFile(src, live); err != nil {
		if rbErr := copyFile(safety, live); rbErr != nil {
			slog.Error("failed to put current database back after restore failure", "error", rbErr)
		}
		return bm.reopen(fmt.Errorf("failed to restore backup: %w", err))
	}
	if err := os.Remove(safety); err != nil {
		slog.Warn("failed to remove restore safety copy", "error", err)
	}

	slog.Info("Restored database from backup", "id", id)
	return bm.reopen(nil)
}

// reopen points the storage at a fresh connection and returns cause.
func (bm *BackupManager) reopen(cause error) error {
	db, err := openDB(bm.store.dbPath)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("failed to reopen database: %w", err))
	}
	bm.store.db = db
	return cause
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(id string) error {
	if err := validateTag(id); err != nil {
		return err
	}
	if err := os.Remove(bm.dbFile(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	if err := os.Remove(bm.metaFile(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("failed to remove backup metadata", "id", id, "error", err)
	}
	return nil
}

func (bm *BackupManager) pruneAuto() error {
	backups, err := bm.List()
	if err != nil {
		return err
	}

	kept := 0
	var errs []error
	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		kept++
		if kept > KeepAutoBackups {
			errs = append(errs, bm.Delete(b.ID))
		}
	}
	return errors.Join(errs...)
}

func (bm *BackupManager) rowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int, len(backupTables))
	for _, table := range backupTables {
		var n int
		// #nosec G202 - table names come from backupTables
		if err := bm.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			slog.Debug("failed to count rows", "table", table, "error", err)
		}
		counts[table] = n
	}
	return counts
}

func checkIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return errors.New(result)
	}
	return nil
}

// copyFile writes src to dst through a temporary file and a rename.
func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(filepath.Clean(tmp), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func writeMetadata(path string, info *BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readMetadata(path string) (*BackupInfo, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
