package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupManager(t *testing.T) (*SQLiteStorage, *BackupManager) {
	t.Helper()
	store := createTestStorage(t)
	bm, err := store.Backups()
	require.NoError(t, err)

	clock := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	bm.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store, bm
}

func TestBackups_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.Backups()
	assert.ErrorIs(t, err, ErrInMemoryBackup)
}

func TestBackupManager_Create(t *testing.T) {
	ctx := context.Background()
	store, bm := newBackupManager(t)
	account := mustAccount(t, store, "Checking")
	_, err := store.SaveTransactions(ctx, []model.Transaction{
		txn(account.ID, "", model.TransactionTypeIncome, "3000", day(2024, 6, 1)),
		txn(account.ID, "", model.TransactionTypeExpense, "42.10", day(2024, 6, 3)),
	})
	require.NoError(t, err)

	info, err := bm.Create(ctx, "before-import", "manual backup")
	require.NoError(t, err)

	assert.Equal(t, "before-import", info.ID)
	assert.Equal(t, "manual backup", info.Description)
	assert.False(t, info.IsAuto)
	assert.Equal(t, 2, info.Transactions())
	assert.Equal(t, 1, info.RowCounts["accounts"])
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.Positive(t, info.FileSize)
	assert.FileExists(t, filepath.Join(bm.Dir(), "before-import.db"))
	assert.FileExists(t, filepath.Join(bm.Dir(), "before-import.meta.json"))

	_, err = bm.Create(ctx, "before-import", "")
	assert.ErrorIs(t, err, ErrBackupExists)
}

func TestBackupManager_CreateGeneratesTag(t *testing.T) {
	_, bm := newBackupManager(t)

	info, err := bm.Create(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "backup-2024-06-15-093001", info.ID)
}

func TestBackupManager_InvalidTags(t *testing.T) {
	_, bm := newBackupManager(t)
	ctx := context.Background()

	for _, tag := range []string{"../escape", "a/b", `a\b`, "  "} {
		t.Run(tag, func(t *testing.T) {
			_, err := bm.Create(ctx, tag, "")
			assert.ErrorIs(t, err, ErrInvalidBackupTag)
			assert.ErrorIs(t, bm.Restore(ctx, tag), ErrInvalidBackupTag)
			assert.ErrorIs(t, bm.Delete(tag), ErrInvalidBackupTag)
		})
	}
}

func TestBackupManager_List(t *testing.T) {
	ctx := context.Background()
	_, bm := newBackupManager(t)

	_, err := bm.Create(ctx, "first", "")
	require.NoError(t, err)
	_, err = bm.Create(ctx, "second", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(bm.Dir(), "broken.meta.json"), []byte("{"), 0600))

	backups, err := bm.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "second", backups[0].ID)
	assert.Equal(t, "first", backups[1].ID)
}

func TestBackupManager_Restore(t *testing.T) {
	ctx := context.Background()
	store, bm := newBackupManager(t)
	mustAccount(t, store, "Checking")

	_, err := bm.Create(ctx, "one-account", "")
	require.NoError(t, err)

	mustAccount(t, store, "Savings")
	accounts, err := store.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	require.NoError(t, bm.Restore(ctx, "one-account"))

	accounts, err = store.GetAccounts(ctx)
	require.NoError(t, err, "storage is usable after restore")
	require.Len(t, accounts, 1)
	assert.Equal(t, "Checking", accounts[0].Name)
	assert.NoFileExists(t, store.Path()+".restore-backup")
}

func TestBackupManager_RestoreMissing(t *testing.T) {
	_, bm := newBackupManager(t)
	assert.ErrorIs(t, bm.Restore(context.Background(), "nope"), ErrBackupNotFound)
}

func TestBackupManager_RestoreCorrupted(t *testing.T) {
	ctx := context.Background()
	store, bm := newBackupManager(t)
	mustAccount(t, store, "Checking")

	_, err := bm.Create(ctx, "damaged", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(bm.Dir(), "damaged.db"), []byte("not a database"), 0600))

	err = bm.Restore(ctx, "damaged")
	assert.ErrorIs(t, err, ErrBackupCorrupted)

	accounts, err := store.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestBackupManager_Delete(t *testing.T) {
	ctx := context.Background()
	_, bm := newBackupManager(t)

	_, err := bm.Create(ctx, "old", "")
	require.NoError(t, err)

	require.NoError(t, bm.Delete("old"))
	assert.NoFileExists(t, filepath.Join(bm.Dir(), "old.db"))
	assert.NoFileExists(t, filepath.Join(bm.Dir(), "old.meta.json"))
	assert.ErrorIs(t, bm.Delete("old"), ErrBackupNotFound)

	_, err = bm.Get("old")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestBackupManager_AutoPrunes(t *testing.T) {
	ctx := context.Background()
	_, bm := newBackupManager(t)

	_, err := bm.Create(ctx, "manual", "")
	require.NoError(t, err)

	var last *BackupInfo
	for range KeepAutoBackups + 2 {
		last, err = bm.Auto(ctx, "import")
		require.NoError(t, err)
	}
	assert.True(t, last.IsAuto)
	assert.Equal(t, "Automatic backup before import", last.Description)

	backups, err := bm.List()
	require.NoError(t, err)

	var auto, manual int
	for _, b := range backups {
		if b.IsAuto {
			auto++
		} else {
			manual++
		}
	}
	assert.Equal(t, KeepAutoBackups, auto)
	assert.Equal(t, 1, manual)
	assert.Equal(t, last.ID, backups[0].ID)
}

func TestBackupManager_AutoAvoidsCollisions(t *testing.T) {
	ctx := context.Background()
	_, bm := newBackupManager(t)
	fixed := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	bm.now = func() time.Time { return fixed }

	first, err := bm.Auto(ctx, "import")
	require.NoError(t, err)
	second, err := bm.Auto(ctx, "import")
	require.NoError(t, err)

	assert.Equal(t, "auto-import-2024-06-15-093000", first.ID)
	assert.Equal(t, "auto-import-2024-06-15-093000-2", second.ID)
}
