package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/penny/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewSQLiteStorage(filepath.Join(dir, "penny.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	store.now = func() time.Time { return fixedNow }
	require.NoError(t, store.Migrate(ctx))

	_, err = store.CommitRecord(ctx, "42", netflix("Netflix", 12))
	require.NoError(t, err)

	dest := store.BackupPath(ExpectedSchemaVersion)
	assert.Equal(t, filepath.Join(dir, "backups", "penny-v3-20240320-150400.db"), dest)
	require.NoError(t, store.Backup(ctx, dest))
	assert.FileExists(t, dest)

	err = store.Backup(ctx, dest)
	assert.ErrorIs(t, err, ErrBackupExists)

	restored, err := NewSQLiteStorage(dest)
	require.NoError(t, err)
	defer func() { _ = restored.Close() }()
	recs, err := restored.ListRecords(ctx, "42", model.KindSubscription)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Netflix", recs[0].DisplayName())
}

func TestValidateBackupPath(t *testing.T) {
	assert.Error(t, validateBackupPath("relative/path.db"))
	assert.Error(t, validateBackupPath("/tmp/x'; DROP TABLE subscriptions; --.db"))
	assert.Error(t, validateBackupPath("/tmp/../etc/x.db"))
	assert.NoError(t, validateBackupPath("/tmp/backups/penny.db"))
}
