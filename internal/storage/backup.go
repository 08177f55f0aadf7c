package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrBackupExists is returned when the backup destination already exists.
var ErrBackupExists = errors.New("backup already exists")

// Backup writes a consistent copy of the database to destPath with
// VACUUM INTO. The destination must be an absolute path that does not
// exist yet.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBackupPath(destPath); err != nil {
		return err
	}
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("%w: %s", ErrBackupExists, destPath)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	if s.dbPath != MemoryDSN {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return fmt.Errorf("failed to checkpoint WAL: %w", err)
		}
	}

	// #nosec G201 - destPath is validated above to prevent SQL injection
	query := fmt.Sprintf("VACUUM INTO '%s'", destPath)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}

	slog.Info("Database backed up", "path", destPath)
	return nil
}

// BackupPath returns the default backup location next to the database for
// the given schema version.
func (s *SQLiteStorage) BackupPath(version int) string {
	dir := filepath.Dir(s.dbPath)
	base := strings.TrimSuffix(filepath.Base(s.dbPath), filepath.Ext(s.dbPath))
	return filepath.Join(dir, "backups", fmt.Sprintf("%s-v%d-%s.db", base, version, s.now().Format("20060102-150405")))
}

func validateBackupPath(destPath string) error {
	if strings.ContainsAny(destPath, `'";`) {
		return fmt.Errorf("invalid backup path: contains forbidden characters")
	}
	if !filepath.IsAbs(destPath) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid backup path: must be absolute")
	}
	return nil
}
