package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

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
				`CREATE TABLE IF NOT EXISTS subscriptions (
					id TEXT PRIMARY KEY,
					chat_id TEXT NOT NULL,
					name TEXT NOT NULL,
					cost TEXT NOT NULL,
					currency TEXT NOT NULL,
					next_payment_date DATETIME NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_subscriptions_chat ON subscriptions(chat_id)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					chat_id TEXT NOT NULL,
					title TEXT NOT NULL,
					amount TEXT NOT NULL,
					currency TEXT NOT NULL,
					spent_at DATETIME NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_expenses_chat ON expenses(chat_id, spent_at)`,

				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					chat_id TEXT NOT NULL,
					title TEXT NOT NULL,
					amount TEXT NOT NULL,
					currency TEXT NOT NULL,
					received_at DATETIME NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_incomes_chat ON incomes(chat_id, received_at)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add billing period and recurrence label to subscriptions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE subscriptions ADD COLUMN billing_period TEXT NOT NULL DEFAULT 'monthly'`,
				`ALTER TABLE subscriptions ADD COLUMN recurrence_label TEXT NOT NULL DEFAULT ''`,
			)
		},
	},
	{
		Version:     3,
		Description: "Add categories to all records",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE subscriptions ADD COLUMN category TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE expenses ADD COLUMN category TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE incomes ADD COLUMN category TEXT NOT NULL DEFAULT ''`,
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
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

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
