package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/penny/internal/cli"
	"github.com/Veraticus/penny/internal/config"
	"github.com/Veraticus/penny/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

With --backup, an existing database is copied next to itself before any
migration runs.`,
		RunE: runMigrate,
	}

	// Flags
	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")
	cmd.Flags().Bool("backup", false, "Back up the database before migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	backup, _ := cmd.Flags().GetBool("backup")

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		slog.Info("📊 Database Migration Status",
			"database", dbPath,
			"current_version", current,
			"latest_version", storage.ExpectedSchemaVersion,
			"pending", storage.ExpectedSchemaVersion-current)
		return nil
	}

	if current >= storage.ExpectedSchemaVersion {
		slog.Info("Database schema is up to date", "database", dbPath, "version", current)
		return nil
	}

	if backup && current > 0 {
		if err := store.Backup(ctx, store.BackupPath(current)); err != nil {
			return fmt.Errorf("backup before migration failed: %w", err)
		}
	}

	slog.Info("🗄️  Running database migrations...", "database", dbPath, "from", current)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Debug("Database migrations completed", "database", dbPath, "version", storage.ExpectedSchemaVersion)
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Database migrated to version %d", storage.ExpectedSchemaVersion)))
	return nil
}
