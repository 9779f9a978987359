package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/larder/internal/cli"
	"github.com/Veraticus/larder/internal/config"
	"github.com/Veraticus/larder/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the local database schema to the latest version.

The local database always holds the offer catalog, pantry staples and
household preferences, whichever storage backend is configured.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	slog.Info("Starting database migration", "database", dbPath, "status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		cmd.Println(cli.FormatTitle("Database Migration Status"))
		cmd.Printf("Database: %s\nCurrent version: %d\nLatest version: %d\n", dbPath, current, storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			cmd.Println(cli.FormatWarning("Migrations pending; run 'larder migrate'"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	cmd.Println(cli.FormatSuccess("Database migrations completed"))
	return nil
}
