package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Offer catalog",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS chains (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS offers (
					id TEXT PRIMARY KEY,
					product_name TEXT NOT NULL,
					chain_id TEXT NOT NULL,
					price REAL NOT NULL,
					original_price REAL,
					valid_from TEXT NOT NULL,
					valid_until TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_offers_chain_window ON offers(chain_id, valid_from, valid_until)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Pantry staples",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS pantry_staples (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT 'other',
					icon TEXT NOT NULL DEFAULT '',
					sort_order INTEGER NOT NULL DEFAULT 0
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Households and shopping lists",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS households (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS household_chains (
					household_id TEXT NOT NULL,
					chain_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					PRIMARY KEY (household_id, chain_id),
					FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
				)`,
				`CREATE TABLE IF NOT EXISTS shopping_lists (
					id TEXT PRIMARY KEY,
					household_id TEXT NOT NULL,
					meal_plan_id TEXT NOT NULL DEFAULT '',
					total_price REAL NOT NULL DEFAULT 0,
					completed INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_shopping_lists_household ON shopping_lists(household_id, completed)`,
				`CREATE TABLE IF NOT EXISTS shopping_list_items (
					list_id TEXT NOT NULL,
					id TEXT NOT NULL,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					amount REAL NOT NULL DEFAULT 0,
					unit TEXT NOT NULL DEFAULT '',
					price REAL,
					offer_price REAL,
					offer_id TEXT NOT NULL DEFAULT '',
					store TEXT NOT NULL DEFAULT '',
					source TEXT NOT NULL DEFAULT '',
					is_estimate INTEGER NOT NULL DEFAULT 0,
					checked INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (list_id, id),
					FOREIGN KEY (list_id) REFERENCES shopping_lists(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     4,
		Description: "Daily meal logs",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS meal_logs (
					user_id TEXT NOT NULL,
					date TEXT NOT NULL,
					meal_plan_id TEXT NOT NULL DEFAULT '',
					breakfast TEXT NOT NULL DEFAULT '',
					lunch TEXT NOT NULL DEFAULT '',
					dinner TEXT NOT NULL DEFAULT '',
					extra_calories INTEGER NOT NULL DEFAULT 0,
					extra_description TEXT NOT NULL DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, date)
				)`,
				`CREATE INDEX idx_meal_logs_plan ON meal_logs(user_id, meal_plan_id)`,
				`CREATE TABLE IF NOT EXISTS meal_log_photos (
					user_id TEXT NOT NULL,
					date TEXT NOT NULL,
					position INTEGER NOT NULL,
					url TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					estimated_calories INTEGER,
					taken_at DATETIME,
					PRIMARY KEY (user_id, date, position),
					FOREIGN KEY (user_id, date) REFERENCES meal_logs(user_id, date) ON DELETE CASCADE
				)`,
			)
		},
	},
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
