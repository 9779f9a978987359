// Package config resolves where larder keeps its files.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const databaseFile = "larder.db"

// DefaultDatabasePath is the local database location when database.path is unset:
// $XDG_DATA_HOME/larder/larder.db, falling back to ~/.local/share/larder/larder.db.
func DefaultDatabasePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "larder", databaseFile)
	}
	return ExpandPath(filepath.Join("~", ".local", "share", "larder", databaseFile))
}

// DatabasePath returns the configured database path with ~ and $VARS expanded,
// or DefaultDatabasePath when nothing is configured. ":memory:" passes through.
func DatabasePath(configured string) string {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return DefaultDatabasePath()
	}
	return ExpandPath(configured)
}

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
