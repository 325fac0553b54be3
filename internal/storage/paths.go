// Package storage owns the settings document on disk: default locations,
// atomic load/save/update cycles, and a watcher that reloads the document
// when something else rewrites it.
package storage

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory (~/.scancfg).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".scancfg")
}

// DefaultSettingsPath returns the default location of the settings document.
func DefaultSettingsPath() string {
	return filepath.Join(DefaultDataDir(), "settings.json")
}

// HistoryDir returns the revision-history repository path under dataDir.
func HistoryDir(dataDir string) string {
	return filepath.Join(dataDir, "history")
}

// JournalPath returns the change-journal database path under dataDir.
func JournalPath(dataDir string) string {
	return filepath.Join(dataDir, "journal.db")
}

// EnsureDataDir creates the data directory if it does not exist.
func EnsureDataDir(dataDir string) error {
	return os.MkdirAll(dataDir, 0o755)
}
