// Package storage persists user preferences and game statistics.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "chesscompanion"

// DataDir returns the per-user data directory for the application,
// creating it if needed.
func DataDir() (string, error) {
	dir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the directory holding the BadgerDB database.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
