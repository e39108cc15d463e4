// Package testutil holds shared fixtures for store-backed tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/reelhub/reelhub/internal/db"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewSQLiteDB opens a migrated SQLite database in a per-test temp directory.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "reelhub.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return database
}
