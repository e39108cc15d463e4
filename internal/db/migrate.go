package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	"sqlite": "sqlite3",
	"pgx":    "postgres",
}

func RunMigrations(db *sql.DB, driver string) error {
	dialect, ok := dialectMap[driver]
	if !ok {
		return fmt.Errorf("no migration dialect for driver %q", driver)
	}

	err := goose.SetDialect(dialect)
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(goose.NopLogger())

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully", "driver", driver)
	return nil
}
