package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	applog "cuentas/internal/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the local database up to the current schema. It opens
// a dedicated connection so the repository's pool never sees a half-migrated
// schema.
func RunMigrations(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case err == nil:
		if version, dirty, verr := m.Version(); verr == nil {
			slog.Info("Database migrated",
				"component", applog.ComponentStorage, "version", version, "dirty", dirty)
		}
	case err == migrate.ErrNoChange:
		slog.Debug("Database schema up to date", "component", applog.ComponentStorage)
	default:
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
