package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all up migrations to the database at path.
// It uses its own connection, which migrate closes when done.
func RunMigrations(driver, path string) error {
	if driver == "" {
		driver = DriverCGO
	}
	db, err := Open(driver, path)
	if err != nil {
		return err
	}

	var inst migratedb.Driver
	switch driver {
	case DriverPure:
		inst, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		inst, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, inst)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
