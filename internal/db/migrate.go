package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Direction selects which way migrations are applied.
type Direction int

const (
	Up Direction = iota
	Down
)

// Migrate applies the embedded migrations for driver to conn. conn stays
// open afterwards.
func Migrate(ctx context.Context, conn *sql.DB, driver string, dir Direction) error {
	migrator, release, err := newMigrator(ctx, conn, driver)
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer release(migrator)

	switch dir {
	case Up:
		err = migrator.Up()
	case Down:
		err = migrator.Down()
	default:
		return fmt.Errorf("unknown migration direction %d", dir)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}

// newMigrator returns the migrator and a release func. The postgres driver
// runs on a dedicated *sql.Conn that release returns to the pool; the sqlite
// driver's Close would close conn itself, so release leaves it alone.
func newMigrator(ctx context.Context, conn *sql.DB, driver string) (*migrate.Migrate, func(*migrate.Migrate), error) {
	var (
		dbDriver database.Driver
		release  = func(*migrate.Migrate) {}
		path     string
		err      error
	)

	switch driver {
	case "", DriverPostgres:
		driver = DriverPostgres
		path = "migrations/postgres"
		var c *sql.Conn
		c, err = conn.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		dbDriver, err = postgres.WithConnection(ctx, c, &postgres.Config{})
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
		release = func(m *migrate.Migrate) {
			_, _ = m.Close()
		}
	case DriverSQLite:
		path = "migrations/sqlite"
		dbDriver, err = sqlite.WithInstance(conn, &sqlite.Config{})
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	source, err := iofs.New(migrationsFS, path)
	if err == nil {
		var m *migrate.Migrate
		if m, err = migrate.NewWithInstance("iofs", source, driver, dbDriver); err == nil {
			return m, release, nil
		}
	}
	if driver == DriverPostgres {
		_ = dbDriver.Close()
	}
	return nil, nil, err
}
