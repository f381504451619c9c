package runledger

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the Run Ledger's Postgres store. dsn follows the
// standard "host=... port=... user=... password=... dbname=..." form
// config assembles from its discrete DB_* env vars or DATABASE_URL.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("runledger: connecting to database: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration under migrationsPath (a
// "file://..." source URL) to the database at postgresURL (a
// "postgres://..." connection string), per SPEC_FULL §6's MIGRATIONS_PATH
// env var. It is idempotent: running it against an already-current schema
// is a no-op.
func Migrate(postgresURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, postgresURL)
	if err != nil {
		return fmt.Errorf("runledger: initializing migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("runledger: applying migrations: %w", err)
	}
	return nil
}
