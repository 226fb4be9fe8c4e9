package database

import (
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

// migrationLogger adapts ectologger to migrate's Logger interface.
type migrationLogger struct {
	ectologger.Logger
}

func (l migrationLogger) Verbose() bool {
	return true
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// Migrate applies every pending migration from folderPath.
func Migrate(db *sqlx.DB, databaseName, folderPath string, logger ectologger.Logger) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folderPath, databaseName, driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	m.Log = migrationLogger{logger}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
