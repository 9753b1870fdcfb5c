package migrate

import (
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// RunMigrations applies pending settlement schema migrations from
// migrationPath against the already-open gorm connection. An up-to-date
// schema is not an error.
func RunMigrations(db *gorm.DB, migrationPath string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrapping sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		MigrationsTable: "settlement_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance for %s: %w", migrationPath, err)
	}

	err = m.Up()
	if err == migrate.ErrNoChange {
		slog.Info("settlement schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("applying settlement migrations: %w", err)
	}

	slog.Info("settlement migrations applied", "path", migrationPath)
	return nil
}
