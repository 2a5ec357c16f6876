// Package migrations runs the database schema migrations.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/hackhub/auth-service/internal/config"
)

// Manager applies migrations against the configured database.
type Manager struct {
	db     *sql.DB
	config *config.DatabaseConfig
	logger *zap.Logger
}

// NewManager creates a migration Manager.
func NewManager(db *sql.DB, config *config.DatabaseConfig, logger *zap.Logger) *Manager {
	return &Manager{db: db, config: config, logger: logger}
}

// Up applies all pending migrations. A fully migrated database is not an
// error.
func (m *Manager) Up() error {
	driver, err := postgres.WithInstance(m.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", m.config.MigrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.logger.Info("Database migrations applied")
	return nil
}
