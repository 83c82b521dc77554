package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunMigrations applies all pending migrations from fsys. A database that is
// already up to date is not an error.
func RunMigrations(fsys fs.FS, cfg *config.Postgres, log logger.Logger) error {
	const op = "storage.postgres.RunMigrations"

	source, err := iofs.New(fsys, ".")
	if err != nil {
		return fmt.Errorf("%s: migration source: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, connectionURL("pgx5", cfg))
	if err != nil {
		return fmt.Errorf("%s: migrate instance: %w", op, err)
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infow("database schema already up to date")
			return nil
		}
		return fmt.Errorf("%s: apply migrations: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("%s: read version: %w", op, err)
	}
	log.Infow("database migrations applied", "version", version, "dirty", dirty)

	return nil
}
