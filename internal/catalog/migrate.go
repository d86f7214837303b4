package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func (c *Catalog) provider() (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	dialect := goose.DialectSQLite3
	if c.driver == DriverPostgres {
		dialect = goose.DialectPostgres
	}
	return goose.NewProvider(dialect, c.db, fsys)
}

// Migrate applies all pending catalog migrations.
func (c *Catalog) Migrate(ctx context.Context) error {
	p, err := c.provider()
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		c.logger.Debug("applied migration",
			"version", r.Source.Version,
			"duration", r.Duration)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (c *Catalog) MigrationVersion(ctx context.Context) (int64, error) {
	p, err := c.provider()
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p.GetDBVersion(ctx)
}
