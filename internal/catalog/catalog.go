// Package catalog publishes validated models to a catalog database for
// discovery and governance. It stores model metadata only.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	// Catalog drivers register themselves with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported catalog drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the catalog database.
type Config struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string
	// DSN is a file path or ":memory:" for sqlite, a connection string for postgres.
	DSN string
}

// Catalog is a connection to a catalog database.
type Catalog struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
	now    func() time.Time
}

// Open connects to the catalog described by cfg. It does not migrate.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Catalog, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err == nil && isMemory(cfg.DSN) {
			// each connection would otherwise get its own empty database
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sql.Open("pgx", cfg.DSN)
	default:
		return nil, &UnknownDriverError{Driver: cfg.Driver}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s catalog: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s catalog: %w", driver, err)
	}

	return NewWithDB(db, driver, logger), nil
}

// NewWithDB wraps an existing connection. driver selects the SQL dialect.
func NewWithDB(db *sql.DB, driver string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		db:     db,
		driver: driver,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" || isMemory(dsn) {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
}

func isMemory(dsn string) bool {
	return dsn == "" || strings.HasPrefix(dsn, ":memory:")
}

// rebind rewrites ? placeholders to $n for postgres.
func (c *Catalog) rebind(query string) string {
	if c.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
	}
	return err
}
