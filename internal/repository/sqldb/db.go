package sqldb

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/micro-ha/nocontact/internal/storage"
)

// DB is root SQL storage handle for repositories.
type DB struct {
	storage *storage.Repository
	logger  *slog.Logger
}

// Open connects to driver/dsn and runs migrations.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*DB, error) {
	base, err := storage.New(ctx, driver, dsn, logger)
	if err != nil {
		return nil, err
	}
	return &DB{
		storage: base,
		logger:  logger,
	}, nil
}

// Close closes active connection pool.
func (d *DB) Close() error {
	if d == nil || d.storage == nil {
		return nil
	}
	return d.storage.Close()
}

// Driver reports the active SQL driver name.
func (d *DB) Driver() string {
	if d == nil || d.storage == nil {
		return ""
	}
	return d.storage.Driver()
}

// SQLDB returns low-level sql.DB for callers requiring direct access.
func (d *DB) SQLDB() *sql.DB {
	if d == nil || d.storage == nil {
		return nil
	}
	return d.storage.SQLDB()
}
