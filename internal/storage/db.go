package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timeLayout is fixed width so lexical order of stored UTC values matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// New opens the database for driver, applies the schema and returns the repository.
func New(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Repository, error) {
	driver = normalizeDriver(driver)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	repo := &Repository{db: db, driver: driver, logger: logger}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewWithDB wraps an already opened handle without running migrations.
func NewWithDB(db *sql.DB, driver string, logger *slog.Logger) *Repository {
	return &Repository{db: db, driver: normalizeDriver(driver), logger: logger}
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Driver returns the normalized driver name.
func (r *Repository) Driver() string {
	return r.driver
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

func (r *Repository) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			full_name TEXT NOT NULL,
			phone_number TEXT,
			notification_methods TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS phone_lines (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			location TEXT NOT NULL,
			no_contact_period TEXT,
			active BOOLEAN NOT NULL,
			last_activity_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_contacts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			contact_name TEXT NOT NULL,
			relationship TEXT,
			email TEXT,
			phone_number TEXT,
			notification_methods TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS alert_history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			notification_method TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL,
			response_log TEXT,
			contact_email TEXT,
			contact_phone TEXT,
			device_phone_number TEXT,
			sent_at TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity_events (
			id TEXT PRIMARY KEY,
			device_id TEXT,
			phone_number TEXT NOT NULL,
			message TEXT,
			source TEXT NOT NULL,
			received_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_phone_lines_user ON phone_lines(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_phone_lines_phone ON phone_lines(phone_number);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_phone_lines_user_phone ON phone_lines(user_id, phone_number);`,
		`CREATE INDEX IF NOT EXISTS idx_user_contacts_user ON user_contacts(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_alert_history_user ON alert_history(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_events_device ON activity_events(device_id, received_at);`,
	}
	if r.driver == DriverSQLite {
		statements = append([]string{`PRAGMA journal_mode = WAL;`}, statements...)
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
	}
	if r.logger != nil {
		r.logger.Debug("schema ready", "driver", r.driver)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.rebind(query), args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func toTimePtr(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func fromTimePtr(v *time.Time) any {
	if v == nil {
		return nil
	}
	return formatTime(*v)
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
