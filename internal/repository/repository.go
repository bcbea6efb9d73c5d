package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avast/retry-go/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL backend
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DetectDialect picks the backend from a DSN. postgres:// URLs use Postgres,
// anything else is treated as a SQLite path.
func DetectDialect(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Repository provides data access methods
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// connectAttempts bounds the startup ping retry
const connectAttempts = 5

// New opens the database behind dsn, waits for it to answer and runs migrations
func New(dsn string) (*Repository, error) {
	dialect := DetectDialect(dsn)
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		// SQLite works best with single connection; :memory: needs it
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	err = retry.Do(
		func() error { return db.Ping() },
		retry.Attempts(connectAttempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	if dialect == DialectSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}

	repo := &Repository{db: db, dialect: dialect}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Dialect returns the SQL backend in use
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// placeholders returns the squirrel placeholder format for the dialect
func (r *Repository) placeholders() sq.PlaceholderFormat {
	if r.dialect == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// builder returns a statement builder bound to the dialect's placeholders
func (r *Repository) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(r.placeholders())
}

// rebind converts ?-style queries to the dialect's placeholder syntax
func (r *Repository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	out, err := sq.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return query
	}
	return out
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) exec(ctx context.Context, e execer, query string, args ...any) (sql.Result, error) {
	return e.ExecContext(ctx, r.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.rebind(query), args...)
}

// queryBuilt runs a squirrel select
func (r *Repository) queryBuilt(ctx context.Context, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return r.db.QueryContext(ctx, query, args...)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	seqColumn := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.dialect == DialectPostgres {
		seqColumn = "seq BIGSERIAL PRIMARY KEY"
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cats (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			popular BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			image_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS applicants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			township TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			` + seqColumn + `,
			applicant_id TEXT NOT NULL UNIQUE REFERENCES applicants(id) ON DELETE CASCADE,
			submitted_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS application_choices (
			applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
			cat_id INTEGER NOT NULL,
			ordinal INTEGER NOT NULL,
			PRIMARY KEY (applicant_id, cat_id)
		)`,
		`CREATE TABLE IF NOT EXISTS live_state (
			id INTEGER PRIMARY KEY,
			revision BIGINT NOT NULL DEFAULT 0,
			phase TEXT NOT NULL,
			selected_cat_ids TEXT NOT NULL,
			results TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT '',
			draw_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS draws (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			cat_ids TEXT NOT NULL,
			results TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS draw_winners (
			draw_id TEXT NOT NULL REFERENCES draws(id) ON DELETE CASCADE,
			cat_id INTEGER NOT NULL,
			rank TEXT NOT NULL,
			applicant_id TEXT NOT NULL,
			PRIMARY KEY (draw_id, cat_id, rank)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_application_choices_cat ON application_choices(cat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_draw_winners_applicant ON draw_winners(applicant_id)`,
		`INSERT INTO live_state (id, revision, phase, selected_cat_ids, results, updated_at, draw_id)
			VALUES (1, 0, 'preview', '[]', '[]', '', '')
			ON CONFLICT (id) DO NOTHING`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// No default settings rows: unset keys fall back to config values,
	// and base_url is set by app.go with the detected LAN address on startup
	return nil
}

// timeLayout is fixed width so stored timestamps sort lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
