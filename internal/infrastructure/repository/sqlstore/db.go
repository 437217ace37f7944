package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB is a database handle with the dialect its queries are written for.
// Queries use $N placeholders; SQLite receives them as ?N.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor picks SQLite for "sqlite:" and "file:" DSNs, Postgres otherwise.
func DialectFor(dsn string) (Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite:")
	case strings.HasPrefix(dsn, "file:"):
		return DialectSQLite, dsn
	default:
		return DialectPostgres, dsn
	}
}

func Open(dsn string) (*DB, error) {
	dialect, source := DialectFor(dsn)
	driver := "pgx"
	if dialect == DialectSQLite {
		driver = "sqlite"
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite has a single writer, and :memory: databases live per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

func (d *DB) rebind(query string) string {
	if d.Dialect != DialectSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?$1")
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.ExecContext(ctx, d.rebind(query), args...)
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.QueryContext(ctx, d.rebind(query), args...)
}

func (d *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.QueryRowContext(ctx, d.rebind(query), args...)
}

// EnsureSchema creates the tables used by the repositories.
func (d *DB) EnsureSchema(ctx context.Context) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tsType := "TIMESTAMPTZ"
	if d.Dialect == DialectPostgres {
		// Serialize bootstrap DDL across api/worker startups.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101801)); err != nil {
			return fmt.Errorf("acquire schema lock: %w", err)
		}
	} else {
		tsType = "TIMESTAMP"
	}

	for _, stmt := range schemaStatements(tsType) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema ddl: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func schemaStatements(ts string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	gender TEXT NOT NULL DEFAULT '',
	age INTEGER,
	height DOUBLE PRECISION,
	weight DOUBLE PRECISION,
	medical_history TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	emergency_contact TEXT NOT NULL DEFAULT '',
	blood_type TEXT NOT NULL DEFAULT '',
	allergies TEXT NOT NULL DEFAULT '',
	medications TEXT NOT NULL DEFAULT '',
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	last_login ` + ts + `,
	created_at ` + ts + ` NOT NULL,
	updated_at ` + ts + ` NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	expires_at ` + ts + ` NOT NULL,
	created_at ` + ts + ` NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	user_email TEXT NOT NULL DEFAULT '',
	symptoms TEXT NOT NULL,
	age_at_assessment INTEGER NOT NULL,
	days_sick INTEGER NOT NULL,
	priority TEXT NOT NULL,
	message TEXT NOT NULL,
	description TEXT NOT NULL,
	recommendations TEXT NOT NULL DEFAULT '[]',
	created_at ` + ts + ` NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_user_id ON assessments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at ` + ts + ` NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status)`,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(op, id string) error {
	return domain.WrapError(domain.ErrNotFound, op, fmt.Errorf("id=%s", id))
}

func expectAffected(res sql.Result, op, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return notFound(op, id)
	}
	return nil
}

// rangeClause appends [from, to) conditions on column for non-zero bounds.
func rangeClause(column string, from, to time.Time, args []any) (string, []any) {
	var parts []string
	if !from.IsZero() {
		args = append(args, from.UTC())
		parts = append(parts, fmt.Sprintf("%s >= $%d", column, len(args)))
	}
	if !to.IsZero() {
		args = append(args, to.UTC())
		parts = append(parts, fmt.Sprintf("%s < $%d", column, len(args)))
	}
	if len(parts) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

type rowScanner interface {
	Scan(dest ...any) error
}
