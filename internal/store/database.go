package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hireloop/questgen/internal/types"
)

// DB wraps the SQLite database connection used for jobs, candidates, and
// policies.
type DB struct {
	conn *sql.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path            string        // Database file path
	MaxOpenConns    int           // Maximum number of open connections
	MaxIdleConns    int           // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum connection lifetime
	BusyTimeout     time.Duration // SQLite busy timeout
}

// DefaultConfig returns sensible defaults for database configuration.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// Open creates a new database connection with optimized settings.
// Enables WAL mode and foreign keys, and sets a busy timeout so concurrent
// invocations writing candidate status do not fail immediately on lock.
func Open(path string) (*DB, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig creates a new database connection with custom configuration.
func OpenWithConfig(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		cfg.Path,
		int(cfg.BusyTimeout.Milliseconds()),
	)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "failed to open database", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "failed to ping database", err)
	}

	db := &DB{
		conn: conn,
		path: cfg.Path,
	}

	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// migrate applies the schema. Statements are idempotent.
func (db *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id          INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			aspects     TEXT NOT NULL DEFAULT '[]',
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id         INTEGER PRIMARY KEY,
			job_id     INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			resume     TEXT NOT NULL DEFAULT '',
			aspects    TEXT NOT NULL DEFAULT '[]',
			status     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_job_id ON candidates(job_id)`,
		`CREATE TABLE IF NOT EXISTS policies (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return types.WrapError(types.STORE_MIGRATION_FAILED, "failed to apply schema", err)
		}
	}
	return nil
}
