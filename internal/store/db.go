// Package store persists contribution records, developer aliases and
// derived domain summaries in SQLite. All writes are point writes keyed by
// (partition, sort) with last-write-wins semantics; there are no
// cross-record transactions.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"devmap/internal/logging"
)

// DB wraps the SQLite connection shared by the record, alias and summary
// stores
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the devmap database at dbPath. Pass ":memory:" for
// an in-memory database in tests.
func Open(dbPath string, logger *logging.Logger) (*DB, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS contributions (
	pk         TEXT NOT NULL,
	sk         TEXT NOT NULL,
	source     TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	summary    TEXT NOT NULL DEFAULT '',
	repo       TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	domains    TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	PRIMARY KEY (pk, sk)
);

CREATE TABLE IF NOT EXISTS dev_aliases (
	pk          TEXT PRIMARY KEY,
	target_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS domain_summaries (
	developer       TEXT PRIMARY KEY,
	domain_counts   TEXT NOT NULL,
	domain_evidence TEXT NOT NULL,
	total_score     INTEGER NOT NULL,
	updated_at      TEXT NOT NULL
);
`

func (db *DB) initializeSchema() error {
	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}
