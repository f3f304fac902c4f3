package store

import (
	"database/sql"
	"fmt"

	"devmap/internal/contribution"
)

// AliasStore reads and writes the developer identity alias table. The table
// is curated out-of-band (see the aliases load command); the aggregation
// path only ever reads it.
type AliasStore struct {
	db *DB
}

// NewAliasStore creates an alias store over an open database
func NewAliasStore(db *DB) *AliasStore {
	return &AliasStore{db: db}
}

// Lookup resolves a raw developer name to its canonical target. The second
// return value reports whether an alias entry exists.
func (s *AliasStore) Lookup(rawName string) (string, bool, error) {
	var target string
	err := s.db.conn.QueryRow(`
		SELECT target_name FROM dev_aliases WHERE pk = ?
	`, contribution.AliasKey(rawName)).Scan(&target)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up alias: %w", err)
	}
	return target, true, nil
}

// Put creates or replaces one alias entry
func (s *AliasStore) Put(rawName, targetName string) error {
	_, err := s.db.conn.Exec(`
		INSERT OR REPLACE INTO dev_aliases (pk, target_name) VALUES (?, ?)
	`, contribution.AliasKey(rawName), targetName)
	if err != nil {
		return fmt.Errorf("failed to put alias: %w", err)
	}
	return nil
}
