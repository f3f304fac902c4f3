package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"devmap/internal/contribution"
)

// RecordStore provides point writes, point reads and the paginated full
// scan over contribution records
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a record store over an open database
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// Put writes one record, replacing any prior record with the same
// (developer, source, id) key. Jira and Confluence use natural source ids,
// so re-ingesting the same issue or page overwrites the earlier record;
// GitHub records always carry a freshly minted id.
func (s *RecordStore) Put(rec *contribution.Record) error {
	domains, err := json.Marshal(rec.DomainsOrEmpty())
	if err != nil {
		return fmt.Errorf("failed to encode domains: %w", err)
	}

	_, err = s.db.conn.Exec(`
		INSERT OR REPLACE INTO contributions (
			pk, sk, source, source_id, content, summary, repo, title, domains, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.PartitionKey(),
		rec.SortKey(),
		string(rec.Source),
		rec.SourceID,
		rec.Content,
		rec.Summary,
		rec.Repo,
		rec.Title,
		string(domains),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to put contribution record: %w", err)
	}
	return nil
}

// Get retrieves one record by its key parts. Returns nil when the record
// does not exist.
func (s *RecordStore) Get(developer string, source contribution.SourceType, sourceID string) (*contribution.Record, error) {
	rec := contribution.Record{Developer: developer, Source: source, SourceID: sourceID}
	pk := rec.PartitionKey()
	sk := rec.SortKey()

	row := s.db.conn.QueryRow(`
		SELECT pk, sk, source, source_id, content, summary, repo, title, domains, created_at
		FROM contributions
		WHERE pk = ? AND sk = ?
	`, pk, sk)

	out, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution record: %w", err)
	}
	return out, nil
}

// ScanPage returns one page of records in (pk, sk) order, starting after
// the position encoded in token. An empty token starts from the beginning.
// A non-empty next token means the scan may have more pages; callers loop
// until the returned token is empty. A partial scan is never a complete
// view of the store.
func (s *RecordStore) ScanPage(token string, limit int) ([]contribution.Record, string, error) {
	if limit <= 0 {
		limit = 100
	}

	afterPK, afterSK, err := decodeScanToken(token)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.db.conn.Query(`
		SELECT pk, sk, source, source_id, content, summary, repo, title, domains, created_at
		FROM contributions
		WHERE pk > ? OR (pk = ? AND sk > ?)
		ORDER BY pk, sk
		LIMIT ?
	`, afterPK, afterPK, afterSK, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to scan contributions: %w", err)
	}
	defer rows.Close()

	var out []contribution.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan contribution row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to scan contributions: %w", err)
	}

	next := ""
	if len(out) == limit {
		last := out[len(out)-1]
		next = encodeScanToken(last.PartitionKey(), last.SortKey())
	}
	return out, next, nil
}

// Count returns the number of stored records
func (s *RecordStore) Count() (int, error) {
	var n int
	if err := s.db.conn.QueryRow(`SELECT COUNT(*) FROM contributions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contributions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*contribution.Record, error) {
	var rec contribution.Record
	var pk, sk, source, domains, createdAt string

	err := row.Scan(&pk, &sk, &source, &rec.SourceID, &rec.Content, &rec.Summary,
		&rec.Repo, &rec.Title, &domains, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.Developer = contribution.DeveloperFromPartitionKey(pk)
	rec.Source = contribution.SourceType(source)
	rec.Domains = decodeDomains(domains)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}

// decodeDomains tolerates the three shapes domains have been stored in: a
// JSON list, a JSON string, or a bare string. Anything non-list becomes a
// one-element list; anything unreadable becomes empty.
func decodeDomains(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if list == nil {
			return []string{}
		}
		return list
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if single == "" {
			return []string{}
		}
		return []string{single}
	}

	return []string{raw}
}

const scanTokenSep = "\x1f"

func encodeScanToken(pk, sk string) string {
	return pk + scanTokenSep + sk
}

func decodeScanToken(token string) (pk, sk string, err error) {
	if token == "" {
		return "", "", nil
	}
	parts := strings.SplitN(token, scanTokenSep, 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed scan token")
	}
	return parts[0], parts[1], nil
}
