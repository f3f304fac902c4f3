package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"devmap/internal/contribution"
)

// SummaryStore holds the derived developer-domain summary rows. Rows are
// fully overwritten by each aggregation run, never merged.
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a summary store over an open database
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// Overwrite replaces the summary row for one developer
func (s *SummaryStore) Overwrite(sum *contribution.Summary) error {
	counts, err := json.Marshal(sum.DomainCounts)
	if err != nil {
		return fmt.Errorf("failed to encode domain counts: %w", err)
	}
	evidence, err := json.Marshal(sum.DomainEvidence)
	if err != nil {
		return fmt.Errorf("failed to encode domain evidence: %w", err)
	}

	updatedAt := sum.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = s.db.conn.Exec(`
		INSERT OR REPLACE INTO domain_summaries (
			developer, domain_counts, domain_evidence, total_score, updated_at
		) VALUES (?, ?, ?, ?, ?)
	`, sum.Developer, string(counts), string(evidence), sum.TotalScore,
		updatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to overwrite summary: %w", err)
	}
	return nil
}

// Get retrieves the summary row for one developer. Returns nil when no row
// exists.
func (s *SummaryStore) Get(developer string) (*contribution.Summary, error) {
	var sum contribution.Summary
	var counts, evidence, updatedAt string

	err := s.db.conn.QueryRow(`
		SELECT developer, domain_counts, domain_evidence, total_score, updated_at
		FROM domain_summaries
		WHERE developer = ?
	`, developer).Scan(&sum.Developer, &counts, &evidence, &sum.TotalScore, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	if err := json.Unmarshal([]byte(counts), &sum.DomainCounts); err != nil {
		return nil, fmt.Errorf("failed to decode domain counts: %w", err)
	}
	if err := json.Unmarshal([]byte(evidence), &sum.DomainEvidence); err != nil {
		return nil, fmt.Errorf("failed to decode domain evidence: %w", err)
	}
	if sum.DomainCounts == nil {
		sum.DomainCounts = map[string]int{}
	}
	if sum.DomainEvidence == nil {
		sum.DomainEvidence = map[string][]string{}
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		sum.UpdatedAt = t
	}
	return &sum, nil
}

// List returns all summary rows in developer order
func (s *SummaryStore) List() ([]contribution.Summary, error) {
	rows, err := s.db.conn.Query(`SELECT developer FROM domain_summaries ORDER BY developer`)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var developers []string
	for rows.Next() {
		var dev string
		if err := rows.Scan(&dev); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		developers = append(developers, dev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	out := make([]contribution.Summary, 0, len(developers))
	for _, dev := range developers {
		sum, err := s.Get(dev)
		if err != nil {
			return nil, err
		}
		if sum != nil {
			out = append(out, *sum)
		}
	}
	return out, nil
}
