// Package aggregate rebuilds the per-developer domain summaries from a full
// scan of the contribution store. The recompute is a pure function of the
// store and alias table contents at scan time: it tallies domain counts and
// collects evidence per canonical developer, then overwrites every observed
// developer's summary row.
package aggregate

import (
	"context"
	"fmt"

	"devmap/internal/contribution"
	"devmap/internal/identity"
	"devmap/internal/logging"
)

// RecordScanner is the paginated read side of the contribution store
type RecordScanner interface {
	ScanPage(token string, limit int) ([]contribution.Record, string, error)
}

// SummaryWriter is the write side of the summary store
type SummaryWriter interface {
	Overwrite(sum *contribution.Summary) error
}

// DefaultPageSize is the scan page size when none is configured
const DefaultPageSize = 200

// Engine performs the full-scan recompute. It takes no record-level locks;
// a store mutated mid-scan yields an unspecified interleaving that the next
// trigger corrects.
type Engine struct {
	records    RecordScanner
	summaries  SummaryWriter
	normalizer *identity.Normalizer
	pageSize   int
	logger     *logging.Logger
}

// NewEngine creates an aggregation engine
func NewEngine(records RecordScanner, summaries SummaryWriter, normalizer *identity.Normalizer, pageSize int, logger *logging.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{
		records:    records,
		summaries:  summaries,
		normalizer: normalizer,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// Recompute scans the whole contribution store and overwrites one summary
// row per canonical developer. The scan loops until no continuation token
// remains; a partial scan would not reflect the complete current state.
func (e *Engine) Recompute(ctx context.Context) error {
	devMap := make(map[string]*contribution.Summary)

	token := ""
	scanned := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, next, err := e.records.ScanPage(token, e.pageSize)
		if err != nil {
			return fmt.Errorf("scan contributions: %w", err)
		}

		for i := range items {
			e.accumulate(devMap, &items[i])
		}
		scanned += len(items)

		if next == "" {
			break
		}
		token = next
	}

	for _, sum := range devMap {
		if err := e.summaries.Overwrite(sum); err != nil {
			return fmt.Errorf("overwrite summary for %s: %w", sum.Developer, err)
		}
	}

	e.logger.Info("Developer domain summary updated", map[string]interface{}{
		"records":    scanned,
		"developers": len(devMap),
	})
	return nil
}

// accumulate folds one record into its canonical developer's summary. The
// raw identity is normalized exactly once, never recursively. The summary
// timestamp is the newest contributing record's timestamp, so recomputing
// an unchanged store reproduces identical rows.
func (e *Engine) accumulate(devMap map[string]*contribution.Summary, rec *contribution.Record) {
	dev := e.normalizer.Normalize(rec.Developer)

	sum, ok := devMap[dev]
	if !ok {
		sum = contribution.NewSummary(dev)
		devMap[dev] = sum
	}

	evidence := rec.Evidence()
	for _, domain := range rec.DomainsOrEmpty() {
		sum.Add(domain, evidence)
	}
	if rec.CreatedAt.After(sum.UpdatedAt) {
		sum.UpdatedAt = rec.CreatedAt
	}
}
