// Package export flattens the contribution store into plain-text chunks for
// an external retrieval index. Export is idempotent per record: a chunk
// whose key already exists is skipped, so re-running against an unchanged
// store writes nothing.
package export

import (
	"context"
	"fmt"
	"strings"

	"devmap/internal/contribution"
	"devmap/internal/identity"
	"devmap/internal/logging"
)

// RecordScanner is the paginated read side of the contribution store
type RecordScanner interface {
	ScanPage(token string, limit int) ([]contribution.Record, string, error)
}

// DefaultPrefix is the object-key prefix when none is configured
const DefaultPrefix = "developer_contribution/"

// Exporter renders one text chunk per contribution record
type Exporter struct {
	records    RecordScanner
	normalizer *identity.Normalizer
	objects    ObjectStore
	prefix     string
	pageSize   int
	logger     *logging.Logger
}

// Config holds exporter settings
type Config struct {
	Prefix   string
	PageSize int
}

// NewExporter creates an exporter over the contribution store and an object
// target
func NewExporter(records RecordScanner, normalizer *identity.Normalizer, objects ObjectStore, cfg Config, logger *logging.Logger) *Exporter {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	return &Exporter{
		records:    records,
		normalizer: normalizer,
		objects:    objects,
		prefix:     prefix,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// ExportAll scans the full contribution store and writes one chunk per
// record not yet exported. Returns the count of newly written chunks.
func (e *Exporter) ExportAll(ctx context.Context) (int, error) {
	written := 0
	index := 0
	token := ""

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		items, next, err := e.records.ScanPage(token, e.pageSize)
		if err != nil {
			return written, fmt.Errorf("scan contributions: %w", err)
		}

		for i := range items {
			ok, err := e.exportRecord(&items[i], index)
			if err != nil {
				return written, err
			}
			if ok {
				written++
			}
			index++
		}

		if next == "" {
			break
		}
		token = next
	}

	e.logger.Info("Knowledge export finished", map[string]interface{}{
		"scanned": index,
		"written": written,
	})
	return written, nil
}

// exportRecord writes one chunk unless its key already exists. The index
// comes from the record's position in the scan; the scan order is stable
// for an unchanged store, so keys are stable across runs.
func (e *Exporter) exportRecord(rec *contribution.Record, index int) (bool, error) {
	key := e.objectKey(rec, index)

	exists, err := e.objects.Exists(key)
	if err != nil {
		return false, fmt.Errorf("check object %s: %w", key, err)
	}
	if exists {
		return false, nil
	}

	if err := e.objects.Put(key, []byte(renderChunk(rec, e.normalizer.Normalize(rec.Developer)))); err != nil {
		return false, fmt.Errorf("write object %s: %w", key, err)
	}
	return true, nil
}

func (e *Exporter) objectKey(rec *contribution.Record, index int) string {
	developer := sanitizeKeySegment(e.normalizer.Normalize(rec.Developer))
	sourceID := string(rec.Source) + "_" + sanitizeKeySegment(rec.SourceID)
	return fmt.Sprintf("%srecord_%d_%s_%s.txt", e.prefix, index, developer, sourceID)
}

// sanitizeKeySegment flattens one webhook-derived value into a single key
// segment. Developer names and source ids arrive from inbound events, so
// path separators must not survive into the key; they become underscores
// like spaces do.
func sanitizeKeySegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, s)
}

// renderChunk produces the fixed chunk layout the retrieval index ingests
func renderChunk(rec *contribution.Record, developer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Developer: %s\n", developer)
	fmt.Fprintf(&b, "Source: %s\n", rec.Source)
	fmt.Fprintf(&b, "Domains: %s\n", strings.Join(rec.DomainsOrEmpty(), ", "))
	fmt.Fprintf(&b, "Content:\n%s\n", rec.ExportText())
	return b.String()
}
