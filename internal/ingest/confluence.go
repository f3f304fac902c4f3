package ingest

import (
	"context"
	"time"

	"devmap/internal/apperr"
	"devmap/internal/classifier"
	"devmap/internal/contribution"
)

// IngestConfluencePage stores one record for the page, keyed by page id
// with the same overwrite semantics as Jira. Pages are tagged with domains
// only; the page content itself is kept verbatim as evidence.
func (s *Service) IngestConfluencePage(ctx context.Context, ev *ConfluencePageEvent) (*contribution.Record, error) {
	if ev == nil || ev.ContentAuthor == "" {
		return nil, apperr.New(apperr.InvalidInput, "Confluence event is missing content author")
	}
	if ev.PageID == "" {
		return nil, apperr.New(apperr.InvalidInput, "Confluence event is missing page id")
	}

	res, err := s.classifier.ClassifyPage(ctx, ev.Content)
	if err != nil {
		s.logger.Warn("Page classification failed, storing degraded record", map[string]interface{}{
			"pageId": ev.PageID,
			"error":  err.Error(),
		})
		res = classifier.Result{Domains: []string{}}
	}

	rec := contribution.Record{
		Developer: ev.ContentAuthor,
		Source:    contribution.SourceConfluence,
		SourceID:  ev.PageID,
		Content:   ev.Content,
		Title:     ev.Title,
		Domains:   res.Domains,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.records.Put(&rec); err != nil {
		return nil, apperr.Wrap(apperr.StoreFailure, "failed to store page record", err)
	}

	s.fireTrigger()
	return &rec, nil
}
