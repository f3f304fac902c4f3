package ingest

import (
	"context"
	"time"

	"devmap/internal/apperr"
	"devmap/internal/classifier"
	"devmap/internal/contribution"
)

// IngestJiraIssue stores one record for the issue, keyed by issue key.
// Re-ingesting the same issue overwrites the prior record for that
// developer/source/key triple.
func (s *Service) IngestJiraIssue(ctx context.Context, ev *JiraIssueEvent) (*contribution.Record, error) {
	if ev == nil || ev.Issue.Key == "" {
		return nil, apperr.New(apperr.InvalidInput, "Jira event is missing issue key")
	}

	summary := ev.Issue.Fields.Summary
	description := ev.Issue.Fields.Description

	res, err := s.classifier.ClassifyIssue(ctx, summary, description)
	if err != nil {
		s.logger.Warn("Issue classification failed, storing degraded record", map[string]interface{}{
			"issue": ev.Issue.Key,
			"error": err.Error(),
		})
		res = classifier.Result{Summary: summary, Domains: []string{}}
	}

	rec := contribution.Record{
		Developer: ev.AssigneeName(),
		Source:    contribution.SourceJira,
		SourceID:  ev.Issue.Key,
		Content:   res.Summary,
		Domains:   res.Domains,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.records.Put(&rec); err != nil {
		return nil, apperr.Wrap(apperr.StoreFailure, "failed to store issue record", err)
	}

	s.fireTrigger()
	return &rec, nil
}
