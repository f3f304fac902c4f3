package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"devmap/internal/apperr"
	"devmap/internal/classifier"
	"devmap/internal/contribution"
)

// IngestGitHubPush produces one contribution record per commit in the push.
// Each record gets a freshly minted source id; re-delivering the same push
// therefore creates new records rather than overwriting (unlike the Jira
// and Confluence natural keys).
func (s *Service) IngestGitHubPush(ctx context.Context, ev *GitHubPushEvent) ([]contribution.Record, error) {
	if ev == nil || ev.Pusher.Name == "" {
		return nil, apperr.New(apperr.InvalidInput, "push event is missing pusher name")
	}
	if ev.Repository.FullName == "" {
		return nil, apperr.New(apperr.InvalidInput, "push event is missing repository full name")
	}

	out := make([]contribution.Record, 0, len(ev.Commits))
	for _, commit := range ev.Commits {
		changes := s.collectFileChanges(ctx, ev.Repository.FullName, &commit)

		res, err := s.classifier.ClassifyCommit(ctx, commit.Message, changes)
		if err != nil {
			s.logger.Warn("Commit classification failed, storing degraded record", map[string]interface{}{
				"repo":   ev.Repository.FullName,
				"commit": commit.ID,
				"error":  err.Error(),
			})
			res = classifier.Result{Summary: changes, Domains: []string{}}
		}

		rec := contribution.Record{
			Developer: ev.Pusher.Name,
			Source:    contribution.SourceGitHub,
			SourceID:  uuid.NewString(),
			Content:   commit.Message,
			Summary:   res.Summary,
			Repo:      ev.Repository.Name,
			Domains:   res.Domains,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.records.Put(&rec); err != nil {
			return out, apperr.Wrap(apperr.StoreFailure, "failed to store commit record", err)
		}
		out = append(out, rec)
	}

	s.fireTrigger()
	return out, nil
}

// collectFileChanges fetches every touched file at the commit ref and
// concatenates labeled, truncated contents. A fetch failure for one file
// becomes an inline placeholder and never aborts the commit.
func (s *Service) collectFileChanges(ctx context.Context, repoFullName string, commit *GitHubCommit) string {
	var b strings.Builder
	for _, path := range commit.TouchedFiles() {
		content, err := s.files.FetchFileAt(ctx, repoFullName, path, commit.ID)
		if err != nil {
			content = fmt.Sprintf("Error fetching %s: %v", path, err)
		}
		fmt.Fprintf(&b, "\n\nFile: %s\n%s", path, truncate(content, s.fileContentLimit))
	}
	return b.String()
}
