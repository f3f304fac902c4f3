// Package ingest contains the source adapters: each parses one upstream
// event shape into contribution records, classifies them, writes them to
// the contribution store and fires the aggregation trigger.
package ingest

import (
	"context"
	"unicode/utf8"

	"devmap/internal/classifier"
	"devmap/internal/contribution"
	"devmap/internal/logging"
)

// DefaultFileContentLimit bounds how much of each touched file reaches the
// classifier
const DefaultFileContentLimit = 1000

// Classifier derives summary and domains from contribution text
type Classifier interface {
	ClassifyCommit(ctx context.Context, commitMessage, changes string) (classifier.Result, error)
	ClassifyIssue(ctx context.Context, summary, description string) (classifier.Result, error)
	ClassifyPage(ctx context.Context, content string) (classifier.Result, error)
}

// FileFetcher retrieves one file's content at a specific commit
type FileFetcher interface {
	FetchFileAt(ctx context.Context, repoFullName, path, ref string) (string, error)
}

// RecordWriter is the write side of the contribution store
type RecordWriter interface {
	Put(rec *contribution.Record) error
}

// Trigger signals the aggregation engine to re-run, fire-and-forget
type Trigger interface {
	Fire() error
}

// Service wires the adapters to their collaborators. Every dependency is
// injected; invocations share no mutable state.
type Service struct {
	records          RecordWriter
	classifier       Classifier
	files            FileFetcher
	trigger          Trigger
	fileContentLimit int
	logger           *logging.Logger
}

// Deps holds the service's injected collaborators
type Deps struct {
	Records          RecordWriter
	Classifier       Classifier
	Files            FileFetcher
	Trigger          Trigger
	FileContentLimit int
	Logger           *logging.Logger
}

// NewService creates the ingestion service
func NewService(deps Deps) *Service {
	limit := deps.FileContentLimit
	if limit <= 0 {
		limit = DefaultFileContentLimit
	}
	return &Service{
		records:          deps.Records,
		classifier:       deps.Classifier,
		files:            deps.Files,
		trigger:          deps.Trigger,
		fileContentLimit: limit,
		logger:           deps.Logger,
	}
}

// fireTrigger dispatches the aggregation trigger. A dispatch failure is
// logged and swallowed; the record is already persisted and the next
// successful trigger catches up.
func (s *Service) fireTrigger() {
	if s.trigger == nil {
		return
	}
	if err := s.trigger.Fire(); err != nil {
		s.logger.Warn("Failed to dispatch aggregation trigger", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// truncate cuts s to at most limit bytes, backing off the cut point so a
// multi-byte rune is never split
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
