package main

import (
	"fmt"
	"time"

	"devmap/internal/aggregate"
	"devmap/internal/chat"
	"devmap/internal/classifier"
	"devmap/internal/config"
	"devmap/internal/export"
	"devmap/internal/identity"
	"devmap/internal/ingest"
	"devmap/internal/jobs"
	"devmap/internal/logging"
	"devmap/internal/store"
)

// app bundles the wired components every verb needs. Client handles are
// created once per process and passed down explicitly.
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	db         *store.DB
	records    *store.RecordStore
	aliases    *store.AliasStore
	summaries  *store.SummaryStore
	normalizer *identity.Normalizer
	engine     *aggregate.Engine
	exporter   *export.Exporter
	chat       *chat.Gateway
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})

	db, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	records := store.NewRecordStore(db)
	aliases := store.NewAliasStore(db)
	summaries := store.NewSummaryStore(db)
	normalizer := identity.NewNormalizer(aliases, logger)

	engine := aggregate.NewEngine(records, summaries, normalizer,
		cfg.Aggregation.PageSize, logger)

	gateway := chat.NewGateway(chat.NewBackendClient(chat.BackendConfig{
		Endpoint:        cfg.Chat.Endpoint,
		APIKey:          cfg.Chat.APIKey,
		KnowledgeBaseID: cfg.Chat.KnowledgeBaseID,
		ModelARN:        cfg.Chat.ModelARN,
		Timeout:         time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
	}), logger)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		records:    records,
		aliases:    aliases,
		summaries:  summaries,
		normalizer: normalizer,
		engine:     engine,
		chat:       gateway,
	}
	a.exporter = a.newExporter()
	return a, nil
}

// newExporter builds an exporter against the configured export directory.
// Called again after flag overrides change cfg.Export.
func (a *app) newExporter() *export.Exporter {
	return export.NewExporter(a.records, a.normalizer,
		export.NewFSObjectStore(a.cfg.Export.Dir),
		export.Config{Prefix: a.cfg.Export.Prefix, PageSize: a.cfg.Aggregation.PageSize},
		a.logger)
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close store", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newIngestService wires the source adapters against a trigger handle
func (a *app) newIngestService(trigger ingest.Trigger) *ingest.Service {
	return ingest.NewService(ingest.Deps{
		Records: a.records,
		Classifier: classifier.New(classifier.Config{
			Endpoint: a.cfg.Classifier.Endpoint,
			APIKey:   a.cfg.Classifier.APIKey,
			Model:    a.cfg.Classifier.Model,
			Timeout:  time.Duration(a.cfg.Classifier.TimeoutSeconds) * time.Second,
		}, a.logger),
		Files: ingest.NewGitHubContentClient(ingest.GitHubContentConfig{
			BaseURL: a.cfg.GitHub.APIBaseURL,
			Token:   a.cfg.GitHub.Token,
		}),
		Trigger:          trigger,
		FileContentLimit: a.cfg.Ingest.FileContentLimit,
		Logger:           a.logger,
	})
}

// newAggregationRunner registers the recompute job and returns the runner
// plus the fire-and-forget trigger handle for the adapters
func (a *app) newAggregationRunner() (*jobs.Runner, *jobs.Trigger) {
	runner := jobs.NewRunner(a.cfg.Aggregation.QueueSize, a.logger)
	runner.Register("aggregate", a.engine.Recompute)
	return runner, runner.TriggerFor("aggregate")
}
