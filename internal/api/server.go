// Package api exposes webhook ingestion, aggregation, export and the chat
// gateway over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"devmap/internal/aggregate"
	"devmap/internal/chat"
	"devmap/internal/contribution"
	"devmap/internal/export"
	"devmap/internal/ingest"
	"devmap/internal/logging"
)

// SummaryReader is the read side of the summary store
type SummaryReader interface {
	Get(developer string) (*contribution.Summary, error)
	List() ([]contribution.Summary, error)
}

// Deps wires the server's collaborators
type Deps struct {
	Ingest    *ingest.Service
	Chat      *chat.Gateway
	Engine    *aggregate.Engine
	Exporter  *export.Exporter
	Summaries SummaryReader
	Logger    *logging.Logger
}

// Server is the devmap HTTP server
type Server struct {
	router    *http.ServeMux
	server    *http.Server
	addr      string
	logger    *logging.Logger
	ingest    *ingest.Service
	chat      *chat.Gateway
	engine    *aggregate.Engine
	exporter  *export.Exporter
	summaries SummaryReader
}

// NewServer creates an HTTP server bound to addr
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		addr:      addr,
		logger:    deps.Logger,
		ingest:    deps.Ingest,
		chat:      deps.Chat,
		engine:    deps.Engine,
		exporter:  deps.Exporter,
		summaries: deps.Summaries,
		router:    http.NewServeMux(),
	}

	s.registerRoutes()

	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler with middleware in the correct order
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}
