package api

import (
	"net/http"

	"devmap/internal/version"
)

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.handleHealth)

	// Webhook ingestion
	s.router.HandleFunc("/webhooks/github", s.handleGitHubWebhook)
	s.router.HandleFunc("/webhooks/jira", s.handleJiraWebhook)
	s.router.HandleFunc("/webhooks/confluence", s.handleConfluenceWebhook)

	// Chat gateway
	s.router.HandleFunc("/chat", s.handleChat)

	// Admin surface: synchronous aggregation and knowledge export
	s.router.HandleFunc("/aggregate/run", s.handleAggregateRun)
	s.router.HandleFunc("/export/run", s.handleExportRun)

	// Summary reads
	s.router.HandleFunc("/developers", s.handleListDevelopers)
	s.router.HandleFunc("/developers/", s.handleDeveloperDomains)

	// Root endpoint
	s.router.HandleFunc("/", s.handleRoot)
}

// handleRoot handles requests to the root path
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"name":    "devmap HTTP API",
		"version": version.Version,
		"endpoints": []string{
			"GET /health - Health check",
			"POST /webhooks/github - Ingest a GitHub push event",
			"POST /webhooks/jira - Ingest a Jira issue event",
			"POST /webhooks/confluence - Ingest a Confluence page event",
			"POST /chat - Ask a question over the developer knowledge",
			"POST /aggregate/run - Rebuild the developer domain summaries",
			"POST /export/run - Export knowledge chunks for the retrieval index",
			"GET /developers - List aggregated developers",
			"GET /developers/{name}/domains - One developer's domain summary",
		},
	}
	WriteJSON(w, response, http.StatusOK)
}
