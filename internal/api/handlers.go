package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"devmap/internal/apperr"
	"devmap/internal/ingest"
	"devmap/internal/version"
)

// maxBodyBytes bounds inbound webhook and chat bodies
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	WriteJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": version.Version,
	}, http.StatusOK)
}

func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ev ingest.GitHubPushEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&ev); err != nil {
		writeBadRequest(w, "malformed GitHub push payload")
		return
	}

	records, err := s.ingest.IngestGitHubPush(r.Context(), &ev)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, map[string]interface{}{
		"message": "GitHub push processed",
		"records": len(records),
	}, http.StatusOK)
}

func (s *Server) handleJiraWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeBadRequest(w, "unreadable request body")
		return
	}

	ev, err := ingest.DecodeJiraEvent(body)
	if err != nil {
		writeBadRequest(w, "malformed Jira payload")
		return
	}

	if _, err := s.ingest.IngestJiraIssue(r.Context(), ev); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, map[string]interface{}{
		"message": "Jira ticket processed",
	}, http.StatusOK)
}

func (s *Server) handleConfluenceWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ev ingest.ConfluencePageEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&ev); err != nil {
		writeBadRequest(w, "malformed Confluence payload")
		return
	}

	if _, err := s.ingest.IngestConfluencePage(r.Context(), &ev); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, map[string]interface{}{
		"message": "Confluence page processed",
	}, http.StatusOK)
}

// chatRequest accepts {"message": "..."} directly or wrapped in an envelope
// with a string body field
type chatRequest struct {
	Message string `json:"message"`
	Body    string `json:"body"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, "missing or invalid 'message' in request")
		return
	}
	if req.Message == "" && req.Body != "" {
		var inner chatRequest
		if err := json.Unmarshal([]byte(req.Body), &inner); err == nil {
			req.Message = inner.Message
		}
	}

	answer, err := s.chat.Answer(r.Context(), req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, map[string]interface{}{
		"response": answer,
	}, http.StatusOK)
}

func (s *Server) handleAggregateRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.engine.Recompute(r.Context()); err != nil {
		WriteError(w, apperr.Wrap(apperr.StoreFailure, "aggregation failed", err))
		return
	}

	WriteJSON(w, map[string]interface{}{
		"message": "Developer domain summary updated successfully.",
	}, http.StatusOK)
}

func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	written, err := s.exporter.ExportAll(r.Context())
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.StoreFailure, "knowledge export failed", err))
		return
	}

	WriteJSON(w, map[string]interface{}{
		"written": written,
	}, http.StatusOK)
}

func (s *Server) handleListDevelopers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summaries, err := s.summaries.List()
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.StoreFailure, "failed to list summaries", err))
		return
	}

	developers := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		developers = append(developers, sum.Developer)
	}
	WriteJSON(w, map[string]interface{}{
		"developers": developers,
	}, http.StatusOK)
}

// handleDeveloperDomains serves GET /developers/{name}/domains
func (s *Server) handleDeveloperDomains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/developers/")
	name, ok := strings.CutSuffix(rest, "/domains")
	if !ok || name == "" {
		http.NotFound(w, r)
		return
	}

	sum, err := s.summaries.Get(name)
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.StoreFailure, "failed to read summary", err))
		return
	}
	if sum == nil {
		WriteError(w, apperr.Newf(apperr.NotFound, "no summary for developer %q", name))
		return
	}

	WriteJSON(w, sum, http.StatusOK)
}
