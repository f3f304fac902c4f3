// Package chat answers natural-language questions over the exported
// developer knowledge by calling an external retrieve-and-generate backend.
// No session or history state is kept server-side.
package chat

import (
	"context"
	"strings"

	"devmap/internal/apperr"
	"devmap/internal/logging"
)

// Retriever is the retrieve-and-generate backend boundary
type Retriever interface {
	RetrieveAndGenerate(ctx context.Context, question string) (string, error)
}

// Gateway validates questions and forwards them to the backend
type Gateway struct {
	backend Retriever
	logger  *logging.Logger
}

// NewGateway creates a chat gateway
func NewGateway(backend Retriever, logger *logging.Logger) *Gateway {
	return &Gateway{backend: backend, logger: logger}
}

// Answer returns the backend's answer for a question. An empty question is
// a client error; a backend failure is a server error.
func (g *Gateway) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.New(apperr.InvalidInput, "missing or invalid 'message' in request")
	}

	answer, err := g.backend.RetrieveAndGenerate(ctx, question)
	if err != nil {
		g.logger.Error("Knowledge base query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", apperr.Wrap(apperr.BackendFailure, "failed to query knowledge base", err)
	}
	return answer, nil
}
