// Package mcp exposes the developer knowledge over the Model Context
// Protocol: one tool to ask the chat gateway a question, one to read a
// developer's aggregated domain map.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"devmap/internal/chat"
	"devmap/internal/contribution"
	"devmap/internal/version"
)

// SummaryReader is the read side of the summary store
type SummaryReader interface {
	Get(developer string) (*contribution.Summary, error)
	List() ([]contribution.Summary, error)
}

// NewMCPServer initializes and configures the devmap MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(gateway *chat.Gateway, summaries SummaryReader) *server.MCPServer {
	s := server.NewMCPServer(
		"Developer Domain Map",
		version.Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		gateway:   gateway,
		summaries: summaries,
	}

	s.AddTool(mcp.NewTool("ask_knowledge",
		mcp.WithDescription("Ask a natural-language question over the aggregated developer contribution knowledge."),
		mcp.WithString("question", mcp.Description("The question to answer."), mcp.Required()),
	), h.handleAskKnowledge)

	s.AddTool(mcp.NewTool("developer_domains",
		mcp.WithDescription("Get one developer's technical domain map: per-domain counts and supporting evidence."),
		mcp.WithString("developer", mcp.Description("Canonical developer name."), mcp.Required()),
	), h.handleDeveloperDomains)

	s.AddTool(mcp.NewTool("list_developers",
		mcp.WithDescription("List all developers with an aggregated domain summary."),
	), h.handleListDevelopers)

	return s
}

// StartMCPServer starts the devmap MCP server on stdio
func StartMCPServer(_ context.Context, gateway *chat.Gateway, summaries SummaryReader) error {
	s := NewMCPServer(gateway, summaries)
	return server.ServeStdio(s)
}
