package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"devmap/internal/chat"
)

// toolHandler holds common dependencies for MCP tool handlers
type toolHandler struct {
	gateway   *chat.Gateway
	summaries SummaryReader
}

func (h *toolHandler) handleAskKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := request.GetString("question", "")

	answer, err := h.gateway.Answer(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (h *toolHandler) handleDeveloperDomains(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	developer := request.GetString("developer", "")
	if developer == "" {
		return mcp.NewToolResultError("developer is required"), nil
	}

	sum, err := h.summaries.Get(developer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if sum == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no summary for developer %q", developer)), nil
	}

	jsonData, _ := json.MarshalIndent(sum, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListDevelopers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := h.summaries.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	developers := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		developers = append(developers, sum.Developer)
	}
	jsonData, _ := json.MarshalIndent(developers, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
