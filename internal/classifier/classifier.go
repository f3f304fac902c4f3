// Package classifier derives a summary and a list of technical domains from
// contribution text by calling a converse-style text-generation backend.
// Malformed model output degrades to the original text with no domains; it
// never surfaces as an error to adapters.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"devmap/internal/logging"
)

// Result is the structured outcome of one classification call
type Result struct {
	Summary string
	Domains []string
}

// Config holds classifier client settings
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Client calls the text-generation backend with per-source prompt templates
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logging.Logger
}

// New builds a classifier client from configuration
func New(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ClassifyCommit classifies one commit from its message and the labeled,
// truncated contents of the files it touched. On unparseable model output
// the change text itself becomes the summary.
func (c *Client) ClassifyCommit(ctx context.Context, commitMessage, changes string) (Result, error) {
	return c.classify(ctx, commitPrompt(commitMessage, changes), changes, true)
}

// ClassifyIssue classifies one Jira issue from its summary and description.
// On unparseable model output the issue summary stands in.
func (c *Client) ClassifyIssue(ctx context.Context, summary, description string) (Result, error) {
	return c.classify(ctx, issuePrompt(summary, description), summary, true)
}

// ClassifyPage tags one Confluence page with domains only; no synopsis is
// requested.
func (c *Client) ClassifyPage(ctx context.Context, content string) (Result, error) {
	return c.classify(ctx, pagePrompt(content), "", false)
}

// classify sends the prompt and parses the model's JSON reply. A transport
// or HTTP failure is returned as an error; a parse failure degrades to the
// fallback text with an empty domain list.
func (c *Client) classify(ctx context.Context, prompt, fallback string, wantSummary bool) (Result, error) {
	text, err := c.converse(ctx, prompt)
	if err != nil {
		return Result{}, err
	}

	var parsed struct {
		Summary *string  `json:"summary"`
		Domains []string `json:"domains"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &parsed); err != nil {
		c.logger.Warn("Classifier output was not valid JSON, degrading", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{Summary: fallback, Domains: []string{}}, nil
	}

	res := Result{Domains: parsed.Domains}
	if res.Domains == nil {
		res.Domains = []string{}
	}
	if wantSummary {
		if parsed.Summary != nil {
			res.Summary = *parsed.Summary
		} else {
			res.Summary = fallback
		}
	}
	return res, nil
}

// converse wire types follow the backend's message-list API shape.
type converseRequest struct {
	ModelID  string            `json:"modelId"`
	Messages []converseMessage `json:"messages"`
}

type converseMessage struct {
	Role    string            `json:"role"`
	Content []converseContent `json:"content"`
}

type converseContent struct {
	Text string `json:"text"`
}

type converseResponse struct {
	Output struct {
		Message struct {
			Content []converseContent `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// converse posts one user message and returns the first content text of the
// reply
func (c *Client) converse(ctx context.Context, prompt string) (string, error) {
	if c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("classifier client misconfigured")
	}

	body, err := json.Marshal(converseRequest{
		ModelID: c.model,
		Messages: []converseMessage{
			{Role: "user", Content: []converseContent{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal converse payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("converse call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("converse error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed converseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode converse response: %w", err)
	}
	if len(parsed.Output.Message.Content) == 0 {
		return "", fmt.Errorf("converse response has no content")
	}
	return parsed.Output.Message.Content[0].Text, nil
}
