package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BackendConfig holds retrieve-and-generate client settings
type BackendConfig struct {
	Endpoint        string
	APIKey          string
	KnowledgeBaseID string
	ModelARN        string
	Timeout         time.Duration
}

// BackendClient calls the retrieval-and-generation API scoped to one
// knowledge base
type BackendClient struct {
	endpoint        string
	apiKey          string
	knowledgeBaseID string
	modelARN        string
	httpClient      *http.Client
}

// NewBackendClient builds a retrieve-and-generate client
func NewBackendClient(cfg BackendConfig) *BackendClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendClient{
		endpoint:        cfg.Endpoint,
		apiKey:          cfg.APIKey,
		knowledgeBaseID: cfg.KnowledgeBaseID,
		modelARN:        cfg.ModelARN,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type retrieveRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	RetrieveAndGenerateConfiguration struct {
		Type                       string `json:"type"`
		KnowledgeBaseConfiguration struct {
			KnowledgeBaseID string `json:"knowledgeBaseId"`
			ModelARN        string `json:"modelArn"`
		} `json:"knowledgeBaseConfiguration"`
	} `json:"retrieveAndGenerateConfiguration"`
}

type retrieveResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
}

// RetrieveAndGenerate sends the question and returns the generated answer
// text
func (c *BackendClient) RetrieveAndGenerate(ctx context.Context, question string) (string, error) {
	if c.endpoint == "" || c.knowledgeBaseID == "" {
		return "", fmt.Errorf("chat backend client misconfigured")
	}

	var reqBody retrieveRequest
	reqBody.Input.Text = question
	reqBody.RetrieveAndGenerateConfiguration.Type = "KNOWLEDGE_BASE"
	reqBody.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration.KnowledgeBaseID = c.knowledgeBaseID
	reqBody.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration.ModelARN = c.modelARN

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal retrieve payload: %w", err)
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
		return "", fmt.Errorf("retrieve call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("retrieve error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode retrieve response: %w", err)
	}
	return parsed.Output.Text, nil
}
