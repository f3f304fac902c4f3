package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GitHubContentClient fetches raw file contents from the GitHub contents
// API, pinned to a commit ref
type GitHubContentClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// GitHubContentConfig holds content-API client settings
type GitHubContentConfig struct {
	BaseURL string // defaults to the public GitHub API
	Token   string
	Timeout time.Duration
}

// NewGitHubContentClient builds a contents-API client
func NewGitHubContentClient(cfg GitHubContentConfig) *GitHubContentClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GitHubContentClient{
		baseURL: baseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchFileAt returns the file's raw content at the given ref
func (c *GitHubContentClient) FetchFileAt(ctx context.Context, repoFullName, path, ref string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		c.baseURL, repoFullName, escapePath(path), url.QueryEscape(ref))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3.raw")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(body), nil
}

// escapePath escapes each path segment while keeping the separators
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
