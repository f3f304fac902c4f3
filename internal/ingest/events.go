package ingest

import (
	"encoding/json"
	"fmt"
)

// GitHubPushEvent is the push-webhook payload subset devmap consumes
type GitHubPushEvent struct {
	Pusher struct {
		Name string `json:"name"`
	} `json:"pusher"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"repository"`
	Commits []GitHubCommit `json:"commits"`
}

// GitHubCommit is one commit within a push event
type GitHubCommit struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

// TouchedFiles returns the commit's file paths in added, modified, removed
// order
func (c *GitHubCommit) TouchedFiles() []string {
	out := make([]string, 0, len(c.Added)+len(c.Modified)+len(c.Removed))
	out = append(out, c.Added...)
	out = append(out, c.Modified...)
	out = append(out, c.Removed...)
	return out
}

// JiraIssueEvent is the issue payload subset devmap consumes
type JiraIssueEvent struct {
	Issue struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Assignee    *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
		} `json:"fields"`
	} `json:"issue"`
}

// AssigneeName returns the assignee display name, defaulting to
// "Unassigned" when absent
func (e *JiraIssueEvent) AssigneeName() string {
	if e.Issue.Fields.Assignee == nil || e.Issue.Fields.Assignee.DisplayName == "" {
		return "Unassigned"
	}
	return e.Issue.Fields.Assignee.DisplayName
}

// DecodeJiraEvent parses a Jira webhook body. Gateways sometimes deliver
// the issue JSON wrapped in an envelope with a string "body" field; both
// shapes are accepted.
func DecodeJiraEvent(data []byte) (*JiraIssueEvent, error) {
	var envelope struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Body != "" {
		data = []byte(envelope.Body)
	}

	var ev JiraIssueEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("malformed Jira event: %w", err)
	}
	return &ev, nil
}

// ConfluencePageEvent is the page payload devmap consumes
type ConfluencePageEvent struct {
	ContentAuthor string `json:"content_author"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	PageID        string `json:"pageId"`
}
