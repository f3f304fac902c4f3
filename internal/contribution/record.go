// Package contribution defines the core data model: one ContributionRecord
// per observed unit of developer activity, and the per-developer domain
// summary derived from those records.
package contribution

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies the upstream system a record came from
type SourceType string

const (
	// SourceGitHub for push-event commits
	SourceGitHub SourceType = "GitHub"
	// SourceJira for issue updates
	SourceJira SourceType = "Jira"
	// SourceConfluence for page edits
	SourceConfluence SourceType = "Confluence"
)

// ParseSourceType validates a source type string
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceGitHub, SourceJira, SourceConfluence:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("unknown source type: %q", s)
}

// Record is one unit of observed developer activity. Records are created
// once by a source adapter, immediately after classification, and are
// immutable thereafter; the contribution store is an append-only log at the
// (developer, source, id) granularity.
type Record struct {
	// Developer is the raw identity as reported by the source. Alias
	// resolution happens at aggregation time, not at write time.
	Developer string     `json:"developer"`
	Source    SourceType `json:"source"`
	SourceID  string     `json:"sourceId"`
	Content   string     `json:"content"`
	Summary   string     `json:"summary,omitempty"`
	Repo      string     `json:"repo,omitempty"`
	Title     string     `json:"title,omitempty"`
	Domains   []string   `json:"domains"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PartitionKey returns the store partition key for this record
func (r *Record) PartitionKey() string {
	return "DEV#" + r.Developer
}

// SortKey returns the store sort key for this record
func (r *Record) SortKey() string {
	return "SOURCE#" + string(r.Source) + "#" + r.SourceID
}

// Evidence returns the text that justifies this record's domain tags.
// GitHub records carry a generated summary; Jira and Confluence records
// carry their evidence in the content field.
func (r *Record) Evidence() string {
	if r.Source == SourceGitHub {
		return r.Summary
	}
	return r.Content
}

// ExportText returns the text used for knowledge export chunks: the
// generated summary when present, otherwise the raw content.
func (r *Record) ExportText() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Content
}

// DomainsOrEmpty returns the record's domains, never nil
func (r *Record) DomainsOrEmpty() []string {
	if r.Domains == nil {
		return []string{}
	}
	return r.Domains
}

// DeveloperFromPartitionKey extracts the raw developer name from a DEV# key
func DeveloperFromPartitionKey(pk string) string {
	return strings.TrimPrefix(pk, "DEV#")
}

// AliasKey returns the alias-table key for a raw developer name
func AliasKey(rawName string) string {
	return "ALIAS#" + rawName
}
