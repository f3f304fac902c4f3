package contribution

import (
	"fmt"
	"time"
)

// Summary is the denormalized per-developer domain map. One row per
// canonical developer, fully rebuilt on every aggregation run; it is a
// derived cache of the contribution store plus the alias table and carries
// no independent state.
type Summary struct {
	Developer      string              `json:"developer"`
	DomainCounts   map[string]int      `json:"domainCounts"`
	DomainEvidence map[string][]string `json:"domainEvidence"`
	TotalScore     int                 `json:"totalScore"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// NewSummary creates an empty summary row for a developer
func NewSummary(developer string) *Summary {
	return &Summary{
		Developer:      developer,
		DomainCounts:   make(map[string]int),
		DomainEvidence: make(map[string][]string),
	}
}

// Add records one domain tag with its supporting evidence text
func (s *Summary) Add(domain, evidence string) {
	s.DomainCounts[domain]++
	s.DomainEvidence[domain] = append(s.DomainEvidence[domain], evidence)
	s.TotalScore++
}

// Validate checks the summary invariants: the total score equals the sum of
// all domain counts, and each domain's evidence list is exactly as long as
// its count.
func (s *Summary) Validate() error {
	total := 0
	for domain, count := range s.DomainCounts {
		total += count
		if got := len(s.DomainEvidence[domain]); got != count {
			return fmt.Errorf("domain %q: %d evidence entries for count %d", domain, got, count)
		}
	}
	for domain := range s.DomainEvidence {
		if _, ok := s.DomainCounts[domain]; !ok {
			return fmt.Errorf("domain %q has evidence but no count", domain)
		}
	}
	if total != s.TotalScore {
		return fmt.Errorf("total score %d != sum of counts %d", s.TotalScore, total)
	}
	return nil
}
