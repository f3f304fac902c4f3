package store

import (
	"fmt"
	"io"
	"reflect"
	"testing"
	"time"

	"devmap/internal/contribution"
	"devmap/internal/logging"
)

// newTestDB creates an in-memory database
func newTestDB(t *testing.T) *DB {
	t.Helper()

	logger := logging.NewLogger(logging.Config{
		Level:  logging.ErrorLevel,
		Format: logging.JSONFormat,
		Output: io.Discard,
	})

	db, err := Open(":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(developer string, source contribution.SourceType, sourceID string) *contribution.Record {
	return &contribution.Record{
		Developer: developer,
		Source:    source,
		SourceID:  sourceID,
		Content:   "content for " + sourceID,
		Domains:   []string{"Backend"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestRecordStorePutGet(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	rec := testRecord("Ravi Kumar", contribution.SourceJira, "PROJ-101")
	rec.Summary = "Fixed the payment retry loop"
	if err := records.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := records.Get("Ravi Kumar", contribution.SourceJira, "PROJ-101")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if got.Developer != "Ravi Kumar" {
		t.Errorf("Expected developer 'Ravi Kumar', got %q", got.Developer)
	}
	if got.Source != contribution.SourceJira {
		t.Errorf("Expected source Jira, got %q", got.Source)
	}
	if got.Summary != "Fixed the payment retry loop" {
		t.Errorf("Unexpected summary: %q", got.Summary)
	}
	if !reflect.DeepEqual(got.Domains, []string{"Backend"}) {
		t.Errorf("Unexpected domains: %v", got.Domains)
	}
}

func TestRecordStoreGetMissing(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	got, err := records.Get("nobody", contribution.SourceGitHub, "deadbeef")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing record, got %+v", got)
	}
}

func TestRecordStorePutOverwritesSameKey(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	first := testRecord("Ravi Kumar", contribution.SourceJira, "PROJ-101")
	first.Content = "first version"
	if err := records.Put(first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := testRecord("Ravi Kumar", contribution.SourceJira, "PROJ-101")
	second.Content = "second version"
	second.Domains = []string{"Payments", "Backend"}
	if err := records.Put(second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := records.Get("Ravi Kumar", contribution.SourceJira, "PROJ-101")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "second version" {
		t.Errorf("Expected overwrite, got content %q", got.Content)
	}
	if !reflect.DeepEqual(got.Domains, []string{"Payments", "Backend"}) {
		t.Errorf("Unexpected domains after overwrite: %v", got.Domains)
	}

	count, err := records.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record after overwrite, got %d", count)
	}
}

func TestRecordStoreScanPagination(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	for i := 0; i < 25; i++ {
		rec := testRecord("dev", contribution.SourceJira, fmt.Sprintf("PROJ-%03d", i))
		if err := records.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	var all []contribution.Record
	token := ""
	pages := 0
	for {
		items, next, err := records.ScanPage(token, 10)
		if err != nil {
			t.Fatalf("ScanPage failed: %v", err)
		}
		all = append(all, items...)
		pages++
		if next == "" {
			break
		}
		token = next
		if pages > 10 {
			t.Fatal("Scan did not terminate")
		}
	}

	if len(all) != 25 {
		t.Fatalf("Expected 25 records across pages, got %d", len(all))
	}

	// Ordering is stable and duplicate-free
	seen := make(map[string]bool)
	for _, rec := range all {
		key := rec.SortKey()
		if seen[key] {
			t.Errorf("Record %s returned twice", key)
		}
		seen[key] = true
	}
}

func TestRecordStoreScanEmptyStore(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	items, next, err := records.ScanPage("", 10)
	if err != nil {
		t.Fatalf("ScanPage failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no records, got %d", len(items))
	}
	if next != "" {
		t.Errorf("Expected empty continuation token, got %q", next)
	}
}

func TestRecordStoreScanMalformedToken(t *testing.T) {
	records := NewRecordStore(newTestDB(t))

	if _, _, err := records.ScanPage("not-a-token", 10); err == nil {
		t.Error("Expected error for malformed scan token")
	}
}

func TestAliasStoreLookup(t *testing.T) {
	aliases := NewAliasStore(newTestDB(t))

	if err := aliases.Put("rkumar", "Ravi Kumar"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	target, found, err := aliases.Lookup("rkumar")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !found {
		t.Fatal("Expected alias to be found")
	}
	if target != "Ravi Kumar" {
		t.Errorf("Expected 'Ravi Kumar', got %q", target)
	}

	_, found, err = aliases.Lookup("unknown")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if found {
		t.Error("Expected miss for unmapped name")
	}
}

func TestAliasStorePutReplaces(t *testing.T) {
	aliases := NewAliasStore(newTestDB(t))

	if err := aliases.Put("rkumar", "Ravi K"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := aliases.Put("rkumar", "Ravi Kumar"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	target, found, err := aliases.Lookup("rkumar")
	if err != nil || !found {
		t.Fatalf("Lookup failed: found=%v err=%v", found, err)
	}
	if target != "Ravi Kumar" {
		t.Errorf("Expected replacement to win, got %q", target)
	}
}

func TestSummaryStoreOverwriteGet(t *testing.T) {
	summaries := NewSummaryStore(newTestDB(t))

	sum := contribution.NewSummary("Ravi Kumar")
	sum.Add("Payments", "Fixed the retry loop")
	sum.Add("Payments", "Added idempotency keys")
	sum.Add("Backend", "Refactored the worker pool")

	if err := summaries.Overwrite(sum); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := summaries.Get("Ravi Kumar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected summary, got nil")
	}
	if got.TotalScore != 3 {
		t.Errorf("Expected total score 3, got %d", got.TotalScore)
	}
	if got.DomainCounts["Payments"] != 2 {
		t.Errorf("Expected Payments count 2, got %d", got.DomainCounts["Payments"])
	}
	if len(got.DomainEvidence["Payments"]) != 2 {
		t.Errorf("Expected 2 evidence entries, got %d", len(got.DomainEvidence["Payments"]))
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Stored summary violates invariants: %v", err)
	}
}

func TestSummaryStoreGetMissing(t *testing.T) {
	summaries := NewSummaryStore(newTestDB(t))

	got, err := summaries.Get("nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing summary, got %+v", got)
	}
}

func TestSummaryStoreOverwriteReplacesRow(t *testing.T) {
	summaries := NewSummaryStore(newTestDB(t))

	first := contribution.NewSummary("dev")
	first.Add("Frontend", "old evidence")
	if err := summaries.Overwrite(first); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	second := contribution.NewSummary("dev")
	second.Add("Backend", "new evidence")
	if err := summaries.Overwrite(second); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := summaries.Get("dev")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := got.DomainCounts["Frontend"]; ok {
		t.Error("Old domain survived the overwrite")
	}
	if got.DomainCounts["Backend"] != 1 {
		t.Errorf("Expected Backend count 1, got %d", got.DomainCounts["Backend"])
	}
}

func TestSummaryStoreList(t *testing.T) {
	summaries := NewSummaryStore(newTestDB(t))

	for _, dev := range []string{"Charlie", "Alice", "Bob"} {
		sum := contribution.NewSummary(dev)
		sum.Add("Backend", "evidence")
		if err := summaries.Overwrite(sum); err != nil {
			t.Fatalf("Overwrite failed: %v", err)
		}
	}

	all, err := summaries.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(all))
	}
	if all[0].Developer != "Alice" || all[1].Developer != "Bob" || all[2].Developer != "Charlie" {
		t.Errorf("Expected developer order, got %v %v %v",
			all[0].Developer, all[1].Developer, all[2].Developer)
	}
}

func TestDecodeDomains(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json list", `["Backend","Payments"]`, []string{"Backend", "Payments"}},
		{"empty json list", `[]`, []string{}},
		{"json null", `null`, []string{}},
		{"json string", `"Backend"`, []string{"Backend"}},
		{"empty json string", `""`, []string{}},
		{"bare string", `Backend`, []string{"Backend"}},
		{"empty", ``, []string{}},
		{"whitespace", `   `, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeDomains(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeDomains(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
