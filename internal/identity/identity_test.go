package identity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"devmap/internal/logging"
)

type fakeAliases struct {
	entries map[string]string
	err     error
}

func (f *fakeAliases) Lookup(rawName string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	target, ok := f.entries[rawName]
	return target, ok, nil
}

func (f *fakeAliases) Put(rawName, targetName string) error {
	if f.err != nil {
		return f.err
	}
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	f.entries[rawName] = targetName
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Level:  logging.ErrorLevel,
		Format: logging.JSONFormat,
		Output: io.Discard,
	})
}

func TestNormalizeResolvesAlias(t *testing.T) {
	n := NewNormalizer(&fakeAliases{
		entries: map[string]string{"rkumar": "Ravi Kumar"},
	}, testLogger())

	if got := n.Normalize("rkumar"); got != "Ravi Kumar" {
		t.Errorf("Expected 'Ravi Kumar', got %q", got)
	}
}

func TestNormalizeMissPassesThrough(t *testing.T) {
	n := NewNormalizer(&fakeAliases{}, testLogger())

	if got := n.Normalize("unknown-dev"); got != "unknown-dev" {
		t.Errorf("Expected raw name to pass through, got %q", got)
	}
}

func TestNormalizeLookupErrorPassesThrough(t *testing.T) {
	n := NewNormalizer(&fakeAliases{err: fmt.Errorf("table unavailable")}, testLogger())

	if got := n.Normalize("rkumar"); got != "rkumar" {
		t.Errorf("Expected raw name on lookup failure, got %q", got)
	}
}

func TestNormalizeDoesNotChainAliases(t *testing.T) {
	// rkumar -> Ravi K -> Ravi Kumar is configured; resolution applies once
	n := NewNormalizer(&fakeAliases{
		entries: map[string]string{
			"rkumar": "Ravi K",
			"Ravi K": "Ravi Kumar",
		},
	}, testLogger())

	if got := n.Normalize("rkumar"); got != "Ravi K" {
		t.Errorf("Expected single-step resolution 'Ravi K', got %q", got)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := `aliases:
  - raw: "rkumar"
    canonical: "Ravi Kumar"
  - raw: "ravi.kumar@example.com"
    canonical: "Ravi Kumar"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	aliases := &fakeAliases{}
	count, err := LoadSeedFile(path, aliases)
	if err != nil {
		t.Fatalf("LoadSeedFile failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 entries written, got %d", count)
	}
	if aliases.entries["rkumar"] != "Ravi Kumar" {
		t.Errorf("Unexpected mapping: %q", aliases.entries["rkumar"])
	}
	if aliases.entries["ravi.kumar@example.com"] != "Ravi Kumar" {
		t.Errorf("Unexpected mapping: %q", aliases.entries["ravi.kumar@example.com"])
	}
}

func TestLoadSeedFileRejectsIncompleteEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := `aliases:
  - raw: "rkumar"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	if _, err := LoadSeedFile(path, &fakeAliases{}); err == nil {
		t.Error("Expected error for entry without canonical name")
	}
}

func TestLoadSeedFileMissingFile(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"), &fakeAliases{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
