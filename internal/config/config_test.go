package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr() != "localhost:8080" {
		t.Errorf("Unexpected default address: %q", cfg.Server.Addr())
	}
	if cfg.Ingest.FileContentLimit != 1000 {
		t.Errorf("Unexpected default file content limit: %d", cfg.Ingest.FileContentLimit)
	}
	if cfg.Export.Prefix != "developer_contribution/" {
		t.Errorf("Unexpected default export prefix: %q", cfg.Export.Prefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults must validate: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  host: 0.0.0.0
  port: "9090"
store:
  path: /tmp/devmap-test.db
classifier:
  endpoint: https://model.example.com/converse
  model: test-model
chat:
  knowledgeBaseId: kb-123
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("Unexpected address: %q", cfg.Server.Addr())
	}
	if cfg.Store.Path != "/tmp/devmap-test.db" {
		t.Errorf("Unexpected store path: %q", cfg.Store.Path)
	}
	if cfg.Classifier.Model != "test-model" {
		t.Errorf("Unexpected model: %q", cfg.Classifier.Model)
	}
	if cfg.Chat.KnowledgeBaseID != "kb-123" {
		t.Errorf("Unexpected knowledge base id: %q", cfg.Chat.KnowledgeBaseID)
	}
	// Unset keys keep their defaults
	if cfg.Aggregation.PageSize != 200 {
		t.Errorf("Expected default page size, got %d", cfg.Aggregation.PageSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for explicitly named missing file")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DEVMAP_SERVER_PORT", "7070")
	t.Setenv("DEVMAP_GITHUB_TOKEN", "tok-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Expected env override of port, got %q", cfg.Server.Port)
	}
	if cfg.GitHub.Token != "tok-from-env" {
		t.Errorf("Expected token from env, got %q", cfg.GitHub.Token)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty store path")
	}

	cfg = DefaultConfig()
	cfg.Ingest.FileContentLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero file content limit")
	}

	cfg = DefaultConfig()
	cfg.Aggregation.PageSize = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative page size")
	}
}
