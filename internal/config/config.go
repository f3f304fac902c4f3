// Package config loads the devmap configuration from a YAML file with
// DEVMAP_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete devmap configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	GitHub      GitHubConfig      `mapstructure:"github"`
	Classifier  ClassifierConfig  `mapstructure:"classifier"`
	Chat        ChatConfig        `mapstructure:"chat"`
	Export      ExportConfig      `mapstructure:"export"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// StoreConfig contains database settings
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// GitHubConfig contains content-API settings
type GitHubConfig struct {
	APIBaseURL string `mapstructure:"apiBaseUrl"`
	Token      string `mapstructure:"token"`
}

// ClassifierConfig contains text-generation backend settings
type ClassifierConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"apiKey"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// ChatConfig contains retrieve-and-generate backend settings
type ChatConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	APIKey          string `mapstructure:"apiKey"`
	KnowledgeBaseID string `mapstructure:"knowledgeBaseId"`
	ModelARN        string `mapstructure:"modelArn"`
	TimeoutSeconds  int    `mapstructure:"timeoutSeconds"`
}

// ExportConfig contains knowledge export settings
type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
}

// IngestConfig contains source adapter settings
type IngestConfig struct {
	FileContentLimit int `mapstructure:"fileContentLimit"`
}

// AggregationConfig contains aggregation engine settings
type AggregationConfig struct {
	PageSize  int `mapstructure:"pageSize"`
	QueueSize int `mapstructure:"queueSize"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the baked-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		Store: StoreConfig{
			Path: ".devmap/devmap.db",
		},
		GitHub: GitHubConfig{
			APIBaseURL: "https://api.github.com",
		},
		Classifier: ClassifierConfig{
			Model:          "amazon.nova-micro-v1:0",
			TimeoutSeconds: 30,
		},
		Chat: ChatConfig{
			TimeoutSeconds: 30,
		},
		Export: ExportConfig{
			Dir:    ".devmap/knowledge",
			Prefix: "developer_contribution/",
		},
		Ingest: IngestConfig{
			FileContentLimit: 1000,
		},
		Aggregation: AggregationConfig{
			PageSize:  200,
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// LoadConfig reads configuration from path (or the defaults when path is
// empty and no config file is found next to the database directory).
// Environment variables override file values: DEVMAP_SERVER_PORT,
// DEVMAP_GITHUB_TOKEN, and so on.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("github.apiBaseUrl", defaults.GitHub.APIBaseURL)
	// Empty defaults register the keys so environment-only values bind
	v.SetDefault("github.token", "")
	v.SetDefault("classifier.endpoint", "")
	v.SetDefault("classifier.apiKey", "")
	v.SetDefault("chat.endpoint", "")
	v.SetDefault("chat.apiKey", "")
	v.SetDefault("chat.knowledgeBaseId", "")
	v.SetDefault("chat.modelArn", "")
	v.SetDefault("classifier.model", defaults.Classifier.Model)
	v.SetDefault("classifier.timeoutSeconds", defaults.Classifier.TimeoutSeconds)
	v.SetDefault("chat.timeoutSeconds", defaults.Chat.TimeoutSeconds)
	v.SetDefault("export.dir", defaults.Export.Dir)
	v.SetDefault("export.prefix", defaults.Export.Prefix)
	v.SetDefault("ingest.fileContentLimit", defaults.Ingest.FileContentLimit)
	v.SetDefault("aggregation.pageSize", defaults.Aggregation.PageSize)
	v.SetDefault("aggregation.queueSize", defaults.Aggregation.QueueSize)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetEnvPrefix("DEVMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".devmap")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable zero value
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Ingest.FileContentLimit <= 0 {
		return fmt.Errorf("ingest.fileContentLimit must be positive")
	}
	if c.Aggregation.PageSize <= 0 {
		return fmt.Errorf("aggregation.pageSize must be positive")
	}
	return nil
}
