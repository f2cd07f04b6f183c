// Package config loads and validates the gateway's YAML configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full gateway configuration.
type Config struct {
	Server          ServerConfig              `yaml:"server"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
	DefaultProvider string                    `yaml:"default_provider"`
	Catalog         CatalogConfig             `yaml:"catalog"`
	Verification    VerificationConfig        `yaml:"verification"`
	Logging         LoggingConfig             `yaml:"logging"`
	Audit           AuditConfig               `yaml:"audit"`
	Telemetry       TelemetryConfig           `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
	// APIKeys gate every endpoint except /healthz. Empty means open gateway.
	APIKeys []string `yaml:"api_keys"`
}

type ProviderConfig struct {
	Type                 string `yaml:"type"`        // "openai" or "scroll"
	BaseURL              string `yaml:"base_url"`    // e.g. "https://api.openai.com/v1"
	APIKeyEnv            string `yaml:"api_key_env"` // e.g. "OPENAI_API_KEY"
	APIKey               string `yaml:"api_key"`     // inline key, prefer api_key_env
	AllowPrivateNetworks bool   `yaml:"allow_private_networks"`
}

// CatalogConfig points at an optional phrase-catalog override file. An empty
// path selects the built-in catalogs.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// VerificationConfig tunes the fixture suite runner.
type VerificationConfig struct {
	DelayMS   int    `yaml:"delay_ms"`
	CasesPath string `yaml:"cases_path"`
}

// LoggingConfig controls how much request content reaches audit events.
// Levels: full, redacted, metadata.
type LoggingConfig struct {
	AuditLevel string `yaml:"audit_level"`
}

type AuditConfig struct {
	Sinks []AuditSinkConfig `yaml:"sinks"`
}

type AuditSinkConfig struct {
	Type string `yaml:"type"` // "stdout" or "file_jsonl"
	Path string `yaml:"path"` // for file_jsonl
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // "grpc" or "http"
	Insecure bool   `yaml:"insecure"`
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Providers: map[string]ProviderConfig{
			"scroll": {Type: "scroll"},
		},
		DefaultProvider: "scroll",
		Verification: VerificationConfig{
			DelayMS: 1000,
		},
		Logging: LoggingConfig{
			AuditLevel: "metadata",
		},
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if len(cfg.Providers) == 0 {
		cfg.Providers = map[string]ProviderConfig{
			"scroll": {Type: "scroll"},
		}
	}

	// If no default provider is set but there's exactly one provider,
	// use that as default.
	if cfg.DefaultProvider == "" && len(cfg.Providers) == 1 {
		for name := range cfg.Providers {
			cfg.DefaultProvider = name
			break
		}
	}

	if cfg.Verification.DelayMS == 0 {
		cfg.Verification.DelayMS = 1000
	}

	if cfg.Logging.AuditLevel == "" {
		cfg.Logging.AuditLevel = "metadata"
	}
}
