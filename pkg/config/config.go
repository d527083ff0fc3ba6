package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the health analyzer server.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys, tokens) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Data source provider credentials
	Airtable AirtableConfig `yaml:"airtable"`
	HubSpot  HubSpotConfig  `yaml:"hubspot"`
	Zapier   ZapierConfig   `yaml:"zapier"`

	// DefaultSource is the data source activated at startup.
	DefaultSource string `yaml:"default_source" env:"DEFAULT_SOURCE" env-default:"static"`

	// Schema discovery tuning
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Optional LLM enhancement of recommendation reasoning
	Enhancement EnhancementConfig `yaml:"enhancement"`
}

// AirtableConfig holds Airtable connection settings. The personal access
// token is a secret and only comes from the environment.
type AirtableConfig struct {
	APIKey  string `yaml:"-" env:"AIRTABLE_API_KEY"` // Secret - not in YAML
	BaseID  string `yaml:"base_id" env:"AIRTABLE_BASE_ID" env-default:""`
	BaseURL string `yaml:"base_url" env:"AIRTABLE_BASE_URL" env-default:"https://api.airtable.com/v0"`
}

// Configured returns true if Airtable credentials are present.
func (c *AirtableConfig) Configured() bool {
	return c.APIKey != ""
}

// HubSpotConfig holds HubSpot CRM connection settings.
type HubSpotConfig struct {
	AccessToken string `yaml:"-" env:"HUBSPOT_ACCESS_TOKEN"` // Secret - not in YAML
	BaseURL     string `yaml:"base_url" env:"HUBSPOT_BASE_URL" env-default:"https://api.hubapi.com"`
}

// Configured returns true if HubSpot credentials are present.
func (c *HubSpotConfig) Configured() bool {
	return c.AccessToken != ""
}

// ZapierConfig holds Zapier Tables connection settings.
type ZapierConfig struct {
	APIKey  string `yaml:"-" env:"ZAPIER_API_KEY"` // Secret - not in YAML
	TableID string `yaml:"table_id" env:"ZAPIER_TABLE_ID" env-default:""`
	BaseURL string `yaml:"base_url" env:"ZAPIER_BASE_URL" env-default:"https://tables.zapier.com/api/v1"`
}

// Configured returns true if Zapier credentials are present.
func (c *ZapierConfig) Configured() bool {
	return c.APIKey != "" && c.TableID != ""
}

// DiscoveryConfig holds schema discovery tuning.
type DiscoveryConfig struct {
	// ProbeParallelism caps concurrent table probes against a source.
	ProbeParallelism int `yaml:"probe_parallelism" env:"DISCOVERY_PROBE_PARALLELISM" env-default:"5"`
	// ProbeTimeoutSeconds bounds each individual table probe.
	ProbeTimeoutSeconds int `yaml:"probe_timeout_seconds" env:"DISCOVERY_PROBE_TIMEOUT_SECONDS" env-default:"10"`
	// SampleSize is how many records are fetched per table for field inference.
	SampleSize int `yaml:"sample_size" env:"DISCOVERY_SAMPLE_SIZE" env-default:"10"`
}

// ProbeTimeout returns the per-probe timeout as a duration.
func (c *DiscoveryConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// EnhancementConfig holds settings for LLM-enhanced recommendation
// reasoning. When disabled or unconfigured, rule-based reasoning is
// returned as-is.
type EnhancementConfig struct {
	Enabled        bool   `yaml:"enabled" env:"ENHANCEMENT_ENABLED" env-default:"false"`
	Provider       string `yaml:"provider" env:"ENHANCEMENT_PROVIDER" env-default:"openai"` // openai or anthropic
	Model          string `yaml:"model" env:"ENHANCEMENT_MODEL" env-default:""`
	BaseURL        string `yaml:"base_url" env:"ENHANCEMENT_BASE_URL" env-default:""`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"ENHANCEMENT_TIMEOUT_SECONDS" env-default:"8"`
	APIKey         string `yaml:"-" env:"ENHANCEMENT_API_KEY"` // Secret - not in YAML
}

// Available returns true if enhancement is enabled and has credentials.
func (c *EnhancementConfig) Available() bool {
	return c.Enabled && c.APIKey != ""
}

// Timeout returns the enhancement call budget as a duration.
func (c *EnhancementConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Secrets (AIRTABLE_API_KEY, HUBSPOT_ACCESS_TOKEN, ZAPIER_API_KEY,
// ENHANCEMENT_API_KEY) must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Discovery.ProbeParallelism < 1 {
		return fmt.Errorf("discovery.probe_parallelism must be at least 1, got %d", c.Discovery.ProbeParallelism)
	}
	if c.Discovery.SampleSize < 1 {
		return fmt.Errorf("discovery.sample_size must be at least 1, got %d", c.Discovery.SampleSize)
	}
	switch c.Enhancement.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("enhancement.provider must be openai or anthropic, got %q", c.Enhancement.Provider)
	}
	return nil
}
