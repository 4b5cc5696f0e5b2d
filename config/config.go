package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultApprovalThresholdDays is the approval threshold used when neither
// file nor environment provides one.
const DefaultApprovalThresholdDays = 5

// Environment variable names. The engine never inspects the Langflow values;
// they are opaque strings handed to the query client.
const (
	EnvApprovalThresholdDays = "APPROVAL_THRESHOLD_DAYS"
	EnvLangflowURL           = "LANGFLOW_API_URL"
	EnvLangflowAPIKey        = "LANGFLOW_API_KEY"
	EnvLangflowSessionID     = "LANGFLOW_SESSION_ID"
	EnvLangflowOrgID         = "LANGFLOW_ORG_ID"
	EnvLogLevel              = "HRFLOW_LOG_LEVEL"
	EnvLogFormat             = "HRFLOW_LOG_FORMAT"
)

// LangflowConfig holds connection parameters for the external agent-query
// endpoint.
type LangflowConfig struct {
	URL       string        `yaml:"url"`
	APIKey    string        `yaml:"api_key"`
	SessionID string        `yaml:"session_id"`
	OrgID     string        `yaml:"org_id"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config is the complete hrflow configuration.
type Config struct {
	ApprovalThresholdDays int            `yaml:"approval_threshold_days"`
	Langflow              LangflowConfig `yaml:"langflow"`
	Log                   LogConfig      `yaml:"log"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ApprovalThresholdDays: DefaultApprovalThresholdDays,
		Langflow:              LangflowConfig{Timeout: 30 * time.Second},
		Log:                   LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty; a missing file is an error), then env overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.ApprovalThresholdDays < 0 {
		return Config{}, fmt.Errorf("approval threshold must not be negative, got %d", cfg.ApprovalThresholdDays)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvApprovalThresholdDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ApprovalThresholdDays = n
		}
	}
	if v := os.Getenv(EnvLangflowURL); v != "" {
		c.Langflow.URL = v
	}
	if v := os.Getenv(EnvLangflowAPIKey); v != "" {
		c.Langflow.APIKey = v
	}
	if v := os.Getenv(EnvLangflowSessionID); v != "" {
		c.Langflow.SessionID = v
	}
	if v := os.Getenv(EnvLangflowOrgID); v != "" {
		c.Langflow.OrgID = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// EnvThresholdSource reads the approval threshold from the environment on
// every call, falling back to a default. No caching: each workflow execution
// observes the current value.
type EnvThresholdSource struct {
	// Fallback is used when the variable is unset or malformed. Zero means
	// DefaultApprovalThresholdDays.
	Fallback int
}

// ApprovalThreshold implements the threshold source contract.
func (s EnvThresholdSource) ApprovalThreshold() int {
	fallback := s.Fallback
	if fallback == 0 {
		fallback = DefaultApprovalThresholdDays
	}
	v := os.Getenv(EnvApprovalThresholdDays)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
