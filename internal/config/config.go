// Package config loads the process-wide settings: where the DefectDojo
// API lives, how to authenticate against it, and the optional operational
// knobs. Settings are resolved once at startup and never change afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables. The environment is the canonical interface; the
// YAML file exists for local development and loses to the environment.
const (
	EnvBaseURL  = "DEFECTDOJO_API_BASE"
	EnvAPIToken = "DEFECTDOJO_API_TOKEN"
	EnvTimeout  = "DEFECTDOJO_TIMEOUT_SECONDS"
	EnvAuditDB  = "DEFECTDOJO_MCP_AUDIT_DB"
	EnvLogLevel = "DEFECTDOJO_MCP_LOG_LEVEL"
)

const defaultTimeoutSeconds = 30

// Config holds the resolved settings. The API token must never be logged
// or echoed into results.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	APIToken       string `yaml:"api_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	AuditDB        string `yaml:"audit_db"`
	LogLevel       string `yaml:"log_level"`
}

// Load resolves configuration from an optional YAML file at path, then
// the environment. A missing base URL or token is an error; callers treat
// it as fatal before serving anything.
func Load(path string) (Config, error) {
	cfg := Config{
		TimeoutSeconds: defaultTimeoutSeconds,
		LogLevel:       "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv(EnvAuditDB); v != "" {
		cfg.AuditDB = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvTimeout, v)
		}
		cfg.TimeoutSeconds = secs
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("%s must be set (environment or config file)", EnvBaseURL)
	}
	if cfg.APIToken == "" {
		return Config{}, fmt.Errorf("%s must be set (environment or config file)", EnvAPIToken)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}

	return cfg, nil
}

// Timeout returns the HTTP client timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
