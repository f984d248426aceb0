package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvAPIToken, EnvTimeout, EnvAuditDB, EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://dojo.example.com/")
	t.Setenv(EnvAPIToken, "abc123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://dojo.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.APIToken != "abc123" {
		t.Fatalf("unexpected token %q", cfg.APIToken)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("expected default 30s timeout, got %s", cfg.Timeout())
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default info level, got %q", cfg.LogLevel)
	}
}

func TestLoadMissingBaseURLFails(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIToken, "abc123")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), EnvBaseURL) {
		t.Fatalf("expected error naming %s, got %v", EnvBaseURL, err)
	}
}

func TestLoadMissingTokenFails(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://dojo.example.com")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), EnvAPIToken) {
		t.Fatalf("expected error naming %s, got %v", EnvAPIToken, err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: https://dojo.internal\napi_token: file-token\ntimeout_seconds: 10\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://dojo.internal" || cfg.APIToken != "file-token" {
		t.Fatalf("file values not loaded: %+v", cfg)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Timeout())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.LogLevel)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: https://dojo.internal\napi_token: file-token\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv(EnvAPIToken, "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIToken != "env-token" {
		t.Fatalf("environment must win over file, got %q", cfg.APIToken)
	}
	if cfg.BaseURL != "https://dojo.internal" {
		t.Fatalf("file value lost: %q", cfg.BaseURL)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://dojo.example.com")
	t.Setenv(EnvAPIToken, "abc123")
	t.Setenv(EnvTimeout, "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric timeout")
	}

	t.Setenv(EnvTimeout, "-5")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
