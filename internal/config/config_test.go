package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/letaky-tools/letaky/internal/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letaky.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Output != "letaky.json" {
		t.Errorf("Output = %q, want letaky.json", cfg.Output)
	}
	if cfg.PolitenessDelay != 5*time.Second {
		t.Errorf("PolitenessDelay = %v, want 5s", cfg.PolitenessDelay)
	}
	if cfg.LogLevel != logger.LevelInfo {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if !strings.Contains(cfg.UserAgent, "Mozilla/5.0") {
		t.Errorf("UserAgent = %q, want browser user agent", cfg.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
base_url = "https://example.com/shops/"
output = "out/brochures.json"
politeness_delay = "250ms"
request_timeout = "3s"
workers = 4
max_retries = 0
timezone = "Europe/Berlin"
shops = ["kaufland", "lidl"]
log_level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "https://example.com/shops/" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Output != "out/brochures.json" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.PolitenessDelay != 250*time.Millisecond {
		t.Errorf("PolitenessDelay = %v, want 250ms", cfg.PolitenessDelay)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (explicit zero must override default)", cfg.MaxRetries)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Errorf("Location = %v, want Europe/Berlin", cfg.Location)
	}
	if len(cfg.Shops) != 2 {
		t.Errorf("Shops = %v, want 2 entries", cfg.Shops)
	}
	if cfg.LogLevel != logger.LevelDebug {
		t.Errorf("LogLevel = %q, want DEBUG", cfg.LogLevel)
	}
	// Unset keys keep defaults
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", `base_url = `},
		{"bad delay", `politeness_delay = "soon"`},
		{"bad timeout", `request_timeout = "5 parsecs"`},
		{"unknown timezone", `timezone = "Mars/Olympus"`},
		{"unknown log level", `log_level = "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of missing file expected error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero delay allowed", func(c *Config) { c.PolitenessDelay = 0 }, false},
		{"ftp scheme", func(c *Config) { c.BaseURL = "ftp://example.com/" }, true},
		{"no host", func(c *Config) { c.BaseURL = "https:///path" }, true},
		{"empty output", func(c *Config) { c.Output = " " }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"negative delay", func(c *Config) { c.PolitenessDelay = -time.Second }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"nil location", func(c *Config) { c.Location = nil }, true},
		{"warn level", func(c *Config) { c.LogLevel = logger.LevelWarn }, false},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWantsShop(t *testing.T) {
	cfg := Default()
	if !cfg.WantsShop("Kaufland") {
		t.Error("empty Shops should accept every shop")
	}

	cfg.Shops = []string{"kaufland", " Lidl "}
	tests := []struct {
		name string
		want bool
	}{
		{"Kaufland", true},
		{"lidl", true},
		{"Aldi", false},
	}
	for _, tt := range tests {
		if got := cfg.WantsShop(tt.name); got != tt.want {
			t.Errorf("WantsShop(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
