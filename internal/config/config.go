package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/pelletier/go-toml/v2"

	"github.com/letaky-tools/letaky/internal/logger"
)

const (
	DefaultBaseURL = "https://www.prospektmaschine.de/hypermarkte/"
	DefaultOutput  = "letaky.json"

	// DefaultUserAgent mimics a desktop browser; the directory rejects bare clients
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DefaultRequestTimeout  = 10 * time.Second
	DefaultPolitenessDelay = 5 * time.Second
	DefaultWorkers         = 1
	DefaultMaxRetries      = 3
	DefaultLogLevel        = logger.LevelInfo
)

// Config holds every tunable of a scrape run
type Config struct {
	BaseURL         string
	Output          string
	UserAgent       string
	RequestTimeout  time.Duration
	PolitenessDelay time.Duration
	Workers         int
	MaxRetries      int
	Location        *time.Location
	Shops           []string // restrict the run to these shop names, empty means all
	LogLevel        logger.Level
}

// fileConfig mirrors the TOML layout. Durations are strings such as "5s".
type fileConfig struct {
	BaseURL         string   `toml:"base_url"`
	Output          string   `toml:"output"`
	UserAgent       string   `toml:"user_agent"`
	RequestTimeout  string   `toml:"request_timeout"`
	PolitenessDelay string   `toml:"politeness_delay"`
	Workers         *int     `toml:"workers"`
	MaxRetries      *int     `toml:"max_retries"`
	Timezone        string   `toml:"timezone"`
	Shops           []string `toml:"shops"`
	LogLevel        string   `toml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Output:          DefaultOutput,
		UserAgent:       DefaultUserAgent,
		RequestTimeout:  DefaultRequestTimeout,
		PolitenessDelay: DefaultPolitenessDelay,
		Workers:         DefaultWorkers,
		MaxRetries:      DefaultMaxRetries,
		Location:        time.Local,
		LogLevel:        DefaultLogLevel,
	}
}

// Load returns Default() overlaid with the TOML file at path.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// apply overlays the TOML document on cfg; keys not present keep their value
func (c *Config) apply(data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Output != "" {
		c.Output = fc.Output
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if fc.PolitenessDelay != "" {
		d, err := time.ParseDuration(fc.PolitenessDelay)
		if err != nil {
			return fmt.Errorf("politeness_delay: %w", err)
		}
		c.PolitenessDelay = d
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.MaxRetries != nil {
		c.MaxRetries = *fc.MaxRetries
	}
	if fc.Timezone != "" {
		loc, err := time.LoadLocation(fc.Timezone)
		if err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
		c.Location = loc
	}
	if len(fc.Shops) > 0 {
		c.Shops = fc.Shops
	}
	if fc.LogLevel != "" {
		level, err := logger.ParseLevel(fc.LogLevel)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		c.LogLevel = level
	}

	return nil
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path is empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.PolitenessDelay < 0 {
		return fmt.Errorf("politeness delay must not be negative, got %s", c.PolitenessDelay)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Location == nil {
		return errors.New("location is not set")
	}
	if _, err := logger.ParseLevel(string(c.LogLevel)); err != nil {
		return err
	}
	return nil
}

// WantsShop reports whether name passes the Shops restriction (case-insensitive)
func (c *Config) WantsShop(name string) bool {
	if len(c.Shops) == 0 {
		return true
	}
	for _, s := range c.Shops {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}
