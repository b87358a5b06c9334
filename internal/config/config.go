package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// Config is the top-level application configuration, loaded from YAML.
type Config struct {
	Target   TargetConfig   `yaml:"target"`
	Scraping ScrapingConfig `yaml:"scraping"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TargetConfig selects which listing pages get crawled.
type TargetConfig struct {
	BaseURL   string   `yaml:"base_url" validate:"required,url"`
	Provinces []string `yaml:"provinces" validate:"min=1,dive,required"`
	// MonthSelection is "all", "current", or "next_N" (current month plus N
	// following months). An explicit Months list takes precedence over it.
	MonthSelection string   `yaml:"month_selection" validate:"required"`
	Months         []string `yaml:"months" validate:"dive,required"`
}

// ScrapingConfig holds politeness parameters for the fetch transport.
type ScrapingConfig struct {
	DelaySeconds      float64 `yaml:"delay_seconds" validate:"gte=0"`
	MaxRetries        int     `yaml:"max_retries" validate:"gte=0"`
	RetryDelaySeconds float64 `yaml:"retry_delay_seconds" validate:"gte=0"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"gt=0"`
	UserAgent         string  `yaml:"user_agent" validate:"required"`
}

// StorageConfig holds filesystem locations for the database and exports.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path" validate:"required"`
	JSONExportPath string `yaml:"json_export_path" validate:"required"`
}

// LoggingConfig controls log level and the optional log file.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// Load reads, defaults, and validates a YAML configuration file. A missing
// file or an invalid schema is fatal: the caller must not start any network
// activity with a half-formed configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating configuration %s: %w", path, err)
	}

	if err := cfg.ensureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Target.BaseURL == "" {
		c.Target.BaseURL = "https://www.rommelmarkten.be"
	}
	if len(c.Target.Provinces) == 0 {
		c.Target.Provinces = []string{
			"antwerpen", "limburg", "oost-vlaanderen",
			"vlaams-brabant", "west-vlaanderen",
		}
	}
	if c.Target.MonthSelection == "" {
		c.Target.MonthSelection = "next_3"
	}
	if c.Scraping.DelaySeconds == 0 {
		c.Scraping.DelaySeconds = 2.5
	}
	if c.Scraping.MaxRetries == 0 {
		c.Scraping.MaxRetries = 3
	}
	if c.Scraping.RetryDelaySeconds == 0 {
		c.Scraping.RetryDelaySeconds = 5
	}
	if c.Scraping.TimeoutSeconds == 0 {
		c.Scraping.TimeoutSeconds = 30
	}
	if c.Scraping.UserAgent == "" {
		c.Scraping.UserAgent = "RommelmarktZoeker/1.0"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "data/rommelmarkten"
	}
	if c.Storage.JSONExportPath == "" {
		c.Storage.JSONExportPath = "data/exports"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) ensureDirectories() error {
	dirs := []string{
		c.Storage.DatabasePath,
		c.Storage.JSONExportPath,
	}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// Delay returns the minimum wall-clock delay between requests.
func (s ScrapingConfig) Delay() time.Duration {
	return time.Duration(s.DelaySeconds * float64(time.Second))
}

// RetryDelay returns the initial backoff interval between retries.
func (s ScrapingConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds * float64(time.Second))
}

// Timeout returns the per-request timeout.
func (s ScrapingConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// MonthsToScrape resolves the month-selection policy to Dutch month names.
// An explicit months list wins; otherwise "all" yields every month,
// "current" the current one, and "next_N" the current month plus the N
// following (wrapping across the year boundary). An unparseable policy
// falls back to the current month plus three.
func (c *Config) MonthsToScrape(now time.Time) []string {
	if len(c.Target.Months) > 0 {
		return c.Target.Months
	}

	current := int(now.Month()) - 1 // zero-based index into MonthNames

	switch {
	case c.Target.MonthSelection == "all":
		return event.MonthNames
	case c.Target.MonthSelection == "current":
		return []string{event.MonthNames[current]}
	case strings.HasPrefix(c.Target.MonthSelection, "next_"):
		if n, err := strconv.Atoi(strings.TrimPrefix(c.Target.MonthSelection, "next_")); err == nil && n >= 0 {
			return monthsFrom(current, n+1)
		}
	}
	return monthsFrom(current, 4)
}

func monthsFrom(start, count int) []string {
	months := make([]string, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, event.MonthNames[(start+i)%12])
	}
	return months
}
