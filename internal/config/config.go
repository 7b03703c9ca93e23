package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile  = "config.yaml"
	DefaultStoragePath = ".tweetsift/tweetsift.db"
	DefaultFormat      = "terminal"
	DefaultTimezone    = "UTC"
	DefaultPullSince   = 30 * 24 * time.Hour
)

type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Storage StorageConfig `yaml:"storage"`
	Query   QueryConfig   `yaml:"query"`
}

type SourcesConfig struct {
	RSS RSSConfig `yaml:"rss"`
}

type RSSConfig struct {
	Feeds []string `yaml:"feeds"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
	// RetainDays of 0 keeps the archive forever.
	RetainDays int `yaml:"retain_days"`
}

type QueryConfig struct {
	Format   string `yaml:"format"`
	Timezone string `yaml:"timezone"`
}

// Load reads config.yaml from dir, applies defaults, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Query.Format == "" {
		cfg.Query.Format = DefaultFormat
	}
	if cfg.Query.Timezone == "" {
		cfg.Query.Timezone = DefaultTimezone
	}
}

func validate(cfg *Config) error {
	switch cfg.Query.Format {
	case "terminal", "json", "markdown":
		// valid
	default:
		return fmt.Errorf("query.format: unknown format %q (want terminal, json, or markdown)", cfg.Query.Format)
	}

	if _, err := time.LoadLocation(cfg.Query.Timezone); err != nil {
		return fmt.Errorf("query.timezone: %w", err)
	}

	if cfg.Storage.RetainDays < 0 {
		return fmt.Errorf("storage.retain_days: must not be negative, got %d", cfg.Storage.RetainDays)
	}

	return nil
}
