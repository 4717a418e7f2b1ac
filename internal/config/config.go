package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Corrections CorrectionsConfig `yaml:"corrections"`
	Sources     SourcesConfig     `yaml:"sources"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DatabaseConfig holds SQLite cache settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CorrectionsConfig holds the correction store location.
type CorrectionsConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig holds third-party API credentials.
type SourcesConfig struct {
	SpotifyClientID     string `yaml:"spotify_client_id"`
	SpotifyClientSecret string `yaml:"spotify_client_secret"`
	DiscogsToken        string `yaml:"discogs_token"`
	GeminiAPIKey        string `yaml:"gemini_api_key"`
}

// AnalysisConfig holds pipeline tuning knobs.
type AnalysisConfig struct {
	Workers       int `yaml:"workers"`
	SourceTimeout int `yaml:"source_timeout_seconds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Default returns a Config with sensible defaults, rooted in the
// user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".flowtag")

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "cache.db"),
		},
		Corrections: CorrectionsConfig{
			Path: filepath.Join(dataDir, "corrections.json"),
		},
		Analysis: AnalysisConfig{
			Workers:       4,
			SourceTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("FT_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FT_CORRECTIONS_PATH"); v != "" {
		c.Corrections.Path = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Sources.SpotifyClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Sources.SpotifyClientSecret = v
	}
	if v := os.Getenv("DISCOGS_TOKEN"); v != "" {
		c.Sources.DiscogsToken = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Sources.GeminiAPIKey = v
	}
	if v := os.Getenv("FT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("FT_SOURCE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.SourceTimeout = n
		}
	}
	if v := os.Getenv("FT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("FT_LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Corrections.Path == "" {
		return fmt.Errorf("corrections path is required")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("invalid worker count: %d", c.Analysis.Workers)
	}
	if c.Analysis.SourceTimeout < 1 {
		return fmt.Errorf("invalid source timeout: %d", c.Analysis.SourceTimeout)
	}
	return nil
}
