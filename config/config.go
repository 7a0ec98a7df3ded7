// Package config loads genremap's settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Pages    PagesConfig    `yaml:"pages"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TaxonomyConfig points at a curated table to use instead of the embedded
// one. An empty path means the embedded table.
type TaxonomyConfig struct {
	Path string `yaml:"path"`
}

// LookupConfig paces calls to the catalog lookup.
type LookupConfig struct {
	Pace      time.Duration `yaml:"pace"`
	Burst     int           `yaml:"burst"`
	StateFile string        `yaml:"state_file"`
	Timeout   time.Duration `yaml:"timeout"`
}

type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// PagesConfig is where fetched everynoise pages are kept. Empty disables
// the page cache.
type PagesConfig struct {
	CacheDir string `yaml:"cache_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// Also write JSON lines to this file, rotated at FileMaxSizeMB.
	File          string `yaml:"file"`
	FileMaxSizeMB int    `yaml:"file_max_size_mb"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "genremap.db"},
		Lookup: LookupConfig{
			Pace:      100 * time.Millisecond,
			Burst:     1,
			StateFile: ".spotify-next-request-time",
			Timeout:   10 * time.Second,
		},
		Pages:   PagesConfig{CacheDir: ".cache/pages"},
		Logging: LoggingConfig{Level: "info", Format: "console", FileMaxSizeMB: 100},
		Server:  ServerConfig{Addr: ":9999"},
	}
}

// Load reads path over Default, if path is given and exists, then applies
// environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("error loading config file '%s': %w", path, err)
		}
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("error loading config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"GENREMAP_DB_PATH":        &c.Database.Path,
		"GENREMAP_TAXONOMY_PATH":  &c.Taxonomy.Path,
		"GENREMAP_PAGE_CACHE_DIR": &c.Pages.CacheDir,
		"GENREMAP_LOG_LEVEL":      &c.Logging.Level,
		"GENREMAP_LOG_FORMAT":     &c.Logging.Format,
		"GENREMAP_LOG_FILE":       &c.Logging.File,
		"GENREMAP_ADDR":           &c.Server.Addr,
		"GENREMAP_LOOKUP_STATE":   &c.Lookup.StateFile,
		"SPOTIFY_CLIENT_ID":       &c.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET":   &c.Spotify.ClientSecret,
	}
	for name, into := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*into = v
		}
	}

	if v := os.Getenv("GENREMAP_LOOKUP_PACE"); v != "" {
		pace, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GENREMAP_LOOKUP_PACE: %w", err)
		}
		c.Lookup.Pace = pace
	}
	if v := os.Getenv("GENREMAP_LOOKUP_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GENREMAP_LOOKUP_BURST: %w", err)
		}
		c.Lookup.Burst = burst
	}
	return nil
}

// Validate checks c and fills in zero values that have a meaningful
// default.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Lookup.Pace < 0 {
		return fmt.Errorf("lookup pace must not be negative: %s", c.Lookup.Pace)
	}
	if c.Lookup.Timeout < 0 {
		return fmt.Errorf("lookup timeout must not be negative: %s", c.Lookup.Timeout)
	}
	if c.Lookup.Burst < 1 {
		c.Lookup.Burst = 1
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		c.Logging.Level = "info"
	default:
		return fmt.Errorf("unknown log level '%s'", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	case "":
		c.Logging.Format = "console"
	default:
		return fmt.Errorf("unknown log format '%s'", c.Logging.Format)
	}
	if c.Logging.FileMaxSizeMB <= 0 {
		c.Logging.FileMaxSizeMB = 100
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	return nil
}
