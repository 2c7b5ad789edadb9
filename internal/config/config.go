package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the store package.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	OMDb    OMDbConfig    `yaml:"omdb"`
	Search  SearchConfig  `yaml:"search"`
	Refresh RefreshConfig `yaml:"refresh"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// OMDbConfig holds OMDb API configuration
type OMDbConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MaxAttempts      int    `yaml:"max_attempts"`
	InitialBackoffMs int    `yaml:"initial_backoff_ms"`
}

// SearchConfig holds search settings
type SearchConfig struct {
	MinQueryLength int `yaml:"min_query_length"`
}

// RefreshConfig holds settings for re-fetching watched movies
type RefreshConfig struct {
	Workers int `yaml:"workers"`
}

// StorageConfig selects where the watched list is persisted
type StorageConfig struct {
	Driver string      `yaml:"driver"`
	Key    string      `yaml:"key"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns a configuration with every default applied and no API key.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. Variables from a .env file in
// the working directory are loaded first so the YAML can reference them.
// A missing config file is not an error; the defaults plus OMDB_API_KEY are used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		cfg.OMDb.APIKey = os.Getenv("OMDB_API_KEY")
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Path, err = expandHome(cfg.Storage.Path); err != nil {
		return nil, err
	}
	if cfg.Log.File, err = expandHome(cfg.Log.File); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.OMDb.APIKey == "" || c.OMDb.APIKey == "your_api_key_here" {
		return fmt.Errorf("OMDb API key is required. Get one from https://www.omdbapi.com/apikey.aspx")
	}

	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver)
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (want file, sqlite or redis)", c.Storage.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = "https://www.omdbapi.com/"
	}
	if c.OMDb.TimeoutSeconds <= 0 {
		c.OMDb.TimeoutSeconds = 30
	}
	if c.OMDb.MaxAttempts <= 0 {
		c.OMDb.MaxAttempts = 3
	}
	if c.OMDb.InitialBackoffMs <= 0 {
		c.OMDb.InitialBackoffMs = 1000
	}
	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = 3
	}
	if c.Refresh.Workers <= 0 {
		c.Refresh.Workers = 4
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "watched"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.Path = "~/.popcorn/watched.json"
		case DriverSQLite:
			c.Storage.Path = "~/.popcorn/popcorn.db"
		}
	}
	if c.Storage.Redis.KeyPrefix == "" {
		c.Storage.Redis.KeyPrefix = "popcorn:"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
