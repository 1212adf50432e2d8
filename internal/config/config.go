// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all jobboard configuration.
type Config struct {
	API        API        `yaml:"api"`
	Cache      Cache      `yaml:"cache"`
	Search     Search     `yaml:"search"`
	Pagination Pagination `yaml:"pagination"`
	Session    Session    `yaml:"session"`
	Log        Log        `yaml:"log"`
}

// API holds backend connection settings.
type API struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // Requests per second; 0 disables pacing.
	Burst     int           `yaml:"burst"`
}

// Cache holds response cache settings.
type Cache struct {
	TTL time.Duration `yaml:"ttl"`
}

// Search holds debounce delays for the search inputs.
type Search struct {
	QueryDebounce  time.Duration `yaml:"query_debounce"`
	FilterDebounce time.Duration `yaml:"filter_debounce"`
}

// Pagination holds the page size of the job list.
type Pagination struct {
	PageSize int `yaml:"page_size"`
}

// Session holds admin token persistence settings.
type Session struct {
	Backend        string `yaml:"backend"` // "keyring" | "file"
	KeyringService string `yaml:"keyring_service"`
	TokenFile      string `yaml:"token_file"`
}

// Log holds diagnostic log settings. An empty file disables logging.
type Log struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:   "http://localhost:8000/api",
			Timeout:   20 * time.Second,
			RateLimit: 10,
			Burst:     5,
		},
		Cache: Cache{
			TTL: 5 * time.Minute,
		},
		Search: Search{
			QueryDebounce:  500 * time.Millisecond,
			FilterDebounce: 300 * time.Millisecond,
		},
		Pagination: Pagination{
			PageSize: 10,
		},
		Session: Session{
			Backend:        "keyring",
			KeyringService: "jobboard",
			TokenFile:      defaultTokenFile(),
		},
		Log: Log{
			Level: "info",
		},
	}
}

// UserPath returns the per-user config file, ~/.config/jobboard/config.yaml
// on Linux. It returns "" when no config directory can be determined.
func UserPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jobboard", "config.yaml")
}

// ProjectPath is the config file in the working directory, which overrides
// the user file.
const ProjectPath = ".jobboard/config.yaml"

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jobboard", "token")
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("config: api.rate_limit must be non-negative, got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("config: api.burst must be at least 1 when rate_limit is set, got %d", c.API.Burst)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Search.QueryDebounce < 0 || c.Search.FilterDebounce < 0 {
		return errors.New("config: search debounce delays must be non-negative")
	}
	if c.Pagination.PageSize < 1 {
		return fmt.Errorf("config: pagination.page_size must be at least 1, got %d", c.Pagination.PageSize)
	}
	switch c.Session.Backend {
	case "keyring":
		if c.Session.KeyringService == "" {
			return errors.New("config: session.keyring_service cannot be empty")
		}
	case "file":
		if c.Session.TokenFile == "" {
			return errors.New("config: session.token_file cannot be empty with the file backend")
		}
	default:
		return fmt.Errorf("config: session.backend must be \"keyring\" or \"file\", got %q", c.Session.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: JOBBOARD_API_URL, JOBBOARD_TIMEOUT,
// JOBBOARD_TOKEN_BACKEND, JOBBOARD_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("JOBBOARD_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("JOBBOARD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid JOBBOARD_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("JOBBOARD_TOKEN_BACKEND"); v != "" {
		c.Session.Backend = v
	}
	if v := os.Getenv("JOBBOARD_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API        *rawAPI        `yaml:"api"`
	Cache      *rawCache      `yaml:"cache"`
	Search     *rawSearch     `yaml:"search"`
	Pagination *rawPagination `yaml:"pagination"`
	Session    *rawSession    `yaml:"session"`
	Log        *rawLog        `yaml:"log"`
}

type rawAPI struct {
	BaseURL   *string        `yaml:"base_url"`
	Timeout   *time.Duration `yaml:"timeout"`
	RateLimit *float64       `yaml:"rate_limit"`
	Burst     *int           `yaml:"burst"`
}

type rawCache struct {
	TTL *time.Duration `yaml:"ttl"`
}

type rawSearch struct {
	QueryDebounce  *time.Duration `yaml:"query_debounce"`
	FilterDebounce *time.Duration `yaml:"filter_debounce"`
}

type rawPagination struct {
	PageSize *int `yaml:"page_size"`
}

type rawSession struct {
	Backend        *string `yaml:"backend"`
	KeyringService *string `yaml:"keyring_service"`
	TokenFile      *string `yaml:"token_file"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// set copies *src into *dst when src is set.
func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if l := layer.API; l != nil {
		set(&c.API.BaseURL, l.BaseURL)
		set(&c.API.Timeout, l.Timeout)
		set(&c.API.RateLimit, l.RateLimit)
		set(&c.API.Burst, l.Burst)
	}
	if l := layer.Cache; l != nil {
		set(&c.Cache.TTL, l.TTL)
	}
	if l := layer.Search; l != nil {
		set(&c.Search.QueryDebounce, l.QueryDebounce)
		set(&c.Search.FilterDebounce, l.FilterDebounce)
	}
	if l := layer.Pagination; l != nil {
		set(&c.Pagination.PageSize, l.PageSize)
	}
	if l := layer.Session; l != nil {
		set(&c.Session.Backend, l.Backend)
		set(&c.Session.KeyringService, l.KeyringService)
		set(&c.Session.TokenFile, l.TokenFile)
	}
	if l := layer.Log; l != nil {
		set(&c.Log.File, l.File)
		set(&c.Log.Level, l.Level)
	}
}
