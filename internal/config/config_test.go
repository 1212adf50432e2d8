package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("default base url = %q, want %q", cfg.API.BaseURL, "http://localhost:8000/api")
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("default ttl = %v, want %v", cfg.Cache.TTL, 5*time.Minute)
	}
	if cfg.Search.QueryDebounce != 500*time.Millisecond {
		t.Errorf("default query debounce = %v, want 500ms", cfg.Search.QueryDebounce)
	}
	if cfg.Search.FilterDebounce != 300*time.Millisecond {
		t.Errorf("default filter debounce = %v, want 300ms", cfg.Search.FilterDebounce)
	}
	if cfg.Pagination.PageSize != 10 {
		t.Errorf("default page size = %d, want 10", cfg.Pagination.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), `
api:
  base_url: https://jobs.example.com/api
  timeout: 5s
cache:
  ttl: 1m
pagination:
  page_size: 25
session:
  backend: file
  token_file: /tmp/jobboard-token
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://jobs.example.com/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", cfg.Cache.TTL)
	}
	if cfg.Pagination.PageSize != 25 {
		t.Errorf("page size = %d, want 25", cfg.Pagination.PageSize)
	}
	if cfg.Session.Backend != "file" || cfg.Session.TokenFile != "/tmp/jobboard-token" {
		t.Errorf("session = %+v", cfg.Session)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "{{invalid yaml")

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), `
search:
  query_debounce: 1s
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.QueryDebounce != time.Second {
		t.Errorf("query debounce = %v, want 1s", cfg.Search.QueryDebounce)
	}
	// Unset fields should retain defaults.
	if cfg.Search.FilterDebounce != 300*time.Millisecond {
		t.Errorf("filter debounce = %v, want default 300ms", cfg.Search.FilterDebounce)
	}
	if cfg.API.Timeout != 20*time.Second {
		t.Errorf("timeout = %v, want default 20s", cfg.API.Timeout)
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Given: the user config sets the URL and timeout, the project config
	// overrides only the timeout.
	userCfg := writeConfig(t, t.TempDir(), `
api:
  base_url: https://user.example/api
  timeout: 2s
`)
	projectCfg := writeConfig(t, t.TempDir(), `
api:
  timeout: 8s
`)

	// When
	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}

	// Then
	if cfg.API.BaseURL != "https://user.example/api" {
		t.Errorf("base url = %q, want user value", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 8*time.Second {
		t.Errorf("timeout = %v, want project value 8s", cfg.API.Timeout)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("ttl = %v, want default", cfg.Cache.TTL)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "JOBBOARD_API_URL overrides base url",
			envs: map[string]string{"JOBBOARD_API_URL": "https://env.example/api"},
			check: func(t *testing.T, c Config) {
				if c.API.BaseURL != "https://env.example/api" {
					t.Errorf("base url = %q", c.API.BaseURL)
				}
			},
		},
		{
			name: "JOBBOARD_TIMEOUT overrides timeout",
			envs: map[string]string{"JOBBOARD_TIMEOUT": "30s"},
			check: func(t *testing.T, c Config) {
				if c.API.Timeout != 30*time.Second {
					t.Errorf("timeout = %v, want %v", c.API.Timeout, 30*time.Second)
				}
			},
		},
		{
			name: "JOBBOARD_TOKEN_BACKEND overrides backend",
			envs: map[string]string{"JOBBOARD_TOKEN_BACKEND": "file"},
			check: func(t *testing.T, c Config) {
				if c.Session.Backend != "file" {
					t.Errorf("backend = %q, want file", c.Session.Backend)
				}
			},
		},
		{
			name: "JOBBOARD_LOG_FILE sets log file",
			envs: map[string]string{"JOBBOARD_LOG_FILE": "/tmp/jobboard.log"},
			check: func(t *testing.T, c Config) {
				if c.Log.File != "/tmp/jobboard.log" {
					t.Errorf("log file = %q", c.Log.File)
				}
			},
		},
		{
			name:    "invalid JOBBOARD_TIMEOUT returns error",
			envs:    map[string]string{"JOBBOARD_TIMEOUT": "notaduration"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), `
api:
  base_ulr: https://typo.example/api
`)

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() should return error for unknown field 'base_ulr'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "relative base url",
			modify:  func(c *Config) { c.API.BaseURL = "/api" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "rate limit without burst",
			modify:  func(c *Config) { c.API.Burst = 0 },
			wantErr: true,
		},
		{
			name:   "pacing disabled",
			modify: func(c *Config) { c.API.RateLimit = 0; c.API.Burst = 0 },
		},
		{
			name:    "zero ttl",
			modify:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Search.QueryDebounce = -time.Millisecond },
			wantErr: true,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.Pagination.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "unknown session backend",
			modify:  func(c *Config) { c.Session.Backend = "vault" },
			wantErr: true,
		},
		{
			name:    "file backend without path",
			modify:  func(c *Config) { c.Session.Backend = "file"; c.Session.TokenFile = "" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
