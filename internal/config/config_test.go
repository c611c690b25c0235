// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Recommend.TopN != 10 {
		t.Errorf("Recommend.TopN = %d, want 10", cfg.Recommend.TopN)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8980 {
		t.Errorf("Server.Port = %d, want 8980", cfg.Server.Port)
	}
	if cfg.Data.MoviesPath != "dataset/movies.csv" {
		t.Errorf("Data.MoviesPath = %q, want dataset/movies.csv", cfg.Data.MoviesPath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REELMAP_SERVER_PORT", "9001")
	t.Setenv("REELMAP_LOGGING_LEVEL", "debug")
	t.Setenv("REELMAP_DATA_MOVIES_PATH", "/tmp/movies.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Data.MoviesPath != "/tmp/movies.csv" {
		t.Errorf("Data.MoviesPath = %q, want /tmp/movies.csv", cfg.Data.MoviesPath)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9100\nrecommend:\n  top_n: 5\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Recommend.TopN != 5 {
		t.Errorf("Recommend.TopN = %d, want 5", cfg.Recommend.TopN)
	}
	// Untouched sections keep their defaults
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("API.DefaultPageSize = %d, want 20", cfg.API.DefaultPageSize)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"REELMAP_SERVER_PORT", "server.port"},
		{"REELMAP_SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"REELMAP_DATA_RATINGS_PATH", "data.ratings_path"},
		{"REELMAP_API_RATE_LIMIT_REQS", "api.rate_limit_reqs"},
		{"REELMAP_UNKNOWN_THING", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envTransform(tt.name); got != tt.want {
				t.Errorf("envTransform(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing movies path", func(c *Config) { c.Data.MoviesPath = "" }},
		{"missing ratings path", func(c *Config) { c.Data.RatingsPath = "" }},
		{"zero top n", func(c *Config) { c.Recommend.TopN = 0 }},
		{"negative workers", func(c *Config) { c.Recommend.NumWorkers = -1 }},
		{"negative cache ttl", func(c *Config) { c.Recommend.CacheTTL = -time.Second }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"max below default page size", func(c *Config) { c.API.MaxPageSize = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
