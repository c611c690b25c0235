// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package config

import "time"

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all settings
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: REELMAP_-prefixed overrides for any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the read/write timeout for requests.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig locates the flat tabular data files.
type DataConfig struct {
	// MoviesPath is the path to the movie catalog CSV.
	MoviesPath string `koanf:"movies_path"`

	// RatingsPath is the path to the ratings CSV. Rewritten in full on
	// every rating mutation.
	RatingsPath string `koanf:"ratings_path"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// TopN is the maximum length of a recommendation list.
	TopN int `koanf:"top_n"`

	// NumWorkers is the worker count for the neighbor similarity scan.
	// 0 means runtime.NumCPU().
	NumWorkers int `koanf:"num_workers"`

	// CacheTTL bounds the lifetime of cached recommendation lists.
	// 0 means entries live until invalidated by a rating mutation.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// APIConfig configures API behavior.
type APIConfig struct {
	// DefaultPageSize is the default page size for catalog listings.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the page size for catalog listings.
	MaxPageSize int `koanf:"max_page_size"`

	// RateLimitReqs is the allowed request count per rate-limit window.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate-limit window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file/line in log output.
	Caller bool `koanf:"caller"`
}
