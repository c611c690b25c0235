// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// priority order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmap/config.yaml",
	"/etc/reelmap/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "REELMAP_CONFIG_PATH"

// envPrefix is stripped from environment variable names before mapping
// them to koanf paths.
const envPrefix = "REELMAP_"

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8980,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			MoviesPath:  "dataset/movies.csv",
			RatingsPath: "dataset/ratings.csv",
		},
		Recommend: RecommendConfig{
			TopN:       10,
			NumWorkers: 0, // 0 = runtime.NumCPU()
			CacheTTL:   0, // entries live until invalidated
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
// defaults, then an optional YAML config file, then REELMAP_-prefixed
// environment variables (highest priority).
//
//	REELMAP_SERVER_PORT=9000        -> server.port
//	REELMAP_DATA_MOVIES_PATH=...    -> data.movies_path
//	REELMAP_LOGGING_LEVEL=debug     -> logging.level
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// sectionPrefixes maps the leading env var token to a config section.
// The first underscore after a known section becomes the koanf path
// separator; remaining underscores stay part of the key
// (SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout).
var sectionPrefixes = []string{"SERVER_", "DATA_", "RECOMMEND_", "API_", "LOGGING_"}

// envTransform maps a REELMAP_-prefixed environment variable name to a
// koanf path. Unknown variables are dropped.
func envTransform(name string) string {
	name = strings.TrimPrefix(name, envPrefix)
	for _, prefix := range sectionPrefixes {
		if strings.HasPrefix(name, prefix) {
			section := strings.ToLower(strings.TrimSuffix(prefix, "_"))
			key := strings.ToLower(strings.TrimPrefix(name, prefix))
			return section + "." + key
		}
	}
	return ""
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice from the YAML file
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("unexpected type %T for slice field %s", val, path)
		}

		parts := strings.Split(str, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set slice field %s: %w", path, err)
		}
	}
	return nil
}
