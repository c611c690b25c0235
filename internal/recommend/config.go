// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"fmt"
	"runtime"
)

// Config contains configuration for the recommendation engine.
type Config struct {
	// TopN is the maximum length of a recommendation list.
	TopN int `json:"top_n"`

	// NumWorkers is the worker count for the neighbor similarity scan.
	// 0 means runtime.NumCPU().
	NumWorkers int `json:"num_workers"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		TopN:       10,
		NumWorkers: 0,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("num_workers must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

// workers resolves the effective worker count.
func (c *Config) workers() int {
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	return runtime.NumCPU()
}
