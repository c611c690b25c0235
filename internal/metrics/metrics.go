// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package metrics exposes Prometheus instrumentation for Reelmap:
// recommendation latency and throughput, cache efficiency, and rating
// mutation counts. All collectors are registered with the default
// registry via promauto and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationRequests counts recommendation requests by outcome.
	// Outcomes: "personalized", "cold_start", "cached", "error".
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmap_recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationDuration observes end-to-end recommendation latency.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmap_recommendation_duration_seconds",
			Help:    "Duration of recommendation computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MatrixBuildDuration observes hybrid matrix construction latency.
	// This is the full-table rebuild that runs on every cache miss.
	MatrixBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmap_matrix_build_duration_seconds",
			Help:    "Duration of hybrid matrix construction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// NeighborScanDuration observes the O(N) similarity scan latency.
	NeighborScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmap_neighbor_scan_duration_seconds",
			Help:    "Duration of the neighbor similarity scan in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheHits counts recommendation cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmap_recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	// CacheMisses counts recommendation cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmap_recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// RatingMutations counts rating upserts by kind ("insert", "update").
	RatingMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmap_rating_mutations_total",
			Help: "Total number of rating mutations by kind",
		},
		[]string{"kind"},
	)
)
