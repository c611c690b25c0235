// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelmap/reelmap/internal/cache"
	"github.com/reelmap/reelmap/internal/metrics"
	"github.com/reelmap/reelmap/internal/models"
)

// Engine orchestrates the recommendation pipeline and owns the per-user
// result cache. Safe for concurrent use: operations for the same user
// are serialized by a per-user lock, so a rating mutation's invalidation
// is always ordered against reads for that user, while unrelated users
// proceed independently.
type Engine struct {
	config   Config
	provider DataProvider
	cache    *cache.Cache
	logger   zerolog.Logger

	locksMu   sync.Mutex
	userLocks map[int]*sync.Mutex
}

// NewEngine creates a recommendation engine. The cache is injected so
// its lifetime and TTL policy stay under the caller's control.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, provider DataProvider, c *cache.Cache, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if c == nil {
		c = cache.New(0)
	}

	return &Engine{
		config:    cfg,
		provider:  provider,
		cache:     c,
		logger:    logger.With().Str("component", "recommend").Logger(),
		userLocks: make(map[int]*sync.Mutex),
	}, nil
}

// userLock returns the mutex serializing operations for one user.
func (e *Engine) userLock(userID int) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	mu, ok := e.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.userLocks[userID] = mu
	}
	return mu
}

func cacheKey(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

// Invalidate removes the user's cached recommendation list. It takes the
// user's lock, so an in-flight computation for the same user finishes
// (and caches) before the invalidation lands; no later read can observe
// a list computed before the mutation that triggered the call.
func (e *Engine) Invalidate(userID int) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	e.cache.Delete(cacheKey(userID))
	e.logger.Debug().Int("user_id", userID).Msg("recommendation cache invalidated")
}

// Recommend returns the ranked top-N recommendation list for a user.
//
// Users with rating history get the collaborative pipeline: fresh hybrid
// and rating matrices, neighbor discovery, mean-centered prediction over
// every unrated movie, predictions above the like threshold ranked
// descending. Users with no history get the top-N movies by population
// mean rating instead, never an error.
//
// Successful computations are memoized per user until invalidated.
func (e *Engine) Recommend(ctx context.Context, userID int) ([]models.Movie, error) {
	start := time.Now()

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	if cached, ok := e.cache.Get(cacheKey(userID)); ok {
		metrics.CacheHits.Inc()
		metrics.RecommendationRequests.WithLabelValues("cached").Inc()
		return cached.([]models.Movie), nil
	}
	metrics.CacheMisses.Inc()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ratings := e.provider.Ratings()
	movies := e.provider.Movies()
	hasHistory := e.provider.UserHasRatings(userID)

	var (
		recs    []models.Movie
		outcome string
		err     error
	)
	if hasHistory {
		outcome = "personalized"
		recs, err = e.personalized(ctx, userID, ratings, movies)
	} else {
		outcome = "cold_start"
		recs = e.popularityFallback(ratings, movies)
	}
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	e.cache.Set(cacheKey(userID), recs)

	elapsed := time.Since(start)
	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()
	metrics.RecommendationDuration.Observe(elapsed.Seconds())

	e.logger.Info().
		Int("user_id", userID).
		Str("outcome", outcome).
		Int("results", len(recs)).
		Dur("elapsed", elapsed).
		Msg("recommendation computed")

	return recs, nil
}

// scoredMovie pairs a candidate with its predicted rating for ranking.
type scoredMovie struct {
	movieID int
	score   float64
}

// personalized runs the collaborative filtering pipeline for a user with
// rating history.
func (e *Engine) personalized(ctx context.Context, userID int, ratings []models.Rating, movies []models.Movie) ([]models.Movie, error) {
	buildStart := time.Now()
	hm, rm := BuildMatrices(ratings, movies)
	metrics.MatrixBuildDuration.Observe(time.Since(buildStart).Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanStart := time.Now()
	neighbors, err := FindNeighbors(hm, userID, e.config.workers())
	if err != nil {
		return nil, err
	}
	metrics.NeighborScanDuration.Observe(time.Since(scanStart).Seconds())

	catalog := make(map[int]*models.Movie, len(movies))
	for i := range movies {
		catalog[movies[i].ID] = &movies[i]
	}

	var scored []scoredMovie
	for i, movieID := range rm.MovieIDs() {
		// The scan is long for large catalogs; honor cancellation.
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if rm.Rated(userID, movieID) {
			continue
		}
		if _, ok := catalog[movieID]; !ok {
			continue
		}

		score := PredictRating(rm, movieID, neighbors, userID)
		if score > models.LikeThreshold {
			scored = append(scored, scoredMovie{movieID: movieID, score: score})
		}
	}

	return e.rank(scored, catalog), nil
}

// popularityFallback ranks the whole catalog by population mean rating.
// Serves users with no history; never fails.
func (e *Engine) popularityFallback(ratings []models.Rating, movies []models.Movie) []models.Movie {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := range ratings {
		r := &ratings[i]
		sums[r.MovieID] += r.Rating
		counts[r.MovieID]++
	}

	catalog := make(map[int]*models.Movie, len(movies))
	for i := range movies {
		catalog[movies[i].ID] = &movies[i]
	}

	scored := make([]scoredMovie, 0, len(counts))
	for movieID, count := range counts {
		if _, ok := catalog[movieID]; !ok {
			continue
		}
		scored = append(scored, scoredMovie{
			movieID: movieID,
			score:   sums[movieID] / float64(count),
		})
	}

	return e.rank(scored, catalog)
}

// rank orders scored candidates by score descending (movie id ascending
// on ties), truncates to the top N, and strips the score: the numeric
// prediction is a ranking key, never part of the result.
func (e *Engine) rank(scored []scoredMovie, catalog map[int]*models.Movie) []models.Movie {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].movieID < scored[j].movieID
	})

	if len(scored) > e.config.TopN {
		scored = scored[:e.config.TopN]
	}

	out := make([]models.Movie, 0, len(scored))
	for _, s := range scored {
		out = append(out, *catalog[s.movieID])
	}
	return out
}

// Ensure interface compliance.
var _ Recommender = (*Engine)(nil)
