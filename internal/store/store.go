// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelmap/reelmap/internal/metrics"
	"github.com/reelmap/reelmap/internal/models"
)

// ratingKey identifies a rating row for upsert lookups.
type ratingKey struct {
	userID  int
	movieID int
}

// Store holds the movie catalog and the mutable ratings table.
// Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	moviesPath  string
	ratingsPath string

	movies     []models.Movie
	movieIndex map[int]int

	ratings     []models.Rating
	ratingIndex map[ratingKey]int
	maxUserID   int

	logger zerolog.Logger

	// now is the timestamp source for mutations; replaced in tests.
	now func() int64
}

// Open loads the catalog and ratings tables from disk.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(moviesPath, ratingsPath string, logger zerolog.Logger) (*Store, error) {
	movies, err := openAndRead(moviesPath, readMovies)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie catalog: %w", err)
	}

	ratings, err := openAndRead(ratingsPath, readRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings table: %w", err)
	}

	s := newStore(movies, ratings, logger)
	s.moviesPath = moviesPath
	s.ratingsPath = ratingsPath

	s.logger.Info().
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Int("max_user_id", s.maxUserID).
		Msg("loaded data tables")

	return s, nil
}

// NewMemory creates a store from in-memory tables with no backing files.
// Mutations skip persistence. Intended for tests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMemory(movies []models.Movie, ratings []models.Rating, logger zerolog.Logger) *Store {
	return newStore(movies, ratings, logger)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newStore(movies []models.Movie, ratings []models.Rating, logger zerolog.Logger) *Store {
	s := &Store{
		movies:      movies,
		movieIndex:  make(map[int]int, len(movies)),
		ratings:     ratings,
		ratingIndex: make(map[ratingKey]int, len(ratings)),
		logger:      logger.With().Str("component", "store").Logger(),
		now:         func() int64 { return time.Now().Unix() },
	}

	for i := range movies {
		s.movieIndex[movies[i].ID] = i
	}
	for i := range ratings {
		r := &ratings[i]
		s.ratingIndex[ratingKey{r.UserID, r.MovieID}] = i
		if r.UserID > s.maxUserID {
			s.maxUserID = r.UserID
		}
	}

	return s
}

// Movies returns a copy of the catalog.
func (s *Store) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// Movie returns the catalog entry for the given id.
func (s *Store) Movie(id int) (models.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.movieIndex[id]
	if !ok {
		return models.Movie{}, false
	}
	return s.movies[i], true
}

// Ratings returns a copy of the current ratings table.
func (s *Store) Ratings() []models.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Rating, len(s.ratings))
	copy(out, s.ratings)
	return out
}

// UserRating returns the user's rating for a movie, if present.
func (s *Store) UserRating(userID, movieID int) (models.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.ratingIndex[ratingKey{userID, movieID}]
	if !ok {
		return models.Rating{}, false
	}
	return s.ratings[i], true
}

// UserHasRatings reports whether the user has any rating history.
func (s *Store) UserHasRatings(userID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.ratings {
		if s.ratings[i].UserID == userID {
			return true
		}
	}
	return false
}

// NextUserID allocates a fresh user id: max(existing ids) + 1.
// User ids form a dense, monotonically growing integer space.
func (s *Store) NextUserID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxUserID++
	return s.maxUserID
}

// Rate upserts a rating by (user, movie): a first-time rating appends a
// row, a re-rating updates the existing row's rating and timestamp in
// place. The full ratings table is persisted before Rate returns, so a
// subsequent read in this process always observes the mutation. A failed
// persist rolls the in-memory change back: Rate either mutates both the
// table and the file, or neither.
func (s *Store) Rate(userID, movieID int, rating float64) error {
	if !models.ValidRating(rating) {
		return fmt.Errorf("rating %.2f outside the %.0f-%.0f scale", rating, models.RatingMin, models.RatingMax)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movieIndex[movieID]; !ok {
		return fmt.Errorf("movie %d not in catalog", movieID)
	}

	key := ratingKey{userID, movieID}
	kind := "insert"
	if i, ok := s.ratingIndex[key]; ok {
		prev := s.ratings[i]
		s.ratings[i].Rating = rating
		s.ratings[i].Timestamp = s.now()
		kind = "update"

		if err := s.persistLocked(); err != nil {
			s.ratings[i] = prev
			return err
		}
	} else {
		s.ratings = append(s.ratings, models.Rating{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    rating,
			Timestamp: s.now(),
		})
		s.ratingIndex[key] = len(s.ratings) - 1
		prevMax := s.maxUserID
		if userID > s.maxUserID {
			s.maxUserID = userID
		}

		if err := s.persistLocked(); err != nil {
			s.ratings = s.ratings[:len(s.ratings)-1]
			delete(s.ratingIndex, key)
			s.maxUserID = prevMax
			return err
		}
	}

	metrics.RatingMutations.WithLabelValues(kind).Inc()
	s.logger.Debug().
		Int("user_id", userID).
		Int("movie_id", movieID).
		Float64("rating", rating).
		Str("kind", kind).
		Msg("rating upserted")

	return nil
}

// persistLocked rewrites the ratings file through a temp file and an
// atomic rename. Must be called with mu held. A store without a backing
// file (NewMemory) skips persistence.
func (s *Store) persistLocked() error {
	if s.ratingsPath == "" {
		return nil
	}

	dir := filepath.Dir(s.ratingsPath)
	tmp, err := os.CreateTemp(dir, ".ratings-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp ratings file: %w", err)
	}

	if err := writeRatings(tmp, s.ratings); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write ratings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp ratings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.ratingsPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace ratings file: %w", err)
	}

	return nil
}
