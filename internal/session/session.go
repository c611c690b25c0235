// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package session is the user-facing facade over the store and the
// recommendation engine. A session binds one user id to the two
// operations the product exposes: rating a movie and fetching the
// user's recommendation list.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelmap/reelmap/internal/models"
	"github.com/reelmap/reelmap/internal/recommend"
	"github.com/reelmap/reelmap/internal/store"
)

// Session ties a user to the store and the recommendation engine for
// the duration of an interaction.
type Session struct {
	// ID identifies this session instance, not the user.
	ID string

	// UserID is the user the session acts for.
	UserID int

	store  *store.Store
	engine recommend.Recommender
	logger zerolog.Logger
}

// New creates a session for an existing user, or allocates a fresh user
// id when userID is 0. Fresh ids are max(existing) + 1, so user ids form
// a dense, monotonically growing integer space.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(st *store.Store, engine recommend.Recommender, userID int, logger zerolog.Logger) (*Session, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("recommendation engine is required")
	}

	if userID == 0 {
		userID = st.NextUserID()
	}

	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		store:  st,
		engine: engine,
		logger: logger.With().Str("component", "session").Logger(),
	}

	s.logger.Debug().
		Str("session_id", s.ID).
		Int("user_id", s.UserID).
		Msg("session opened")

	return s, nil
}

// RateMovie records the user's rating for a movie. The rating is
// persisted and the user's cached recommendation list is invalidated
// before RateMovie returns, so a subsequent GetRecommendation never
// observes a list computed before this mutation.
func (s *Session) RateMovie(movieID int, rating float64) error {
	if err := s.store.Rate(s.UserID, movieID, rating); err != nil {
		return fmt.Errorf("failed to rate movie %d: %w", movieID, err)
	}

	s.engine.Invalidate(s.UserID)
	return nil
}

// GetRecommendation returns the user's ranked recommendation list, at
// most the configured top N. A user with no rating history gets the
// popularity fallback, never an error.
func (s *Session) GetRecommendation(ctx context.Context) ([]models.Movie, error) {
	return s.engine.Recommend(ctx, s.UserID)
}
