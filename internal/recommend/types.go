// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"context"

	"github.com/reelmap/reelmap/internal/models"
)

// DataProvider supplies the live data tables for a recommendation
// computation. Implemented by the store package.
type DataProvider interface {
	// Movies returns the movie catalog.
	Movies() []models.Movie

	// Ratings returns the current ratings table.
	Ratings() []models.Rating

	// UserHasRatings reports whether the user has any rating history.
	// Decides between the personalized pipeline and the cold-start
	// fallback.
	UserHasRatings(userID int) bool
}

// Neighbor is another user judged similar to the target user, with the
// cosine similarity score over the hybrid matrix.
type Neighbor struct {
	UserID     int     `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// HybridMatrix is the user-by-genre-preference-signal matrix. Each genre
// contributes an interleaved pair of binary columns: likes_many_<genre>
// and likes_some_<genre>. Columns that are empty across all users are
// dropped. Rows are ordered by ascending user id.
type HybridMatrix struct {
	userIDs []int
	index   map[int]int
	columns []string
	rows    [][]float64
}

// NumUsers returns the number of rows.
func (hm *HybridMatrix) NumUsers() int {
	return len(hm.userIDs)
}

// Users returns the row user ids in ascending order.
func (hm *HybridMatrix) Users() []int {
	return hm.userIDs
}

// Columns returns the interleaved column names.
func (hm *HybridMatrix) Columns() []string {
	return hm.columns
}

// Row returns the preference vector for a user.
func (hm *HybridMatrix) Row(userID int) ([]float64, bool) {
	i, ok := hm.index[userID]
	if !ok {
		return nil, false
	}
	return hm.rows[i], true
}

// RatingMatrix is the user-by-movie rating pivot. A missing cell reads
// as 0, meaning "no opinion". The rating scale has a floor of 1, so 0
// never collides with an explicit rating; Rated distinguishes absence
// from the numeric sentinel where the distinction matters.
type RatingMatrix struct {
	movieIDs []int
	byUser   map[int]map[int]float64
	rowSums  map[int]float64
}

// MovieIDs returns the movie columns in ascending order. A movie appears
// as a column when at least one user has rated it.
func (rm *RatingMatrix) MovieIDs() []int {
	return rm.movieIDs
}

// Rating returns the user's rating for a movie, or 0 when unrated.
func (rm *RatingMatrix) Rating(userID, movieID int) float64 {
	return rm.byUser[userID][movieID]
}

// Rated reports whether the user holds an explicit rating for the movie,
// distinguishing absence from the numeric 0 that Rating returns for it.
func (rm *RatingMatrix) Rated(userID, movieID int) bool {
	_, ok := rm.byUser[userID][movieID]
	return ok
}

// UserMean returns the user's mean rating across ALL movie columns, with
// unrated cells counted as zeros. Unrated movies therefore pull the mean
// toward zero. Deliberate: the mean is taken over the full column space,
// not just the cells the user rated.
func (rm *RatingMatrix) UserMean(userID int) float64 {
	if len(rm.movieIDs) == 0 {
		return 0
	}
	return rm.rowSums[userID] / float64(len(rm.movieIDs))
}

// Recommender is the query interface exposed to the session and API
// layers. Implemented by Engine.
type Recommender interface {
	// Recommend returns the ranked recommendation list for a user.
	Recommend(ctx context.Context, userID int) ([]models.Movie, error)

	// Invalidate removes the user's cached recommendation list. Invoked
	// synchronously after every rating mutation for that user.
	Invalidate(userID int)
}
