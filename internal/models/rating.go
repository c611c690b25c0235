// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package models

// RatingScale bounds for explicit ratings. A stored value of 0 means
// "unrated"; the scale itself never produces 0.
const (
	RatingMin = 1.0
	RatingMax = 5.0

	// LikeThreshold is the fixed policy boundary above which a rating
	// counts as a positive genre-preference signal. Not configurable.
	LikeThreshold = 3.0
)

// Rating is a single user-movie rating event. The collection is mutable:
// re-rating a movie updates the existing row in place (rating and
// timestamp) rather than appending a second row.
type Rating struct {
	// UserID identifies the rating user.
	UserID int `json:"user_id"`

	// MovieID identifies the rated movie.
	MovieID int `json:"movie_id"`

	// Rating is the explicit rating on the 1-5 scale.
	Rating float64 `json:"rating"`

	// Timestamp is the rating time in epoch seconds. Updated on re-rate.
	Timestamp int64 `json:"timestamp"`
}

// Liked reports whether this rating counts as a positive preference
// signal under the fixed like-threshold policy.
func (r *Rating) Liked() bool {
	return r.Rating > LikeThreshold
}

// ValidRating reports whether v is on the accepted rating scale.
func ValidRating(v float64) bool {
	return v >= RatingMin && v <= RatingMax
}
