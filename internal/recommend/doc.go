// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package recommend implements Reelmap's user-based collaborative
// filtering core.
//
// # Pipeline
//
// A recommendation request runs four stages:
//
//  1. Hybrid matrix construction: ratings joined with movie genres are
//     reduced to a per-user genre-preference profile with two binary
//     tiers per genre (likes-many, likes-some), alongside a plain
//     user-by-movie rating matrix.
//  2. Neighbor discovery: the K most similar users by cosine similarity
//     over the hybrid matrix, with K adapted to the population size.
//  3. Rating prediction: a mean-centered weighted average of neighbor
//     ratings per unseen movie.
//  4. Ranking: predictions above the like threshold, sorted descending,
//     truncated to the top N, with the numeric score dropped from the
//     final list.
//
// Matrices are rebuilt from the live rating table on every cache miss;
// nothing is persisted between requests.
//
// # Determinism
//
// All orderings carry explicit tiebreaks (genre name, user id, movie id
// ascending), so identical inputs produce identical outputs regardless of
// worker count.
//
// # Design notes
//
// The rating matrix overloads 0 as "no opinion". The rating scale has a
// floor of 1, so the overload never collides with an explicit rating,
// but neighbor means are still pulled toward zero by unrated columns.
// This is a deliberate modeling choice; see UserMean.
//
// The package depends only on internal/models, internal/cache, and
// internal/metrics. Storage integrates through the DataProvider
// interface, avoiding a dependency on the store package.
package recommend
