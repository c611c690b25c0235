// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package store owns the flat tabular data files: the movie catalog and
// the user ratings table, both in the MovieLens CSV layout.
//
// The catalog is immutable after load. The ratings table is mutable
// through Rate, which upserts by (user, movie) and rewrites the full
// ratings file after every mutation. The rewrite goes through a temp file
// and an atomic rename, so a crash mid-write never corrupts the table and
// reads in the same process always observe the latest mutation.
//
// The store is deliberately not a database. Reelmap's data volume is a
// single ratings table; a row-indexed in-memory copy plus a full-file
// rewrite keeps the external contract (read-after-write consistency)
// without any persistence machinery.
package store
