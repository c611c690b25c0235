// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package models defines the shared data types for Reelmap: the movie
// catalog entry, the user rating event, and the API response envelope.
//
// Types here are plain data carriers with no behavior beyond small
// predicates; all algorithmic logic lives in internal/recommend.
package models
