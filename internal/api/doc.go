// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package api exposes the catalog, rating, and recommendation
// operations over HTTP using the chi router. All endpoints respond with
// the standard envelope in models.APIResponse; errors carry a
// machine-readable code alongside the human-readable message.
package api
