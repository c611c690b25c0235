// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package models

import "strings"

// GenreNoneListed is the sentinel genre used by the MovieLens catalog for
// movies without genre metadata. It is excluded from all preference
// computation.
const GenreNoneListed = "(no genres listed)"

// Movie represents a catalog entry. Movies are immutable once loaded.
type Movie struct {
	// ID is the unique movie identifier from the catalog.
	ID int `json:"id"`

	// Title is the movie title with the release-year suffix stripped.
	Title string `json:"title"`

	// Year is the release year, or 0 when the catalog does not carry one.
	Year int `json:"year,omitempty"`

	// Genres is the list of genre names. Never empty in the catalog except
	// for the GenreNoneListed sentinel.
	Genres []string `json:"genres"`
}

// HasGenre reports whether the movie is tagged with the given genre.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// TitleMatches reports whether the movie title contains the query,
// case-insensitively. Used by the catalog search endpoint.
func (m *Movie) TitleMatches(query string) bool {
	return strings.Contains(strings.ToLower(m.Title), strings.ToLower(query))
}
