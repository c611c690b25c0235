// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"sort"

	"github.com/reelmap/reelmap/internal/models"
)

// preference tiers assigned to a user's ranked genres.
const (
	tierNone = iota
	tierLikesMany
	tierLikesSome
)

// BuildMatrices converts the live rating and catalog tables into the
// hybrid genre-preference matrix and the user-by-movie rating pivot.
//
// The preference signal is accumulated in a single pass over ratings
// joined with each movie's genre set: a rating above the like threshold
// contributes one liked count to every genre of the movie. The sentinel
// "(no genres listed)" pseudo-genre never contributes.
//
// Per user, liked counts are normalized to proportions of the user's
// total liked count, the user's rated genres are ranked by proportion
// descending (genre name ascending on ties), and the ranking is split
// into thirds: top third likes_many, middle third likes_some, bottom
// third unflagged. Users with fewer than three rated genres get all of
// them flagged likes_many. A user with no liked signal, or no ratings at
// all, still occupies a row; it is all zeros.
func BuildMatrices(ratings []models.Rating, movies []models.Movie) (*HybridMatrix, *RatingMatrix) {
	genresByMovie := make(map[int][]string, len(movies))
	for i := range movies {
		m := &movies[i]
		kept := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			if g != models.GenreNoneListed {
				kept = append(kept, g)
			}
		}
		genresByMovie[m.ID] = kept
	}

	// Single-pass per-(user, genre) accumulation. ratedGenres tracks
	// every genre the user has rated, liked or not, since unliked genres
	// still occupy the bottom of the ranking.
	likedCount := make(map[int]map[string]int)
	ratedGenres := make(map[int]map[string]struct{})
	totalLiked := make(map[int]int)
	genreSet := make(map[string]struct{})

	for i := range ratings {
		r := &ratings[i]
		for _, g := range genresByMovie[r.MovieID] {
			genreSet[g] = struct{}{}

			rated := ratedGenres[r.UserID]
			if rated == nil {
				rated = make(map[string]struct{})
				ratedGenres[r.UserID] = rated
			}
			rated[g] = struct{}{}

			if r.Liked() {
				counts := likedCount[r.UserID]
				if counts == nil {
					counts = make(map[string]int)
					likedCount[r.UserID] = counts
				}
				counts[g]++
				totalLiked[r.UserID]++
			}
		}
	}

	// Every user with at least one rating occupies a row, including
	// users whose movies carry only the sentinel genre.
	userSet := make(map[int]struct{})
	for i := range ratings {
		userSet[ratings[i].UserID] = struct{}{}
	}

	userIDs := make([]int, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	tiers := make(map[int]map[string]int, len(userIDs))
	for _, userID := range userIDs {
		tiers[userID] = assignTiers(likedCount[userID], ratedGenres[userID], totalLiked[userID])
	}

	hm := assembleHybrid(userIDs, genres, tiers)
	return hm, buildRatingMatrix(ratings)
}

// assignTiers ranks a user's rated genres by liked proportion and splits
// the ranking into preference tiers.
func assignTiers(liked map[string]int, rated map[string]struct{}, total int) map[string]int {
	// No liked signal at all: degenerate all-zero row, not an error.
	if total == 0 || len(rated) == 0 {
		return nil
	}

	type rankedGenre struct {
		name       string
		proportion float64
	}

	ranked := make([]rankedGenre, 0, len(rated))
	for g := range rated {
		ranked = append(ranked, rankedGenre{
			name:       g,
			proportion: float64(liked[g]) / float64(total),
		})
	}

	// Proportion descending, genre name ascending on ties: the ranking
	// must be reproducible across runs and worker counts.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].proportion != ranked[j].proportion {
			return ranked[i].proportion > ranked[j].proportion
		}
		return ranked[i].name < ranked[j].name
	})

	tiers := make(map[string]int, len(ranked))

	// Fewer than three ranked genres cannot form three partitions; they
	// all count as likes_many.
	if len(ranked) < 3 {
		for _, rg := range ranked {
			tiers[rg.name] = tierLikesMany
		}
		return tiers
	}

	firstThird := len(ranked) / 3
	secondThird := 2 * len(ranked) / 3
	for i, rg := range ranked {
		switch {
		case i < firstThird:
			tiers[rg.name] = tierLikesMany
		case i < secondThird:
			tiers[rg.name] = tierLikesSome
		}
	}

	return tiers
}

// assembleHybrid lays out the interleaved likes_many/likes_some columns
// in genre order and drops columns that are empty across all users.
func assembleHybrid(userIDs []int, genres []string, tiers map[int]map[string]int) *HybridMatrix {
	type column struct {
		name  string
		genre string
		tier  int
	}

	candidates := make([]column, 0, 2*len(genres))
	for _, g := range genres {
		candidates = append(candidates,
			column{name: "likes_many_" + g, genre: g, tier: tierLikesMany},
			column{name: "likes_some_" + g, genre: g, tier: tierLikesSome},
		)
	}

	kept := make([]column, 0, len(candidates))
	for _, c := range candidates {
		for _, userID := range userIDs {
			if tiers[userID][c.genre] == c.tier {
				kept = append(kept, c)
				break
			}
		}
	}

	hm := &HybridMatrix{
		userIDs: userIDs,
		index:   make(map[int]int, len(userIDs)),
		columns: make([]string, len(kept)),
		rows:    make([][]float64, len(userIDs)),
	}
	for i, c := range kept {
		hm.columns[i] = c.name
	}

	for i, userID := range userIDs {
		hm.index[userID] = i
		row := make([]float64, len(kept))
		for j, c := range kept {
			if tiers[userID][c.genre] == c.tier {
				row[j] = 1
			}
		}
		hm.rows[i] = row
	}

	return hm
}

// buildRatingMatrix pivots the raw ratings into the user-by-movie matrix.
func buildRatingMatrix(ratings []models.Rating) *RatingMatrix {
	byUser := make(map[int]map[int]float64)
	rowSums := make(map[int]float64)
	movieSet := make(map[int]struct{})

	for i := range ratings {
		r := &ratings[i]
		movieSet[r.MovieID] = struct{}{}

		row := byUser[r.UserID]
		if row == nil {
			row = make(map[int]float64)
			byUser[r.UserID] = row
		}
		row[r.MovieID] = r.Rating
	}

	for userID, row := range byUser {
		var sum float64
		for _, v := range row {
			sum += v
		}
		rowSums[userID] = sum
	}

	movieIDs := make([]int, 0, len(movieSet))
	for id := range movieSet {
		movieIDs = append(movieIDs, id)
	}
	sort.Ints(movieIDs)

	return &RatingMatrix{
		movieIDs: movieIDs,
		byUser:   byUser,
		rowSums:  rowSums,
	}
}
