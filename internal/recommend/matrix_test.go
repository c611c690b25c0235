// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/reelmap/reelmap/internal/models"
)

func fixtureMovies() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "Heat", Year: 1995, Genres: []string{"Action", "Comedy"}},
		{ID: 2, Title: "Ordinary People", Year: 1980, Genres: []string{"Drama"}},
		{ID: 3, Title: "Collateral", Year: 2004, Genres: []string{"Action", "Drama", "Thriller"}},
		{ID: 4, Title: "Clue", Year: 1985, Genres: []string{"Comedy"}},
		{ID: 5, Title: "Unlabeled Short", Year: 2001, Genres: []string{models.GenreNoneListed}},
	}
}

func fixtureRatings() []models.Rating {
	return []models.Rating{
		{UserID: 1, MovieID: 1, Rating: 5.0, Timestamp: 100},
		{UserID: 1, MovieID: 2, Rating: 4.0, Timestamp: 101},
		{UserID: 1, MovieID: 3, Rating: 2.0, Timestamp: 102},
		{UserID: 2, MovieID: 5, Rating: 5.0, Timestamp: 103},
		{UserID: 3, MovieID: 4, Rating: 5.0, Timestamp: 104},
	}
}

func TestBuildMatricesColumnsAndRows(t *testing.T) {
	hm, _ := BuildMatrices(fixtureRatings(), fixtureMovies())

	wantUsers := []int{1, 2, 3}
	if got := hm.Users(); !reflect.DeepEqual(got, wantUsers) {
		t.Fatalf("Users() = %v, want %v", got, wantUsers)
	}

	// User 1 rates Action/Comedy/Drama/Thriller; liked counts are
	// Action 1, Comedy 1, Drama 1 of 3 total, so the ranking is Action,
	// Comedy, Drama, Thriller and the thirds are 1 and 2: Action is
	// likes_many, Comedy likes_some. User 3 has a single rated genre, so
	// Comedy is likes_many for them. Everything else stays empty and its
	// columns are dropped.
	wantColumns := []string{"likes_many_Action", "likes_many_Comedy", "likes_some_Comedy"}
	if got := hm.Columns(); !reflect.DeepEqual(got, wantColumns) {
		t.Fatalf("Columns() = %v, want %v", got, wantColumns)
	}

	tests := []struct {
		userID int
		want   []float64
	}{
		{userID: 1, want: []float64{1, 0, 1}},
		{userID: 2, want: []float64{0, 0, 0}},
		{userID: 3, want: []float64{0, 1, 0}},
	}
	for _, tt := range tests {
		row, ok := hm.Row(tt.userID)
		if !ok {
			t.Fatalf("Row(%d) missing", tt.userID)
		}
		if !reflect.DeepEqual(row, tt.want) {
			t.Errorf("Row(%d) = %v, want %v", tt.userID, row, tt.want)
		}
	}
}

func TestTierFlagsMutuallyExclusive(t *testing.T) {
	hm, _ := BuildMatrices(fixtureRatings(), fixtureMovies())

	colIdx := make(map[string]int, len(hm.Columns()))
	for i, name := range hm.Columns() {
		colIdx[name] = i
	}

	for _, userID := range hm.Users() {
		row, _ := hm.Row(userID)
		for name, i := range colIdx {
			if !strings.HasPrefix(name, "likes_many_") {
				continue
			}
			genre := strings.TrimPrefix(name, "likes_many_")
			j, ok := colIdx["likes_some_"+genre]
			if !ok {
				continue
			}
			if row[i] == 1 && row[j] == 1 {
				t.Errorf("user %d: both tiers set for genre %s", userID, genre)
			}
		}
	}
}

func TestTierFlagsBoundedByRatedGenres(t *testing.T) {
	ratings := fixtureRatings()
	movies := fixtureMovies()
	hm, _ := BuildMatrices(ratings, movies)

	// Distinct non-sentinel genres each user has rated.
	genresByMovie := make(map[int]map[string]struct{})
	for _, m := range movies {
		set := make(map[string]struct{})
		for _, g := range m.Genres {
			if g != models.GenreNoneListed {
				set[g] = struct{}{}
			}
		}
		genresByMovie[m.ID] = set
	}
	ratedGenres := make(map[int]map[string]struct{})
	for _, r := range ratings {
		if ratedGenres[r.UserID] == nil {
			ratedGenres[r.UserID] = make(map[string]struct{})
		}
		for g := range genresByMovie[r.MovieID] {
			ratedGenres[r.UserID][g] = struct{}{}
		}
	}

	for _, userID := range hm.Users() {
		row, _ := hm.Row(userID)
		flags := 0
		for _, v := range row {
			if v == 1 {
				flags++
			}
		}
		if limit := len(ratedGenres[userID]); flags > limit {
			t.Errorf("user %d: %d flags set, only %d distinct genres rated", userID, flags, limit)
		}
	}
}

func TestAssignTiersFewGenres(t *testing.T) {
	tests := []struct {
		name  string
		liked map[string]int
		rated map[string]struct{}
		total int
		want  map[string]int
	}{
		{
			name:  "no liked signal",
			liked: nil,
			rated: map[string]struct{}{"Action": {}},
			total: 0,
			want:  nil,
		},
		{
			name:  "single genre all likes_many",
			liked: map[string]int{"Action": 2},
			rated: map[string]struct{}{"Action": {}},
			total: 2,
			want:  map[string]int{"Action": tierLikesMany},
		},
		{
			name:  "two genres all likes_many",
			liked: map[string]int{"Action": 2, "Drama": 1},
			rated: map[string]struct{}{"Action": {}, "Drama": {}},
			total: 3,
			want:  map[string]int{"Action": tierLikesMany, "Drama": tierLikesMany},
		},
		{
			name:  "three genres split into thirds",
			liked: map[string]int{"Action": 3, "Drama": 2, "Horror": 1},
			rated: map[string]struct{}{"Action": {}, "Drama": {}, "Horror": {}},
			total: 6,
			want:  map[string]int{"Action": tierLikesMany, "Drama": tierLikesSome},
		},
		{
			name:  "proportion tie broken by genre name",
			liked: map[string]int{"Western": 1, "Action": 1, "Drama": 1},
			rated: map[string]struct{}{"Western": {}, "Action": {}, "Drama": {}},
			total: 3,
			want:  map[string]int{"Action": tierLikesMany, "Drama": tierLikesSome},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignTiers(tt.liked, tt.rated, tt.total)
			// Drop tierNone entries for comparison; absence means unflagged.
			for g, tier := range got {
				if tier == tierNone {
					delete(got, g)
				}
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("assignTiers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildRatingMatrix(t *testing.T) {
	_, rm := BuildMatrices(fixtureRatings(), fixtureMovies())

	wantMovies := []int{1, 2, 3, 4, 5}
	if got := rm.MovieIDs(); !reflect.DeepEqual(got, wantMovies) {
		t.Fatalf("MovieIDs() = %v, want %v", got, wantMovies)
	}

	if got := rm.Rating(1, 1); got != 5.0 {
		t.Errorf("Rating(1, 1) = %v, want 5.0", got)
	}
	if got := rm.Rating(1, 4); got != 0 {
		t.Errorf("Rating(1, 4) = %v, want 0 for unrated", got)
	}
	if rm.Rated(1, 4) {
		t.Error("Rated(1, 4) = true, want false")
	}
	if !rm.Rated(1, 3) {
		t.Error("Rated(1, 3) = false, want true")
	}

	// Mean counts unrated cells as zeros over all five columns.
	want := (5.0 + 4.0 + 2.0) / 5.0
	if got := rm.UserMean(1); math.Abs(got-want) > 1e-12 {
		t.Errorf("UserMean(1) = %v, want %v", got, want)
	}
	if got := rm.UserMean(999); got != 0 {
		t.Errorf("UserMean(999) = %v, want 0 for unknown user", got)
	}
}

func TestBuildMatricesEmptyInput(t *testing.T) {
	hm, rm := BuildMatrices(nil, fixtureMovies())

	if hm.NumUsers() != 0 {
		t.Errorf("NumUsers() = %d, want 0", hm.NumUsers())
	}
	if len(rm.MovieIDs()) != 0 {
		t.Errorf("MovieIDs() = %v, want empty", rm.MovieIDs())
	}
}
