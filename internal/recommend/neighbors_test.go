// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/reelmap/reelmap/internal/models"
)

func TestAdaptiveK(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "single user", n: 1, want: 20},
		{name: "below threshold falls back to cap", n: 7, want: 20},
		{name: "smallest population above threshold", n: 8, want: 1},
		{name: "mid population", n: 21, want: 3},
		{name: "large population clamped below cap", n: 134, want: 19},
		{name: "large population at cap", n: 141, want: 20},
		{name: "huge population stays at cap", n: 100000, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adaptiveK(tt.n); got != tt.want {
				t.Errorf("adaptiveK(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

// neighborFixture builds a hybrid matrix with four users over two
// single-genre movies: users 10 and 11 share an identical preference
// row, user 12 is orthogonal to them, and user 13 has an all-zero row.
func neighborFixture() *HybridMatrix {
	movies := []models.Movie{
		{ID: 1, Title: "Fast Getaway", Year: 1991, Genres: []string{"Action"}},
		{ID: 2, Title: "Slow Burn", Year: 2000, Genres: []string{"Comedy"}},
	}
	ratings := []models.Rating{
		{UserID: 10, MovieID: 1, Rating: 5.0, Timestamp: 1},
		{UserID: 11, MovieID: 1, Rating: 4.0, Timestamp: 2},
		{UserID: 12, MovieID: 2, Rating: 5.0, Timestamp: 3},
		{UserID: 13, MovieID: 1, Rating: 2.0, Timestamp: 4},
	}
	hm, _ := BuildMatrices(ratings, movies)
	return hm
}

func TestFindNeighbors(t *testing.T) {
	hm := neighborFixture()

	got, err := FindNeighbors(hm, 10, 1)
	if err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}

	// User 11 matches exactly, user 12 is orthogonal, user 13's all-zero
	// vector is excluded rather than scored, and the target never
	// appears.
	if len(got) != 2 {
		t.Fatalf("FindNeighbors() returned %d neighbors, want 2: %v", len(got), got)
	}
	if got[0].UserID != 11 || math.Abs(got[0].Similarity-1.0) > 1e-12 {
		t.Errorf("top neighbor = %+v, want user 11 with similarity 1", got[0])
	}
	if got[1].UserID != 12 || got[1].Similarity != 0 {
		t.Errorf("second neighbor = %+v, want user 12 with similarity 0", got[1])
	}
	for _, n := range got {
		if n.UserID == 10 {
			t.Error("target user returned as its own neighbor")
		}
		if n.Similarity < 0 || n.Similarity > 1 {
			t.Errorf("similarity %v outside [0, 1] for non-negative vectors", n.Similarity)
		}
	}
}

func TestFindNeighborsUnknownUser(t *testing.T) {
	hm := neighborFixture()

	_, err := FindNeighbors(hm, 99, 1)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("FindNeighbors(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestFindNeighborsZeroTargetVector(t *testing.T) {
	hm := neighborFixture()

	got, err := FindNeighbors(hm, 13, 1)
	if err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindNeighbors(zero vector) = %v, want empty", got)
	}
}

func TestFindNeighborsTieOrder(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "Fast Getaway", Year: 1991, Genres: []string{"Action"}},
	}
	ratings := []models.Rating{
		{UserID: 5, MovieID: 1, Rating: 5.0, Timestamp: 1},
		{UserID: 7, MovieID: 1, Rating: 5.0, Timestamp: 2},
		{UserID: 3, MovieID: 1, Rating: 5.0, Timestamp: 3},
	}
	hm, _ := BuildMatrices(ratings, movies)

	got, err := FindNeighbors(hm, 5, 1)
	if err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}

	// Identical similarity everywhere: user id ascending decides.
	wantIDs := []int{3, 7}
	gotIDs := make([]int, len(got))
	for i, n := range got {
		gotIDs[i] = n.UserID
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("tie order = %v, want %v", gotIDs, wantIDs)
	}
}

func TestFindNeighborsTruncatesToK(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "Fast Getaway", Year: 1991, Genres: []string{"Action"}},
	}
	var ratings []models.Rating
	for userID := 1; userID <= 30; userID++ {
		ratings = append(ratings, models.Rating{UserID: userID, MovieID: 1, Rating: 5.0, Timestamp: int64(userID)})
	}
	hm, _ := BuildMatrices(ratings, movies)

	got, err := FindNeighbors(hm, 1, 1)
	if err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}

	// 30 users: K = floor(0.15 * 29) = 4, well under the population.
	if len(got) != 4 {
		t.Errorf("FindNeighbors() returned %d neighbors, want 4", len(got))
	}
	if len(got) >= hm.NumUsers() {
		t.Errorf("neighbor count %d not below population %d", len(got), hm.NumUsers())
	}
}

func TestScoreCandidatesDeterministicAcrossWorkers(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "Fast Getaway", Year: 1991, Genres: []string{"Action"}},
		{ID: 2, Title: "Slow Burn", Year: 2000, Genres: []string{"Comedy"}},
		{ID: 3, Title: "Quiet Fields", Year: 1987, Genres: []string{"Drama"}},
	}
	var ratings []models.Rating
	for userID := 1; userID <= 50; userID++ {
		movieID := userID%3 + 1
		ratings = append(ratings, models.Rating{UserID: userID, MovieID: movieID, Rating: 5.0, Timestamp: int64(userID)})
	}
	hm, _ := BuildMatrices(ratings, movies)

	serial, err := FindNeighbors(hm, 1, 1)
	if err != nil {
		t.Fatalf("FindNeighbors(workers=1) error = %v", err)
	}

	for _, workers := range []int{2, 4, 8} {
		parallel, err := FindNeighbors(hm, 1, workers)
		if err != nil {
			t.Fatalf("FindNeighbors(workers=%d) error = %v", workers, err)
		}
		if !reflect.DeepEqual(parallel, serial) {
			t.Errorf("workers=%d result diverges from serial scan:\n got %v\nwant %v", workers, parallel, serial)
		}
	}
}
