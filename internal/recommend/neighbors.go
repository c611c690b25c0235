// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// defaultK is the neighborhood size cap. The effective K shrinks below
// it for small populations; see adaptiveK.
const defaultK = 20

// adaptiveK computes the neighborhood size for a population of n users:
// the cap, bounded by 15% of the rest of the population. The 15% bound
// only applies once it is at least 1, so a small neighborhood never
// exceeds the cap and never goes below 1 for any non-trivial population.
func adaptiveK(n int) int {
	// 3*(n-1)/20 is floor(0.15*(n-1)) in exact integer arithmetic.
	candidate := 3 * (n - 1) / 20
	if candidate < 1 {
		return defaultK
	}
	if candidate < defaultK {
		return candidate
	}
	return defaultK
}

// FindNeighbors returns the top-K users most similar to targetUser by
// cosine similarity over the hybrid matrix. The target itself is never a
// candidate, and pairs where either preference vector is all-zero are
// excluded entirely rather than scored at zero.
//
// Candidates are scored across a worker pool (workers <= 1 runs the scan
// inline) and merged deterministically: similarity descending, user id
// ascending on ties.
//
// Returns ErrUserNotFound when targetUser has no row in the matrix.
func FindNeighbors(hm *HybridMatrix, targetUser, workers int) ([]Neighbor, error) {
	targetRow, ok := hm.Row(targetUser)
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrUserNotFound, targetUser)
	}

	users := hm.Users()
	k := adaptiveK(len(users))

	targetNorm := vectorNorm(targetRow)
	if targetNorm == 0 {
		// Degenerate target vector: every pair is excluded.
		return nil, nil
	}

	candidates := scoreCandidates(hm, targetUser, targetRow, targetNorm, workers)

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].UserID < candidates[j].UserID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// scoreCandidates computes similarities against every other user,
// chunked across workers. Each chunk appends to its own slice; chunks
// are concatenated in order, so the result is independent of scheduling.
func scoreCandidates(hm *HybridMatrix, targetUser int, targetRow []float64, targetNorm float64, workers int) []Neighbor {
	users := hm.Users()

	if workers <= 1 || len(users) < 2*workers {
		return scoreChunk(hm, targetUser, targetRow, targetNorm, users)
	}

	chunkSize := (len(users) + workers - 1) / workers
	results := make([][]Neighbor, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(users) {
			end = len(users)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(slot int, chunk []int) {
			defer wg.Done()
			results[slot] = scoreChunk(hm, targetUser, targetRow, targetNorm, chunk)
		}(w, users[start:end])
	}
	wg.Wait()

	var merged []Neighbor
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

// scoreChunk scores one slice of candidate users.
func scoreChunk(hm *HybridMatrix, targetUser int, targetRow []float64, targetNorm float64, chunk []int) []Neighbor {
	out := make([]Neighbor, 0, len(chunk))

	for _, otherID := range chunk {
		if otherID == targetUser {
			continue
		}

		otherRow, _ := hm.Row(otherID)
		otherNorm := vectorNorm(otherRow)
		if otherNorm == 0 {
			// Undefined similarity: excluded, not scored at zero.
			continue
		}

		var dot float64
		for i := range targetRow {
			dot += targetRow[i] * otherRow[i]
		}

		out = append(out, Neighbor{
			UserID:     otherID,
			Similarity: dot / (targetNorm * otherNorm),
		})
	}

	return out
}

// vectorNorm returns the Euclidean norm of v.
func vectorNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
