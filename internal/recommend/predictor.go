// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import "math"

// PredictRating estimates the rating targetUser would give movieID,
// using a mean-centered weighted average over the neighbors:
//
//	prediction = mean(target) + sum(sim_v * (r_v - mean_v)) / sum(|sim_v|)
//
// summed over neighbors v holding an explicit rating for the movie. Each
// neighbor's mean is taken across all movie columns with unrated cells
// counted as zeros (see RatingMatrix.UserMean).
//
// A movie no neighbor has rated predicts 0, meaning "no signal" as distinct from
// a genuine low rating; callers filter these out before ranking. A zero
// weight sum yields the target's mean unadjusted.
func PredictRating(rm *RatingMatrix, movieID int, neighbors []Neighbor, targetUser int) float64 {
	var numerator, denominator float64
	rated := false

	for _, n := range neighbors {
		r := rm.Rating(n.UserID, movieID)
		if r == 0 {
			continue
		}
		rated = true
		numerator += n.Similarity * (r - rm.UserMean(n.UserID))
		denominator += math.Abs(n.Similarity)
	}

	if !rated {
		return 0
	}

	adjustment := 0.0
	if denominator != 0 {
		adjustment = numerator / denominator
	}
	return rm.UserMean(targetUser) + adjustment
}
