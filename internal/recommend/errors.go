// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package recommend

import "errors"

// ErrUserNotFound indicates the target user is absent from the hybrid
// matrix index. It is the only hard failure in this package: degenerate
// similarities, unrated items, and cold-start users all degrade to
// defined fallback behavior instead of erroring.
//
// The engine path never produces it for users with rating history, since
// the matrix it builds always includes the requesting user; it guards
// direct misuse of FindNeighbors.
var ErrUserNotFound = errors.New("user not found in preference matrix")
