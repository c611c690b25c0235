// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelmap/reelmap/internal/logging"
	"github.com/reelmap/reelmap/internal/models"
)

// Error codes carried in APIError.Code.
const (
	errCodeValidation     = "VALIDATION_ERROR"
	errCodeNotFound       = "NOT_FOUND"
	errCodeRecommendation = "RECOMMENDATION_ERROR"
	errCodeInternal       = "INTERNAL_ERROR"
)

// respondJSON writes the response envelope with the given status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a success envelope around data.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

// respondError writes an error envelope. The underlying error is logged,
// never echoed to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}
