// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelmap/reelmap/internal/config"
	"github.com/reelmap/reelmap/internal/models"
	"github.com/reelmap/reelmap/internal/recommend"
	"github.com/reelmap/reelmap/internal/session"
	"github.com/reelmap/reelmap/internal/store"
)

// Handler serves the HTTP API over the store and the recommendation
// engine.
type Handler struct {
	store    *store.Store
	engine   recommend.Recommender
	cfg      config.APIConfig
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(st *store.Store, engine recommend.Recommender, cfg config.APIConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    st,
		engine:   engine,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// rateRequest is the body for PUT /api/v1/users/{userID}/ratings/{movieID}.
type rateRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// newUserResponse is the payload for POST /api/v1/users.
type newUserResponse struct {
	UserID    int    `json:"user_id"`
	SessionID string `json:"session_id"`
}

// movieListResponse is the payload for GET /api/v1/movies.
type movieListResponse struct {
	Movies   []models.Movie `json:"movies"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"movies":  len(h.store.Movies()),
		"ratings": len(h.store.Ratings()),
	}, started)
}

// ListMovies handles GET /api/v1/movies. Supports a case-insensitive
// title substring filter via q, an exact genre filter via genre, and
// page/page_size pagination.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", h.cfg.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.DefaultPageSize
	}
	if pageSize > h.cfg.MaxPageSize {
		pageSize = h.cfg.MaxPageSize
	}

	movies := h.store.Movies()
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		filtered := movies[:0]
		for _, m := range movies {
			if m.TitleMatches(q) {
				filtered = append(filtered, m)
			}
		}
		movies = filtered
	}
	if genre := strings.TrimSpace(r.URL.Query().Get("genre")); genre != "" {
		filtered := movies[:0]
		for _, m := range movies {
			if m.HasGenre(genre) {
				filtered = append(filtered, m)
			}
		}
		movies = filtered
	}

	total := len(movies)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	respondSuccess(w, http.StatusOK, movieListResponse{
		Movies:   movies[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, started)
}

// CreateUser handles POST /api/v1/users: allocates a fresh user id and
// opens a session for it.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	s, err := session.New(h.store, h.engine, 0, h.logger)
	if err != nil {
		respondError(w, http.StatusInternalServerError, errCodeInternal, "Failed to create user", err)
		return
	}

	respondSuccess(w, http.StatusCreated, newUserResponse{
		UserID:    s.UserID,
		SessionID: s.ID,
	}, started)
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}

	recs, err := h.engine.Recommend(r.Context(), userID)
	if err != nil {
		if errors.Is(err, recommend.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, errCodeNotFound, "No recommendations could be computed", err)
			return
		}
		respondError(w, http.StatusInternalServerError, errCodeRecommendation, "Recommendation computation failed", err)
		return
	}

	if recs == nil {
		recs = []models.Movie{}
	}
	respondSuccess(w, http.StatusOK, recs, started)
}

// RateMovie handles PUT /api/v1/users/{userID}/ratings/{movieID}. The
// rating is persisted and the user's cached recommendations are
// invalidated before the response is written.
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	movieID, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, "Rating must be on the 1-5 scale", err)
		return
	}

	if _, found := h.store.Movie(movieID); !found {
		respondError(w, http.StatusNotFound, errCodeNotFound, "Movie not in catalog", nil)
		return
	}

	if err := h.store.Rate(userID, movieID, req.Rating); err != nil {
		respondError(w, http.StatusInternalServerError, errCodeInternal, "Failed to record rating", err)
		return
	}
	h.engine.Invalidate(userID)

	rating, _ := h.store.UserRating(userID, movieID)
	respondSuccess(w, http.StatusOK, rating, started)
}

// pathInt parses an integer chi URL parameter, writing a validation
// error response when it is malformed.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v < 1 {
		respondError(w, http.StatusBadRequest, errCodeValidation, "Invalid "+name, err)
		return 0, false
	}
	return v, true
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
