// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelmap/reelmap/internal/config"
)

// NewRouter wires the API routes with the global middleware stack.
func NewRouter(h *Handler, cfg config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
		AllowCredentials: false,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))

		r.Get("/health", h.Health)
		r.Get("/movies", h.ListMovies)
		r.Post("/users", h.CreateUser)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", h.GetRecommendations)
			r.Put("/ratings/{movieID}", h.RateMovie)
		})
	})

	return r
}
