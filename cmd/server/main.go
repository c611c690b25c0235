// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Command server runs the Reelmap HTTP API: catalog browsing, rating
// mutation, and collaborative-filtering movie recommendations over a
// flat-file MovieLens-style dataset.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelmap/reelmap/internal/api"
	"github.com/reelmap/reelmap/internal/cache"
	"github.com/reelmap/reelmap/internal/config"
	"github.com/reelmap/reelmap/internal/logging"
	"github.com/reelmap/reelmap/internal/recommend"
	"github.com/reelmap/reelmap/internal/store"
	"github.com/reelmap/reelmap/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("movies", cfg.Data.MoviesPath).
		Str("ratings", cfg.Data.RatingsPath).
		Msg("Starting Reelmap")

	st, err := store.Open(cfg.Data.MoviesPath, cfg.Data.RatingsPath, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load data tables")
	}

	engine, err := recommend.NewEngine(recommend.Config{
		TopN:       cfg.Recommend.TopN,
		NumWorkers: cfg.Recommend.NumWorkers,
	}, st, cache.New(cfg.Recommend.CacheTTL), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handler := api.NewHandler(st, engine, cfg.API, logging.Logger())
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supCfg := supervisor.DefaultConfig()
	supCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	sup := supervisor.New("reelmap", logging.NewSlogLogger(), supCfg)
	sup.Add(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server starting")
	errCh := sup.ServeBackground(ctx)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Reelmap stopped gracefully")
}
