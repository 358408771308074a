// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

// Command api is the entry point for the Hikari HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the record store (pgxpool + idempotent schema migrations).
//  4. Connect to Redis.
//  5. Seed demo accounts and catalog titles (first boot only).
//  6. Wire HTTP handlers and start the session reaper.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hikari-tv/hikari/internal/activity"
	"github.com/hikari-tv/hikari/internal/api"
	"github.com/hikari-tv/hikari/internal/bootstrap"
	"github.com/hikari-tv/hikari/internal/catalog/anime"
	"github.com/hikari-tv/hikari/internal/library"
	"github.com/hikari-tv/hikari/internal/platform/config"
	"github.com/hikari-tv/hikari/internal/platform/constants"
	"github.com/hikari-tv/hikari/internal/platform/datastore"
	redisstore "github.com/hikari-tv/hikari/internal/platform/redis"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "hikari-api"))
	slog.SetDefault(log)

	log.Info("[Hikari] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "hikari-api"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Record Store (PostgreSQL + migrations) ─────────────────────────
	store := datastore.New(log)
	must(log, store.Open(startupCtx, cfg.DatabaseURL, cfg.MigrationPath), "open record store")
	defer store.Close()

	pool, err := store.Pool()
	must(log, err, "acquire connection pool")

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return store.Ping(context.Background())
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	activityRepository := activity.NewRepository(pool)
	recorder := activity.NewRecorder(activityRepository, log)
	activityHandler := activity.NewHandler(activityRepository)

	animeRepository := anime.NewRepository(pool)
	animeService := anime.NewService(animeRepository)
	animeHandler := anime.NewHandler(animeService)

	libraryRepository := library.NewRepository(pool)
	pendingWatchRepository := library.NewPendingWatchRepository(rdb)
	libraryService := library.NewService(libraryRepository, pendingWatchRepository, recorder)
	libraryHandler := library.NewHandler(libraryService)

	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(
		userRepository,
		sessionRepository,
		resetTokenRepository,
		jwtSvc,
		recorder,
		pendingWatchRepository,
	)
	authHandler := auth.NewHandler(authService)

	// ── 8. Demo Data ──────────────────────────────────────────────────────
	if cfg.SeedDemoData {
		seeder := bootstrap.NewSeeder(userRepository, animeService, animeRepository, log)
		must(log, seeder.Run(startupCtx), "seed demo data")
	}

	// ── 9. Background Workers ─────────────────────────────────────────────
	// The reaper context outlives startup; it is cancelled during shutdown.
	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	auth.NewReaper(sessionRepository, recorder, log).Start(reaperCtx)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Anime:     animeHandler,
		Library:   libraryHandler,
		Activity:  activityHandler,
	}

	server := api.NewServer(reaperCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	reaperCancel()

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
