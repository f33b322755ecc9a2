// Package main is the entry point for the trip log server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/triplog/internal/config"
	"github.com/pkordes/triplog/internal/geo"
	"github.com/pkordes/triplog/internal/handler"
	"github.com/pkordes/triplog/internal/kv"
	"github.com/pkordes/triplog/internal/metrics"
	"github.com/pkordes/triplog/internal/middleware"
	"github.com/pkordes/triplog/internal/repo"
	"github.com/pkordes/triplog/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Metrics ----------------------------------------------------------
	var (
		recorder metrics.Recorder = metrics.Noop{}
		observer kv.Observer
		provider *metrics.Provider
	)
	if cfg.MetricsEnabled {
		provider = metrics.New()
		recorder = provider
		observer = provider
	}

	// --- Storage ----------------------------------------------------------
	backend, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("store ready", "backend", cfg.StoreBackend, "cache_mb", cfg.CacheSizeMB)

	// The cache sits outside the observer so store metrics count backend
	// round trips only.
	store := kv.NewCached(kv.NewObserved(backend, observer), cfg.CacheSizeMB)

	// --- Services ---------------------------------------------------------
	locator := service.NewMockLocator()
	tripLog := service.NewTripLog(repo.NewTripRepo(store), locator, logger, service.WithTripGauge(recorder))
	prefs := service.NewPrefsService(repo.NewPrefsRepo(store))
	geocoder := geo.NewClient(cfg.GeocoderURL, cfg.GeocoderTimeout, "triplog/1.0")
	nearby := service.NewNearbyService(geocoder, locator, logger)
	tracker := service.NewTracker(nil, service.DefaultMockInterval)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit → metrics.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	if provider != nil {
		r.Use(middleware.NewMetrics(provider))
		r.Handle("/metrics", provider.Handler())
	}

	srvHandlers := handler.NewServer(tripLog, prefs, nearby, tracker, logger)
	r.Mount("/", srvHandlers.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the configured key-value backend and a function that
// releases it.
func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return kv.NewMemory(cfg.MemoryQuota), func() {}, nil

	case config.BackendSQLite:
		s, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case config.BackendPostgres:
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		defer sqlDB.Close()
		if err := kv.MigratePostgres(ctx, sqlDB); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return kv.NewPostgres(pool), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return kv.NewRedis(client, cfg.RedisPrefix), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
