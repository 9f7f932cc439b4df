package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csec-tutor/study-server/internal/analytics"
	"github.com/csec-tutor/study-server/internal/httpapi"
	"github.com/csec-tutor/study-server/internal/platform/cache"
	"github.com/csec-tutor/study-server/internal/platform/config"
	"github.com/csec-tutor/study-server/internal/platform/database"
	"github.com/csec-tutor/study-server/internal/progress"
	"github.com/csec-tutor/study-server/internal/schedule"
	"github.com/csec-tutor/study-server/internal/syllabus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	catalog, err := syllabus.NewLoader(cfg.SyllabusPath)
	if err != nil {
		slog.Error("failed to load syllabus catalog", "path", cfg.SyllabusPath, "error", err)
		os.Exit(1)
	}

	// Postgres and Redis are optional at startup. Without them the server
	// still schedules, with in-memory progress and no caching.
	var (
		db     *database.DB
		store  progress.Store
		events analytics.Logger = analytics.NopLogger{}
	)
	db, err = database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Warn("database unavailable, using in-memory progress store", "error", err)
		store = progress.NewMemoryStore()
	} else {
		defer db.Close()
		pgStore, err := progress.NewPostgresStore(db.Pool)
		if err != nil {
			slog.Error("failed to create progress store", "error", err)
			os.Exit(1)
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure progress schema", "error", err)
			os.Exit(1)
		}
		store = pgStore

		pgEvents := analytics.NewPostgresLogger(db.Pool)
		if err := pgEvents.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure events schema", "error", err)
			os.Exit(1)
		}
		events = pgEvents
	}

	var scheduleCache *cache.Cache
	scheduleCache, err = cache.New(ctx, cfg.Cache.URL)
	if err != nil {
		slog.Warn("cache unavailable, schedules will not be cached", "error", err)
		scheduleCache = nil
	} else {
		defer scheduleCache.Close()
	}

	gen := schedule.NewGenerator(schedule.GeneratorConfig{Catalog: catalog})

	api := httpapi.NewServer(httpapi.ServerConfig{
		Generator:   gen,
		Catalog:     catalog,
		Store:       store,
		Cache:       scheduleCache,
		DB:          db,
		Events:      events,
		ScheduleTTL: time.Duration(cfg.Cache.ScheduleTTLMinutes) * time.Minute,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
