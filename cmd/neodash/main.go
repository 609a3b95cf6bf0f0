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

	"github.com/star/neodash/internal/api"
	"github.com/star/neodash/internal/asteroids"
	"github.com/star/neodash/internal/cache"
	"github.com/star/neodash/internal/config"
	"github.com/star/neodash/internal/neo"
	"github.com/star/neodash/internal/table"
	"github.com/star/neodash/web"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := config.LoadFromEnvironment(logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	lvl, _ := cfg.Log.SlogLevel()
	level.Set(lvl)

	if cfg.Feed.APIKey == config.DefaultAPIKey {
		logger.Warn("using NASA DEMO_KEY, set NASA_API_KEY for a higher rate limit")
	}

	feedClient := neo.NewClient(neo.ClientConfig{
		BaseURL:      cfg.Feed.BaseURL,
		Timeout:      cfg.Feed.Timeout,
		MaxBodyBytes: cfg.Feed.MaxBodyBytes,
	}, logger)

	feedCache := cache.NewFeedCache(cache.Config{
		TTL:           cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
		MaxEntries:    cfg.Cache.MaxEntries,
	}, logger)

	svc := asteroids.NewService(feedClient, feedCache, cfg.Feed.APIKey, logger)

	formatter, err := table.NewFormatter(cfg.Dashboard.Locale)
	if err != nil {
		logger.Error("invalid dashboard locale", "error", err)
		os.Exit(1)
	}

	srv, err := api.NewServer(api.Options{
		Addr:         cfg.HTTP.Addr,
		TrustProxy:   cfg.HTTP.TrustProxy,
		DefaultDate:  cfg.Dashboard.DefaultDate,
		WriteTimeout: cfg.Feed.Timeout + 15*time.Second,
		Formatter:    formatter,
		Web:          web.Content,
	}, svc, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start cache sweeper; returns at once when disabled.
	go feedCache.Start(ctx)

	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTP.Addr,
			"feed_url", feedClient.BaseURL(),
			"cache_ttl_seconds", cfg.Cache.TTL.Seconds(),
			"cache_max_entries", cfg.Cache.MaxEntries,
			"locale", formatter.Locale(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
