package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/StreamHub/internal/cache"
	"github.com/Zerr0-C00L/StreamHub/internal/config"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/services"
	"github.com/Zerr0-C00L/StreamHub/internal/supervisor"
)

// The worker warms the shared Redis cache from a separate process so API
// replicas can run with CACHE_WARMER_ENABLED=false.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if cfg.Redis.URL == "" {
		logging.Fatal().Msg("REDIS_URL is required; an in-process cache cannot be shared with the API")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rc.Close()

	breaker := services.BreakerSettings{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
		HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
	}
	tmdbClient := services.NewTMDBClient(services.TMDBOptions{
		APIKey:   cfg.TMDB.APIKey,
		BaseURL:  cfg.TMDB.BaseURL,
		Timeout:  cfg.TMDB.Timeout,
		Breaker:  breaker,
		Cache:    rc,
		CacheTTL: cfg.TMDB.CacheTTL,
	})
	sportsClient, err := services.NewSportsClient(services.SportsOptions{
		BaseURL:  cfg.Sports.BaseURL,
		Timeout:  cfg.Sports.Timeout,
		Breaker:  breaker,
		Cache:    rc,
		CacheTTL: cfg.Sports.CacheTTL,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create sports client")
	}

	interval := cfg.Warmer.Interval
	if interval <= 0 {
		interval = config.Defaults().Warmer.Interval
	}

	tree := supervisor.NewTree(supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.AddBackgroundService(services.NewCacheWarmer(tmdbClient, sportsClient, services.NewServiceScheduler(), interval))

	logging.Info().Dur("interval", interval).Msg("StreamHub cache worker started")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Worker exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("Worker stopped")
}
