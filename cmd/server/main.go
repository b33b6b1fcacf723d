package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/StreamHub/internal/api"
	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/cache"
	"github.com/Zerr0-C00L/StreamHub/internal/config"
	"github.com/Zerr0-C00L/StreamHub/internal/database"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/services"
	"github.com/Zerr0-C00L/StreamHub/internal/supervisor"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	if envErr != nil {
		logging.Debug().Msg(".env file not found, using environment variables")
	}
	logging.Info().Msg("Starting StreamHub API server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg.Database.URL, database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logging.Info().Msg("Database connection established")

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	tree := supervisor.NewTree(supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})

	responseCache, closeCache, err := buildCache(ctx, cfg, tree)
	if err != nil {
		return err
	}
	defer closeCache()

	breaker := services.BreakerSettings{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
		HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
	}

	if cfg.TMDB.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY not set; movie endpoints will fail")
	}
	tmdbClient := services.NewTMDBClient(services.TMDBOptions{
		APIKey:   cfg.TMDB.APIKey,
		BaseURL:  cfg.TMDB.BaseURL,
		Timeout:  cfg.TMDB.Timeout,
		Breaker:  breaker,
		Cache:    responseCache,
		CacheTTL: cfg.TMDB.CacheTTL,
	})

	if cfg.Streami.APIKey == "" {
		logging.Warn().Msg("STREAMI_API_KEY not set; stream provisioning will fail")
	}
	streamiClient := services.NewStreamiClient(services.StreamiOptions{
		APIKey:  cfg.Streami.APIKey,
		BaseURL: cfg.Streami.BaseURL,
		Timeout: cfg.Streami.Timeout,
		Breaker: breaker,
	})

	sportsClient, err := services.NewSportsClient(services.SportsOptions{
		BaseURL:  cfg.Sports.BaseURL,
		Timeout:  cfg.Sports.Timeout,
		Breaker:  breaker,
		Cache:    responseCache,
		CacheTTL: cfg.Sports.CacheTTL,
	})
	if err != nil {
		return err
	}

	if cfg.Auth.JWTSecret == "" {
		logging.Warn().Msg("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	scheduler := services.NewServiceScheduler()
	if cfg.Warmer.Enabled {
		warmer := services.NewCacheWarmer(tmdbClient, sportsClient, scheduler, cfg.Warmer.Interval)
		tree.AddBackgroundService(warmer)
		logging.Info().Dur("interval", cfg.Warmer.Interval).Msg("Cache warmer enabled")
	}

	handler := api.NewHandler(api.Deps{
		Streams:   database.NewStreamStore(db),
		Users:     database.NewUserStore(db),
		Movies:    tmdbClient,
		Platform:  streamiClient,
		Sports:    sportsClient,
		Prober:    services.NewHLSProber(10 * time.Second),
		Tokens:    tokens,
		Scheduler: scheduler,
		DB:        db,
	})

	router := api.SetupRoutes(handler, api.RouterOptions{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Addr(), cfg.Server.ShutdownTimeout))

	return tree.Serve(ctx)
}

// buildCache returns Redis when configured, otherwise an in-process cache
// whose cleanup loop runs under the supervisor.
func buildCache(ctx context.Context, cfg *config.Config, tree *supervisor.Tree) (cache.Cache, func(), error) {
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Msg("Using Redis response cache")
		return rc, func() { rc.Close() }, nil
	}

	mc := cache.NewMemoryCache()
	tree.AddBackgroundService(supervisor.NewFuncService("cache-cleanup", func(ctx context.Context) error {
		mc.Run(ctx, time.Minute)
		return ctx.Err()
	}))
	logging.Info().Msg("Using in-memory response cache")
	return mc, func() {}, nil
}
