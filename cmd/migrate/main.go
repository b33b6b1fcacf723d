package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/StreamHub/internal/config"
	"github.com/Zerr0-C00L/StreamHub/internal/database"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
)

func main() {
	_ = godotenv.Load()

	logging.Init(logging.Config{Level: "info", Format: "console"})
	logging.Info().Msg("StreamHub database migration tool")

	if len(os.Args) < 2 {
		logging.Fatal().Msg("Usage: migrate [up|down]")
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.Connect(cfg.Database.URL, database.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "up":
		if err := database.Migrate(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("Migration failed")
		}
		logging.Info().Msg("Migration completed successfully")
	case "down":
		if err := database.Rollback(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("Migration rollback failed")
		}
		logging.Info().Msg("Migration rolled back successfully")
	default:
		logging.Fatal().Str("command", command).Msg("Unknown command. Use 'up' or 'down'")
	}
}
