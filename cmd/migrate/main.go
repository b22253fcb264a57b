package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/database"
)

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.RunMigrations(db, *dir); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	logger.Info().Msg("migrations applied")
}
