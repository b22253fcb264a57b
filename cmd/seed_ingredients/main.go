package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/models"
)

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Loads the ingredient catalog from a JSON fixture, skipping entries that
// already exist.
func main() {
	path := flag.String("file", "data/ingredients.json", "ingredient fixture file")
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

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("failed to read fixture")
	}

	var fixtures []ingredientFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse fixture")
	}

	created := 0
	for _, f := range fixtures {
		var count int64
		db.Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", f.Name, f.MeasurementUnit).
			Count(&count)
		if count > 0 {
			continue
		}
		row := models.Ingredient{Name: f.Name, MeasurementUnit: f.MeasurementUnit}
		if err := db.Create(&row).Error; err != nil {
			logger.Fatal().Err(err).Str("name", f.Name).Msg("failed to insert ingredient")
		}
		created++
	}

	logger.Info().Int("created", created).Int("total", len(fixtures)).Msg("ingredient catalog seeded")
}
