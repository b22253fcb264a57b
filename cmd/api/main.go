package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/api"
	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/server"
	"github.com/foodshare/backend/internal/service"
)

func main() {
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
	if err := database.RunMigrations(db, "migrations"); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	var writeLimit *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, recipe writes are not rate limited")
	} else {
		writeLimit = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	ctx := context.Background()
	var images service.ImageStore
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("s3 unavailable, image uploads disabled")
	} else {
		images = service.NewImageService(s3Cfg)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, images)
	membershipService := service.NewMembershipService(db)
	shoppingService := service.NewShoppingListService(db, service.NewPDFRenderer())
	followService := service.NewFollowService(db)

	handlers := server.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Recipes: api.NewRecipeHandler(recipeService, membershipService, shoppingService, followService, authService, writeLimit),
		Catalog: api.NewCatalogHandler(db),
		Users:   api.NewUserHandler(followService, authService),
	}

	router := server.NewRouter(logger, handlers)
	srv := server.New(router, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ServerHost+":"+cfg.ServerPort).Msg("starting server")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}
