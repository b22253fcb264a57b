package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodshare/backend/internal/api"
	"github.com/foodshare/backend/internal/middleware"
)

// Handlers groups everything the router needs registered.
type Handlers struct {
	Auth    *api.AuthHandler
	Recipes *api.RecipeHandler
	Catalog *api.CatalogHandler
	Users   *api.UserHandler
}

// NewRouter builds the Gin engine with all routes and shared middleware.
func NewRouter(logger zerolog.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)
	h.Recipes.RegisterRoutes(v1)
	h.Catalog.RegisterRoutes(v1)
	h.Users.RegisterRoutes(v1)

	return router
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	http *http.Server
}

func New(router *gin.Engine, addr string) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
