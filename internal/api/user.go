package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/service"
)

type UserHandler struct {
	follows     *service.FollowService
	authService *service.AuthService
}

func NewUserHandler(follows *service.FollowService, authService *service.AuthService) *UserHandler {
	return &UserHandler{follows: follows, authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.GET("/me", auth, h.Me)
		users.GET("/subscriptions", auth, h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserView(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed := false
	if viewer, ok := middleware.CurrentUserID(c); ok && viewer != uuid.Nil {
		subscribed = h.follows.IsFollowing(c.Request.Context(), viewer, id)
	}
	c.JSON(http.StatusOK, NewUserView(user, subscribed))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.follows.Follow(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewUserView(author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions lists every followed author with their recent recipes.
// recipes_limit caps the recipes shown per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipesLimit := 0
	if v, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && v > 0 {
		recipesLimit = v
	}

	subs, err := h.follows.Subscriptions(c.Request.Context(), userID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]SubscriptionView, len(subs))
	for i, sub := range subs {
		recipes := make([]RecipeSummary, len(sub.Recipes))
		for j := range sub.Recipes {
			recipes[j] = NewRecipeSummary(&sub.Recipes[j])
		}
		views[i] = SubscriptionView{
			UserView:     *NewUserView(&sub.User, true),
			Recipes:      recipes,
			RecipesCount: sub.RecipeCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}
