package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodshare/backend/internal/middleware"
)

type stubValidator struct {
	userID uuid.UUID
	err    error
}

func (v *stubValidator) ValidateToken(token string) (*middleware.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &middleware.TokenClaims{UserID: v.userID}, nil
}

func protectedRouter(validator middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		id, _ := middleware.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	router.GET("/open", middleware.OptionalAuthMiddleware(validator), func(c *gin.Context) {
		id, ok := middleware.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
	})
	return router
}

func get(router *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := protectedRouter(&stubValidator{userID: userID})

	w := get(router, "/protected", "Bearer sometoken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	w = get(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "/protected", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := protectedRouter(&stubValidator{err: errors.New("token expired")})

	w := get(router, "/protected", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := protectedRouter(&stubValidator{userID: userID})

	w := get(router, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = get(router, "/open", "Bearer sometoken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	router := protectedRouter(&stubValidator{err: errors.New("bad token")})

	w := get(router, "/open", "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
