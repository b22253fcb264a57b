package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware sets the user id when a valid Bearer token is
// present but lets anonymous requests through. Read-only endpoints use it
// to annotate responses for the viewer.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := validator.ValidateToken(parts[1]); err == nil {
				c.Set("user_id", claims.UserID)
			}
		}
		c.Next()
	}
}
