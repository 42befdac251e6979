package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub/backend/go-services/internal/auth"
)

// RequireRole returns a Gin middleware that allows the request only when the
// authenticated role equals required. Must run after Authenticate.
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if aerr := auth.RequireRole(AuthContext(c), required); aerr != nil {
			abortWithAuthError(c, aerr)
			return
		}
		c.Next()
	}
}
