package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bionic-mail/backend/internal/auth"
	"github.com/bionic-mail/backend/pkg/response"
)

const (
	// ContextUsername is the key for the authenticated username in gin context.
	ContextUsername = "username"
)

// JWT returns a middleware that validates the bearer token and sets the
// authenticated username in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUsername, claims.Subject)
		c.Next()
	}
}
