package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/auth"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

// Auth requires a valid bearer token. With no secret configured every request passes.
func Auth(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil || !issuer.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user", claims.Subject)
		c.Next()
	}
}
