package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/pkg/response"
)

// Auth returns the authentication gate middleware. It looks for the credential
// in the HTTP-only auth cookie first, then in the Authorization header, and on
// success stores the decoded Identity in the context. Absent and invalid
// credentials are distinguished in the message but both map to 401.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		auth.SetIdentity(c, claims.Identity)
		c.Next()
	}
}

// extractToken returns the credential from the auth cookie, falling back to a
// Bearer Authorization header. Cookie takes precedence when both are present.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
