package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/pkg/response"
)

// RequirePermission allows only identities whose global role holds the
// permission. Must run after Auth.
func RequirePermission(p rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity context")
			c.Abort()
			return
		}
		if !rbac.Has(id.Role, p) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole allows only identities holding one of the given global roles.
func RequireRole(roles ...rbac.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity context")
			c.Abort()
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}

// RequireAnyPermission allows identities whose role holds at least one of the
// permissions.
func RequireAnyPermission(perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity context")
			c.Abort()
			return
		}
		if !rbac.HasAny(id.Role, perms) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAllPermissions allows identities whose role holds every permission.
func RequireAllPermissions(perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity context")
			c.Abort()
			return
		}
		if !rbac.HasAll(id.Role, perms) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
