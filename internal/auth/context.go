package auth

import "github.com/gin-gonic/gin"

// ContextIdentity is the gin context key under which the authentication gate
// stores the request's Identity.
const ContextIdentity = "identity"

// SetIdentity stores the identity in the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextIdentity, id)
}

// IdentityFrom returns the request identity, if the authentication gate ran.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// MustIdentity returns the request identity and panics if the authentication
// gate did not run. Use only behind the auth middleware.
func MustIdentity(c *gin.Context) Identity {
	return c.MustGet(ContextIdentity).(Identity)
}
