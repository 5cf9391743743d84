package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/rbac"
)

func newAuthRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(svc), func(c *gin.Context) {
		id := auth.MustIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID})
	})
	return r
}

func TestAuthRejectsMissingCredential(t *testing.T) {
	r := newAuthRouter(t, auth.NewJWTService("secret", 1, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r := newAuthRouter(t, auth.NewJWTService("secret", 1, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	svc := auth.NewJWTService("secret", 1, false)
	token, err := svc.Generate(auth.Identity{UserID: uuid.New(), Role: rbac.RoleStaff})
	require.NoError(t, err)
	r := newAuthRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAcceptsCookie(t *testing.T) {
	svc := auth.NewJWTService("secret", 1, false)
	token, err := svc.Generate(auth.Identity{UserID: uuid.New(), Role: rbac.RoleUser})
	require.NoError(t, err)
	r := newAuthRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthCookieTakesPrecedenceOverHeader(t *testing.T) {
	svc := auth.NewJWTService("secret", 1, false)
	token, err := svc.Generate(auth.Identity{UserID: uuid.New(), Role: rbac.RoleUser})
	require.NoError(t, err)
	r := newAuthRouter(t, svc)

	// valid cookie + garbage header must still pass
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	svc := auth.NewJWTService("secret", 1, false)
	token, err := svc.Generate(auth.Identity{UserID: uuid.New()})
	require.NoError(t, err)
	r := newAuthRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}
