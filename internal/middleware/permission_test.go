package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/rbac"
)

func performAs(t *testing.T, role rbac.Role, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) {
			auth.SetIdentity(c, auth.Identity{UserID: uuid.New(), Role: role})
		},
		mw,
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name string
		role rbac.Role
		perm rbac.Permission
		want int
	}{
		{"staff can check in", rbac.RoleStaff, rbac.PermTicketCheckin, http.StatusOK},
		{"promoter cannot check in", rbac.RolePromoter, rbac.PermTicketCheckin, http.StatusForbidden},
		{"admin can assign", rbac.RoleAdmin, rbac.PermUserAssign, http.StatusOK},
		{"user cannot create events", rbac.RoleUser, rbac.PermEventCreate, http.StatusForbidden},
		{"super admin has everything", rbac.RoleSuperAdmin, rbac.PermCompanyDelete, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performAs(t, tt.role, RequirePermission(tt.perm))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequirePermission(rbac.PermEventRead), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing identity context")
}

func TestRequireAnyPermission(t *testing.T) {
	// promoter holds ticket:create but not ticket:checkin
	w := performAs(t, rbac.RolePromoter, RequireAnyPermission(rbac.PermTicketCheckin, rbac.PermTicketCreate))
	assert.Equal(t, http.StatusOK, w.Code)

	w = performAs(t, rbac.RoleUser, RequireAnyPermission(rbac.PermTicketCheckin, rbac.PermTicketCreate))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// empty list matches nothing
	w = performAs(t, rbac.RoleSuperAdmin, RequireAnyPermission())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAllPermissions(t *testing.T) {
	w := performAs(t, rbac.RoleStaff, RequireAllPermissions(rbac.PermEventRead, rbac.PermTicketCheckin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = performAs(t, rbac.RoleStaff, RequireAllPermissions(rbac.PermEventRead, rbac.PermEventCreate))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// empty list is vacuously satisfied
	w = performAs(t, rbac.RoleUser, RequireAllPermissions())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	w := performAs(t, rbac.RoleSuperAdmin, RequireRole(rbac.RoleSuperAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = performAs(t, rbac.RoleAdmin, RequireRole(rbac.RoleSuperAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performAs(t, rbac.RoleStaff, RequireRole(rbac.RoleAdmin, rbac.RoleStaff))
	assert.Equal(t, http.StatusOK, w.Code)
}
