package tenant

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/rbac"
)

func ctxWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/events?"+rawQuery, nil)
	return c
}

func TestResolvePinsNonSuperToOwnCompany(t *testing.T) {
	company := uuid.New()
	other := uuid.New()
	// the query parameter must be ignored for non-super roles
	c := ctxWithQuery(t, QueryParam+"="+other.String())

	for _, role := range []rbac.Role{rbac.RoleAdmin, rbac.RolePromoter, rbac.RoleStaff, rbac.RoleUser} {
		scope, err := Resolve(c, auth.Identity{UserID: uuid.New(), Role: role, CompanyID: company})
		require.NoError(t, err, string(role))
		assert.Equal(t, company, scope, string(role))
	}
}

func TestResolveRejectsNonSuperWithoutCompany(t *testing.T) {
	c := ctxWithQuery(t, "")
	_, err := Resolve(c, auth.Identity{UserID: uuid.New(), Role: rbac.RoleAdmin})
	assert.ErrorIs(t, err, ErrNoCompany)
}

func TestResolveSuperAdminDefaultsToCrossTenant(t *testing.T) {
	c := ctxWithQuery(t, "")
	scope, err := Resolve(c, auth.Identity{UserID: uuid.New(), Role: rbac.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, scope)
	assert.True(t, CrossTenant(scope))
}

func TestResolveSuperAdminMayTargetCompany(t *testing.T) {
	target := uuid.New()
	c := ctxWithQuery(t, QueryParam+"="+target.String())
	scope, err := Resolve(c, auth.Identity{UserID: uuid.New(), Role: rbac.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, target, scope)
	assert.False(t, CrossTenant(scope))
}

func TestResolveSuperAdminRejectsMalformedTarget(t *testing.T) {
	c := ctxWithQuery(t, QueryParam+"=not-a-uuid")
	_, err := Resolve(c, auth.Identity{UserID: uuid.New(), Role: rbac.RoleSuperAdmin})
	assert.ErrorIs(t, err, ErrInvalidCompany)
}
