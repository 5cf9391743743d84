// Package tenant is the single source of truth for which company id is
// authoritative for a request. Repositories must filter reads and stamp writes
// with the id resolved here; client-supplied company ids are only honored for
// super admins.
package tenant

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/rbac"
)

// QueryParam is the request parameter a super admin may use to target a tenant.
const QueryParam = "companyId"

var (
	// ErrNoCompany means a non-super identity carries no company, so no
	// tenant-owned data can be resolved for it.
	ErrNoCompany = errors.New("identity has no company")
	// ErrInvalidCompany means the super admin supplied a malformed target.
	ErrInvalidCompany = errors.New("invalid company id")
)

// Resolve returns the company id whose data the identity may act on.
// Non-super identities are always pinned to their own company. Super admins
// may supply an explicit target via the companyId query parameter; with no
// target the returned id is uuid.Nil, meaning an unscoped cross-tenant view.
func Resolve(c *gin.Context, id auth.Identity) (uuid.UUID, error) {
	if id.Role != rbac.RoleSuperAdmin {
		if id.CompanyID == uuid.Nil {
			return uuid.Nil, ErrNoCompany
		}
		return id.CompanyID, nil
	}
	raw := c.Query(QueryParam)
	if raw == "" {
		return uuid.Nil, nil
	}
	target, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidCompany
	}
	return target, nil
}

// CrossTenant reports whether the resolved scope spans all tenants. Only a
// super admin with no explicit target resolves this way.
func CrossTenant(scope uuid.UUID) bool {
	return scope == uuid.Nil
}
