package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsForNonEmptyAndDeterministic(t *testing.T) {
	for _, role := range Roles {
		first := PermissionsFor(role)
		require.NotEmpty(t, first, "role %s must have permissions", role)
		second := PermissionsFor(role)
		assert.Equal(t, first, second, "role %s must be deterministic", role)
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleStaff)
	perms[0] = Permission("mutated:token")
	assert.NotContains(t, PermissionsFor(RoleStaff), Permission("mutated:token"))
}

func TestSuperAdminHoldsFullCatalog(t *testing.T) {
	perms := PermissionsFor(RoleSuperAdmin)
	require.Len(t, perms, len(Catalog))
	for _, p := range Catalog {
		assert.True(t, Has(RoleSuperAdmin, p), "super admin missing %s", p)
	}
}

func TestHasMatchesTable(t *testing.T) {
	for _, role := range Roles {
		set := make(map[Permission]struct{})
		for _, p := range PermissionsFor(role) {
			set[p] = struct{}{}
		}
		for _, p := range Catalog {
			_, want := set[p]
			assert.Equal(t, want, Has(role, p), "role=%s perm=%s", role, p)
		}
	}
}

func TestHasUnknownInputs(t *testing.T) {
	assert.False(t, Has(RoleStaff, Permission("nonsense:token")))
	assert.False(t, Has(Role("ghost"), PermEventRead))
}

func TestStaffAndPromoterSets(t *testing.T) {
	assert.True(t, Has(RoleStaff, PermTicketCheckin))
	assert.False(t, Has(RoleStaff, PermTicketCreate))
	assert.True(t, Has(RolePromoter, PermTicketCreate))
	assert.False(t, Has(RolePromoter, PermTicketCheckin))
	assert.False(t, Has(RoleUser, PermEventCreate))
	assert.True(t, Has(RoleAdmin, PermUserAssign))
	assert.False(t, Has(RoleAdmin, PermCompanyCreate))
}

func TestHasAnyHasAll(t *testing.T) {
	assert.False(t, HasAny(RoleAdmin, nil))
	assert.True(t, HasAll(RoleAdmin, nil))

	// Singleton lists reduce to Has.
	for _, p := range Catalog {
		assert.Equal(t, Has(RoleStaff, p), HasAny(RoleStaff, []Permission{p}))
		assert.Equal(t, Has(RoleStaff, p), HasAll(RoleStaff, []Permission{p}))
	}

	assert.True(t, HasAny(RoleStaff, []Permission{PermEventCreate, PermTicketCheckin}))
	assert.False(t, HasAll(RoleStaff, []Permission{PermEventCreate, PermTicketCheckin}))
	assert.True(t, HasAll(RoleAdmin, []Permission{PermEventCreate, PermEventUpdate}))
}

func TestRoleValid(t *testing.T) {
	for _, role := range Roles {
		assert.True(t, role.Valid())
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("owner").Valid())
}
