// Package rbac defines the closed permission catalog, the static role to
// permission table, and the pure predicates every authorization layer uses.
package rbac

// Permission is an atomic capability token, namespaced as "resource:action".
type Permission string

// Permission catalog. Closed set, known at compile time.
const (
	// Company permissions.
	PermCompanyCreate Permission = "company:create"
	PermCompanyRead   Permission = "company:read"
	PermCompanyUpdate Permission = "company:update"
	PermCompanyDelete Permission = "company:delete"

	// Event permissions.
	PermEventCreate  Permission = "event:create"
	PermEventRead    Permission = "event:read"
	PermEventUpdate  Permission = "event:update"
	PermEventDelete  Permission = "event:delete"
	PermEventPublish Permission = "event:publish"

	// Ticket permissions.
	PermTicketCreate  Permission = "ticket:create"
	PermTicketRead    Permission = "ticket:read"
	PermTicketUpdate  Permission = "ticket:update"
	PermTicketDelete  Permission = "ticket:delete"
	PermTicketCheckin Permission = "ticket:checkin"

	// User permissions.
	PermUserCreate Permission = "user:create"
	PermUserRead   Permission = "user:read"
	PermUserUpdate Permission = "user:update"
	PermUserDelete Permission = "user:delete"
	PermUserAssign Permission = "user:assign"

	// Report permissions.
	PermReportView   Permission = "report:view"
	PermReportExport Permission = "report:export"
)

// Catalog lists every permission in the system. New tokens must be added here;
// the super admin set is derived from this slice, so it picks them up
// automatically.
var Catalog = []Permission{
	PermCompanyCreate, PermCompanyRead, PermCompanyUpdate, PermCompanyDelete,
	PermEventCreate, PermEventRead, PermEventUpdate, PermEventDelete, PermEventPublish,
	PermTicketCreate, PermTicketRead, PermTicketUpdate, PermTicketDelete, PermTicketCheckin,
	PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete, PermUserAssign,
	PermReportView, PermReportExport,
}

// Role is a named bundle of default permissions.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RolePromoter   Role = "promoter"
	RoleStaff      Role = "staff"
	RoleUser       Role = "user"
)

// Roles lists every valid role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RolePromoter, RoleStaff, RoleUser}

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RolePromoter, RoleStaff, RoleUser:
		return true
	}
	return false
}

// rolePermissions is the flat per-role table. Roles are not nested: each set is
// enumerated in full so the whole policy is auditable in one place. Super admin
// is filled in from Catalog at init.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: nil, // union of Catalog, see init
	RoleAdmin: {
		PermEventCreate, PermEventRead, PermEventUpdate, PermEventPublish,
		PermTicketCreate, PermTicketRead, PermTicketUpdate, PermTicketCheckin,
		PermUserRead, PermUserAssign,
		PermReportView, PermReportExport,
	},
	RolePromoter: {
		PermEventRead,
		PermTicketCreate, PermTicketRead,
		PermReportView,
	},
	RoleStaff: {
		PermEventRead,
		PermTicketRead, PermTicketCheckin,
	},
	RoleUser: {
		PermEventRead,
		PermTicketRead,
	},
}

// roleSets backs the O(1) predicates.
var roleSets map[Role]map[Permission]struct{}

func init() {
	rolePermissions[RoleSuperAdmin] = append([]Permission(nil), Catalog...)
	roleSets = make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		roleSets[role] = set
	}
}

// PermissionsFor returns the default permission set for a role. The result is a
// copy; callers may modify it freely. Unknown roles get an empty set.
func PermissionsFor(role Role) []Permission {
	return append([]Permission(nil), rolePermissions[role]...)
}

// Has reports whether the role holds the permission.
func Has(role Role, p Permission) bool {
	_, ok := roleSets[role][p]
	return ok
}

// HasAny reports whether the role holds at least one of the permissions.
// An empty list is never satisfied.
func HasAny(role Role, perms []Permission) bool {
	for _, p := range perms {
		if Has(role, p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every permission. An empty list is
// vacuously satisfied.
func HasAll(role Role, perms []Permission) bool {
	for _, p := range perms {
		if !Has(role, p) {
			return false
		}
	}
	return true
}
