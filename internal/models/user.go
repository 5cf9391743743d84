package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/entrada-events/backend/internal/rbac"
)

// User represents a platform user. CompanyID is uuid.Nil only for super admins,
// who are not bound to a single tenant.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      rbac.Role `json:"role"`
	IsActive  bool      `json:"is_active"`
	CompanyID uuid.UUID `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      rbac.Role `json:"role"`
	IsActive  bool      `json:"is_active"`
	CompanyID uuid.UUID `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}
