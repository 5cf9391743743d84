package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/entrada-events/backend/internal/rbac"
)

// EventAssignment grants a user a role scoped to one event, independent of
// their global role. At most one assignment exists per (user, event) pair.
// Assignments are replaced, not edited: a role change is delete + recreate.
type EventAssignment struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	EventID     uuid.UUID         `json:"event_id"`
	Role        rbac.Role         `json:"role"`
	Permissions []rbac.Permission `json:"permissions"`
	AssignedBy  uuid.UUID         `json:"assigned_by"`
	CompanyID   uuid.UUID         `json:"company_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AssignmentWithUser is an assignment joined with the assigned user's details,
// for listing endpoints.
type AssignmentWithUser struct {
	EventAssignment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
