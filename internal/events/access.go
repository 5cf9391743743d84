package events

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/pkg/response"
)

// ContextEventID is the gin context key for the resolved event ID when event
// access is enforced.
const ContextEventID = "event_id"

// EventFinder loads an event by id, returning (nil, nil) when it does not
// exist.
type EventFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// AssignmentChecker reports whether an event assignment exists for the pair.
type AssignmentChecker interface {
	Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

// AccessError is a terminal authorization outcome with its HTTP status.
type AccessError struct {
	Status  int
	Message string
}

func (e *AccessError) Error() string { return e.Message }

// HTTPStatus returns the status code the outcome maps to, so non-REST
// transports can mirror the REST contract.
func (e *AccessError) HTTPStatus() int { return e.Status }

var (
	errNoEventID    = &AccessError{Status: http.StatusBadRequest, Message: "event id not found in path"}
	errBadEventID   = &AccessError{Status: http.StatusBadRequest, Message: "invalid event id"}
	errEventMissing = &AccessError{Status: http.StatusNotFound, Message: "event not found"}
	errDenied       = &AccessError{Status: http.StatusForbidden, Message: "access denied to this event"}
	errLookup       = &AccessError{Status: http.StatusInternalServerError, Message: "failed to resolve event access"}
)

// ScopeResolver decides whether an identity may act on the event named in a
// request path. It is a pure decision tree over the identity's global role,
// event ownership, and the per-event assignment record.
type ScopeResolver struct {
	events      EventFinder
	assignments AssignmentChecker
}

// NewScopeResolver creates an event scope resolver.
func NewScopeResolver(events EventFinder, assignments AssignmentChecker) *ScopeResolver {
	return &ScopeResolver{events: events, assignments: assignments}
}

// EventIDFromPath extracts the path segment immediately following the literal
// "events" component, e.g. /events/123/tickets -> "123".
func EventIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if p == "events" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// Resolve returns the event id the identity may act on, or a terminal
// AccessError. Super admins are granted without any lookup; admins need
// ownership or an assignment; promoters and staff need an assignment.
func (r *ScopeResolver) Resolve(ctx context.Context, path string, id auth.Identity) (uuid.UUID, *AccessError) {
	raw := EventIDFromPath(path)
	if raw == "" {
		return uuid.Nil, errNoEventID
	}
	eventID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errBadEventID
	}
	if accessErr := r.ResolveID(ctx, eventID, id); accessErr != nil {
		return uuid.Nil, accessErr
	}
	return eventID, nil
}

// ResolveID runs the access decision tree for an already-parsed event id.
func (r *ScopeResolver) ResolveID(ctx context.Context, eventID uuid.UUID, id auth.Identity) *AccessError {
	if id.Role == rbac.RoleSuperAdmin {
		return nil
	}

	event, err := r.events.GetByID(ctx, eventID)
	if err != nil {
		return errLookup
	}
	if event == nil {
		return errEventMissing
	}

	switch id.Role {
	case rbac.RoleAdmin:
		if event.CreatedBy == id.UserID {
			return nil
		}
		assigned, err := r.assignments.Exists(ctx, id.UserID, eventID)
		if err != nil {
			return errLookup
		}
		if assigned {
			return nil
		}
	case rbac.RolePromoter, rbac.RoleStaff:
		assigned, err := r.assignments.Exists(ctx, id.UserID, eventID)
		if err != nil {
			return errLookup
		}
		if assigned {
			return nil
		}
	}

	return errDenied
}

// RequireEventAccess returns middleware enforcing event scope. Must run after
// the authentication gate. On success the resolved event id is stored under
// ContextEventID.
func RequireEventAccess(resolver *ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity context")
			c.Abort()
			return
		}
		eventID, accessErr := resolver.Resolve(c.Request.Context(), c.Request.URL.Path, id)
		if accessErr != nil {
			c.JSON(accessErr.Status, response.Body{Success: false, Error: accessErr.Message})
			c.Abort()
			return
		}
		c.Set(ContextEventID, eventID)
		c.Next()
	}
}

// MustEventID returns the resolved event id. Use only behind RequireEventAccess.
func MustEventID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextEventID).(uuid.UUID)
}
