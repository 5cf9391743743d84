package events

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
)

type fakeEventFinder struct {
	events map[uuid.UUID]*models.Event
	err    error
}

func (f *fakeEventFinder) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[id], nil
}

type fakeAssignmentChecker struct {
	assigned map[uuid.UUID]bool // keyed by user id
	err      error
}

func (f *fakeAssignmentChecker) Exists(_ context.Context, userID, _ uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.assigned[userID], nil
}

func TestEventIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/events/abc/tickets", "abc"},
		{"/events/abc", "abc"},
		{"/api/events/xyz/assignments/bulk", "xyz"},
		{"/events", ""},
		{"/tickets/123/checkin", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EventIDFromPath(tt.path), tt.path)
	}
}

func TestResolveMissingAndMalformedID(t *testing.T) {
	r := NewScopeResolver(&fakeEventFinder{}, &fakeAssignmentChecker{})
	id := auth.Identity{UserID: uuid.New(), Role: rbac.RoleAdmin}

	_, accessErr := r.Resolve(context.Background(), "/tickets/123", id)
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusBadRequest, accessErr.Status)
	assert.Equal(t, "event id not found in path", accessErr.Message)

	_, accessErr = r.Resolve(context.Background(), "/events/not-a-uuid", id)
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusBadRequest, accessErr.Status)
}

func TestResolveSuperAdminSkipsLookups(t *testing.T) {
	// nil-map finder would return no event; super admin must not need it
	r := NewScopeResolver(&fakeEventFinder{err: errors.New("db down")}, &fakeAssignmentChecker{err: errors.New("db down")})
	eventID := uuid.New()

	got, accessErr := r.Resolve(context.Background(), "/events/"+eventID.String(),
		auth.Identity{UserID: uuid.New(), Role: rbac.RoleSuperAdmin})
	require.Nil(t, accessErr)
	assert.Equal(t, eventID, got)
}

func TestResolveEventNotFound(t *testing.T) {
	r := NewScopeResolver(&fakeEventFinder{events: map[uuid.UUID]*models.Event{}}, &fakeAssignmentChecker{})
	eventID := uuid.New()

	_, accessErr := r.Resolve(context.Background(), "/events/"+eventID.String(),
		auth.Identity{UserID: uuid.New(), Role: rbac.RoleAdmin})
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusNotFound, accessErr.Status)
	assert.Equal(t, "event not found", accessErr.Message)
}

func TestResolveAdminOwnershipOrAssignment(t *testing.T) {
	owner := uuid.New()
	assignee := uuid.New()
	outsider := uuid.New()
	eventID := uuid.New()

	finder := &fakeEventFinder{events: map[uuid.UUID]*models.Event{
		eventID: {ID: eventID, CreatedBy: owner},
	}}
	checker := &fakeAssignmentChecker{assigned: map[uuid.UUID]bool{assignee: true}}
	r := NewScopeResolver(finder, checker)
	path := "/events/" + eventID.String()

	got, accessErr := r.Resolve(context.Background(), path, auth.Identity{UserID: owner, Role: rbac.RoleAdmin})
	require.Nil(t, accessErr)
	assert.Equal(t, eventID, got)

	got, accessErr = r.Resolve(context.Background(), path, auth.Identity{UserID: assignee, Role: rbac.RoleAdmin})
	require.Nil(t, accessErr)
	assert.Equal(t, eventID, got)

	_, accessErr = r.Resolve(context.Background(), path, auth.Identity{UserID: outsider, Role: rbac.RoleAdmin})
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusForbidden, accessErr.Status)
	assert.Equal(t, "access denied to this event", accessErr.Message)
}

func TestResolveStaffNeedsAssignmentNotOwnership(t *testing.T) {
	creator := uuid.New()
	eventID := uuid.New()

	finder := &fakeEventFinder{events: map[uuid.UUID]*models.Event{
		eventID: {ID: eventID, CreatedBy: creator},
	}}
	r := NewScopeResolver(finder, &fakeAssignmentChecker{assigned: map[uuid.UUID]bool{}})
	path := "/events/" + eventID.String()

	// even the creator is denied when their role only grants assignment access
	for _, role := range []rbac.Role{rbac.RolePromoter, rbac.RoleStaff} {
		_, accessErr := r.Resolve(context.Background(), path, auth.Identity{UserID: creator, Role: role})
		require.NotNil(t, accessErr, string(role))
		assert.Equal(t, http.StatusForbidden, accessErr.Status)
	}

	assigned := uuid.New()
	r = NewScopeResolver(finder, &fakeAssignmentChecker{assigned: map[uuid.UUID]bool{assigned: true}})
	for _, role := range []rbac.Role{rbac.RolePromoter, rbac.RoleStaff} {
		got, accessErr := r.Resolve(context.Background(), path, auth.Identity{UserID: assigned, Role: role})
		require.Nil(t, accessErr, string(role))
		assert.Equal(t, eventID, got)
	}
}

func TestResolveRegularUserAlwaysDenied(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	finder := &fakeEventFinder{events: map[uuid.UUID]*models.Event{
		eventID: {ID: eventID, CreatedBy: userID},
	}}
	// even with an assignment row, the user role grants no event scope
	r := NewScopeResolver(finder, &fakeAssignmentChecker{assigned: map[uuid.UUID]bool{userID: true}})

	_, accessErr := r.Resolve(context.Background(), "/events/"+eventID.String(),
		auth.Identity{UserID: userID, Role: rbac.RoleUser})
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusForbidden, accessErr.Status)
}

func TestResolveLookupFailure(t *testing.T) {
	eventID := uuid.New()
	r := NewScopeResolver(&fakeEventFinder{err: errors.New("db down")}, &fakeAssignmentChecker{})

	_, accessErr := r.Resolve(context.Background(), "/events/"+eventID.String(),
		auth.Identity{UserID: uuid.New(), Role: rbac.RoleAdmin})
	require.NotNil(t, accessErr)
	assert.Equal(t, http.StatusInternalServerError, accessErr.Status)
}
