package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/rbac"
)

func wsRequest(t *testing.T, authenticate Authenticate, authorize Authorize, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", ServeWs(NewHub(zap.NewNop(), nil, nil), zap.NewNop(), authenticate, authorize))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func allowAuth(token string) (auth.Identity, error) {
	if token != "good" {
		return auth.Identity{}, errors.New("bad token")
	}
	return auth.Identity{UserID: uuid.New(), Role: rbac.RoleStaff}, nil
}

func TestServeWsRequiresEventID(t *testing.T) {
	w := wsRequest(t, allowAuth, nil, "/ws")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeWsRequiresToken(t *testing.T) {
	w := wsRequest(t, allowAuth, nil, "/ws?event_id="+uuid.New().String())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestServeWsRejectsInvalidToken(t *testing.T) {
	w := wsRequest(t, allowAuth, nil, "/ws?event_id="+uuid.New().String()+"&token=garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestServeWsSurfacesResolverStatus(t *testing.T) {
	missing := &events.AccessError{Status: http.StatusNotFound, Message: "event not found"}
	authorize := func(context.Context, uuid.UUID, auth.Identity) error { return missing }

	w := wsRequest(t, allowAuth, authorize, "/ws?event_id="+uuid.New().String()+"&token=good")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "event not found")
}

func TestServeWsDefaultsToForbidden(t *testing.T) {
	authorize := func(context.Context, uuid.UUID, auth.Identity) error { return errors.New("nope") }

	w := wsRequest(t, allowAuth, authorize, "/ws?event_id="+uuid.New().String()+"&token=good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access denied to this event")
}
