package registration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/models"
)

type fakeLinkStore struct {
	link        *models.RegistrationLink
	incremented int
}

func (f *fakeLinkStore) Create(context.Context, *models.RegistrationLink) error { return nil }

func (f *fakeLinkStore) GetByCode(_ context.Context, code string) (*models.RegistrationLink, error) {
	if f.link != nil && f.link.Code == code {
		return f.link, nil
	}
	return nil, nil
}

func (f *fakeLinkStore) ListByEvent(context.Context, uuid.UUID) ([]*models.RegistrationLink, error) {
	return nil, nil
}

func (f *fakeLinkStore) IncrementUsed(context.Context, uuid.UUID) (bool, error) {
	f.incremented++
	return true, nil
}

func (f *fakeLinkStore) Deactivate(context.Context, uuid.UUID) error { return nil }

type fakeEventStore struct {
	event *models.Event
	sold  int
}

func (f *fakeEventStore) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if f.event != nil && f.event.ID == id {
		return f.event, nil
	}
	return nil, nil
}

func (f *fakeEventStore) IncrementSold(_ context.Context, _ uuid.UUID, _ models.TicketType, delta int) error {
	f.sold += delta
	return nil
}

type fakeTicketIssuer struct {
	existing map[models.TicketType]bool
	created  []*models.Ticket
}

func (f *fakeTicketIssuer) Create(_ context.Context, t *models.Ticket) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTicketIssuer) ExistsForEmail(_ context.Context, _ uuid.UUID, _ string, ticketType models.TicketType) (bool, error) {
	return f.existing[ticketType], nil
}

func registerFixture() (*fakeLinkStore, *fakeEventStore, *fakeTicketIssuer) {
	eventID := uuid.New()
	links := &fakeLinkStore{link: &models.RegistrationLink{
		ID:         uuid.New(),
		EventID:    eventID,
		Code:       "VIPCODE1",
		TicketType: models.TicketVIP,
		IsActive:   true,
	}}
	eventsStore := &fakeEventStore{event: &models.Event{
		ID:     eventID,
		Name:   "Feria Gastronómica",
		Status: models.EventPublished,
		TicketConfigs: []models.TicketConfig{
			{Type: models.TicketFree, Price: 0, Quantity: 100, IsActive: true},
			{Type: models.TicketVIP, Price: 50, Quantity: 50, IsActive: true},
		},
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
	}}
	issuer := &fakeTicketIssuer{existing: map[models.TicketType]bool{}}
	return links, eventsStore, issuer
}

func performRegister(h *Handler, code, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register/:code", h.Register)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register/"+code, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAllowsOtherTierForSameEmail(t *testing.T) {
	links, eventsStore, issuer := registerFixture()
	issuer.existing[models.TicketFree] = true // already holds a free ticket
	h := NewHandler(links, eventsStore, issuer, zap.NewNop())

	w := performRegister(h, "VIPCODE1", `{"name":"Ana","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, issuer.created, 1)
	assert.Equal(t, models.TicketVIP, issuer.created[0].TicketType)
	assert.Equal(t, models.TicketConfirmed, issuer.created[0].Status)
	assert.Equal(t, 1, links.incremented)
	assert.Equal(t, 1, eventsStore.sold)
}

func TestRegisterRejectsDuplicateTier(t *testing.T) {
	links, eventsStore, issuer := registerFixture()
	issuer.existing[models.TicketVIP] = true
	h := NewHandler(links, eventsStore, issuer, zap.NewNop())

	w := performRegister(h, "VIPCODE1", `{"name":"Ana","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.Empty(t, issuer.created)
	assert.Zero(t, links.incremented)
}

func TestRegisterRejectsUnknownCode(t *testing.T) {
	links, eventsStore, issuer := registerFixture()
	h := NewHandler(links, eventsStore, issuer, zap.NewNop())

	w := performRegister(h, "NOPE1234", `{"name":"Ana","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRejectsSoldOutTier(t *testing.T) {
	links, eventsStore, issuer := registerFixture()
	cfg := eventsStore.event.TicketConfigFor(models.TicketVIP)
	cfg.Sold = cfg.Quantity
	h := NewHandler(links, eventsStore, issuer, zap.NewNop())

	w := performRegister(h, "VIPCODE1", `{"name":"Ana","email":"ana@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sold out")
	assert.Empty(t, issuer.created)
}
