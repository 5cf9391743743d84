package registration

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/utils"
)

// codeLength is the length of generated shareable codes.
const codeLength = 8

// LinkStore is the registration link persistence the handler needs.
type LinkStore interface {
	Create(ctx context.Context, l *models.RegistrationLink) error
	GetByCode(ctx context.Context, code string) (*models.RegistrationLink, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.RegistrationLink, error)
	IncrementUsed(ctx context.Context, id uuid.UUID) (bool, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// EventStore loads events and maintains their tier sold counters.
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	IncrementSold(ctx context.Context, eventID uuid.UUID, t models.TicketType, delta int) error
}

// TicketIssuer creates tickets and answers duplicate-registration checks.
type TicketIssuer interface {
	Create(ctx context.Context, t *models.Ticket) error
	ExistsForEmail(ctx context.Context, eventID uuid.UUID, email string, ticketType models.TicketType) (bool, error)
}

// Handler handles registration link management and the public self-registration
// flow.
type Handler struct {
	repo    LinkStore
	events  EventStore
	tickets TicketIssuer
	logger  *zap.Logger
}

// NewHandler creates a registration handler.
func NewHandler(repo LinkStore, eventsRepo EventStore, ticketsRepo TicketIssuer, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, events: eventsRepo, tickets: ticketsRepo, logger: logger}
}

// CreateLinkRequest is the body for POST /events/:id/registration-links.
type CreateLinkRequest struct {
	TicketType models.TicketType `json:"ticket_type" binding:"required"`
	MaxUses    int               `json:"max_uses"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

// RegisterRequest is the body for the public POST /register/:code.
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// List handles GET /events/:id/registration-links. Requires ticket:create
// behind the event scope middleware.
func (h *Handler) List(c *gin.Context) {
	eventID := events.MustEventID(c)
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("list registration links", zap.Error(err))
		response.Internal(c, "failed to list registration links")
		return
	}
	response.OK(c, list)
}

// Create handles POST /events/:id/registration-links. Requires ticket:create.
func (h *Handler) Create(c *gin.Context) {
	id := auth.MustIdentity(c)
	eventID := events.MustEventID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "ticket_type is required")
		return
	}
	if req.MaxUses < 0 {
		response.BadRequest(c, "max_uses cannot be negative")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event.TicketConfigFor(req.TicketType) == nil {
		response.BadRequest(c, "ticket type is not available for this event")
		return
	}

	link := &models.RegistrationLink{
		EventID:    eventID,
		Code:       utils.GenerateShareableCode(codeLength),
		TicketType: req.TicketType,
		MaxUses:    req.MaxUses,
		ExpiresAt:  req.ExpiresAt,
		IsActive:   true,
		CreatedBy:  id.UserID,
		CompanyID:  event.CompanyID,
	}
	if err := h.repo.Create(c.Request.Context(), link); err != nil {
		h.logger.Error("create registration link", zap.Error(err))
		response.Internal(c, "failed to create registration link")
		return
	}
	response.Created(c, link)
}

// Deactivate handles DELETE /events/:id/registration-links/:code. Requires
// ticket:create.
func (h *Handler) Deactivate(c *gin.Context) {
	eventID := events.MustEventID(c)
	link, err := h.repo.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Internal(c, "failed to load registration link")
		return
	}
	if link == nil || link.EventID != eventID {
		response.NotFound(c, "registration link not found")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), link.ID); err != nil {
		h.logger.Error("deactivate registration link", zap.Error(err))
		response.Internal(c, "failed to deactivate registration link")
		return
	}
	response.OK(c, gin.H{"message": "registration link deactivated"})
}

// linkUsable validates a link against its event for public registration. It
// writes the error response and returns nil when the link cannot be used.
func (h *Handler) linkUsable(c *gin.Context) (*models.RegistrationLink, *models.Event) {
	link, err := h.repo.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Internal(c, "failed to load registration link")
		return nil, nil
	}
	if link == nil || !link.IsActive {
		response.NotFound(c, "registration link not found")
		return nil, nil
	}
	if link.Expired(time.Now()) {
		response.BadRequest(c, "registration link has expired")
		return nil, nil
	}
	if link.Exhausted() {
		response.BadRequest(c, "registration link has reached its limit")
		return nil, nil
	}

	event, err := h.events.GetByID(c.Request.Context(), link.EventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return nil, nil
	}
	if event == nil || event.Status != models.EventPublished {
		response.NotFound(c, "event is not open for registration")
		return nil, nil
	}
	return link, event
}

// Show handles the public GET /register/:code. Returns the event details a
// visitor needs before registering.
func (h *Handler) Show(c *gin.Context) {
	link, event := h.linkUsable(c)
	if link == nil {
		return
	}
	cfg := event.TicketConfigFor(link.TicketType)
	response.OK(c, gin.H{
		"event": gin.H{
			"name":        event.Name,
			"description": event.Description,
			"location":    event.Location,
			"address":     event.Address,
			"start_date":  event.StartDate,
			"end_date":    event.EndDate,
			"cover_image": event.CoverImage,
		},
		"ticket_type": link.TicketType,
		"ticket":      cfg,
	})
}

// Register handles the public POST /register/:code. Issues a confirmed ticket
// for the visitor, one per email per ticket tier on the event.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name and email are required")
		return
	}

	link, event := h.linkUsable(c)
	if link == nil {
		return
	}
	cfg := event.TicketConfigFor(link.TicketType)
	if cfg == nil || !cfg.IsActive {
		response.BadRequest(c, "ticket type is no longer available")
		return
	}
	if cfg.Quantity > 0 && cfg.Sold >= cfg.Quantity {
		response.BadRequest(c, "ticket type is sold out")
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if exists, err := h.tickets.ExistsForEmail(c.Request.Context(), event.ID, email, link.TicketType); err != nil {
		response.Internal(c, "failed to check registration")
		return
	} else if exists {
		response.BadRequest(c, "this email is already registered for the event")
		return
	}

	if ok, err := h.repo.IncrementUsed(c.Request.Context(), link.ID); err != nil {
		response.Internal(c, "failed to register")
		return
	} else if !ok {
		response.BadRequest(c, "registration link has reached its limit")
		return
	}

	ticket := &models.Ticket{
		EventID:     event.ID,
		GuestName:   req.Name,
		GuestEmail:  email,
		GuestPhone:  req.Phone,
		TicketType:  link.TicketType,
		Status:      models.TicketConfirmed,
		QRCode:      utils.GenerateQRCode(),
		Price:       cfg.Price,
		PurchasedAt: time.Now(),
		CompanyID:   event.CompanyID,
	}
	if err := h.tickets.Create(c.Request.Context(), ticket); err != nil {
		h.logger.Error("create registration ticket", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}
	if err := h.events.IncrementSold(c.Request.Context(), event.ID, link.TicketType, 1); err != nil {
		h.logger.Error("increment sold counter", zap.Error(err),
			zap.String("event_id", event.ID.String()))
	}
	response.Created(c, ticket)
}
