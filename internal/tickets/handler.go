package tickets

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/utils"
)

// CheckinNotifier pushes a check-in notification to live dashboard watchers.
type CheckinNotifier interface {
	NotifyCheckin(eventID uuid.UUID, payload any)
}

// Handler handles ticket HTTP endpoints.
type Handler struct {
	repo     *Repository
	events   *events.Repository
	notifier CheckinNotifier
	logger   *zap.Logger
}

// NewHandler creates a tickets handler. notifier may be nil when the live feed
// is disabled.
func NewHandler(repo *Repository, eventsRepo *events.Repository, notifier CheckinNotifier, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, events: eventsRepo, notifier: notifier, logger: logger}
}

// CreateTicketRequest is the body for POST /events/:id/tickets. Quantity
// defaults to 1.
type CreateTicketRequest struct {
	GuestName  string            `json:"guest_name" binding:"required"`
	GuestEmail string            `json:"guest_email" binding:"required,email"`
	GuestPhone string            `json:"guest_phone"`
	TicketType models.TicketType `json:"ticket_type" binding:"required"`
	Quantity   int               `json:"quantity"`
}

// List handles GET /events/:id/tickets. Requires ticket:read behind the event
// scope middleware.
func (h *Handler) List(c *gin.Context) {
	eventID := events.MustEventID(c)
	page, limit := response.PageParams(c)
	filter := ListFilter{
		Status:     models.TicketStatus(c.Query("status")),
		TicketType: models.TicketType(c.Query("ticketType")),
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	}
	list, total, err := h.repo.ListByEvent(c.Request.Context(), eventID, filter)
	if err != nil {
		h.logger.Error("list tickets", zap.Error(err))
		response.Internal(c, "failed to list tickets")
		return
	}
	response.Page(c, list, page, limit, total)
}

// Stats handles GET /events/:id/tickets/stats. Requires ticket:read.
func (h *Handler) Stats(c *gin.Context) {
	eventID := events.MustEventID(c)
	stats, err := h.repo.StatsByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("ticket stats", zap.Error(err))
		response.Internal(c, "failed to load ticket stats")
		return
	}
	response.OK(c, stats)
}

// Create handles POST /events/:id/tickets. Requires ticket:create. Issues
// tickets for a guest against one of the event's tiers, honoring the tier's
// remaining quantity and per-user cap. Free tickets are confirmed immediately;
// paid tickets stay pending until payment is settled out of band.
func (h *Handler) Create(c *gin.Context) {
	eventID := events.MustEventID(c)

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "guest_name, guest_email and ticket_type are required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return
	}
	cfg := event.TicketConfigFor(req.TicketType)
	if cfg == nil || !cfg.IsActive {
		response.BadRequest(c, "ticket type is not available for this event")
		return
	}
	if cfg.MaxPerUser > 0 && req.Quantity > cfg.MaxPerUser {
		response.BadRequest(c, "quantity exceeds the per-user limit for this ticket type")
		return
	}
	if cfg.Quantity > 0 && cfg.Sold+req.Quantity > cfg.Quantity {
		response.BadRequest(c, "not enough tickets remaining for this type")
		return
	}

	status := models.TicketConfirmed
	if cfg.Price > 0 {
		status = models.TicketPending
	}

	created := make([]*models.Ticket, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		ticket := &models.Ticket{
			EventID:     eventID,
			GuestName:   req.GuestName,
			GuestEmail:  utils.NormalizeEmail(req.GuestEmail),
			GuestPhone:  req.GuestPhone,
			TicketType:  req.TicketType,
			Status:      status,
			QRCode:      utils.GenerateQRCode(),
			Price:       cfg.Price,
			PurchasedAt: time.Now(),
			CompanyID:   event.CompanyID,
		}
		if err := h.repo.Create(c.Request.Context(), ticket); err != nil {
			h.logger.Error("create ticket", zap.Error(err))
			response.Internal(c, "failed to create ticket")
			return
		}
		created = append(created, ticket)
	}
	if err := h.events.IncrementSold(c.Request.Context(), eventID, req.TicketType, len(created)); err != nil {
		h.logger.Error("increment sold counter", zap.Error(err),
			zap.String("event_id", eventID.String()))
	}
	if len(created) == 1 {
		response.Created(c, created[0])
		return
	}
	response.Created(c, created)
}

// CheckIn handles POST /tickets/:id/checkin. Requires ticket:checkin. Only a
// confirmed ticket can be checked in; used, cancelled and pending tickets are
// rejected with the reason.
func (h *Handler) CheckIn(c *gin.Context) {
	id := auth.MustIdentity(c)
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	ticket, err := h.repo.GetByID(c.Request.Context(), ticketID)
	if err != nil {
		response.Internal(c, "failed to load ticket")
		return
	}
	if ticket == nil {
		response.NotFound(c, "ticket not found")
		return
	}
	if id.Role != rbac.RoleSuperAdmin && ticket.CompanyID != id.CompanyID {
		response.Forbidden(c, "access denied to this ticket")
		return
	}

	switch ticket.Status {
	case models.TicketUsed:
		response.BadRequest(c, "ticket has already been used")
		return
	case models.TicketCancelled:
		response.BadRequest(c, "ticket is cancelled")
		return
	case models.TicketPending:
		response.BadRequest(c, "ticket is not confirmed")
		return
	}

	now := time.Now()
	ok, err := h.repo.CheckIn(c.Request.Context(), ticketID, id.UserID, now)
	if err != nil {
		h.logger.Error("check in ticket", zap.Error(err))
		response.Internal(c, "failed to check in ticket")
		return
	}
	if !ok {
		response.BadRequest(c, "ticket has already been used")
		return
	}

	ticket.Status = models.TicketUsed
	ticket.CheckInTime = &now
	ticket.CheckedInBy = &id.UserID

	if h.notifier != nil {
		h.notifier.NotifyCheckin(ticket.EventID, gin.H{
			"ticket_id":     ticket.ID,
			"guest_name":    ticket.GuestName,
			"ticket_type":   ticket.TicketType,
			"check_in_time": now,
		})
	}
	response.OK(c, ticket)
}

// Verify handles GET /tickets/verify/:qrCode. Public endpoint used by door
// scanners to preview a ticket before checking it in.
func (h *Handler) Verify(c *gin.Context) {
	qrCode := c.Param("qrCode")
	if qrCode == "" {
		response.BadRequest(c, "qr code is required")
		return
	}
	ticket, err := h.repo.GetByQRCode(c.Request.Context(), qrCode)
	if err != nil {
		response.Internal(c, "failed to verify ticket")
		return
	}
	if ticket == nil {
		response.NotFound(c, "ticket not found")
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), ticket.EventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, gin.H{
		"ticket": ticket,
		"event": gin.H{
			"id":         event.ID,
			"name":       event.Name,
			"location":   event.Location,
			"start_date": event.StartDate,
			"end_date":   event.EndDate,
		},
	})
}
