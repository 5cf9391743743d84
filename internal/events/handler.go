package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/tenant"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/storage"
	"github.com/entrada-events/backend/pkg/utils"
)

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *storage.S3
	logger *zap.Logger
}

// NewHandler creates an events handler. store may be nil when S3 is disabled.
func NewHandler(repo *Repository, store *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, logger: logger}
}

// CreateEventRequest is the body for POST /events.
type CreateEventRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description" binding:"required"`
	Location      string                `json:"location" binding:"required"`
	Address       string                `json:"address"`
	StartDate     time.Time             `json:"start_date" binding:"required"`
	EndDate       time.Time             `json:"end_date" binding:"required"`
	CoverImage    string                `json:"cover_image"`
	TicketConfigs []models.TicketConfig `json:"ticket_configs"`
}

// UpdateEventRequest is the body for PUT /events/:id. Nil fields are left
// unchanged.
type UpdateEventRequest struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	Location      *string                `json:"location"`
	Address       *string                `json:"address"`
	StartDate     *time.Time             `json:"start_date"`
	EndDate       *time.Time             `json:"end_date"`
	CoverImage    *string                `json:"cover_image"`
	Status        *models.EventStatus    `json:"status"`
	TicketConfigs *[]models.TicketConfig `json:"ticket_configs"`
}

// List handles GET /events. Tenant-scoped, paginated, optional status and
// search filters.
func (h *Handler) List(c *gin.Context) {
	id := auth.MustIdentity(c)
	scope, err := tenant.Resolve(c, id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, limit := response.PageParams(c)
	filter := ListFilter{
		CompanyID: scope,
		Status:    models.EventStatus(c.Query("status")),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}
	list, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list events", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.Page(c, list, page, limit, total)
}

// ListMine handles GET /events/my-events. Returns events the caller created or
// is assigned to.
func (h *Handler) ListMine(c *gin.Context) {
	id := auth.MustIdentity(c)
	list, err := h.repo.ListForUser(c.Request.Context(), id.UserID)
	if err != nil {
		h.logger.Error("list my events", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Create handles POST /events. Requires event:create. The event is stamped
// with the acting identity's resolved company; a super admin must target a
// company explicitly.
func (h *Handler) Create(c *gin.Context) {
	id := auth.MustIdentity(c)
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, description, location, start date and end date are required")
		return
	}

	scope, err := tenant.Resolve(c, id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if tenant.CrossTenant(scope) {
		response.BadRequest(c, "companyId is required to create an event")
		return
	}

	slug := utils.GenerateSlug(req.Name)
	if taken, err := h.repo.SlugExists(c.Request.Context(), slug); err == nil && taken {
		slug = utils.UniqueSlugSuffix(slug)
	}

	configs := req.TicketConfigs
	if len(configs) == 0 {
		configs = models.DefaultTicketConfigs()
	}
	for i := range configs {
		if !configs[i].Type.Valid() {
			response.BadRequest(c, "invalid ticket type in configs")
			return
		}
	}

	event := &models.Event{
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		Location:      req.Location,
		Address:       req.Address,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CoverImage:    req.CoverImage,
		Status:        models.EventDraft,
		TicketConfigs: configs,
		ShareableLink: slug,
		CreatedBy:     id.UserID,
		CompanyID:     scope,
	}
	if err := h.repo.Create(c.Request.Context(), event); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, event)
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.repo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, event)
}

// Update handles PUT /events/:id. Requires event:update.
func (h *Handler) Update(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	event, err := h.repo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.NotFound(c, "event not found")
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Address != nil {
		event.Address = *req.Address
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.CoverImage != nil {
		event.CoverImage = *req.CoverImage
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			response.BadRequest(c, "invalid event status")
			return
		}
		event.Status = *req.Status
	}
	if req.TicketConfigs != nil {
		event.TicketConfigs = *req.TicketConfigs
	}

	if err := h.repo.Update(c.Request.Context(), event); err != nil {
		h.logger.Error("update event", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, event)
}

// Delete handles DELETE /events/:id. Requires event:delete. Assignments are
// removed by the schema cascade.
func (h *Handler) Delete(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.repo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.NotFound(c, "event not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), eventID); err != nil {
		h.logger.Error("delete event", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.OK(c, gin.H{"message": "event deleted"})
}

// CoverUploadRequest is the body for POST /events/:id/cover/upload-url.
type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// GenerateCoverUploadURL handles POST /events/:id/cover/upload-url. Returns a
// presigned S3 PUT URL for the event's cover image and records the object key.
func (h *Handler) GenerateCoverUploadURL(c *gin.Context) {
	if h.store == nil {
		response.ServiceUnavailable(c, "image storage is not configured")
		return
	}
	eventID := MustEventID(c)
	var req CoverUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "filename is required")
		return
	}
	if !storage.ValidateImageType(req.ContentType, req.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}
	upload, err := h.store.PresignCoverUpload(c.Request.Context(), eventID.String(), req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error("presign cover upload", zap.Error(err))
		response.Internal(c, "failed to generate upload url")
		return
	}
	if err := h.repo.SetCoverImage(c.Request.Context(), eventID, upload.Key); err != nil {
		response.Internal(c, "failed to record cover image")
		return
	}
	response.OK(c, upload)
}
