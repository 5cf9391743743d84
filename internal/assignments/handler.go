package assignments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/internal/users"
	"github.com/entrada-events/backend/pkg/response"
)

// Handler handles event assignment HTTP endpoints. All routes run behind the
// event scope middleware, so the event id is already resolved and authorized.
type Handler struct {
	repo   *Repository
	users  *users.Repository
	events *events.Repository
	logger *zap.Logger
}

// NewHandler creates an assignments handler.
func NewHandler(repo *Repository, usersRepo *users.Repository, eventsRepo *events.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, users: usersRepo, events: eventsRepo, logger: logger}
}

// AssignRequest is the body for POST /events/:id/assignments.
type AssignRequest struct {
	UserID      uuid.UUID         `json:"user_id" binding:"required"`
	Role        rbac.Role         `json:"role" binding:"required"`
	Permissions []rbac.Permission `json:"permissions"`
}

// BulkAssignRequest is the body for POST /events/:id/assignments/bulk.
type BulkAssignRequest struct {
	UserIDs     []uuid.UUID       `json:"user_ids" binding:"required,min=1"`
	Role        rbac.Role         `json:"role" binding:"required"`
	Permissions []rbac.Permission `json:"permissions"`
}

// List handles GET /events/:id/assignments. Requires user:read.
func (h *Handler) List(c *gin.Context) {
	id := auth.MustIdentity(c)
	eventID := events.MustEventID(c)

	companyID := id.CompanyID
	if id.Role == rbac.RoleSuperAdmin {
		companyID = uuid.Nil
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID, companyID)
	if err != nil {
		h.logger.Error("list assignments", zap.Error(err))
		response.Internal(c, "failed to list assignments")
		return
	}
	response.OK(c, list)
}

// Create handles POST /events/:id/assignments. Requires user:assign. The
// target user must belong to the event's company unless the caller is a super
// admin.
func (h *Handler) Create(c *gin.Context) {
	id := auth.MustIdentity(c)
	eventID := events.MustEventID(c)

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "user_id and role are required")
		return
	}
	if !req.Role.Valid() || req.Role == rbac.RoleSuperAdmin {
		response.BadRequest(c, "invalid assignment role")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		response.Internal(c, "failed to load user")
		return
	}
	if target == nil {
		response.NotFound(c, "user not found")
		return
	}
	if id.Role != rbac.RoleSuperAdmin && target.CompanyID != event.CompanyID {
		response.BadRequest(c, "user does not belong to this company")
		return
	}

	if exists, err := h.repo.Exists(c.Request.Context(), req.UserID, eventID); err != nil {
		response.Internal(c, "failed to check assignment")
		return
	} else if exists {
		response.BadRequest(c, "user is already assigned to this event")
		return
	}

	perms := req.Permissions
	if len(perms) == 0 {
		perms = rbac.PermissionsFor(req.Role)
	}
	assignment := &models.EventAssignment{
		UserID:      req.UserID,
		EventID:     eventID,
		Role:        req.Role,
		Permissions: perms,
		AssignedBy:  id.UserID,
		CompanyID:   event.CompanyID,
	}
	if err := h.repo.Create(c.Request.Context(), assignment); err != nil {
		h.logger.Error("create assignment", zap.Error(err))
		response.Internal(c, "failed to create assignment")
		return
	}
	response.Created(c, assignment)
}

// CreateBulk handles POST /events/:id/assignments/bulk. Requires user:assign.
// Users already assigned are skipped rather than failing the whole batch.
func (h *Handler) CreateBulk(c *gin.Context) {
	id := auth.MustIdentity(c)
	eventID := events.MustEventID(c)

	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "user_ids and role are required")
		return
	}
	if !req.Role.Valid() || req.Role == rbac.RoleSuperAdmin {
		response.BadRequest(c, "invalid assignment role")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return
	}

	targets, err := h.users.GetManyByIDs(c.Request.Context(), req.UserIDs)
	if err != nil {
		response.Internal(c, "failed to load users")
		return
	}
	found := make(map[uuid.UUID]*models.User, len(targets))
	for _, u := range targets {
		found[u.ID] = u
	}
	for _, userID := range req.UserIDs {
		target, ok := found[userID]
		if !ok {
			response.BadRequest(c, "one or more users do not exist")
			return
		}
		if id.Role != rbac.RoleSuperAdmin && target.CompanyID != event.CompanyID {
			response.BadRequest(c, "one or more users do not belong to this company")
			return
		}
	}

	perms := req.Permissions
	if len(perms) == 0 {
		perms = rbac.PermissionsFor(req.Role)
	}
	batch := make([]*models.EventAssignment, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		batch = append(batch, &models.EventAssignment{
			UserID:      userID,
			EventID:     eventID,
			Role:        req.Role,
			Permissions: perms,
			AssignedBy:  id.UserID,
			CompanyID:   event.CompanyID,
		})
	}
	created, err := h.repo.CreateBatch(c.Request.Context(), batch)
	if err != nil {
		h.logger.Error("bulk create assignments", zap.Error(err))
		response.Internal(c, "failed to create assignments")
		return
	}
	response.Created(c, gin.H{
		"created": created,
		"skipped": int64(len(req.UserIDs)) - created,
		"total":   len(req.UserIDs),
	})
}

// Delete handles DELETE /events/:id/assignments/:assignmentId. Requires
// user:assign.
func (h *Handler) Delete(c *gin.Context) {
	eventID := events.MustEventID(c)
	assignmentID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	assignment, err := h.repo.GetByID(c.Request.Context(), assignmentID)
	if err != nil {
		response.Internal(c, "failed to load assignment")
		return
	}
	if assignment == nil || assignment.EventID != eventID {
		response.NotFound(c, "assignment not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), assignmentID); err != nil {
		h.logger.Error("delete assignment", zap.Error(err))
		response.Internal(c, "failed to delete assignment")
		return
	}
	response.OK(c, gin.H{"message": "assignment removed"})
}
