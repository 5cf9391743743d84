package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/internal/tenant"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/utils"
)

// Handler handles user admin HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateUserRequest is the body for POST /users.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body for PUT /users/:id. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// List handles GET /users. Requires user:read. Tenant-scoped with role,
// search and isActive filters.
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
		Role:      rbac.Role(c.Query("role")),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	list, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	public := make([]models.UserPublic, 0, len(list))
	for _, u := range list {
		public = append(public, u.ToPublic())
	}
	response.Page(c, public, page, limit, total)
}

// Create handles POST /users. Requires user:create. The new user is stamped
// with the acting identity's resolved company.
func (h *Handler) Create(c *gin.Context) {
	id := auth.MustIdentity(c)
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email, password and name are required")
		return
	}

	role := rbac.RoleUser
	if req.Role != "" {
		role = rbac.Role(req.Role)
		if !role.Valid() {
			response.BadRequest(c, "invalid role")
			return
		}
	}

	scope, err := tenant.Resolve(c, id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if tenant.CrossTenant(scope) && role != rbac.RoleSuperAdmin {
		response.BadRequest(c, "companyId is required to create a user")
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if existing, err := h.repo.GetByEmail(c.Request.Context(), email); err == nil && existing != nil {
		response.BadRequest(c, "user already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
		CompanyID: scope,
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}
	response.Created(c, user.ToPublic())
}

// GetByID handles GET /users/:id. Requires user:read.
func (h *Handler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// Update handles PUT /users/:id. Requires user:update.
func (h *Handler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}

	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		if email != user.Email {
			if existing, err := h.repo.GetByEmail(c.Request.Context(), email); err == nil && existing != nil {
				response.BadRequest(c, "email already in use")
				return
			}
			user.Email = email
		}
	}
	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		role := rbac.Role(*req.Role)
		if !role.Valid() {
			response.BadRequest(c, "invalid role")
			return
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && len(*req.Password) >= 6 {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			response.Internal(c, "failed to hash password")
			return
		}
		user.Password = hash
	}

	if err := h.repo.Update(c.Request.Context(), user); err != nil {
		h.logger.Error("update user", zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}
	response.OK(c, user.ToPublic())
}

// Delete handles DELETE /users/:id. Requires user:delete. Soft delete: the
// account is deactivated, never removed, so assignment history stays intact.
func (h *Handler) Delete(c *gin.Context) {
	id := auth.MustIdentity(c)
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if userID == id.UserID {
		response.BadRequest(c, "cannot delete yourself")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), userID); err != nil {
		h.logger.Error("deactivate user", zap.Error(err))
		response.Internal(c, "failed to deactivate user")
		return
	}
	response.OK(c, gin.H{"message": "user deactivated"})
}
