package companies

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/utils"
)

// Handler handles company HTTP endpoints. Listing, creation and deactivation
// are reserved to super admins at the routing layer.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a companies handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateCompanyRequest is the body for POST /companies.
type CreateCompanyRequest struct {
	Name     string                  `json:"name" binding:"required"`
	Email    string                  `json:"email" binding:"required,email"`
	Phone    string                  `json:"phone"`
	Address  string                  `json:"address"`
	Website  string                  `json:"website"`
	TaxID    string                  `json:"tax_id"`
	Settings *models.CompanySettings `json:"settings"`
}

// UpdateCompanyRequest is the body for PUT /companies/:id. Nil fields are left
// unchanged.
type UpdateCompanyRequest struct {
	Name     *string                 `json:"name"`
	Email    *string                 `json:"email"`
	Phone    *string                 `json:"phone"`
	Address  *string                 `json:"address"`
	Logo     *string                 `json:"logo"`
	Website  *string                 `json:"website"`
	TaxID    *string                 `json:"tax_id"`
	Settings *models.CompanySettings `json:"settings"`
}

// List handles GET /companies. Super admin only.
func (h *Handler) List(c *gin.Context) {
	page, limit := response.PageParams(c)
	list, total, err := h.repo.List(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		h.logger.Error("list companies", zap.Error(err))
		response.Internal(c, "failed to list companies")
		return
	}
	response.Page(c, list, page, limit, total)
}

// Create handles POST /companies. Super admin only.
func (h *Handler) Create(c *gin.Context) {
	id := auth.MustIdentity(c)
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name and email are required")
		return
	}

	slug := utils.GenerateSlug(req.Name)
	if taken, err := h.repo.SlugExists(c.Request.Context(), slug); err == nil && taken {
		slug = utils.UniqueSlugSuffix(slug)
	}

	settings := models.DefaultCompanySettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	company := &models.Company{
		Name:      req.Name,
		Slug:      slug,
		Email:     utils.NormalizeEmail(req.Email),
		Phone:     req.Phone,
		Address:   req.Address,
		Website:   req.Website,
		TaxID:     req.TaxID,
		IsActive:  true,
		Settings:  settings,
		CreatedBy: id.UserID,
	}
	if err := h.repo.Create(c.Request.Context(), company); err != nil {
		h.logger.Error("create company", zap.Error(err))
		response.Internal(c, "failed to create company")
		return
	}
	response.Created(c, company)
}

// canAccess reports whether the identity may read or update the company.
func canAccess(id auth.Identity, companyID uuid.UUID) bool {
	return id.Role == rbac.RoleSuperAdmin || id.CompanyID == companyID
}

// GetByID handles GET /companies/:id. Own company, or any company for a super
// admin.
func (h *Handler) GetByID(c *gin.Context) {
	id := auth.MustIdentity(c)
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid company id")
		return
	}
	if !canAccess(id, companyID) {
		response.Forbidden(c, "access denied to this company")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to load company")
		return
	}
	if company == nil {
		response.NotFound(c, "company not found")
		return
	}
	response.OK(c, company)
}

// Mine handles GET /companies/my-company. Returns the caller's own tenant.
func (h *Handler) Mine(c *gin.Context) {
	id := auth.MustIdentity(c)
	if id.CompanyID == uuid.Nil {
		response.NotFound(c, "no company associated with this account")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), id.CompanyID)
	if err != nil {
		response.Internal(c, "failed to load company")
		return
	}
	if company == nil {
		response.NotFound(c, "company not found")
		return
	}
	response.OK(c, company)
}

// Update handles PUT /companies/:id. Own company, or any company for a super
// admin.
func (h *Handler) Update(c *gin.Context) {
	id := auth.MustIdentity(c)
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid company id")
		return
	}
	if !canAccess(id, companyID) {
		response.Forbidden(c, "access denied to this company")
		return
	}
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to load company")
		return
	}
	if company == nil {
		response.NotFound(c, "company not found")
		return
	}

	if req.Name != nil && *req.Name != "" {
		company.Name = *req.Name
	}
	if req.Email != nil {
		company.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Logo != nil {
		company.Logo = *req.Logo
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.TaxID != nil {
		company.TaxID = *req.TaxID
	}
	if req.Settings != nil {
		company.Settings = *req.Settings
	}

	if err := h.repo.Update(c.Request.Context(), company); err != nil {
		h.logger.Error("update company", zap.Error(err))
		response.Internal(c, "failed to update company")
		return
	}
	response.OK(c, company)
}

// Delete handles DELETE /companies/:id. Super admin only. Soft delete.
func (h *Handler) Delete(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid company id")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to load company")
		return
	}
	if company == nil {
		response.NotFound(c, "company not found")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), companyID); err != nil {
		h.logger.Error("deactivate company", zap.Error(err))
		response.Internal(c, "failed to deactivate company")
		return
	}
	response.OK(c, gin.H{"message": "company deactivated"})
}
