package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register. Self-registration always produces the
// end-user role; privileged roles are created through the user admin API.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email, password and name are required")
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if _, err := h.repo.GetByEmail(c.Request.Context(), email); err == nil {
		response.BadRequest(c, "user already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), email, hash, req.Name, req.Phone, rbac.RoleUser, uuid.Nil)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	h.jwt.SetAuthCookie(c, token)

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), utils.NormalizeEmail(req.Email))
	if err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if !user.IsActive {
		response.Unauthorized(c, "account is disabled")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	h.jwt.SetAuthCookie(c, token)

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Logout handles POST /auth/logout. Clears the auth cookie; the token itself
// stays valid until expiry.
func (h *Handler) Logout(c *gin.Context) {
	h.jwt.ClearAuthCookie(c)
	response.OK(c, gin.H{"message": "logout successful"})
}

// Me handles GET /auth/me. Reads the account fresh so the caller sees profile
// changes even while the token claims are stale.
func (h *Handler) Me(c *gin.Context) {
	id := MustIdentity(c)
	user, err := h.repo.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}
