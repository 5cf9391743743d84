package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
)

// Repository handles user persistence for authentication.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, password_hash, name, COALESCE(phone,''), role, is_active,
		COALESCE(company_id, '00000000-0000-0000-0000-000000000000'::uuid), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &role, &u.IsActive,
		&u.CompanyID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = rbac.Role(role)
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Create inserts a new user. companyID of uuid.Nil is stored as NULL.
func (r *Repository) Create(ctx context.Context, email, passwordHash, name, phone string, role rbac.Role, companyID uuid.UUID) (*models.User, error) {
	const q = `INSERT INTO users (email, password_hash, name, phone, role, company_id)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6, '00000000-0000-0000-0000-000000000000'::uuid))
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, email, passwordHash, name, phone, string(role), companyID))
}
