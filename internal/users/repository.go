package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
)

// Repository handles user persistence for the user admin API.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
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

// GetByID returns a user by ID, or (nil, nil) if it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByEmail returns a user by email, or (nil, nil) if it does not exist.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetManyByIDs returns the users matching the given ids.
func (r *Repository) GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ListFilter narrows List results.
type ListFilter struct {
	CompanyID uuid.UUID // uuid.Nil = all tenants (super admin only)
	Role      rbac.Role
	Search    string
	IsActive  *bool
	Page      int
	Limit     int
}

// List returns users for a tenant, newest first, with a total count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]*models.User, int, error) {
	where := `WHERE ($1::uuid IS NULL OR company_id = $1)
		AND ($2 = '' OR role = $2)
		AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%')
		AND ($4::boolean IS NULL OR is_active = $4)`
	var companyArg any
	if f.CompanyID != uuid.Nil {
		companyArg = f.CompanyID
	}
	var activeArg any
	if f.IsActive != nil {
		activeArg = *f.IsActive
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where,
		companyArg, string(f.Role), f.Search, activeArg).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users `+where+`
		ORDER BY created_at DESC LIMIT $5 OFFSET $6`,
		companyArg, string(f.Role), f.Search, activeArg, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// Create inserts a new user. companyID of uuid.Nil is stored as NULL.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (email, password_hash, name, phone, role, is_active, company_id)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, NULLIF($7, '00000000-0000-0000-0000-000000000000'::uuid))
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, u.Email, u.Password, u.Name, u.Phone, string(u.Role),
		u.IsActive, u.CompanyID).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// Update persists the mutable columns of a user.
func (r *Repository) Update(ctx context.Context, u *models.User) error {
	const q = `UPDATE users SET email = $2, password_hash = $3, name = $4, phone = NULLIF($5,''),
			role = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, u.ID, u.Email, u.Password, u.Name, u.Phone,
		string(u.Role), u.IsActive).Scan(&u.UpdatedAt)
}

// Deactivate soft-deletes a user.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}
