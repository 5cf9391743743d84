package companies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
)

// Repository handles company persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a companies repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const companyColumns = `id, name, slug, email, COALESCE(phone,''), COALESCE(address,''),
		COALESCE(logo,''), COALESCE(website,''), COALESCE(tax_id,''), is_active, settings,
		created_by, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*models.Company, error) {
	var c models.Company
	var settings []byte
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Email, &c.Phone, &c.Address,
		&c.Logo, &c.Website, &c.TaxID, &c.IsActive, &settings,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &c.Settings); err != nil {
			return nil, fmt.Errorf("decode company settings: %w", err)
		}
	}
	return &c, nil
}

// Create inserts a company.
func (r *Repository) Create(ctx context.Context, c *models.Company) error {
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("encode company settings: %w", err)
	}
	const q = `INSERT INTO companies (name, slug, email, phone, address, logo, website, tax_id,
			is_active, settings, created_by)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), NULLIF($8,''),
			$9, $10, $11)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.Email, c.Phone, c.Address, c.Logo,
		c.Website, c.TaxID, c.IsActive, settings, c.CreatedBy).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a company by id, or (nil, nil).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// SlugExists reports whether any company already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// List returns companies, newest first, with a total count.
func (r *Repository) List(ctx context.Context, search string, page, limit int) ([]*models.Company, int, error) {
	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies `+where, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+companyColumns+` FROM companies `+where+`
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, search, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update persists the mutable columns of a company.
func (r *Repository) Update(ctx context.Context, c *models.Company) error {
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("encode company settings: %w", err)
	}
	const q = `UPDATE companies SET name = $2, email = $3, phone = NULLIF($4,''),
			address = NULLIF($5,''), logo = NULLIF($6,''), website = NULLIF($7,''),
			tax_id = NULLIF($8,''), is_active = $9, settings = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Address, c.Logo,
		c.Website, c.TaxID, c.IsActive, settings).Scan(&c.UpdatedAt)
}

// Deactivate soft-deletes a company.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE companies SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}
