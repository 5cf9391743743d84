package events

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

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, name, slug, description, location, COALESCE(address,''),
		start_date, end_date, COALESCE(cover_image,''), status, ticket_configs,
		COALESCE(shareable_link,''), created_by, company_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	var status string
	var configs []byte
	err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.Description, &e.Location, &e.Address,
		&e.StartDate, &e.EndDate, &e.CoverImage, &status, &configs,
		&e.ShareableLink, &e.CreatedBy, &e.CompanyID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = models.EventStatus(status)
	if len(configs) > 0 {
		if err := json.Unmarshal(configs, &e.TicketConfigs); err != nil {
			return nil, fmt.Errorf("decode ticket configs: %w", err)
		}
	}
	return &e, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	configs, err := json.Marshal(e.TicketConfigs)
	if err != nil {
		return fmt.Errorf("encode ticket configs: %w", err)
	}
	const q = `INSERT INTO events (name, slug, description, location, address, start_date, end_date,
			cover_image, status, ticket_configs, shareable_link, created_by, company_id)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7, NULLIF($8,''), $9, $10, NULLIF($11,''), $12, $13)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Name, e.Slug, e.Description, e.Location, e.Address,
		e.StartDate, e.EndDate, e.CoverImage, string(e.Status), configs, e.ShareableLink,
		e.CreatedBy, e.CompanyID).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID, or (nil, nil) if it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// SlugExists reports whether any event already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// ListFilter narrows List results.
type ListFilter struct {
	CompanyID uuid.UUID // uuid.Nil = all tenants (super admin only)
	Status    models.EventStatus
	Search    string
	Page      int
	Limit     int
}

// List returns events for a tenant, newest start date first, with a total count
// for pagination. CompanyID uuid.Nil lists across all tenants.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]*models.Event, int, error) {
	where := `WHERE ($1::uuid IS NULL OR company_id = $1)
		AND ($2 = '' OR status = $2)
		AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')`
	var companyArg any
	if f.CompanyID != uuid.Nil {
		companyArg = f.CompanyID
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events `+where,
		companyArg, string(f.Status), f.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + eventColumns + ` FROM events ` + where + `
		ORDER BY start_date DESC LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, q, companyArg, string(f.Status), f.Search,
		f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

// ListForUser returns events the user created or is assigned to, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events e
		WHERE e.created_by = $1
		   OR EXISTS (SELECT 1 FROM event_assignments a WHERE a.event_id = e.id AND a.user_id = $1)
		ORDER BY e.start_date DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update persists the mutable columns of an event.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	configs, err := json.Marshal(e.TicketConfigs)
	if err != nil {
		return fmt.Errorf("encode ticket configs: %w", err)
	}
	const q = `UPDATE events SET name = $2, description = $3, location = $4, address = NULLIF($5,''),
			start_date = $6, end_date = $7, cover_image = NULLIF($8,''), status = $9,
			ticket_configs = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, e.ID, e.Name, e.Description, e.Location, e.Address,
		e.StartDate, e.EndDate, e.CoverImage, string(e.Status), configs).Scan(&e.UpdatedAt)
}

// SetCoverImage updates only the cover image reference.
func (r *Repository) SetCoverImage(ctx context.Context, id uuid.UUID, key string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE events SET cover_image = NULLIF($2,''), updated_at = NOW() WHERE id = $1`, id, key)
	return err
}

// Delete removes an event. Assignments cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// IncrementSold atomically bumps the sold counter of one ticket tier inside the
// ticket_configs JSONB array.
func (r *Repository) IncrementSold(ctx context.Context, eventID uuid.UUID, t models.TicketType, delta int) error {
	const q = `UPDATE events SET ticket_configs = (
			SELECT COALESCE(jsonb_agg(
				CASE WHEN elem->>'type' = $2
					THEN jsonb_set(elem, '{sold}', to_jsonb(COALESCE((elem->>'sold')::int, 0) + $3))
					ELSE elem
				END), '[]'::jsonb)
			FROM jsonb_array_elements(ticket_configs) elem
		), updated_at = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, eventID, string(t), delta)
	return err
}

// CompleteEnded marks published events whose end date has passed as completed.
// Returns the number of events transitioned.
func (r *Repository) CompleteEnded(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET status = 'completed', updated_at = NOW()
		 WHERE status = 'published' AND end_date < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
