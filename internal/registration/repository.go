package registration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
)

// Repository handles registration link persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registration links repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const linkColumns = `id, event_id, code, ticket_type, max_uses, used_count, expires_at,
		is_active, created_by, company_id, created_at, updated_at`

func scanLink(row interface{ Scan(...any) error }) (*models.RegistrationLink, error) {
	var l models.RegistrationLink
	var ticketType string
	err := row.Scan(&l.ID, &l.EventID, &l.Code, &ticketType, &l.MaxUses, &l.UsedCount,
		&l.ExpiresAt, &l.IsActive, &l.CreatedBy, &l.CompanyID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.TicketType = models.TicketType(ticketType)
	return &l, nil
}

// Create inserts a registration link.
func (r *Repository) Create(ctx context.Context, l *models.RegistrationLink) error {
	const q = `INSERT INTO registration_links (event_id, code, ticket_type, max_uses, expires_at,
			is_active, created_by, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, used_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, l.EventID, l.Code, string(l.TicketType), l.MaxUses,
		l.ExpiresAt, l.IsActive, l.CreatedBy, l.CompanyID).
		Scan(&l.ID, &l.UsedCount, &l.CreatedAt, &l.UpdatedAt)
}

// GetByCode returns a link by its shareable code, or (nil, nil).
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.RegistrationLink, error) {
	l, err := scanLink(r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM registration_links WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

// ListByEvent returns all links for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.RegistrationLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+linkColumns+` FROM registration_links WHERE event_id = $1 ORDER BY created_at DESC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.RegistrationLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// IncrementUsed bumps the use counter, guarded against exceeding max_uses.
// Returns false when the link was already exhausted (lost race).
func (r *Repository) IncrementUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registration_links SET used_count = used_count + 1, updated_at = NOW()
			WHERE id = $1 AND is_active AND (max_uses = 0 OR used_count < max_uses)`,
		id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Deactivate disables a link.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE registration_links SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// DeactivateExpired disables all active links past their expiry. Returns the
// number of links disabled.
func (r *Repository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registration_links SET is_active = false, updated_at = NOW()
			WHERE is_active AND expires_at IS NOT NULL AND expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
