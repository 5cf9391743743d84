package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
)

// Repository handles ticket persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tickets repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const ticketColumns = `id, event_id, user_id, COALESCE(guest_email,''), COALESCE(guest_name,''),
		COALESCE(guest_phone,''), ticket_type, status, qr_code, check_in_time, checked_in_by,
		price, purchased_at, company_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	var t models.Ticket
	var ticketType, status string
	err := row.Scan(&t.ID, &t.EventID, &t.UserID, &t.GuestEmail, &t.GuestName, &t.GuestPhone,
		&ticketType, &status, &t.QRCode, &t.CheckInTime, &t.CheckedInBy,
		&t.Price, &t.PurchasedAt, &t.CompanyID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.TicketType = models.TicketType(ticketType)
	t.Status = models.TicketStatus(status)
	return &t, nil
}

// Create inserts a ticket.
func (r *Repository) Create(ctx context.Context, t *models.Ticket) error {
	const q = `INSERT INTO tickets (event_id, user_id, guest_email, guest_name, guest_phone,
			ticket_type, status, qr_code, price, purchased_at, company_id)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, t.EventID, t.UserID, t.GuestEmail, t.GuestName, t.GuestPhone,
		string(t.TicketType), string(t.Status), t.QRCode, t.Price, t.PurchasedAt, t.CompanyID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns a ticket by id, or (nil, nil).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, err := scanTicket(r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// GetByQRCode returns a ticket by its QR code, or (nil, nil).
func (r *Repository) GetByQRCode(ctx context.Context, qrCode string) (*models.Ticket, error) {
	t, err := scanTicket(r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE qr_code = $1`, qrCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListFilter narrows ListByEvent results.
type ListFilter struct {
	Status     models.TicketStatus
	TicketType models.TicketType
	Search     string
	Page       int
	Limit      int
}

// ListByEvent returns tickets for an event, newest first, with a total count.
// Search matches guest name and email.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID, f ListFilter) ([]*models.Ticket, int, error) {
	where := `WHERE event_id = $1
		AND ($2 = '' OR status = $2)
		AND ($3 = '' OR ticket_type = $3)
		AND ($4 = '' OR guest_name ILIKE '%' || $4 || '%' OR guest_email ILIKE '%' || $4 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets `+where,
		eventID, string(f.Status), string(f.TicketType), f.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets `+where+`
		ORDER BY created_at DESC LIMIT $5 OFFSET $6`,
		eventID, string(f.Status), string(f.TicketType), f.Search, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// ExistsForEmail reports whether a ticket of the tier already exists for the
// email on the event. A guest may register once per tier, so a free ticket
// does not block the same email from a vip link.
func (r *Repository) ExistsForEmail(ctx context.Context, eventID uuid.UUID, email string, ticketType models.TicketType) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets
			WHERE event_id = $1 AND guest_email = $2 AND ticket_type = $3)`,
		eventID, email, string(ticketType)).Scan(&exists)
	return exists, err
}

// CheckIn marks a confirmed ticket as used, stamping the time and the acting
// user. Returns false when the ticket was not in confirmed state (lost race).
func (r *Repository) CheckIn(ctx context.Context, ticketID, checkedInBy uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status = 'used', check_in_time = $3, checked_in_by = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'confirmed'`,
		ticketID, checkedInBy, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// EventStats aggregates ticket counts for one event.
type EventStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	CheckedIn int `json:"checked_in"`
	Cancelled int `json:"cancelled"`
}

// StatsByEvent returns ticket counts for the check-in dashboard.
func (r *Repository) StatsByEvent(ctx context.Context, eventID uuid.UUID) (*EventStats, error) {
	const q = `SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'used'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM tickets WHERE event_id = $1`
	var s EventStats
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&s.Total, &s.Confirmed, &s.CheckedIn, &s.Cancelled)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
