package assignments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/entrada-events/backend/internal/models"
	"github.com/entrada-events/backend/internal/rbac"
)

// Repository handles event assignment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an assignments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func permsToStrings(perms []rbac.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func stringsToPerms(raw []string) []rbac.Permission {
	out := make([]rbac.Permission, len(raw))
	for i, s := range raw {
		out[i] = rbac.Permission(s)
	}
	return out
}

// Exists reports whether an assignment exists for the (user, event) pair.
func (r *Repository) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_assignments WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	return exists, err
}

// Create inserts an assignment. The (user, event) pair is unique at the schema
// level.
func (r *Repository) Create(ctx context.Context, a *models.EventAssignment) error {
	const q = `INSERT INTO event_assignments (user_id, event_id, role, permissions, assigned_by, company_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.UserID, a.EventID, string(a.Role),
		permsToStrings(a.Permissions), a.AssignedBy, a.CompanyID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// ExistingUserIDs returns the subset of userIDs already assigned to the event.
func (r *Repository) ExistingUserIDs(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM event_assignments WHERE event_id = $1 AND user_id = ANY($2)`,
		eventID, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	existing := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// CreateBatch inserts many assignments in one round trip, skipping any pair
// that already exists. Returns the number of rows actually inserted.
func (r *Repository) CreateBatch(ctx context.Context, list []*models.EventAssignment) (int64, error) {
	if len(list) == 0 {
		return 0, nil
	}
	userIDs := make([]uuid.UUID, len(list))
	for i, a := range list {
		userIDs[i] = a.UserID
	}
	first := list[0]
	const q = `INSERT INTO event_assignments (user_id, event_id, role, permissions, assigned_by, company_id)
		SELECT uid, $2, $3, $4, $5, $6 FROM unnest($1::uuid[]) AS uid
		ON CONFLICT (user_id, event_id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, userIDs, first.EventID, string(first.Role),
		permsToStrings(first.Permissions), first.AssignedBy, first.CompanyID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByEvent returns assignments for an event joined with user details,
// filtered by company. companyID uuid.Nil skips the tenant filter.
func (r *Repository) ListByEvent(ctx context.Context, eventID, companyID uuid.UUID) ([]*models.AssignmentWithUser, error) {
	var companyArg any
	if companyID != uuid.Nil {
		companyArg = companyID
	}
	const q = `SELECT a.id, a.user_id, a.event_id, a.role, a.permissions, a.assigned_by, a.company_id,
			a.created_at, a.updated_at, u.name, u.email
		FROM event_assignments a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1 AND ($2::uuid IS NULL OR a.company_id = $2)
		ORDER BY a.created_at ASC`
	rows, err := r.pool.Query(ctx, q, eventID, companyArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.AssignmentWithUser
	for rows.Next() {
		var a models.AssignmentWithUser
		var role string
		var perms []string
		if err := rows.Scan(&a.ID, &a.UserID, &a.EventID, &role, &perms, &a.AssignedBy,
			&a.CompanyID, &a.CreatedAt, &a.UpdatedAt, &a.UserName, &a.UserEmail); err != nil {
			return nil, err
		}
		a.Role = rbac.Role(role)
		a.Permissions = stringsToPerms(perms)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// GetByID returns an assignment by id, or (nil, nil).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EventAssignment, error) {
	const q = `SELECT id, user_id, event_id, role, permissions, assigned_by, company_id, created_at, updated_at
		FROM event_assignments WHERE id = $1`
	var a models.EventAssignment
	var role string
	var perms []string
	err := r.pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.UserID, &a.EventID,
		&role, &perms, &a.AssignedBy, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = rbac.Role(role)
	a.Permissions = stringsToPerms(perms)
	return &a, nil
}

// GetByUserAndEvent returns the assignment for the pair, or (nil, nil).
func (r *Repository) GetByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.EventAssignment, error) {
	const q = `SELECT id, user_id, event_id, role, permissions, assigned_by, company_id, created_at, updated_at
		FROM event_assignments WHERE user_id = $1 AND event_id = $2`
	var a models.EventAssignment
	var role string
	var perms []string
	err := r.pool.QueryRow(ctx, q, userID, eventID).Scan(&a.ID, &a.UserID, &a.EventID,
		&role, &perms, &a.AssignedBy, &a.CompanyID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = rbac.Role(role)
	a.Permissions = stringsToPerms(perms)
	return &a, nil
}

// Delete removes an assignment by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM event_assignments WHERE id = $1`, id)
	return err
}
