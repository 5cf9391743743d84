package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationLink is a shareable self-registration code for one ticket tier
// of an event. MaxUses of zero means unlimited; ExpiresAt of nil means the
// link never expires.
type RegistrationLink struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	Code       string     `json:"code"`
	TicketType TicketType `json:"ticket_type"`
	MaxUses    int        `json:"max_uses,omitempty"`
	UsedCount  int        `json:"used_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CompanyID  uuid.UUID  `json:"company_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Expired reports whether the link is past its expiry at the given time.
func (l *RegistrationLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Exhausted reports whether the link has reached its use limit.
func (l *RegistrationLink) Exhausted() bool {
	return l.MaxUses > 0 && l.UsedCount >= l.MaxUses
}
