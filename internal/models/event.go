package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventPublished, EventCancelled, EventCompleted:
		return true
	}
	return false
}

// TicketType identifies a ticket tier.
type TicketType string

const (
	TicketFree      TicketType = "free"
	TicketVIP       TicketType = "vip"
	TicketGeneral   TicketType = "general"
	TicketEarlyBird TicketType = "early_bird"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	switch t {
	case TicketFree, TicketVIP, TicketGeneral, TicketEarlyBird:
		return true
	}
	return false
}

// TicketConfig is one sellable ticket tier of an event, stored inside the
// event's ticket_configs JSONB array.
type TicketConfig struct {
	Type          TicketType `json:"type"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	Quantity      int        `json:"quantity"`
	Sold          int        `json:"sold"`
	MaxPerUser    int        `json:"max_per_user"`
	SaleStartDate *time.Time `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time `json:"sale_end_date,omitempty"`
	IsActive      bool       `json:"is_active"`
}

// DefaultTicketConfigs are used when an event is created without explicit tiers.
func DefaultTicketConfigs() []TicketConfig {
	return []TicketConfig{
		{Type: TicketFree, Name: "Entrada Gratuita", Price: 0, Quantity: 100, MaxPerUser: 2, IsActive: true},
		{Type: TicketVIP, Name: "Entrada VIP", Price: 50, Quantity: 50, MaxPerUser: 4, IsActive: true},
	}
}

// Event represents one ticketed event owned by a company.
type Event struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	Address       string         `json:"address,omitempty"`
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	CoverImage    string         `json:"cover_image,omitempty"`
	Status        EventStatus    `json:"status"`
	TicketConfigs []TicketConfig `json:"ticket_configs"`
	ShareableLink string         `json:"shareable_link,omitempty"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	CompanyID     uuid.UUID      `json:"company_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TicketConfigFor returns the config for a ticket type, or nil if the event
// does not sell that tier.
func (e *Event) TicketConfigFor(t TicketType) *TicketConfig {
	for i := range e.TicketConfigs {
		if e.TicketConfigs[i].Type == t {
			return &e.TicketConfigs[i]
		}
	}
	return nil
}
