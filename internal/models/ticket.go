package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of an issued ticket.
type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketConfirmed TicketStatus = "confirmed"
	TicketCancelled TicketStatus = "cancelled"
	TicketUsed      TicketStatus = "used"
)

// Ticket is one issued admission, identified at the door by its QR code.
// UserID is set for tickets bound to a platform account; guest fields are used
// for public registrations.
type Ticket struct {
	ID          uuid.UUID    `json:"id"`
	EventID     uuid.UUID    `json:"event_id"`
	UserID      *uuid.UUID   `json:"user_id,omitempty"`
	GuestEmail  string       `json:"guest_email,omitempty"`
	GuestName   string       `json:"guest_name,omitempty"`
	GuestPhone  string       `json:"guest_phone,omitempty"`
	TicketType  TicketType   `json:"ticket_type"`
	Status      TicketStatus `json:"status"`
	QRCode      string       `json:"qr_code"`
	CheckInTime *time.Time   `json:"check_in_time,omitempty"`
	CheckedInBy *uuid.UUID   `json:"checked_in_by,omitempty"`
	Price       float64      `json:"price"`
	PurchasedAt time.Time    `json:"purchased_at"`
	CompanyID   uuid.UUID    `json:"company_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
