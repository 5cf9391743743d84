package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanySettings holds per-tenant display preferences, stored as JSONB.
type CompanySettings struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Language string `json:"language"`
}

// DefaultCompanySettings are applied when a company is created without settings.
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{Timezone: "America/Lima", Currency: "PEN", Language: "es"}
}

// Company is the tenant boundary. Every tenant-owned record references one.
type Company struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Logo      string          `json:"logo,omitempty"`
	Website   string          `json:"website,omitempty"`
	TaxID     string          `json:"tax_id,omitempty"`
	IsActive  bool            `json:"is_active"`
	Settings  CompanySettings `json:"settings"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
