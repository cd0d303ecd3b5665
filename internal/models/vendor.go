package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de modération d'un profil vendeur
const (
	VendorPending  = "PENDING"
	VendorApproved = "APPROVED"
	VendorRejected = "REJECTED"
)

type VendorProfile struct {
	ID           gocql.UUID `json:"id"`
	UserID       string     `json:"user_id"`
	CompanyName  string     `json:"company_name"`
	Description  string     `json:"description,omitempty"`
	LogoURL      string     `json:"logo_url,omitempty"`
	Status       string     `json:"status"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
