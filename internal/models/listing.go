package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de publication d'une annonce
const (
	ListingPending  = "PENDING"
	ListingActive   = "ACTIVE"
	ListingRejected = "REJECTED"
)

// Listing représente un workpaper mis en vente par un vendeur
// (numérique avec fichier MinIO, ou physique)
type Listing struct {
	ID          gocql.UUID `json:"id"`
	VendorID    gocql.UUID `json:"vendor_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	CategoryID  gocql.UUID `json:"category_id"`
	Tags        []string   `json:"tags"`
	ImageURLs   []string   `json:"image_urls"`
	FileKey     string     `json:"-"` // objet MinIO du workpaper numérique
	IsDigital   bool       `json:"is_digital"`
	IsFeatured  bool       `json:"is_featured"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsFree : les workpapers gratuits sont téléchargeables sans commande
func (l Listing) IsFree() bool {
	return l.Price == 0
}
