package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de modération d'un commentaire
const (
	CommentPending  = "PENDING"
	CommentApproved = "APPROVED"
	CommentRejected = "REJECTED"
)

type Comment struct {
	ID           gocql.UUID `json:"id"`
	ListingID    gocql.UUID `json:"listing_id"`
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name"`
	Rating       int        `json:"rating"` // 1-5
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
