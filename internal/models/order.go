package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Chaîne de statuts d'une commande — DELIVERED et COMPLETED sont
// confirmés par l'acheteur, le reste par le vendeur ou Stripe
const (
	OrderCreated   = "CREATED"
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

type Order struct {
	ID          gocql.UUID  `json:"id"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	AmountTotal float64     `json:"amount_total"`
	Status      string      `json:"status"`
	StripeID    string      `json:"stripe_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// NextStatuses retourne les transitions autorisées depuis un statut donné
func NextStatuses(status string) []string {
	switch status {
	case OrderCreated:
		return []string{OrderPaid, OrderCancelled}
	case OrderPaid:
		return []string{OrderShipped, OrderCancelled}
	case OrderShipped:
		return []string{OrderDelivered}
	case OrderDelivered:
		return []string{OrderCompleted}
	}
	return nil
}

// CanTransition vérifie qu'un passage de statut est autorisé
func CanTransition(from, to string) bool {
	for _, s := range NextStatuses(from) {
		if s == to {
			return true
		}
	}
	return false
}
