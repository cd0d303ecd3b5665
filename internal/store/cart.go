package store

import (
	"context"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// CartPersistence abstrait le stockage durable du panier (Redis en prod,
// mémoire dans les tests)
type CartPersistence interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Delete(ctx context.Context, userID string) error
}

// CartStore : conteneur d'état du panier d'un utilisateur.
// Invariants : au plus une entrée par produit, quantité jamais < 1.
// Chaque mutation est persistée avant de retourner ; les totaux sont
// dérivés, jamais stockés.
type CartStore struct {
	userID  string
	items   []models.CartItem
	persist CartPersistence
}

// NewCartStore charge le panier persisté de l'utilisateur.
// Un panier absent est un panier vide, pas une erreur.
func NewCartStore(ctx context.Context, userID string, persist CartPersistence) (*CartStore, error) {
	items, err := persist.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartStore{userID: userID, items: items, persist: persist}, nil
}

// AddItem fusionne par produit : si le produit est déjà présent la quantité
// est incrémentée, sinon l'entrée est ajoutée. Quantité omise ou <= 0 vaut 1.
// Aucune validation de stock.
func (s *CartStore) AddItem(ctx context.Context, item models.CartItem) error {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	found := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, item)
	}

	return s.persist.Save(ctx, s.userID, s.items)
}

// RemoveItem supprime l'entrée correspondante ; no-op si absente
func (s *CartStore) RemoveItem(ctx context.Context, productID string) error {
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}
	s.items = kept
	return s.persist.Save(ctx, s.userID, s.items)
}

// UpdateQuantity fixe la quantité d'un produit, plancher à 1 ;
// no-op si le produit est absent
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return s.persist.Save(ctx, s.userID, s.items)
		}
	}
	return nil
}

// Clear vide le panier et supprime la clé persistée
func (s *CartStore) Clear(ctx context.Context) error {
	s.items = nil
	return s.persist.Delete(ctx, s.userID)
}

// Total : somme des prix × quantités, 0 pour un panier vide
func (s *CartStore) Total() float64 {
	total := 0.0
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemsCount : somme des quantités
func (s *CartStore) ItemsCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items retourne une copie de la liste, jamais nil
func (s *CartStore) Items() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
