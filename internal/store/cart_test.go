package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// fakeCartPersistence : adaptateur mémoire pour les tests
type fakeCartPersistence struct {
	data    map[string][]models.CartItem
	saves   int
	deletes int
	failing bool
}

func newFakeCartPersistence() *fakeCartPersistence {
	return &fakeCartPersistence{data: map[string][]models.CartItem{}}
}

func (p *fakeCartPersistence) Load(_ context.Context, userID string) ([]models.CartItem, error) {
	if p.failing {
		return nil, errors.New("persistence indisponible")
	}
	return p.data[userID], nil
}

func (p *fakeCartPersistence) Save(_ context.Context, userID string, items []models.CartItem) error {
	if p.failing {
		return errors.New("persistence indisponible")
	}
	p.saves++
	saved := make([]models.CartItem, len(items))
	copy(saved, items)
	p.data[userID] = saved
	return nil
}

func (p *fakeCartPersistence) Delete(_ context.Context, userID string) error {
	p.deletes++
	delete(p.data, userID)
	return nil
}

func item(id string, price float64, qty int) models.CartItem {
	return models.CartItem{ProductID: id, Title: id, Price: price, Quantity: qty}
}

func TestCartAddItemMergesByProduct(t *testing.T) {
	ctx := context.Background()
	persist := newFakeCartPersistence()
	cart, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 2)))
	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 3)))
	require.NoError(t, cart.AddItem(ctx, item("p2", 5, 1)))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartAddItemDefaultQuantity(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, "u1", newFakeCartPersistence())
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 0)))
	assert.Equal(t, 1, cart.ItemsCount())
}

func TestCartUpdateQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, "u1", newFakeCartPersistence())
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 4)))

	require.NoError(t, cart.UpdateQuantity(ctx, "p1", 0))
	assert.Equal(t, 1, cart.Items()[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(ctx, "p1", -3))
	assert.Equal(t, 1, cart.Items()[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(ctx, "p1", 7))
	assert.Equal(t, 7, cart.Items()[0].Quantity)
}

func TestCartUpdateQuantityAbsentProductIsNoop(t *testing.T) {
	ctx := context.Background()
	persist := newFakeCartPersistence()
	cart, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)

	require.NoError(t, cart.UpdateQuantity(ctx, "inconnu", 5))
	assert.Zero(t, cart.ItemsCount())
	assert.Zero(t, persist.saves) // un no-op ne persiste rien
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, "u1", newFakeCartPersistence())
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 2)))
	require.NoError(t, cart.AddItem(ctx, item("p2", 5, 3)))

	require.NoError(t, cart.RemoveItem(ctx, "p1"))
	assert.Equal(t, 3, cart.ItemsCount())
	for _, it := range cart.Items() {
		assert.NotEqual(t, "p1", it.ProductID)
	}

	// supprimer un produit absent est un no-op
	require.NoError(t, cart.RemoveItem(ctx, "p1"))
	assert.Equal(t, 3, cart.ItemsCount())
}

func TestCartTotalAndCount(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, "u1", newFakeCartPersistence())
	require.NoError(t, err)

	assert.Zero(t, cart.Total())
	assert.Zero(t, cart.ItemsCount())

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 2)))
	require.NoError(t, cart.AddItem(ctx, item("p2", 2.5, 4)))

	assert.Equal(t, 30.0, cart.Total())
	assert.Equal(t, 6, cart.ItemsCount())
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	persist := newFakeCartPersistence()
	cart, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 2)))
	require.NoError(t, cart.Clear(ctx))

	assert.Zero(t, cart.ItemsCount())
	assert.Zero(t, cart.Total())
	assert.Equal(t, 1, persist.deletes)
}

func TestCartPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	persist := newFakeCartPersistence()
	cart, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, item("p1", 10, 2)))
	require.NoError(t, cart.UpdateQuantity(ctx, "p1", 5))
	require.NoError(t, cart.RemoveItem(ctx, "p1"))
	assert.Equal(t, 3, persist.saves)

	// l'état persisté est rechargeable par un nouveau store
	require.NoError(t, cart.AddItem(ctx, item("p2", 4, 2)))
	reloaded, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ItemsCount())
	assert.Equal(t, 8.0, reloaded.Total())
}

func TestCartWorkedExample(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, "u1", newFakeCartPersistence())
	require.NoError(t, err)

	require.Empty(t, cart.Items())

	require.NoError(t, cart.AddItem(ctx, item("P1", 10, 2)))
	require.Equal(t, []models.CartItem{item("P1", 10, 2)}, cart.Items())

	require.NoError(t, cart.AddItem(ctx, item("P1", 10, 3)))
	require.Equal(t, 5, cart.Items()[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(ctx, "P1", 0))
	require.Equal(t, 1, cart.Items()[0].Quantity)

	assert.Equal(t, 10.0, cart.Total())
}

func TestCartPersistenceFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	persist := newFakeCartPersistence()
	persist.failing = true

	_, err := NewCartStore(ctx, "u1", persist)
	assert.Error(t, err)

	persist.failing = false
	cart, err := NewCartStore(ctx, "u1", persist)
	require.NoError(t, err)

	persist.failing = true
	assert.Error(t, cart.AddItem(ctx, item("p1", 10, 1)))
}
