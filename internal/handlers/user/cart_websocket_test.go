package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
)

// fakeConn : connexion WebSocket mémoire pour les tests
type fakeConn struct {
	mu       sync.Mutex
	written  []interface{}
	pings    int
	deadFrom int // écritures en erreur à partir de ce compteur, -1 = jamais
}

func (c *fakeConn) calls() int { return len(c.written) + c.pings }

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadFrom >= 0 && c.calls() >= c.deadFrom {
		return errors.New("client parti")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) WriteMessage(int, []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadFrom >= 0 && c.calls() >= c.deadFrom {
		return errors.New("client parti")
	}
	c.pings++
	return nil
}

type stubPersistence struct {
	items []models.CartItem
}

func (p *stubPersistence) Load(context.Context, string) ([]models.CartItem, error) {
	return p.items, nil
}
func (p *stubPersistence) Save(_ context.Context, _ string, items []models.CartItem) error {
	p.items = items
	return nil
}
func (p *stubPersistence) Delete(context.Context, string) error {
	p.items = nil
	return nil
}

func reloadFrom(p *stubPersistence) func() (*store.CartStore, error) {
	return func() (*store.CartStore, error) {
		return store.NewCartStore(context.Background(), "u-1", p)
	}
}

func runSyncUntilDone(t *testing.T, conn *fakeConn, ch chan *redis.Message, reload func() (*store.CartStore, error), ping time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		runCartSync(conn, ch, reload, ping)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runCartSync ne s'est pas terminé")
	}
}

// un client déconnecté en silence est détecté par le ping périodique,
// même sans aucune mutation du panier
func TestIdleDisconnectedClientReleasedByPing(t *testing.T) {
	conn := &fakeConn{deadFrom: 0}
	ch := make(chan *redis.Message) // jamais alimenté

	runSyncUntilDone(t, conn, ch, reloadFrom(&stubPersistence{}), 10*time.Millisecond)
	assert.Empty(t, conn.written)
}

func TestHealthyIdleClientKeptAliveThenReleasedOnChannelClose(t *testing.T) {
	conn := &fakeConn{deadFrom: -1}
	ch := make(chan *redis.Message)

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(ch)
	}()
	runSyncUntilDone(t, conn, ch, reloadFrom(&stubPersistence{}), 10*time.Millisecond)

	// au moins un ping est parti pendant l'attente
	assert.Greater(t, conn.pings, 0)
	assert.Empty(t, conn.written)
}

func TestCartMutationPushedToClient(t *testing.T) {
	conn := &fakeConn{deadFrom: -1}
	ch := make(chan *redis.Message, 2)
	persist := &stubPersistence{items: []models.CartItem{
		{ProductID: "p1", Title: "Workpaper", Price: 10, Quantity: 2},
	}}

	ch <- &redis.Message{Payload: "updated"}
	close(ch)
	runSyncUntilDone(t, conn, ch, reloadFrom(persist), time.Second)

	require.Len(t, conn.written, 1)
	payload, ok := conn.written[0].(gin.H)
	require.True(t, ok)
	assert.Equal(t, "cart_updated", payload["type"])
	assert.Equal(t, 20.0, payload["total"])
	assert.Equal(t, 2, payload["count"])
}

func TestUnknownPayloadIgnored(t *testing.T) {
	conn := &fakeConn{deadFrom: -1}
	ch := make(chan *redis.Message, 2)

	ch <- &redis.Message{Payload: "autre_chose"}
	close(ch)
	runSyncUntilDone(t, conn, ch, reloadFrom(&stubPersistence{}), time.Second)

	assert.Empty(t, conn.written)
}
