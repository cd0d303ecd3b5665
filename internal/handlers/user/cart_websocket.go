package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// à restreindre en production
		return true
	},
}

const cartPingInterval = 30 * time.Second

// cartConn : le sous-ensemble de *websocket.Conn utilisé par la boucle
type cartConn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
}

// CartWebSocket pousse le panier à chaque mutation publiée sur Redis —
// un autre onglet qui ajoute un article est reflété ici immédiatement
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()
	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()

	conn.WriteJSON(gin.H{"type": "connected"})

	persist := store.NewRedisCartPersistence(database.Redis)
	reload := func() (*store.CartStore, error) {
		return store.NewCartStore(ctx, userID, persist)
	}

	runCartSync(conn, pubsub.Channel(), reload, cartPingInterval)
}

// runCartSync relaie les mutations du panier vers le client. Le ping
// périodique fait échouer l'écriture vers un client déconnecté en
// silence, ce qui libère la goroutine et l'abonnement Redis même si
// l'utilisateur ne touche plus jamais à son panier.
func runCartSync(conn cartConn, ch <-chan *redis.Message, reload func() (*store.CartStore, error), ping time.Duration) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			cart, err := reload()
			if err != nil {
				log.Printf("⚠️ Erreur relecture panier: %v", err)
				continue
			}

			if err := conn.WriteJSON(gin.H{
				"type":  "cart_updated",
				"items": cart.Items(),
				"total": cart.Total(),
				"count": cart.ItemsCount(),
			}); err != nil {
				// client parti, on arrête la boucle
				return
			}
		case <-time.After(ping):
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
