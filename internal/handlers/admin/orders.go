package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

//
// 👮 GET /api/admin/orders — toutes les commandes, filtre ?status= optionnel
//
func ListOrders(c *gin.Context) {
	statusFilter := c.Query("status")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, user_id, items, amount_total, status, stripe_id,
		created_at FROM orders`).Iter()

	orders := []models.Order{}
	var order models.Order
	var itemsJSON string

	for iter.Scan(&order.ID, &order.UserID, &itemsJSON, &order.AmountTotal,
		&order.Status, &order.StripeID, &order.CreatedAt) {
		if statusFilter == "" || order.Status == statusFilter {
			json.Unmarshal([]byte(itemsJSON), &order.Items)
			orders = append(orders, order)
		}
		order = models.Order{}
	}

	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

//
// 👮 PATCH /api/admin/orders/:id/status — expédition, livraison, annulation
//
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID, current string
	var createdAt time.Time
	if err := session.Query(`SELECT user_id, status, created_at FROM orders WHERE order_id = ?`,
		orderID).Scan(&userID, &current, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !models.CanTransition(current, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Transition de statut non autorisée",
			"current": current,
			"allowed": models.NextStatuses(current),
		})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		req.Status, now, orderID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}
	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		req.Status, userID, createdAt, orderID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index orders_by_user: %v", err)
	}

	log.Printf("🟢 Commande %s: %s → %s", orderID, current, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": req.Status})
}
