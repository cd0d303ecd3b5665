package user

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/services"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

// fetchOrder lit une commande et vérifie qu'elle appartient à
// l'utilisateur — une commande d'autrui est « introuvable », pas interdite
func fetchOrder(c *gin.Context, orderID gocql.UUID, userID string) (*models.Order, bool) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return nil, false
	}

	var order models.Order
	var itemsJSON string
	err = session.Query(`SELECT order_id, user_id, items, amount_total, status, stripe_id, created_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&order.ID, &order.UserID, &itemsJSON, &order.AmountTotal, &order.Status, &order.StripeID, &order.CreatedAt)
	if err != nil || order.UserID != userID {
		// fallback sûr : le front renvoie vers la liste des commandes
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable", "redirect": "/orders"})
		return nil, false
	}

	json.Unmarshal([]byte(itemsJSON), &order.Items)
	return &order, true
}

//
// 📦 GET /api/orders
//
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT order_id, items, amount_total, status, created_at
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	orders := []models.Order{}
	var order models.Order
	var itemsJSON string

	for iter.Scan(&order.ID, &itemsJSON, &order.AmountTotal, &order.Status, &order.CreatedAt) {
		order.UserID = userID
		json.Unmarshal([]byte(itemsJSON), &order.Items)
		orders = append(orders, order)
		order = models.Order{}
	}

	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 📦 GET /api/orders/:id
//
func GetOrderByID(c *gin.Context) {
	orderID, ok := parseUUID(c, c.Param("id"))
	if !ok {
		return
	}

	order, ok := fetchOrder(c, orderID, c.GetString("user_id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

//
// ✅ PATCH /api/orders/:id/confirm — l'acheteur confirme DELIVERED puis COMPLETED
//
func ConfirmOrderStatus(c *gin.Context) {
	orderID, ok := parseUUID(c, c.Param("id"))
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Status != models.OrderDelivered && input.Status != models.OrderCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seules les confirmations DELIVERED et COMPLETED sont permises ici"})
		return
	}

	userID := c.GetString("user_id")
	order, ok := fetchOrder(c, orderID, userID)
	if !ok {
		return
	}

	if !models.CanTransition(order.Status, input.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Transition de statut invalide",
			"status":  order.Status,
			"allowed": models.NextStatuses(order.Status),
		})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		input.Status, now, orderID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}
	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		input.Status, userID, order.CreatedAt, orderID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index orders_by_user: %v", err)
	}

	order.Status = input.Status
	order.UpdatedAt = &now
	c.JSON(http.StatusOK, order)
}

//
// 🔳 GET /api/orders/:id/qr — QR scanné à la livraison
//
func OrderQR(c *gin.Context) {
	orderID, ok := parseUUID(c, c.Param("id"))
	if !ok {
		return
	}

	if _, ok := fetchOrder(c, orderID, c.GetString("user_id")); !ok {
		return
	}

	png, err := utils.GenerateOrderQRPNG(orderID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

//
// ⬇️ GET /api/orders/:id/download/:productId — workpaper numérique acheté
//
func DownloadWorkpaper(c *gin.Context) {
	orderID, ok := parseUUID(c, c.Param("id"))
	if !ok {
		return
	}

	order, ok := fetchOrder(c, orderID, c.GetString("user_id"))
	if !ok {
		return
	}

	if order.Status == models.OrderCreated || order.Status == models.OrderCancelled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Commande non payée"})
		return
	}

	productID := c.Param("productId")
	purchased := false
	for _, item := range order.Items {
		if item.ProductID == productID {
			purchased = true
			break
		}
	}
	if !purchased {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent de la commande"})
		return
	}

	listingID, ok := parseUUID(c, productID)
	if !ok {
		return
	}

	catalog, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var fileKey string
	if err := catalog.Query(`SELECT file_key FROM listings WHERE listing_id = ?`,
		listingID).Scan(&fileKey); err != nil || fileKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fichier indisponible"})
		return
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), fileKey, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
