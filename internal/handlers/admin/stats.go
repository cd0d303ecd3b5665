package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

//
// 👮 GET /api/admin/stats — tableau de bord
//
func GetStats(c *gin.Context) {
	users, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	catalog, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	orders, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userCount int
	users.Query(`SELECT COUNT(*) FROM users`).Scan(&userCount)

	pendingVendors := 0
	approvedVendors := 0
	iter := users.Query(`SELECT status FROM vendor_profiles`).Iter()
	var status string
	for iter.Scan(&status) {
		switch status {
		case models.VendorPending:
			pendingVendors++
		case models.VendorApproved:
			approvedVendors++
		}
	}
	iter.Close()

	var listingCount int
	catalog.Query(`SELECT COUNT(*) FROM listings`).Scan(&listingCount)

	pendingComments := 0
	iter = catalog.Query(`SELECT status FROM comments`).Iter()
	for iter.Scan(&status) {
		if status == models.CommentPending {
			pendingComments++
		}
	}
	iter.Close()

	// chiffre d'affaires : commandes payées et au-delà
	orderCount := 0
	revenue := 0.0
	var amount float64
	iter = orders.Query(`SELECT amount_total, status FROM orders`).Iter()
	for iter.Scan(&amount, &status) {
		orderCount++
		if status != models.OrderCreated && status != models.OrderCancelled {
			revenue += amount
		}
	}
	iter.Close()

	c.JSON(http.StatusOK, gin.H{
		"users":            userCount,
		"vendors_approved": approvedVendors,
		"vendors_pending":  pendingVendors,
		"listings":         listingCount,
		"comments_pending": pendingComments,
		"orders":           orderCount,
		"revenue":          revenue,
	})
}
