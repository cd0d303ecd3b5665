package listing

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/i18n"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

//
// 💬 POST /api/listings/:id/comments — part en file de modération
//
func CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Content string `json:"content" binding:"required,min=10,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	listingID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}

	catalog, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var exists gocql.UUID
	if err := catalog.Query(`SELECT listing_id FROM listings WHERE listing_id = ?`,
		listingID).Scan(&exists); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable"})
		return
	}

	if !hasPurchased(userID, listingID.String()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous devez avoir acheté ce workpaper pour laisser un commentaire"})
		return
	}

	users, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userName string
	if err := users.Query(`SELECT name FROM users WHERE user_id = ?`, userID).Scan(&userName); err != nil || userName == "" {
		userName = "Utilisateur"
	}

	comment := models.Comment{
		ID:        gocql.TimeUUID(),
		ListingID: listingID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Content:   req.Content,
		Status:    models.CommentPending,
		CreatedAt: time.Now(),
	}

	if err := catalog.Query(`INSERT INTO comments (comment_id, listing_id, user_id, user_name,
		rating, content, status, reject_reason, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.ListingID, comment.UserID, comment.UserName,
		comment.Rating, comment.Content, comment.Status, "", comment.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création commentaire: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commentaire"})
		return
	}

	// index par annonce pour l'affichage public
	if err := catalog.Query(`INSERT INTO comments_by_listing (listing_id, comment_id, user_id,
		user_name, rating, content, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.ListingID, comment.ID, comment.UserID, comment.UserName,
		comment.Rating, comment.Content, comment.Status, comment.CreatedAt).Exec(); err != nil {
		log.Printf("⚠️ Erreur index comments_by_listing: %v", err)
	}

	bundle := i18n.NewBundle(i18n.Negotiate(c.GetHeader("Accept-Language")))
	c.JSON(http.StatusCreated, gin.H{
		"message": bundle.T("comment.submitted"),
		"comment": comment,
	})
}

//
// 💬 GET /api/listings/:id/comments — commentaires approuvés uniquement
//
func GetListingComments(c *gin.Context) {
	listingID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT comment_id, user_id, user_name, rating, content, status, created_at
		FROM comments_by_listing WHERE listing_id = ?`, listingID).Iter()

	comments := []models.Comment{}
	var comment models.Comment
	totalRating := 0

	for iter.Scan(&comment.ID, &comment.UserID, &comment.UserName, &comment.Rating,
		&comment.Content, &comment.Status, &comment.CreatedAt) {
		if comment.Status != models.CommentApproved {
			continue
		}
		comment.ListingID = listingID
		comments = append(comments, comment)
		totalRating += comment.Rating
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commentaires"})
		return
	}

	averageRating := 0.0
	if len(comments) > 0 {
		averageRating = float64(totalRating) / float64(len(comments))
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":       comments,
		"total":          len(comments),
		"average_rating": averageRating,
	})
}

// hasPurchased parcourt les commandes payées de l'utilisateur à la
// recherche du produit
func hasPurchased(userID, listingID string) bool {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false
	}

	iter := session.Query(`SELECT items, status FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	var itemsJSON, status string
	purchased := false
	for iter.Scan(&itemsJSON, &status) {
		if status == models.OrderCreated || status == models.OrderCancelled {
			continue
		}
		if strings.Contains(itemsJSON, listingID) {
			purchased = true
			break
		}
	}
	iter.Close()
	return purchased
}
