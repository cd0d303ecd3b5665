package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

//
// 👮 GET /api/admin/comments/pending — file de modération
//
func ListPendingComments(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT comment_id, listing_id, user_id, user_name, rating, content,
		status, created_at FROM comments`).Iter()

	comments := []models.Comment{}
	var cm models.Comment
	for iter.Scan(&cm.ID, &cm.ListingID, &cm.UserID, &cm.UserName, &cm.Rating,
		&cm.Content, &cm.Status, &cm.CreatedAt) {
		if cm.Status == models.CommentPending {
			comments = append(comments, cm)
		}
		cm = models.Comment{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commentaires"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "total": len(comments)})
}

//
// 👮 POST /api/admin/comments/:id/approve
//
func ApproveComment(c *gin.Context) {
	moderateComment(c, models.CommentApproved, "")
}

//
// 👮 POST /api/admin/comments/:id/reject — motif optionnel
//
func RejectComment(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	moderateComment(c, models.CommentRejected, req.Reason)
}

func moderateComment(c *gin.Context, status, reason string) {
	commentID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commentaire invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var listingID gocql.UUID
	var current string
	if err := session.Query(`SELECT listing_id, status FROM comments WHERE comment_id = ?`,
		commentID).Scan(&listingID, &current); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commentaire introuvable"})
		return
	}

	if current != models.CommentPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Commentaire déjà modéré", "status": current})
		return
	}

	if err := session.Query(`UPDATE comments SET status = ?, reject_reason = ? WHERE comment_id = ?`,
		status, reason, commentID).Exec(); err != nil {
		log.Printf("❌ Erreur modération commentaire: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	if err := session.Query(`UPDATE comments_by_listing SET status = ?
		WHERE listing_id = ? AND comment_id = ?`, status, listingID, commentID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index comments_by_listing: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commentaire modéré", "status": status})
}
