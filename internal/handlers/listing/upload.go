package listing

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/services"
)

//
// 🟢 POST /api/vendor/listings/:id/file — fichier du workpaper numérique
//
func UploadWorkpaperFile(c *gin.Context) {
	vendorID, ok := approvedVendorID(c)
	if !ok {
		return
	}

	listingID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID annonce invalide"})
		return
	}

	l, ok := ownedListing(c, listingID, vendorID)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	key, err := services.UploadWorkpaper(ctx, header.Filename, file, header.Size,
		header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload fichier"})
		return
	}

	// l'ancien fichier devient orphelin, on le retire du bucket
	if l.FileKey != "" && l.FileKey != key {
		if err := services.RemoveObject(ctx, l.FileKey); err != nil {
			log.Printf("⚠️ Erreur suppression ancien fichier %s: %v", l.FileKey, err)
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE listings SET file_key = ?, is_digital = ?, updated_at = ?
		WHERE listing_id = ?`, key, true, now, listingID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour annonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "✅ Fichier uploadé avec succès",
		"file_key": key,
	})
}
