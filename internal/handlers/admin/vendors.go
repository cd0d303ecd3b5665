package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/cache"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

//
// 👮 GET /api/admin/vendors — toutes les candidatures, filtre ?status= optionnel
//
func ListVendors(c *gin.Context) {
	statusFilter := c.Query("status")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT vendor_id, user_id, company_name, description, logo_url,
		status, reject_reason, created_at FROM vendor_profiles`).Iter()

	profiles := []models.VendorProfile{}
	var p models.VendorProfile
	for iter.Scan(&p.ID, &p.UserID, &p.CompanyName, &p.Description, &p.LogoURL,
		&p.Status, &p.RejectReason, &p.CreatedAt) {
		if statusFilter == "" || p.Status == statusFilter {
			profiles = append(profiles, p)
		}
		p = models.VendorProfile{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture candidatures"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": profiles, "total": len(profiles)})
}

//
// 👮 POST /api/admin/vendors/:id/approve — promeut aussi le compte en rôle vendor
//
func ApproveVendor(c *gin.Context) {
	profile, session, ok := pendingVendor(c)
	if !ok {
		return
	}

	now := time.Now()
	if err := updateVendorStatus(session, profile, models.VendorApproved, "", now); err != nil {
		log.Printf("❌ Erreur approbation vendeur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	// promotion du compte acheteur en vendeur
	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`,
		models.RoleVendor, profile.UserID).Exec(); err != nil {
		log.Printf("⚠️ Erreur promotion rôle vendeur (%s): %v", profile.UserID, err)
	}
	cache.InvalidateUser(c.Request.Context(), profile.UserID)

	go notifyVendor(session, profile, true, "")

	log.Printf("✅ Vendeur approuvé: %s", profile.CompanyName)
	c.JSON(http.StatusOK, gin.H{"message": "Vendeur approuvé", "vendor_id": profile.ID})
}

//
// 👮 POST /api/admin/vendors/:id/reject — motif optionnel
//
func RejectVendor(c *gin.Context) {
	profile, session, ok := pendingVendor(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// corps facultatif
	_ = c.ShouldBindJSON(&req)

	now := time.Now()
	if err := updateVendorStatus(session, profile, models.VendorRejected, req.Reason, now); err != nil {
		log.Printf("❌ Erreur refus vendeur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	go notifyVendor(session, profile, false, req.Reason)

	c.JSON(http.StatusOK, gin.H{"message": "Candidature refusée", "vendor_id": profile.ID})
}

// pendingVendor charge une candidature encore en attente, 404/409 sinon
func pendingVendor(c *gin.Context) (models.VendorProfile, *gocql.Session, bool) {
	var profile models.VendorProfile

	vendorID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID vendeur invalide"})
		return profile, nil, false
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return profile, nil, false
	}

	if err := session.Query(`SELECT vendor_id, user_id, company_name, description, logo_url,
		status, created_at FROM vendor_profiles WHERE vendor_id = ?`, vendorID).
		Scan(&profile.ID, &profile.UserID, &profile.CompanyName, &profile.Description,
			&profile.LogoURL, &profile.Status, &profile.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidature introuvable"})
		return profile, nil, false
	}

	if profile.Status != models.VendorPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Candidature déjà traitée", "status": profile.Status})
		return profile, nil, false
	}

	return profile, session, true
}

func updateVendorStatus(session *gocql.Session, profile models.VendorProfile, status, reason string, now time.Time) error {
	if err := session.Query(`UPDATE vendor_profiles SET status = ?, reject_reason = ?, updated_at = ?
		WHERE vendor_id = ?`, status, reason, now, profile.ID).Exec(); err != nil {
		return err
	}
	return session.Query(`UPDATE vendor_profiles_by_user SET status = ?, reject_reason = ?
		WHERE user_id = ?`, status, reason, profile.UserID).Exec()
}

// notifyVendor envoie la décision par email, best effort
func notifyVendor(session *gocql.Session, profile models.VendorProfile, approved bool, reason string) {
	var email string
	if err := session.Query(`SELECT email FROM users WHERE user_id = ?`,
		profile.UserID).Scan(&email); err != nil || email == "" {
		return
	}

	subject := "Votre candidature vendeur a été approuvée 🎉"
	if !approved {
		subject = "Votre candidature vendeur"
	}
	if err := utils.SendEmail(email, subject,
		utils.VendorDecisionHTML(profile.CompanyName, approved, reason), nil); err != nil {
		log.Printf("⚠️ Erreur envoi email vendeur: %v", err)
	}
}
