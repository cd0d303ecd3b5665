package listing

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/cache"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/services"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
)

const pageSize = 20

// newArrivalWindow : fenêtre du filtre « nouveautés »
const newArrivalWindow = 30 * 24 * time.Hour

//
// 🛍️ GET /api/listings — page marketplace pilotée par la query string
//
func GetListings(c *gin.Context) {
	f := store.DecodeFilters(c.Request.URL.Query())

	var listings []models.Listing
	var err error

	if f.Search != "" {
		// recherche Elasticsearch, repli Scylla si l'index est vide
		listings, err = services.SearchListings(f.Search, f.MinPrice, f.MaxPrice, f.Sort)
		if err != nil || len(listings) == 0 {
			listings, err = loadActiveListings(c.Request.Context())
		}
	} else {
		listings, err = loadActiveListings(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture annonces"})
		return
	}

	listings = applyServerFilters(listings, f)

	// catégorie et freeOnly restent appliqués sur la liste chargée,
	// comportement existant conservé
	listings = f.ApplyLocal(listings)

	sortListings(listings, f.Sort)

	total := len(listings)
	start := (f.Page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings[start:end],
		"pagination": gin.H{
			"page":        f.Page,
			"limit":       pageSize,
			"total":       total,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
		// query string canonique à pousser dans l'historique du navigateur
		"query": f.QueryString(),
	})
}

// loadActiveListings lit le catalogue actif, via le cache Redis
func loadActiveListings(ctx context.Context) ([]models.Listing, error) {
	cacheKey := "listings:all"

	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Listing
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT listing_id, vendor_id, title, description, price, category_id,
		tags, image_urls, is_digital, is_featured, status, created_at FROM listings`).Iter()

	var listings []models.Listing
	var l models.Listing

	for iter.Scan(&l.ID, &l.VendorID, &l.Title, &l.Description, &l.Price, &l.CategoryID,
		&l.Tags, &l.ImageURLs, &l.IsDigital, &l.IsFeatured, &l.Status, &l.CreatedAt) {
		if l.Status == models.ListingActive {
			listings = append(listings, l)
		}
		l = models.Listing{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listings); err == nil {
		database.Redis.Set(ctx, cacheKey, data, cache.ListingCacheTTL)
	}
	return listings, nil
}

// applyServerFilters : les filtres poussés côté données (featured,
// nouveautés, vendeur(s), bornes de prix, tags)
func applyServerFilters(listings []models.Listing, f store.FilterParams) []models.Listing {
	cutoff := time.Now().Add(-newArrivalWindow)

	filtered := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Featured && !l.IsFeatured {
			continue
		}
		if f.NewArrivals && l.CreatedAt.Before(cutoff) {
			continue
		}
		if f.Vendor != "" && l.VendorID.String() != f.Vendor {
			continue
		}
		if len(f.Vendors) > 0 && !containsString(f.Vendors, l.VendorID.String()) {
			continue
		}
		if f.MinPrice > 0 && l.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && l.Price > f.MaxPrice {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(l.Tags, f.Tags) {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		if containsString(tags, w) {
			return true
		}
	}
	return false
}

func sortListings(listings []models.Listing, key string) {
	switch key {
	case store.SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	case store.SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].Price > listings[j].Price })
	case store.SortNewest:
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	}
}

//
// 🛍️ GET /api/listings/:id
//
func GetListingByID(c *gin.Context) {
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

	var l models.Listing
	err = session.Query(`SELECT listing_id, vendor_id, title, description, price, category_id,
		tags, image_urls, is_digital, is_featured, status, created_at
		FROM listings WHERE listing_id = ?`, listingID).Scan(
		&l.ID, &l.VendorID, &l.Title, &l.Description, &l.Price, &l.CategoryID,
		&l.Tags, &l.ImageURLs, &l.IsDigital, &l.IsFeatured, &l.Status, &l.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable"})
		return
	}

	c.JSON(http.StatusOK, l)
}

//
// 🟢 POST /api/vendor/listings — réservé aux vendeurs approuvés
//
func CreateListing(c *gin.Context) {
	vendorID, ok := approvedVendorID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		CategoryID  string   `json:"category_id" binding:"required"`
		Tags        []string `json:"tags"`
		ImageURLs   []string `json:"image_urls"`
		IsDigital   bool     `json:"is_digital"`
		FileKey     string   `json:"file_key"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryID, err := gocql.ParseUUID(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`,
		categoryID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	l := models.Listing{
		ID:          gocql.TimeUUID(),
		VendorID:    vendorID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  categoryID,
		Tags:        input.Tags,
		ImageURLs:   input.ImageURLs,
		FileKey:     input.FileKey,
		IsDigital:   input.IsDigital,
		Status:      models.ListingActive,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`INSERT INTO listings (listing_id, vendor_id, title, description, price,
		category_id, tags, image_urls, file_key, is_digital, is_featured, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.VendorID, l.Title, l.Description, l.Price, l.CategoryID, l.Tags,
		l.ImageURLs, l.FileKey, l.IsDigital, l.IsFeatured, l.Status, l.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création annonce: " + err.Error()})
		return
	}

	cache.InvalidateListings(c.Request.Context())
	go services.IndexListing(l)

	c.JSON(http.StatusCreated, l)
}

//
// 🟡 PATCH /api/vendor/listings/:id
//
func UpdateListing(c *gin.Context) {
	isAdmin := c.GetString("role") == models.RoleAdmin

	// l'admin modère sans profil vendeur
	var vendorID gocql.UUID
	if !isAdmin {
		var ok bool
		vendorID, ok = approvedVendorID(c)
		if !ok {
			return
		}
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

	var input struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Tags        []string `json:"tags"`
		ImageURLs   []string `json:"image_urls"`
		Status      *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		l.Title = *input.Title
	}
	if input.Description != nil {
		l.Description = *input.Description
	}
	if input.Price != nil {
		l.Price = *input.Price
	}
	if input.Tags != nil {
		l.Tags = input.Tags
	}
	if input.ImageURLs != nil {
		l.ImageURLs = input.ImageURLs
	}
	// seul l'admin change le statut de publication
	if input.Status != nil && isAdmin {
		l.Status = *input.Status
	}
	now := time.Now()
	l.UpdatedAt = &now

	session, _ := database.GetCatalogSession()
	if err := session.Query(`UPDATE listings SET title = ?, description = ?, price = ?, tags = ?,
		image_urls = ?, status = ?, updated_at = ? WHERE listing_id = ?`,
		l.Title, l.Description, l.Price, l.Tags, l.ImageURLs, l.Status, now, l.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour annonce"})
		return
	}

	cache.InvalidateListings(c.Request.Context())
	go services.IndexListing(*l)

	c.JSON(http.StatusOK, l)
}

//
// ❌ DELETE /api/vendor/listings/:id
//
func DeleteListing(c *gin.Context) {
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

	session, _ := database.GetCatalogSession()
	if err := session.Query(`DELETE FROM listings WHERE listing_id = ?`, listingID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression annonce"})
		return
	}

	if l.FileKey != "" {
		if err := services.RemoveObject(c.Request.Context(), l.FileKey); err != nil {
			log.Printf("⚠️ Erreur suppression fichier MinIO %s: %v", l.FileKey, err)
		}
	}

	cache.InvalidateListings(c.Request.Context())
	go services.RemoveListing(listingID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Annonce supprimée"})
}

// ownedListing charge une annonce et vérifie qu'elle appartient au vendeur
func ownedListing(c *gin.Context, listingID, vendorID gocql.UUID) (*models.Listing, bool) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return nil, false
	}

	var l models.Listing
	err = session.Query(`SELECT listing_id, vendor_id, title, description, price, category_id,
		tags, image_urls, file_key, is_digital, is_featured, status, created_at
		FROM listings WHERE listing_id = ?`, listingID).Scan(
		&l.ID, &l.VendorID, &l.Title, &l.Description, &l.Price, &l.CategoryID,
		&l.Tags, &l.ImageURLs, &l.FileKey, &l.IsDigital, &l.IsFeatured, &l.Status, &l.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable"})
		return nil, false
	}

	// l'admin peut modérer n'importe quelle annonce
	if l.VendorID != vendorID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette annonce ne vous appartient pas"})
		return nil, false
	}
	return &l, true
}

// approvedVendorID résout le profil vendeur approuvé de l'utilisateur
// courant (l'admin passe avec le profil du vendeur ciblé absent : refusé)
func approvedVendorID(c *gin.Context) (gocql.UUID, bool) {
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return gocql.UUID{}, false
	}

	var vendorID gocql.UUID
	var status string
	err = session.Query(`SELECT vendor_id, status FROM vendor_profiles_by_user WHERE user_id = ?`,
		userID).Scan(&vendorID, &status)
	if err != nil || status != models.VendorApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Profil vendeur non approuvé"})
		return gocql.UUID{}, false
	}
	return vendorID, true
}
