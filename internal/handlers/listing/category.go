package listing

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/cache"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

//
// 🔵 GET /api/categories
//
func GetAllCategories(c *gin.Context) {
	ctx := c.Request.Context()
	cacheKey := "categories:all"

	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT category_id, name, slug, description, created_at FROM categories`).Iter()

	cats := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt) {
		cats = append(cats, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	if data, err := json.Marshal(cats); err == nil {
		database.Redis.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, cats)
}

//
// 🟢 POST /api/admin/categories
//
func CreateCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cat.Name == "" || cat.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cat.ID = gocql.TimeUUID()
	now := time.Now()
	cat.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	cache.InvalidateListings(c.Request.Context())
	c.JSON(http.StatusCreated, cat)
}

//
// 🟡 PATCH /api/admin/categories/:id
//
func UpdateCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var cat models.Category
	if err := session.Query(`SELECT category_id, name, slug, description FROM categories WHERE category_id = ?`,
		categoryID).Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if input.Name != nil {
		cat.Name = *input.Name
	}
	if input.Slug != nil {
		cat.Slug = *input.Slug
	}
	if input.Description != nil {
		cat.Description = *input.Description
	}

	if err := session.Query(`UPDATE categories SET name = ?, slug = ?, description = ? WHERE category_id = ?`,
		cat.Name, cat.Slug, cat.Description, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	cache.InvalidateListings(c.Request.Context())
	c.JSON(http.StatusOK, cat)
}

//
// ❌ DELETE /api/admin/categories/:id
//
func DeleteCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	cache.InvalidateListings(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
