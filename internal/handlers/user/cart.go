package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
)

// loadCart instancie le store panier de l'utilisateur courant
func loadCart(c *gin.Context) (*store.CartStore, bool) {
	userID := c.GetString("user_id")
	persist := store.NewRedisCartPersistence(database.Redis)

	cart, err := store.NewCartStore(c.Request.Context(), userID, persist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return nil, false
	}
	return cart, true
}

func cartResponse(cart *store.CartStore) gin.H {
	return gin.H{
		"items": cart.Items(),
		"total": cart.Total(),
		"count": cart.ItemsCount(),
	}
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	cart, ok := loadCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

//
// 🟢 POST /api/cart
//
func AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	productID, ok := parseUUID(c, input.ProductID)
	if !ok {
		return
	}

	// l'entrée panier fige titre, prix et aperçu au moment de l'ajout
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var title string
	var price float64
	var imageURLs []string
	err = session.Query(`SELECT title, price, image_urls FROM listings WHERE listing_id = ?`,
		productID).Scan(&title, &price, &imageURLs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	imageURL := ""
	if len(imageURLs) > 0 {
		imageURL = imageURLs[0]
	}

	cart, ok := loadCart(c)
	if !ok {
		return
	}

	item := models.CartItem{
		ProductID: input.ProductID,
		Title:     title,
		Price:     price,
		Quantity:  input.Quantity,
		ImageURL:  imageURL,
	}
	if err := cart.AddItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

//
// 🟡 PATCH /api/cart/:productId
//
func UpdateCartQuantity(c *gin.Context) {
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	cart, ok := loadCart(c)
	if !ok {
		return
	}

	if err := cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), input.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	cart, ok := loadCart(c)
	if !ok {
		return
	}

	if err := cart.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

//
// 🧹 DELETE /api/cart
//
func ClearCart(c *gin.Context) {
	cart, ok := loadCart(c)
	if !ok {
		return
	}

	if err := cart.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé", "items": []models.CartItem{}})
}
