package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/i18n"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
)

//
// 🌍 GET /api/language
//
func GetLanguage(c *gin.Context) {
	userID := c.GetString("user_id")
	bundle := i18n.NewBundle(i18n.Negotiate(c.GetHeader("Accept-Language")))

	// anonyme : pas de préférence persistée, la négociation suffit
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{"language": bundle.Current()})
		return
	}

	persist := store.NewRedisLanguagePersistence(database.Redis)
	s := store.NewLanguageStore(c.Request.Context(), userID, persist, bundle)
	c.JSON(http.StatusOK, gin.H{"language": s.Current()})
}

//
// 🌍 PUT /api/language
//
func SetLanguage(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	bundle := i18n.NewBundle(i18n.Negotiate(c.GetHeader("Accept-Language")))
	persist := store.NewRedisLanguagePersistence(database.Redis)
	s := store.NewLanguageStore(c.Request.Context(), userID, persist, bundle)

	// le code n'est pas validé : un code inconnu retombe sur l'anglais
	// au moment du lookup
	if err := s.SetLanguage(c.Request.Context(), input.Language); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde préférence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": s.Current()})
}
