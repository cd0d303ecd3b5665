package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/auth"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/cache"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/i18n"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/middleware"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

// bundleFor choisit la langue des notifications : préférence persistée
// de l'utilisateur, sinon négociation Accept-Language
func bundleFor(c *gin.Context, userID string) *i18n.Bundle {
	bundle := i18n.NewBundle(i18n.Negotiate(c.GetHeader("Accept-Language")))
	if userID != "" {
		persist := store.NewRedisLanguagePersistence(database.Redis)
		store.NewLanguageStore(c.Request.Context(), userID, persist, bundle)
	}
	return bundle
}

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// confirmPassword est validé côté formulaire et jamais transmis plus loin
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les mots de passe ne correspondent pas"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingID string
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`,
		input.Email).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleBuyer,
		Provider: "local",
	}
	now := time.Now()

	if err := session.Query(`INSERT INTO users (user_id, email, name, password, role, provider, avatar_url, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.Password, user.Role, user.Provider, "", "", now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// table d'index pour le login par email
	if err := session.Query(`INSERT INTO users_by_email (email, user_id, password, role)
		VALUES (?, ?, ?, ?)`,
		user.Email, user.ID, user.Password, user.Role).Exec(); err != nil {
		log.Printf("⚠️ Erreur index users_by_email: %v", err)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	bundle := bundleFor(c, "")
	c.JSON(http.StatusCreated, gin.H{
		"message": bundle.T("register.success"),
		"token":   token,
		"user":    user,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	bundle := bundleFor(c, "")

	var userID, hashed, role string
	err = session.Query(`SELECT user_id, password, role FROM users_by_email WHERE email = ?`,
		input.Email).Scan(&userID, &hashed, &role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": bundle.T("login.failed")})
		return
	}

	if ok, err := utils.VerifyPassword(input.Password, hashed); err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": bundle.T("login.failed")})
		return
	}

	user, err := cache.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": bundleFor(c, userID).T("login.success"),
		"token":   token,
		"user":    user,
	})
}

func Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	// le token est jeté côté client ; on purge juste le cache session
	cache.InvalidateUser(context.Background(), userID)
	c.JSON(http.StatusOK, gin.H{"message": bundleFor(c, userID).T("logout.success")})
}

// ================== SESSION ==================

// Me retourne l'utilisateur courant, ou null pour un anonyme — jamais de
// 401 ici, la page d'accueil doit se rendre proprement sans session
func Me(c *gin.Context) {
	result := middleware.AuthResult(c)

	switch result.State {
	case auth.StateAuthenticated:
		user, err := cache.GetUser(c.Request.Context(), result.User.ID)
		if err != nil {
			// session dont le compte a disparu : anonyme, pas une panne
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	case auth.StateError:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur résolution session"})
	default:
		c.JSON(http.StatusOK, gin.H{"user": nil})
	}
}

// UpdateProfile modifie nom et avatar de l'utilisateur connecté
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE users SET name = ?, avatar_url = ? WHERE user_id = ?`,
		input.Name, input.AvatarURL, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour"})
}

// helper partagé par les handlers du package
func parseUUID(c *gin.Context, raw string) (gocql.UUID, bool) {
	id, err := gocql.ParseUUID(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return gocql.UUID{}, false
	}
	return id, true
}
