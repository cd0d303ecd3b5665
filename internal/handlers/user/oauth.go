package user

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/config"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

// ================== AUTH SOCIALE (WEB) ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur callback OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification échouée"})
		return
	}

	// compte existant pour cet email ? sinon on le crée avec le rôle buyer
	user, err := findOrCreateSocialUser(gothUser.Email, gothUser.Name, gothUser.AvatarURL, provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	c.Redirect(http.StatusTemporaryRedirect,
		frontendURL+"/auth/callback?token="+url.QueryEscape(token))
}

// ================== AUTH SOCIALE (MOBILE) ==================

// ExchangeGoogleCode : les apps mobiles n'ont pas de session cookie,
// elles envoient directement le code d'autorisation Google
func ExchangeGoogleCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	ctx := c.Request.Context()
	oauthToken, err := config.GoogleOAuthConfig.Exchange(ctx, req.Code)
	if err != nil {
		log.Printf("❌ Erreur échange code Google: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code invalide ou expiré"})
		return
	}

	client := config.GoogleOAuthConfig.Client(ctx, oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur récupération profil Google"})
		return
	}
	defer resp.Body.Close()

	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Profil Google illisible"})
		return
	}

	user, err := findOrCreateSocialUser(info.Email, info.Name, info.Picture, "google")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func findOrCreateSocialUser(email, name, avatarURL, provider string) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := session.Query(`SELECT user_id, role FROM users_by_email WHERE email = ?`,
		email).Scan(&user.ID, &user.Role); err == nil {
		user.Email = email
		return user, nil
	}

	user = models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      models.RoleBuyer,
		Provider:  provider,
		AvatarURL: avatarURL,
	}
	now := time.Now()

	if err := session.Query(`INSERT INTO users (user_id, email, name, password, role, provider, avatar_url, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, "", user.Role, user.Provider, user.AvatarURL, "", now).Exec(); err != nil {
		return models.User{}, err
	}
	if err := session.Query(`INSERT INTO users_by_email (email, user_id, password, role)
		VALUES (?, ?, ?, ?)`, user.Email, user.ID, "", user.Role).Exec(); err != nil {
		log.Printf("⚠️ Erreur index users_by_email: %v", err)
	}
	return user, nil
}
