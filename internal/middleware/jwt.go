package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/auth"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
	ctxAuth   = "auth_result"

	// LoginPath : cible de redirection pour un anonyme sur une route protégée
	LoginPath = "/login"
)

// resolveToken extrait et valide le Bearer token, sans jamais aborter.
// C'est le seul endroit qui décide entre authentifié / anonyme / erreur.
func resolveToken(c *gin.Context) auth.Result {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return auth.Anonymous()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return auth.Anonymous()
	}

	claims, err := utils.ParseJWT(parts[1])
	if err != nil {
		// token présent mais invalide : session expirée, pas une panne
		return auth.Anonymous()
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.Anonymous()
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return auth.Authenticated(&models.User{ID: userID, Email: email, Role: role})
}

func setAuthContext(c *gin.Context, result auth.Result) {
	c.Set(ctxAuth, result)
	if result.State == auth.StateAuthenticated {
		c.Set(ctxUserID, result.User.ID)
		c.Set(ctxEmail, result.User.Email)
		c.Set(ctxRole, result.User.Role)
	}
}

// AuthResult relit le résultat posé par les middlewares d'auth
func AuthResult(c *gin.Context) auth.Result {
	if v, exists := c.Get(ctxAuth); exists {
		if result, ok := v.(auth.Result); ok {
			return result
		}
	}
	return auth.Anonymous()
}

// AuthRequired exige une session valide : 401 + chemin de login sinon
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := resolveToken(c)
		if result.State != auth.StateAuthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Non authentifié",
				"redirect": LoginPath,
			})
			c.Abort()
			return
		}
		setAuthContext(c, result)
		c.Next()
	}
}

// OptionalAuth résout la session sans jamais bloquer : les pages qui se
// rendent proprement pour un anonyme lisent le Result au lieu de recevoir
// un 401
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuthContext(c, resolveToken(c))
		c.Next()
	}
}
