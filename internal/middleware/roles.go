package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/auth"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// RequireRole protège une route par appartenance de rôle.
// Anonyme → 401 avec redirection login ; mauvais rôle → 403, sauf pour
// l'admin qui passe toujours. Évalué à chaque requête, jamais mis en cache.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := AuthResult(c)

		if result.State != auth.StateAuthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Non authentifié",
				"redirect": LoginPath,
			})
			c.Abort()
			return
		}

		if result.IsAdmin() {
			c.Next()
			return
		}

		for _, role := range roles {
			if result.Role() == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		c.Abort()
	}
}

// RequireAdmin : raccourci pour les routes d'administration
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// AdminRedirect renvoie un admin résolu vers l'accueil admin dès qu'il
// visite une page hors du préfixe admin. Jamais déclenché tant que la
// session n'est pas résolue, ni pour les autres rôles. Les préfixes
// exemptés (session, login, webhooks) restent accessibles à tous.
func AdminRedirect(adminPrefix, adminHome string, exempt ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range exempt {
			if hasPrefix(path, p) {
				c.Next()
				return
			}
		}

		result := AuthResult(c)
		if result.IsAdmin() && !hasPrefix(path, adminPrefix) {
			c.Redirect(http.StatusTemporaryRedirect, adminHome)
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}
