package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

func TestRouterForRole(t *testing.T) {
	assert.Equal(t, AdminPrefix, RouterForRole(models.RoleAdmin))
	assert.Equal(t, "/api", RouterForRole(models.RoleBuyer))
	assert.Equal(t, "/api", RouterForRole(models.RoleVendor))
	// anonyme et rôles inconnus voient l'arbre standard
	assert.Equal(t, "/api", RouterForRole(""))
	assert.Equal(t, "/api", RouterForRole("autre"))
}
