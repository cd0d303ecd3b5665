package models

// Rôles échangés avec le front — l'admin contourne tous les contrôles de rôle
const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      string `json:"role,omitempty"`
	Provider  string `json:"provider,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Language  string `json:"language,omitempty"`
}

// IsValidRole vérifie qu'un rôle fait partie de l'énumération connue
func IsValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}
