package i18n

import "strings"

// Bundle : jeu de libellés actifs pour les notifications utilisateur.
// Le code de langue n'est pas validé — un code inconnu retombe
// simplement sur l'anglais au moment du lookup.
type Bundle struct {
	current string
}

const DefaultLanguage = "en"

var messages = map[string]map[string]string{
	"en": {
		"login.success":     "Welcome back",
		"login.failed":      "Invalid email or password",
		"register.success":  "Account created",
		"register.failed":   "Registration failed",
		"logout.success":    "Logged out",
		"order.not_found":   "Order not found",
		"access.denied":     "Access denied",
		"vendor.approved":   "Your vendor application has been approved",
		"vendor.rejected":   "Your vendor application has been rejected",
		"comment.submitted": "Comment submitted for review",
	},
	"fr": {
		"login.success":     "Bon retour parmi nous",
		"login.failed":      "Email ou mot de passe incorrect",
		"register.success":  "Compte créé",
		"register.failed":   "Échec de l'inscription",
		"logout.success":    "Déconnecté",
		"order.not_found":   "Commande introuvable",
		"access.denied":     "Accès refusé",
		"vendor.approved":   "Votre candidature vendeur a été approuvée",
		"vendor.rejected":   "Votre candidature vendeur a été refusée",
		"comment.submitted": "Commentaire soumis pour modération",
	},
}

func NewBundle(language string) *Bundle {
	if language == "" {
		language = DefaultLanguage
	}
	return &Bundle{current: language}
}

// SetLanguage change la langue active, synchrone, sans validation
func (b *Bundle) SetLanguage(code string) {
	b.current = code
}

func (b *Bundle) Current() string {
	return b.current
}

// T retourne le libellé dans la langue active, anglais en secours,
// et la clé elle-même en dernier recours
func (b *Bundle) T(key string) string {
	if labels, ok := messages[b.current]; ok {
		if msg, ok := labels[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Negotiate extrait la première langue supportée d'un header
// Accept-Language, "en" par défaut
func Negotiate(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		code := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if len(code) >= 2 {
			code = strings.ToLower(code[:2])
			if _, ok := messages[code]; ok {
				return code
			}
		}
	}
	return DefaultLanguage
}
