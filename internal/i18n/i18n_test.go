package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "fr", Negotiate("fr-FR,fr;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Negotiate("en-US,en;q=0.5"))
	assert.Equal(t, "en", Negotiate("de-DE,de;q=0.9")) // non supporté
	assert.Equal(t, "en", Negotiate(""))
}

func TestLookupFallback(t *testing.T) {
	b := NewBundle("fr")
	assert.Equal(t, "Déconnecté", b.T("logout.success"))

	b.SetLanguage("xx")
	assert.Equal(t, "Logged out", b.T("logout.success"))
	assert.Equal(t, "cle.inconnue", b.T("cle.inconnue"))
}
