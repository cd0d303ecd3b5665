package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/i18n"
)

type fakeLanguagePersistence struct {
	data map[string]string
}

func (p *fakeLanguagePersistence) Load(_ context.Context, userID string) (string, error) {
	return p.data[userID], nil
}

func (p *fakeLanguagePersistence) Save(_ context.Context, userID, code string) error {
	p.data[userID] = code
	return nil
}

func TestLanguageStoreInitialFromBundle(t *testing.T) {
	persist := &fakeLanguagePersistence{data: map[string]string{}}
	bundle := i18n.NewBundle("en")

	s := NewLanguageStore(context.Background(), "u1", persist, bundle)
	assert.Equal(t, "en", s.Current())
}

func TestLanguageStoreInitialFromPersisted(t *testing.T) {
	persist := &fakeLanguagePersistence{data: map[string]string{"u1": "fr"}}
	bundle := i18n.NewBundle("en")

	s := NewLanguageStore(context.Background(), "u1", persist, bundle)
	assert.Equal(t, "fr", s.Current())
	assert.Equal(t, "Commande introuvable", bundle.T("order.not_found"))
}

func TestSetLanguageSwitchesBundleSynchronously(t *testing.T) {
	persist := &fakeLanguagePersistence{data: map[string]string{}}
	bundle := i18n.NewBundle("en")
	s := NewLanguageStore(context.Background(), "u1", persist, bundle)

	require.NoError(t, s.SetLanguage(context.Background(), "fr"))
	assert.Equal(t, "fr", s.Current())
	assert.Equal(t, "fr", persist.data["u1"])
}

func TestSetLanguageForwardsUnknownCode(t *testing.T) {
	persist := &fakeLanguagePersistence{data: map[string]string{}}
	bundle := i18n.NewBundle("en")
	s := NewLanguageStore(context.Background(), "u1", persist, bundle)

	// code inconnu transmis tel quel, lookup retombe sur l'anglais
	require.NoError(t, s.SetLanguage(context.Background(), "xx"))
	assert.Equal(t, "xx", s.Current())
	assert.Equal(t, "Order not found", bundle.T("order.not_found"))
}
