package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// un anonyme reçoit la langue négociée, sans jamais toucher à la
// persistance (il n'a pas de clé de préférence)
func TestGetLanguageAnonymousNegotiatesOnly(t *testing.T) {
	r := gin.New()
	r.GET("/language", GetLanguage)

	req := httptest.NewRequest(http.MethodGet, "/language", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"language":"fr"}`, w.Body.String())
}

func TestGetLanguageAnonymousUnknownFallsBackToEnglish(t *testing.T) {
	r := gin.New()
	r.GET("/language", GetLanguage)

	req := httptest.NewRequest(http.MethodGet, "/language", nil)
	req.Header.Set("Accept-Language", "de-DE")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"language":"en"}`, w.Body.String())
}
