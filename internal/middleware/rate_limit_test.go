package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginFailureCounted(t *testing.T) {
	failures := []int{http.StatusUnauthorized}
	assert.Equal(t, attemptFailed, classifyAttempt(http.StatusUnauthorized, failures))
}

func TestSuccessResetsCounter(t *testing.T) {
	failures := []int{http.StatusUnauthorized}
	assert.Equal(t, attemptSucceeded, classifyAttempt(http.StatusOK, failures))
}

func TestRegisterDuplicateEmailCounted(t *testing.T) {
	// l'email déjà pris (409) compte comme tentative au même titre que le 400
	failures := []int{http.StatusBadRequest, http.StatusConflict}
	assert.Equal(t, attemptFailed, classifyAttempt(http.StatusConflict, failures))
	assert.Equal(t, attemptFailed, classifyAttempt(http.StatusBadRequest, failures))
}

func TestServerErrorNeutral(t *testing.T) {
	failures := []int{http.StatusUnauthorized}
	assert.Equal(t, attemptNeutral, classifyAttempt(http.StatusInternalServerError, failures))
	assert.Equal(t, attemptNeutral, classifyAttempt(http.StatusTooManyRequests, failures))
}
