package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
)

const (
	loginMaxAttempts    = 5
	registerMaxAttempts = 3

	loginCooldown    = 15 * time.Minute
	registerCooldown = 30 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email
func LoginRateLimit() gin.HandlerFunc {
	return emailRateLimit("login", loginMaxAttempts, loginCooldown, http.StatusUnauthorized)
}

// RegisterRateLimit limite les créations de compte par email.
// L'email déjà pris (409) compte comme un échec au même titre que le 400.
func RegisterRateLimit() gin.HandlerFunc {
	return emailRateLimit("register", registerMaxAttempts, registerCooldown,
		http.StatusBadRequest, http.StatusConflict)
}

// emailRateLimit compte les échecs par email dans Redis et impose un
// cooldown après la limite ; une réussite remet le compteur à zéro.
// Le body est relu puis reposé pour le handler.
func emailRateLimit(action string, maxAttempts int, cooldown time.Duration, failureStatuses ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		attemptsKey := fmt.Sprintf("%s_attempts:%s", action, input.Email)
		cooldownKey := fmt.Sprintf("%s_cooldown:%s", action, input.Email)

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := database.Redis.Get(ctx, attemptsKey).Int()
		if attempts >= maxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", cooldown)
			database.Redis.Del(ctx, attemptsKey)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Bloqué pendant %d minutes", int(cooldown.Minutes())),
				"retry_after": int(cooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		switch classifyAttempt(c.Writer.Status(), failureStatuses) {
		case attemptFailed:
			database.Redis.Incr(ctx, attemptsKey)
			database.Redis.Expire(ctx, attemptsKey, cooldown)
		case attemptSucceeded:
			// réussite : les échecs passés ne comptent plus
			database.Redis.Del(ctx, attemptsKey)
			database.Redis.Del(ctx, cooldownKey)
		}
	}
}

type attemptOutcome int

const (
	attemptNeutral attemptOutcome = iota
	attemptFailed
	attemptSucceeded
)

// classifyAttempt décide du sort du compteur : échec comptabilisé,
// réussite qui le remet à zéro, ou statut neutre (erreur serveur,
// validation amont) qui ne touche à rien
func classifyAttempt(status int, failureStatuses []int) attemptOutcome {
	for _, failure := range failureStatuses {
		if status == failure {
			return attemptFailed
		}
	}
	if status == http.StatusOK {
		return attemptSucceeded
	}
	return attemptNeutral
}
