package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// Fenêtre de fraîcheur : au-delà, relecture depuis ScyllaDB
const (
	UserCacheTTL    = 5 * time.Minute
	ListingCacheTTL = 10 * time.Minute
)

// GetUser lit un utilisateur depuis Redis, ScyllaDB en repli, et
// réalimente le cache
func GetUser(ctx context.Context, userID string) (*models.User, error) {
	key := "user:" + userID

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var user models.User
	user.ID = userID
	err = session.Query(`SELECT email, name, password, role, provider, avatar_url, language
		FROM users WHERE user_id = ?`, userID).Scan(
		&user.Email, &user.Name, &user.Password, &user.Role, &user.Provider, &user.AvatarURL, &user.Language)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, data, UserCacheTTL)
	}
	return &user, nil
}

// InvalidateUser purge le cache après une mutation de profil
func InvalidateUser(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "user:"+userID)
}

// InvalidateListings purge les listes mises en cache après une mutation
// du catalogue
func InvalidateListings(ctx context.Context) {
	database.Redis.Del(ctx, "listings:all", "categories:all")
}
