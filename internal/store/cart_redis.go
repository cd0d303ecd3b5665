package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

// RedisCartPersistence stocke le panier en JSON sous "cart:<userID>" et
// publie sur le canal du même nom pour la synchro WebSocket
type RedisCartPersistence struct {
	client *redis.Client
}

func NewRedisCartPersistence(client *redis.Client) *RedisCartPersistence {
	return &RedisCartPersistence{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (p *RedisCartPersistence) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := p.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return nil, nil // panier vide
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *RedisCartPersistence) Save(ctx context.Context, userID string, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return err
	}
	p.client.Publish(ctx, cartKey(userID), "updated")
	return nil
}

func (p *RedisCartPersistence) Delete(ctx context.Context, userID string) error {
	if err := p.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return err
	}
	p.client.Publish(ctx, cartKey(userID), "cleared")
	return nil
}
