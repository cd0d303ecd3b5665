package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LanguagePersistence abstrait le stockage de la préférence de langue
type LanguagePersistence interface {
	Load(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID string, code string) error
}

// BundleSwitcher est le sous-système i18n piloté par le store
type BundleSwitcher interface {
	SetLanguage(code string)
	Current() string
}

// LanguageStore : préférence de locale persistée. La valeur initiale est
// celle que rapporte le bundle au démarrage ; une préférence persistée
// la remplace si elle existe.
type LanguageStore struct {
	userID  string
	persist LanguagePersistence
	bundle  BundleSwitcher
}

func NewLanguageStore(ctx context.Context, userID string, persist LanguagePersistence, bundle BundleSwitcher) *LanguageStore {
	s := &LanguageStore{userID: userID, persist: persist, bundle: bundle}
	if code, err := persist.Load(ctx, userID); err == nil && code != "" {
		bundle.SetLanguage(code)
	}
	return s
}

// SetLanguage persiste le code et bascule le bundle de manière synchrone
// avant de retourner. Le code n'est pas validé — un code inconnu est
// transmis tel quel.
func (s *LanguageStore) SetLanguage(ctx context.Context, code string) error {
	if err := s.persist.Save(ctx, s.userID, code); err != nil {
		return err
	}
	s.bundle.SetLanguage(code)
	return nil
}

func (s *LanguageStore) Current() string {
	return s.bundle.Current()
}

// RedisLanguagePersistence stocke la préférence sous "lang:<userID>"
type RedisLanguagePersistence struct {
	client *redis.Client
}

func NewRedisLanguagePersistence(client *redis.Client) *RedisLanguagePersistence {
	return &RedisLanguagePersistence{client: client}
}

func (p *RedisLanguagePersistence) Load(ctx context.Context, userID string) (string, error) {
	code, err := p.client.Get(ctx, "lang:"+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

func (p *RedisLanguagePersistence) Save(ctx context.Context, userID string, code string) error {
	// pas d'expiration : la préférence survit aux sessions
	return p.client.Set(ctx, "lang:"+userID, code, time.Duration(0)).Err()
}
