package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
)

// RedisSessionStore keeps sessions as JSON values that expire together with the session.
// Revoking deletes the key. Lookups of unknown keys return gorm.ErrRecordNotFound so callers
// treat both stores the same way.
type RedisSessionStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client, Prefix: "session:"}
}

func (s *RedisSessionStore) key(id string) string {
	return s.Prefix + id
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, sess *models.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	ttl := time.Until(time.Unix(sess.ExpiresAt, 0))
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) RevokeSession(ctx context.Context, id string) error {
	n, err := s.Client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
