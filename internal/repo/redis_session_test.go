package repo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/internal/repo"
	jwthelp "github.com/Skotchmaster/quickcart/pkg/jwt"
)

func TestRedisSessionStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := repo.NewRedisSessionStore(client)
	store.Prefix = "test:session:"
	require.NoError(t, store.Ping(ctx))

	id := jwthelp.NewJTI()
	s := &models.Session{ID: id, UserID: 7, ExpiresAt: time.Now().Add(time.Minute).Unix()}
	require.NoError(t, store.CreateSession(ctx, s))

	got, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	ttl, err := client.TTL(ctx, "test:session:"+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.RevokeSession(ctx, id))
	_, err = store.GetSession(ctx, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, store.RevokeSession(ctx, id), gorm.ErrRecordNotFound)

	expired := &models.Session{ID: jwthelp.NewJTI(), UserID: 7, ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	assert.Error(t, store.CreateSession(ctx, expired))
}
