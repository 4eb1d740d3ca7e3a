package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SESSION_SECRET", "SESSION_TTL", "SESSION_STORE", "ES_URL", "ES_INDEX", "CORS_ORIGINS", "COOKIE_SECURE", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, SessionStoreDB, cfg.SessionStore)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.ES.Enabled())
	assert.Equal(t, "products", cfg.ES.Index)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "sqlite://ecommerce.db", cfg.DatabaseURL)
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ES_URL", "http://localhost:9200")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.ES.Enabled())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{SessionSecret: []byte("x"), SessionStore: SessionStoreDB}, false},
		{"no secret", Config{SessionStore: SessionStoreDB}, true},
		{"redis without addr", Config{SessionSecret: []byte("x"), SessionStore: SessionStoreRedis}, true},
		{"unknown store", Config{SessionSecret: []byte("x"), SessionStore: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QC_DOTENV_KEY=from-file\n"), 0o600))
	t.Setenv("QC_DOTENV_KEY", "")
	require.NoError(t, os.Unsetenv("QC_DOTENV_KEY"))

	LoadDotEnv(slog.New(slog.NewTextHandler(io.Discard, nil)), path)
	assert.Equal(t, "from-file", os.Getenv("QC_DOTENV_KEY"))

	LoadDotEnv(slog.New(slog.NewTextHandler(io.Discard, nil)), filepath.Join(t.TempDir(), "missing.env"))
}
