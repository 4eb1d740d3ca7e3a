package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/quickcart/internal/es"
	pkgconfig "github.com/Skotchmaster/quickcart/pkg/config"
)

const (
	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

type Config struct {
	pkgconfig.Config

	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool
	SessionStore  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ES es.Config

	SeedUsersFile string
	CORSOrigins   []string
}

// LoadDotEnv reads .env into the process environment. A missing file only produces a notice.
func LoadDotEnv(log *slog.Logger, filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	if err := godotenv.Load(filenames...); err != nil {
		log.Info("dotenv_not_loaded", "files", filenames, "error", err)
	}
}

func Load() *Config {
	cfg := &Config{
		Config: pkgconfig.Load(),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    pkgconfig.EnvDurationDefault("SESSION_TTL", 24*time.Hour),
		CookieSecure:  pkgconfig.EnvBoolDefault("COOKIE_SECURE", false),
		SessionStore:  pkgconfig.EnvDefault("SESSION_STORE", SessionStoreDB),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       pkgconfig.EnvIntDefault("REDIS_DB", 0),

		ES: es.Config{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    pkgconfig.EnvDefault("ES_INDEX", es.DefaultIndex),
		},

		SeedUsersFile: os.Getenv("SEED_USERS_FILE"),
		CORSOrigins:   pkgconfig.CSV(pkgconfig.EnvDefault("CORS_ORIGINS", "*")),
	}
	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.SessionSecret) == 0 {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	switch c.SessionStore {
	case SessionStoreDB:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreDB, SessionStoreRedis, c.SessionStore))
	}
	return errors.Join(errs...)
}
