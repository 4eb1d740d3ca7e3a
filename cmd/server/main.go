package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/quickcart/internal/config"
	"github.com/Skotchmaster/quickcart/internal/es"
	"github.com/Skotchmaster/quickcart/internal/httpserver"
	authmw "github.com/Skotchmaster/quickcart/internal/middleware/auth"
	"github.com/Skotchmaster/quickcart/internal/mykafka"
	"github.com/Skotchmaster/quickcart/internal/repo"
	"github.com/Skotchmaster/quickcart/internal/seed"
	"github.com/Skotchmaster/quickcart/internal/service"
	pkgconfig "github.com/Skotchmaster/quickcart/pkg/config"
	pkgdb "github.com/Skotchmaster/quickcart/pkg/db"
	"github.com/Skotchmaster/quickcart/pkg/logging"
	"github.com/Skotchmaster/quickcart/pkg/metrics"
)

func main() {
	config.LoadDotEnv(slog.Default())
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, cfg.DatabaseDriver)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	if cfg.SeedUsersFile != "" {
		n, err := seed.FromFile(context.Background(), gormRepo, cfg.SeedUsersFile, logger)
		if err != nil {
			log.Fatalf("seed users: %v", err)
		}
		logger.Info("seed_users_done", "created", n, "file", cfg.SeedUsersFile)
	}

	var (
		sessions    service.SessionStore = gormRepo
		redisClient *redis.Client
	)
	if cfg.SessionStore == config.SessionStoreRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := repo.NewRedisSessionStore(redisClient)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := store.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		sessions = store
		logger.Info("session_store", "kind", "redis", "addr", cfg.RedisAddr)
	}

	producer, err := mykafka.NewProducer(cfg.KafkaBrokers, service.Topics())
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	if !producer.Enabled() {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	productSvc := &service.ProductService{Repo: gormRepo, Events: producer}
	if cfg.ES.Enabled() {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := es.NewClient(esCtx, cfg.ES, logger)
		esCancel()
		if err != nil {
			logger.Warn("es_unavailable", "reason", "falling back to database search", "error", err)
		} else {
			productSvc.Index = es.NewProductIndex(client, cfg.ES.Index)
		}
	}

	authSvc := &service.AuthService{
		Users:    gormRepo,
		Sessions: sessions,
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		Events:   producer,
	}
	cartSvc := &service.CartService{Users: gormRepo, Products: gormRepo, Items: gormRepo, Events: producer}

	m := metrics.NewServerMetrics(cfg.ServiceName)
	e := httpserver.NewEcho(logger, m, cfg.CORSOrigins)

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: productSvc},
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		Session:        &authmw.SessionMiddleware{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		Metrics:        m,
		Ready: func(ctx context.Context) error {
			if err := pkgdb.Ping(ctx, db); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Ping(ctx).Err()
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
