package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/pkg/logging"
)

// Repositories report missing rows with gorm.ErrRecordNotFound.

type ProductRepository interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	UpdateProduct(ctx context.Context, prod *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type CartItemRepository interface {
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	FirstCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id uint) error
	ListCartItems(ctx context.Context, userID uint) ([]models.CartItem, error)
	DeleteCartItemsByUser(ctx context.Context, userID uint) (int64, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string) error
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, from, size int) (int64, []models.Product, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const (
	TopicProducts = "product_events"
	TopicCart     = "cart_events"
	TopicUsers    = "user_events"
)

func Topics() []string {
	return []string{TopicUsers, TopicCart, TopicProducts}
}

func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
