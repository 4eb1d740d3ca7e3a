package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
)

type CartService struct {
	Users    UserRepository
	Products ProductRepository
	Items    CartItemRepository
	Events   EventPublisher
}

// AddToCart always inserts a new row; the same product added twice is two units.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", ErrCartFailure, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d not found", ErrCartFailure, productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID}
	if err := s.Items.CreateCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFailure, err)
	}

	publish(ctx, s.Events, TopicCart, fmt.Sprint(userID), map[string]any{
		"type":         "cart_item_added",
		"user_id":      userID,
		"product_id":   productID,
		"cart_item_id": item.ID,
	})
	return item, nil
}

// RemoveFromCart drops one unit of productID: the oldest matching row.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	item, err := s.Items.FirstCartItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d is not in the cart", ErrCartFailure, productID)
		}
		return fmt.Errorf("find cart item: %w", err)
	}
	if err := s.Items.DeleteCartItem(ctx, item.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item %d already removed", ErrCartFailure, item.ID)
		}
		return fmt.Errorf("delete cart item: %w", err)
	}

	publish(ctx, s.Events, TopicCart, fmt.Sprint(userID), map[string]any{
		"type":         "cart_item_removed",
		"user_id":      userID,
		"product_id":   productID,
		"cart_item_id": item.ID,
	})
	return nil
}

// ViewCart lists every row the user owns, joined with product name and price.
// Rows whose product no longer exists are skipped.
func (s *CartService) ViewCart(ctx context.Context, userID uint) ([]models.CartRow, error) {
	items, err := s.Items.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	products, err := s.Products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	rows := make([]models.CartRow, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		rows = append(rows, models.CartRow{
			ID:           it.ID,
			UserID:       it.UserID,
			ProductID:    it.ProductID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
		})
	}
	return rows, nil
}

// Checkout empties the user's cart in one statement and reports how many rows went away.
func (s *CartService) Checkout(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Items.DeleteCartItemsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("checkout: %w", err)
	}

	publish(ctx, s.Events, TopicCart, fmt.Sprint(userID), map[string]any{
		"type":    "cart_checked_out",
		"user_id": userID,
		"removed": n,
	})
	return n, nil
}
