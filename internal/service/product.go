package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/internal/util"
	"github.com/Skotchmaster/quickcart/pkg/logging"
)

// ProductFields carries the optional fields of a create or update request.
// A nil pointer means the field was absent from the request.
type ProductFields struct {
	Name        *string
	Price       *float64
	Description *string
}

type ProductService struct {
	Repo   ProductRepository
	Index  ProductIndex
	Events EventPublisher
}

// Add only checks that name and price are present. Values are stored as sent.
func (s *ProductService) Add(ctx context.Context, f ProductFields) (*models.Product, error) {
	if f.Name == nil || f.Price == nil {
		return nil, fmt.Errorf("%w: name and price are required", ErrValidation)
	}

	prod := &models.Product{
		Name:  *f.Name,
		Price: *f.Price,
	}
	if f.Description != nil {
		prod.Description = *f.Description
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, prod)
	publish(ctx, s.Events, TopicProducts, fmt.Sprint(prod.ID), map[string]any{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
		"price":      prod.Price,
	})
	return prod, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return prod, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, f ProductFields) (*models.Product, error) {
	prod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.Name != nil {
		prod.Name = *f.Name
	}
	if f.Price != nil {
		prod.Price = *f.Price
	}
	if f.Description != nil {
		prod.Description = *f.Description
	}

	if err := s.Repo.UpdateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.index(ctx, prod)
	publish(ctx, s.Events, TopicProducts, fmt.Sprint(prod.ID), map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
		"price":      prod.Price,
	})
	return prod, nil
}

// Delete removes the product and every cart row that points at it.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicProducts, fmt.Sprint(id), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

type SearchPage struct {
	Total    int64
	Page     int
	Size     int
	Products []models.Product
}

// Search asks the search index first and falls back to the database when the index
// is not configured or fails.
func (s *ProductService) Search(ctx context.Context, q string, page, size int) (*SearchPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	page, size, offset := util.Calculate(page, size)

	if s.Index != nil {
		total, items, err := s.Index.SearchProducts(ctx, q, offset, size)
		if err == nil {
			return &SearchPage{Total: total, Page: page, Size: size, Products: items}, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "query", q, "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, size)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return &SearchPage{Total: total, Page: page, Size: size, Products: items}, nil
}

func (s *ProductService) index(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
	}
}
