package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
)

type memStore struct {
	mu       sync.Mutex
	users    map[uint]models.User
	products map[uint]models.Product
	items    map[uint]models.CartItem
	sessions map[string]models.Session
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uint]models.User{},
		products: map[uint]models.Product{},
		items:    map[uint]models.CartItem{},
		sessions: map[string]models.Session{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(username, passwordHash string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: m.id(), Username: username, PasswordHash: passwordHash}
	m.users[u.ID] = u
	return u
}

func (m *memStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memStore) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetProductsByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) CreateProduct(_ context.Context, prod *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prod.ID = m.id()
	m.products[prod.ID] = *prod
	return nil
}

func (m *memStore) UpdateProduct(_ context.Context, prod *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[prod.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.products[prod.ID] = *prod
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.products, id)
	for k, it := range m.items {
		if it.ProductID == id {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memStore) SearchProducts(_ context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	all, _ := m.ListProducts(context.Background())
	q = strings.ToLower(q)
	hits := []models.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			hits = append(hits, p)
		}
	}
	total := int64(len(hits))
	if offset >= len(hits) {
		return total, []models.Product{}, nil
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return total, hits[offset:end], nil
}

func (m *memStore) CreateCartItem(_ context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.id()
	m.items[item.ID] = *item
	return nil
}

func (m *memStore) sortedItems(userID uint) []models.CartItem {
	out := []models.CartItem{}
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) FirstCartItem(_ context.Context, userID, productID uint) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.sortedItems(userID) {
		if it.ProductID == productID {
			return &it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) DeleteCartItem(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) ListCartItems(_ context.Context, userID uint) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedItems(userID), nil
}

func (m *memStore) DeleteCartItemsByUser(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, it := range m.items {
		if it.UserID == userID {
			delete(m.items, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *memStore) RevokeSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Revoked = true
	m.sessions[id] = s
	return nil
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	m, _ := event.(map[string]any)
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	indexed map[uint]models.Product
	deleted []uint
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uint]models.Product{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[p.ID] = *p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) SearchProducts(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	out := []models.Product{}
	for _, p := range f.indexed {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return int64(len(out)), out, nil
}

var errBoom = errors.New("boom")

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }
