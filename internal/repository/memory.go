package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pesanmeja/api/internal/domain"
)

// MemoryOrderRepository is an in-process order store used in development mode
// and tests. Snapshots in and out are cloned so callers never share state
// with the store.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

var _ domain.OrderRepository = (*MemoryOrderRepository)(nil)

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *MemoryOrderRepository) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

// MemoryMenuCatalog serves a fixed menu from memory.
type MemoryMenuCatalog struct {
	items []domain.MenuItem
	byID  map[uuid.UUID]domain.MenuItem
}

var _ domain.MenuCatalog = (*MemoryMenuCatalog)(nil)

func NewMemoryMenuCatalog(items []domain.MenuItem) *MemoryMenuCatalog {
	byID := make(map[uuid.UUID]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &MemoryMenuCatalog{items: items, byID: byID}
}

func (c *MemoryMenuCatalog) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	out := make([]domain.MenuItem, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *MemoryMenuCatalog) GetMenuItem(_ context.Context, id uuid.UUID) (domain.MenuItem, error) {
	item, ok := c.byID[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return item, nil
}
