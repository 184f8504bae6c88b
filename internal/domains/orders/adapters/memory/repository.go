package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store for development and tests. Versioned
// updates behave like the postgres adapter: a stale version is rejected.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

// NewRepository constructs an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func key(tenantID, orderID string) string { return tenantID + "/" + orderID }

// Create stores a fresh aggregate at version 1.
func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := order.Clone()
	clone.Version = 1
	r.orders[key(clone.TenantID, clone.ID)] = clone
	return clone.Clone(), nil
}

// GetByID fetches an order scoped to the tenant.
func (r *Repository) GetByID(_ context.Context, tenantID, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[key(tenantID, orderID)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

// UpdateVersioned saves the aggregate iff the caller's version matches the
// stored one, then bumps it.
func (r *Repository) UpdateVersioned(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[key(order.TenantID, order.ID)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	clone := order.Clone()
	clone.Version = stored.Version + 1
	r.orders[key(clone.TenantID, clone.ID)] = clone
	return clone.Clone(), nil
}

// FindCurrentDraft returns the customer's active cart, or nil when none.
func (r *Repository) FindCurrentDraft(_ context.Context, tenantID, customerID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.CustomerID == customerID &&
			order.IsCurrent && order.Status == domain.StatusDraft {
			return order.Clone(), nil
		}
	}
	return nil, nil
}
