package ports

import (
	"context"
	"errors"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
)

var (
	// ErrNotFound signals the order does not resolve for the tenant.
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals a concurrent modification; callers retry.
	ErrVersionConflict = errors.New("order version conflict")
)

// Repository persists order aggregates, scoped to a tenant. UpdateVersioned is
// the only mutation path after creation: it writes the aggregate iff the stored
// version still matches, so concurrent edits on the same order serialize.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error)
	// UpdateVersioned saves the aggregate when order.Version matches the stored
	// version, bumping it by one; otherwise it returns ErrVersionConflict.
	UpdateVersioned(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// FindCurrentDraft returns the draft flagged is_current for the customer,
	// or nil when none exists.
	FindCurrentDraft(ctx context.Context, tenantID, customerID string) (*domain.Order, error)
}
