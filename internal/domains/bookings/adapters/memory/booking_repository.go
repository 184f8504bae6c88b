package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

// BookingRepository is an in-memory ports.BookingRepository used by tests and
// local runs. Versioned writes follow the same compare-and-bump contract as
// the postgres adapter.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

// NewBookingRepository creates an empty in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]*domain.Booking)}
}

func bookingKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// Create stores a new booking at version 1.
func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := booking.Clone()
	stored.Version = 1
	r.bookings[bookingKey(stored.TenantID, stored.ID)] = stored
	return stored.Clone(), nil
}

// GetByID returns the booking or ports.ErrBookingNotFound.
func (r *BookingRepository) GetByID(_ context.Context, tenantID, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[bookingKey(tenantID, id)]
	if !ok {
		return nil, ports.ErrBookingNotFound
	}
	return booking.Clone(), nil
}

// UpdateVersioned persists the booking only if the stored version still
// matches, then bumps it.
func (r *BookingRepository) UpdateVersioned(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bookingKey(booking.TenantID, booking.ID)
	current, ok := r.bookings[key]
	if !ok {
		return nil, ports.ErrBookingNotFound
	}
	if current.Version != booking.Version {
		return nil, ports.ErrVersionConflict
	}

	stored := booking.Clone()
	stored.Version = booking.Version + 1
	r.bookings[key] = stored
	return stored.Clone(), nil
}

// ListLapsedHolds returns held bookings whose expiry is at or before now,
// oldest expiry first. A non-positive limit means no limit.
func (r *BookingRepository) ListLapsedHolds(_ context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lapsed []*domain.Booking
	for _, booking := range r.bookings {
		if booking.HoldLapsed(now) {
			lapsed = append(lapsed, booking.Clone())
		}
	}
	sort.Slice(lapsed, func(i, j int) bool {
		return lapsed[i].HoldExpiresAt.Before(lapsed[j].HoldExpiresAt)
	})
	if limit > 0 && len(lapsed) > limit {
		lapsed = lapsed[:limit]
	}
	return lapsed, nil
}
