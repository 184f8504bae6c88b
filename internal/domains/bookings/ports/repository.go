package ports

import (
	"context"
	"errors"
	"time"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
)

var (
	// ErrBookingNotFound signals the booking does not resolve for the tenant.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDepartureNotFound signals the departure does not resolve for the tenant.
	ErrDepartureNotFound = errors.New("departure not found")
	// ErrVersionConflict signals a concurrent modification; callers retry.
	ErrVersionConflict = errors.New("version conflict")
)

// BookingRepository persists booking aggregates.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error)
	// UpdateVersioned saves the booking iff booking.Version matches the stored
	// version, bumping it; otherwise it returns ErrVersionConflict.
	UpdateVersioned(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// ListLapsedHolds returns held bookings whose TTL elapsed at or before now,
	// across all tenants, up to limit (0 means no limit).
	ListLapsedHolds(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
}

// DepartureRepository persists departure aggregates. UpdateVersioned is the
// atomic check-and-set underpinning capacity conservation: the application
// re-reads and retries on conflict, so two concurrent holds can never both
// win the same remaining units.
type DepartureRepository interface {
	Create(ctx context.Context, departure *domain.Departure) (*domain.Departure, error)
	GetByID(ctx context.Context, tenantID, departureID string) (*domain.Departure, error)
	UpdateVersioned(ctx context.Context, departure *domain.Departure) (*domain.Departure, error)
}
