package ports

import (
	"context"

	bookingtypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

// Service exposes the booking capacity manager and departure administration.
type Service interface {
	CreateHold(ctx context.Context, act actor.Context, input bookingtypes.CreateHoldInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, act actor.Context, bookingID, reason string) (*domain.Booking, error)
	CheckInBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error)

	// ExpireHold expires one lapsed hold on behalf of the system. Drives the
	// held→expired edge; used by the durable per-hold timer.
	ExpireHold(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error)
	// ExpireDueHolds sweeps every lapsed hold, releasing capacity, and returns
	// how many were expired. Safe to run concurrently with itself.
	ExpireDueHolds(ctx context.Context) (int, error)

	CreateDeparture(ctx context.Context, act actor.Context, input bookingtypes.CreateDepartureInput) (*domain.Departure, error)
	GetDeparture(ctx context.Context, act actor.Context, departureID string) (*domain.Departure, error)
	TransitionDeparture(ctx context.Context, act actor.Context, departureID string, to domain.DepartureStatus) (*domain.Departure, error)
}
