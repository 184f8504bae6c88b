package bookings

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

// ExpireHoldActivityName expires a single lapsed hold.
const ExpireHoldActivityName = "bookings.activities.ExpireHold"

// ExpireHoldInput identifies the hold to expire.
type ExpireHoldInput struct {
	TenantID  string
	BookingID string
}

// Activities groups activities that operate on the bookings bounded context.
type Activities struct {
	service bookingports.Service
}

// NewActivities wires the booking service into the Temporal activities bundle.
func NewActivities(service bookingports.Service) *Activities {
	return &Activities{service: service}
}

// ExpireHold expires the hold and releases its capacity. A booking that
// already left held is a no-op, not an error: the sweep or a confirmation
// simply got there first.
func (a *Activities) ExpireHold(ctx context.Context, input ExpireHoldInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("hold expiry activity not initialized", "bookingId", input.BookingID)
		return errors.New("hold expiry activity not initialized")
	}
	logger.Info("ExpireHold activity started", "tenantId", input.TenantID, "bookingId", input.BookingID)
	_, err := a.service.ExpireHold(ctx, input.TenantID, input.BookingID)
	if err != nil {
		if errors.Is(err, bookingapp.ErrInvalidTransition) || errors.Is(err, bookingports.ErrBookingNotFound) {
			logger.Info("hold already resolved; skipping", "bookingId", input.BookingID)
			return nil
		}
		logger.Error("ExpireHold activity failed", "bookingId", input.BookingID, "error", err)
		return err
	}
	logger.Info("ExpireHold activity completed", "bookingId", input.BookingID)
	return nil
}
