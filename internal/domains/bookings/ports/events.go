package ports

import (
	"context"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
)

// Publisher emits booking domain events to downstream listeners.
// Fire-and-forget: delivery guarantees live outside the engine.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event)
}
