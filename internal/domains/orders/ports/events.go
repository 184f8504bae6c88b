package ports

import (
	"context"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
)

// Publisher emits order domain events to downstream listeners. Delivery is
// fire-and-forget; notification fan-out lives outside the engine.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event)
}
