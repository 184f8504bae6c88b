// Package events provides the default order event publisher. Downstream
// notification delivery lives outside the engine; this adapter just makes the
// transitions observable.
package events

import (
	"context"
	"log/slog"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
)

var _ ports.Publisher = (*SlogPublisher)(nil)

// SlogPublisher logs each domain event as a structured record.
type SlogPublisher struct {
	logger *slog.Logger
}

// NewSlogPublisher wires the publisher; a nil logger falls back to the default.
func NewSlogPublisher(logger *slog.Logger) *SlogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogPublisher{logger: logger}
}

// Publish emits the event as a log record. Fire-and-forget: never errors.
func (p *SlogPublisher) Publish(ctx context.Context, event domain.Event) {
	p.logger.InfoContext(ctx, "order event",
		slog.String("event", event.EventName()),
		slog.Time("occurredAt", event.OccurredAt()),
		slog.Any("payload", event),
	)
}
