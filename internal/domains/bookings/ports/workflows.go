package ports

import (
	"context"
	"time"
)

// HoldExpiryOrchestrator schedules the durable expiry of a single hold. The
// periodic sweep remains the safety net: a failed or missing schedule only
// delays expiry until the next sweep pass.
type HoldExpiryOrchestrator interface {
	ScheduleExpiry(ctx context.Context, tenantID, bookingID string, expiresAt time.Time) error
}
