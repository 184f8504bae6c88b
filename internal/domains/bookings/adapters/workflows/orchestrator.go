package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	bookingworkflows "github.com/loziogigio/vinc-pim-sub014/internal/platform/temporal/workflows/bookings"
)

var (
	_ ports.HoldExpiryOrchestrator = (*TemporalHoldExpiry)(nil)
	_ ports.HoldExpiryOrchestrator = (*SweepOnlyHoldExpiry)(nil)
)

// TemporalHoldExpiry starts a durable per-hold expiry timer on a Temporal
// cluster. One workflow per booking; the deterministic workflow ID makes
// re-scheduling the same hold a no-op.
type TemporalHoldExpiry struct {
	client    client.Client
	taskQueue string
}

// NewTemporalHoldExpiry wires a Temporal client into the orchestrator.
func NewTemporalHoldExpiry(c client.Client) *TemporalHoldExpiry {
	return &TemporalHoldExpiry{client: c, taskQueue: bookingworkflows.HoldExpiryTaskQueue}
}

// ScheduleExpiry starts the expiry workflow for the booking. Scheduling the
// same hold twice resolves to the already-running execution.
func (o *TemporalHoldExpiry) ScheduleExpiry(ctx context.Context, tenantID, bookingID string, expiresAt time.Time) error {
	if o == nil || o.client == nil {
		return errors.New("temporal hold expiry not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("hold-expiry-%s-%s", tenantID, bookingID),
		TaskQueue: o.taskQueue,
	}
	input := bookingworkflows.HoldExpiryWorkflowInput{
		TenantID:  tenantID,
		BookingID: bookingID,
		ExpiresAt: expiresAt,
	}
	_, err := o.client.ExecuteWorkflow(ctx, options, bookingworkflows.HoldExpiryWorkflow, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// SweepOnlyHoldExpiry schedules nothing and leaves expiry to the periodic
// sweep, useful for tests or deployments without Temporal.
type SweepOnlyHoldExpiry struct{}

// NewSweepOnlyHoldExpiry returns the no-op orchestrator.
func NewSweepOnlyHoldExpiry() *SweepOnlyHoldExpiry {
	return &SweepOnlyHoldExpiry{}
}

// ScheduleExpiry is a no-op; the sweep expires the hold after its TTL.
func (o *SweepOnlyHoldExpiry) ScheduleExpiry(context.Context, string, string, time.Time) error {
	return nil
}
