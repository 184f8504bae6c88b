package bookings

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	bookingactivities "github.com/loziogigio/vinc-pim-sub014/internal/platform/temporal/activities/bookings"
)

const (
	// HoldExpiryWorkflowName is the public identifier for registering the workflow.
	HoldExpiryWorkflowName = "bookings.workflows.HoldExpiry"
	// HoldExpiryTaskQueue is the queue consumed by the worker processing hold expiries.
	HoldExpiryTaskQueue = "HOLD_EXPIRY"
)

// HoldExpiryWorkflowInput identifies the hold and when it lapses.
type HoldExpiryWorkflowInput struct {
	TenantID  string
	BookingID string
	ExpiresAt time.Time
}

// HoldExpiryWorkflow sleeps until the hold's deadline, then expires it. A hold
// confirmed or cancelled in the meantime makes the expiry a no-op inside the
// activity, so firing late or twice is harmless.
func HoldExpiryWorkflow(ctx workflow.Context, input HoldExpiryWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("HoldExpiryWorkflow started",
		"tenantId", input.TenantID, "bookingId", input.BookingID, "expiresAt", input.ExpiresAt)

	if wait := input.ExpiresAt.Sub(workflow.Now(ctx)); wait > 0 {
		if err := workflow.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	activityInput := bookingactivities.ExpireHoldInput{
		TenantID:  input.TenantID,
		BookingID: input.BookingID,
	}
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		bookingactivities.ExpireHoldActivityName,
		activityInput,
	).Get(ctx, nil)
	if err != nil {
		logger.Error("HoldExpiryWorkflow failed", "bookingId", input.BookingID, "error", err)
		return err
	}
	logger.Info("HoldExpiryWorkflow completed", "bookingId", input.BookingID)
	return nil
}
