package application

import (
	"errors"
	"fmt"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
)

var (
	// ErrInvalidTransition signals the requested status change is not in the
	// table for the actor's role.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderLocked signals a mutation on an order past its editable states.
	ErrOrderLocked = errors.New("order is locked")
	// ErrValidation signals the request violated a domain invariant.
	ErrValidation = errors.New("invalid order input")
	// ErrConflict signals a concurrent modification; the caller should retry.
	ErrConflict = errors.New("order was modified concurrently")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrOrderLocked):
		return fmt.Errorf("%w: %w", ErrOrderLocked, err)
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownAdjustmentType),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}
