package application

import (
	"errors"
	"fmt"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
)

var (
	// ErrInvalidTransition signals the requested status change is not in the
	// table for the actor's role, or lost the race to another transition.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrInsufficientCapacity signals the hold exceeds remaining capacity.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrHoldExpired signals a confirmation attempt on a lapsed hold.
	ErrHoldExpired = errors.New("hold expired")
	// ErrValidation signals the request violated a domain invariant.
	ErrValidation = errors.New("invalid booking input")
	// ErrConflict signals a concurrent modification that exhausted retries.
	ErrConflict = errors.New("concurrent modification, retry")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientCapacity):
		return fmt.Errorf("%w: %w", ErrInsufficientCapacity, err)
	case errors.Is(err, domain.ErrHoldExpired):
		return fmt.Errorf("%w: %w", ErrHoldExpired, err)
	case errors.Is(err, domain.ErrInvalidUnits),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrDepartureNotOpen):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}
