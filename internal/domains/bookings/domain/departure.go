package domain

import (
	"errors"
	"time"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/transition"
)

// DepartureStatus enumerates the departure lifecycle.
type DepartureStatus = transition.State

const (
	DepartureDraft     DepartureStatus = "draft"
	DepartureActive    DepartureStatus = "active"
	DepartureClosed    DepartureStatus = "closed"
	DepartureCancelled DepartureStatus = "cancelled"
	DepartureCompleted DepartureStatus = "completed"
)

// DepartureTransitions keeps departure management admin-only: every edge has
// an empty role set, so only the admin override passes.
var DepartureTransitions = transition.Table{
	DepartureDraft: {
		DepartureActive:    {},
		DepartureCancelled: {},
	},
	DepartureActive: {
		DepartureClosed:    {},
		DepartureCancelled: {},
	},
	DepartureClosed: {
		DepartureCompleted: {},
		DepartureCancelled: {},
	},
	DepartureCancelled: {},
	DepartureCompleted: {},
}

var (
	ErrInsufficientCapacity = errors.New("insufficient departure capacity")
	ErrDepartureNotOpen     = errors.New("departure is not accepting holds")
	ErrCapacityUnderflow    = errors.New("capacity release exceeds held units")
	ErrInvalidCapacity      = errors.New("capacity must be greater than zero")
)

// Departure is a scheduled instance of a bookable offering with finite
// capacity. The invariant capacity_held + capacity_confirmed <= capacity_total
// is enforced by every mutator here; the application layer makes the
// read-mutate-write cycle atomic through versioned saves.
type Departure struct {
	ID       string
	TenantID string
	Name     string

	DepartsAt time.Time
	Status    DepartureStatus

	CapacityTotal     int
	CapacityHeld      int
	CapacityConfirmed int

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDeparture constructs a draft departure.
func NewDeparture(id, tenantID, name string, departsAt time.Time, capacity int, now time.Time) (*Departure, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Departure{
		ID:            id,
		TenantID:      tenantID,
		Name:          name,
		DepartsAt:     departsAt,
		Status:        DepartureDraft,
		CapacityTotal: capacity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Remaining returns the units still available for holds.
func (d *Departure) Remaining() int {
	return d.CapacityTotal - d.CapacityHeld - d.CapacityConfirmed
}

// Hold reserves units against the remaining capacity. Only active departures
// accept holds.
func (d *Departure) Hold(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	if d.Status != DepartureActive {
		return ErrDepartureNotOpen
	}
	if d.CapacityHeld+d.CapacityConfirmed+units > d.CapacityTotal {
		return ErrInsufficientCapacity
	}
	d.CapacityHeld += units
	return nil
}

// ConfirmUnits moves units from held to confirmed.
func (d *Departure) ConfirmUnits(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	if units > d.CapacityHeld {
		return ErrCapacityUnderflow
	}
	d.CapacityHeld -= units
	d.CapacityConfirmed += units
	return nil
}

// ReleaseHeld returns held units to the pool (cancellation or expiry).
func (d *Departure) ReleaseHeld(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	if units > d.CapacityHeld {
		return ErrCapacityUnderflow
	}
	d.CapacityHeld -= units
	return nil
}

// ReleaseConfirmed returns confirmed units to the pool.
func (d *Departure) ReleaseConfirmed(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	if units > d.CapacityConfirmed {
		return ErrCapacityUnderflow
	}
	d.CapacityConfirmed -= units
	return nil
}

// Clone copies the departure so adapters never alias caller state.
func (d *Departure) Clone() *Departure {
	clone := *d
	return &clone
}
