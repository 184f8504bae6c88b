package domain

import (
	"errors"
	"time"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/transition"
)

// Status enumerates the booking lifecycle.
type Status = transition.State

const (
	StatusHeld      Status = "held"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusNoShow    Status = "no_show"
)

// Transitions is the booking status matrix. Only the expiry sweep drives the
// held→expired edge (system role); admin passes every edge, including the
// otherwise role-less confirmed→cancelled one.
var Transitions = transition.Table{
	StatusHeld: {
		StatusConfirmed: {actor.RoleSales, actor.RoleAPI, actor.RoleSystem},
		StatusCancelled: {actor.RoleCustomer, actor.RoleSales},
		StatusExpired:   {actor.RoleSystem},
	},
	StatusConfirmed: {
		StatusCheckedIn: {actor.RoleWarehouse},
		StatusCancelled: {},
		StatusNoShow:    {actor.RoleWarehouse},
	},
	StatusCheckedIn: {},
	StatusCancelled: {},
	StatusExpired:   {},
	StatusNoShow:    {},
}

var (
	ErrInvalidUnits   = errors.New("units must be greater than zero")
	ErrHoldExpired    = errors.New("hold has expired")
	ErrInvalidBooking = errors.New("booking state is invalid")
)

// DefaultHoldTTL applies when the caller does not supply one.
const DefaultHoldTTL = 30 * time.Minute

// Booking is a time-boxed reservation of departure capacity. The order
// references it; only the capacity manager mutates it.
type Booking struct {
	ID           string
	TenantID     string
	OrderID      string
	DepartureID  string
	ResourceType string
	UnitsHeld    int
	Status       Status
	CancelReason string

	HeldAt        time.Time
	HoldExpiresAt time.Time

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHold constructs a held booking with its expiry deadline.
func NewHold(id, tenantID, orderID, departureID, resourceType string, units int, ttl time.Duration, now time.Time) (*Booking, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	return &Booking{
		ID:            id,
		TenantID:      tenantID,
		OrderID:       orderID,
		DepartureID:   departureID,
		ResourceType:  resourceType,
		UnitsHeld:     units,
		Status:        StatusHeld,
		HeldAt:        now,
		HoldExpiresAt: now.Add(ttl),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// HoldLapsed reports whether an unconfirmed hold is past its TTL.
func (b *Booking) HoldLapsed(now time.Time) bool {
	return b.Status == StatusHeld && !b.HoldExpiresAt.After(now)
}

// Validate enforces structural invariants.
func (b *Booking) Validate() error {
	if b.UnitsHeld <= 0 {
		return ErrInvalidUnits
	}
	if !Transitions.Known(b.Status) {
		return ErrInvalidBooking
	}
	return nil
}

// Clone copies the booking so adapters never alias caller state.
func (b *Booking) Clone() *Booking {
	clone := *b
	return &clone
}
