package domain

import "time"

// Event is the base interface for all booking domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp   time.Time
	TenantID    string
	BookingID   string
	DepartureID string
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// HoldCreated is raised when capacity is reserved.
type HoldCreated struct {
	BaseEvent
	Units     int
	ExpiresAt time.Time
}

// EventName returns the event type identifier.
func (e HoldCreated) EventName() string {
	return "bookings.hold.created"
}

// BookingConfirmed is raised when held units become confirmed.
type BookingConfirmed struct {
	BaseEvent
	Units   int
	ActorID string
}

// EventName returns the event type identifier.
func (e BookingConfirmed) EventName() string {
	return "bookings.booking.confirmed"
}

// BookingCancelled is raised when a booking is cancelled and capacity released.
type BookingCancelled struct {
	BaseEvent
	Units   int
	Reason  string
	ActorID string
}

// EventName returns the event type identifier.
func (e BookingCancelled) EventName() string {
	return "bookings.booking.cancelled"
}

// HoldExpired is raised when the sweep releases a lapsed hold.
type HoldExpired struct {
	BaseEvent
	Units int
}

// EventName returns the event type identifier.
func (e HoldExpired) EventName() string {
	return "bookings.hold.expired"
}

// BookingCheckedIn is raised when a confirmed booking checks in.
type BookingCheckedIn struct {
	BaseEvent
	ActorID string
}

// EventName returns the event type identifier.
func (e BookingCheckedIn) EventName() string {
	return "bookings.booking.checked_in"
}

// BookingNoShow is raised when a confirmed booking is marked a no-show.
type BookingNoShow struct {
	BaseEvent
	ActorID string
}

// EventName returns the event type identifier.
func (e BookingNoShow) EventName() string {
	return "bookings.booking.no_show"
}
